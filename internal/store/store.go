package store

import (
	"context"
	"strings"
	"time"

	"todo-cli/internal/model"

	"go.uber.org/zap"
)

// SeedTexts are the items a fresh store starts with. The first one is completed.
var SeedTexts = []string{
	"Complete online JavaScript course",
	"Jog around the park 3x",
	"10 minutes meditation",
}

// Store owns the ordered collection and the active filter.
// Every mutation writes the whole collection back to the blob store.
//
// Store is not safe for concurrent use; callers serialize gestures
// (see bridge.Dispatcher).
type Store struct {
	blob   BlobStore
	logger *zap.Logger
	clock  func() time.Time

	items  model.Collection
	filter model.Filter
	ids    idAllocator

	// lastErr is the most recent persistence failure, cleared on the next success.
	lastErr error
	// readErr is set while the stored list could not be read; todos are not written then.
	readErr error
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.clock = now
		}
	}
}

func New(blob BlobStore, opts ...Option) *Store {
	s := &Store{
		blob:   blob,
		logger: zap.NewNop(),
		clock:  time.Now,
		filter: model.FilterAll,
	}
	for _, o := range opts {
		o(s)
	}
	s.ids.clock = s.clock
	return s
}

// Load reads the collection from the blob store. Missing, invalid or empty data
// yields the seed set, which is persisted immediately. A read failure also
// yields the seed set, but only in memory: nothing is written over the stored
// list until a later Load or Reload reads it successfully.
func (s *Store) Load(ctx context.Context) model.Collection {
	raw, ok, err := s.blob.Get(ctx, KeyTodos)
	if err != nil {
		perr := &PersistenceError{Op: "get", Key: KeyTodos, Err: err}
		s.readErr = perr
		s.logger.Warn("read todos failed; showing seed data without saving", zap.Error(perr))
		s.items = s.seed()
		s.observeIDs()
		return s.Items()
	}
	s.readErr = nil
	var items model.Collection
	if ok {
		items, err = DecodeCollection(raw)
		if err != nil {
			s.logger.Warn("stored todos are invalid; starting from seed data", zap.Error(err))
			items = nil
		}
	}
	if len(items) == 0 {
		items = s.seed()
		s.items = items
		s.observeIDs()
		s.persist(ctx)
		return s.Items()
	}
	s.items = items
	s.observeIDs()
	return s.Items()
}

// Reload re-reads a collection written by another process. Unlike Load it
// never seeds: a missing, unreadable or invalid blob keeps the in-memory
// collection, and an empty list stays empty.
func (s *Store) Reload(ctx context.Context) model.Collection {
	raw, ok, err := s.blob.Get(ctx, KeyTodos)
	if err != nil {
		s.logger.Warn("reload todos failed; keeping current list", zap.Error(&PersistenceError{Op: "get", Key: KeyTodos, Err: err}))
		return s.Items()
	}
	s.readErr = nil
	if !ok {
		return s.Items()
	}
	items, err := DecodeCollection(raw)
	if err != nil {
		s.logger.Warn("stored todos are invalid; keeping current list", zap.Error(err))
		return s.Items()
	}
	s.items = items
	s.observeIDs()
	return s.Items()
}

func (s *Store) seed() model.Collection {
	now := s.now()
	out := make(model.Collection, 0, len(SeedTexts))
	for i, text := range SeedTexts {
		out = append(out, model.Item{
			ID:        int64(i + 1),
			Text:      text,
			Completed: i == 0,
			CreatedAt: now,
		})
	}
	return out
}

func (s *Store) observeIDs() {
	for _, it := range s.items {
		s.ids.observe(it.ID)
	}
}

func (s *Store) now() time.Time {
	return s.clock().UTC().Truncate(time.Millisecond)
}

// Items returns a copy of the collection in stored order.
func (s *Store) Items() model.Collection {
	if s.items == nil {
		return model.Collection{}
	}
	return s.items.Clone()
}

func (s *Store) Filter() model.Filter { return s.filter }

// SetFilter changes the process-wide filter. Nothing is persisted.
func (s *Store) SetFilter(f model.Filter) {
	switch f {
	case model.FilterActive, model.FilterCompleted:
		s.filter = f
	default:
		s.filter = model.FilterAll
	}
}

// ValidateText reports why text cannot become an item, or nil.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ValidationError{Field: "text", Reason: "must not be blank"}
	}
	return nil
}

// Add inserts a new item at the front. Blank text is a no-op: nothing is
// created or written, and ok is false.
func (s *Store) Add(ctx context.Context, text string) (model.Item, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Item{}, false
	}
	it := model.Item{
		ID:        s.ids.next(),
		Text:      text,
		Completed: false,
		CreatedAt: s.now(),
	}
	next := make(model.Collection, 0, len(s.items)+1)
	next = append(next, it)
	next = append(next, s.items...)
	s.items = next
	s.persist(ctx)
	return it, true
}

// Toggle flips completion on id. Unknown ids leave the collection unchanged.
func (s *Store) Toggle(ctx context.Context, id int64) model.Collection {
	next := s.items.Clone()
	if i := next.IndexOf(id); i >= 0 {
		next[i].Completed = !next[i].Completed
	}
	s.items = next
	s.persist(ctx)
	return s.Items()
}

// Remove deletes id. Unknown ids are a no-op.
func (s *Store) Remove(ctx context.Context, id int64) model.Collection {
	next := make(model.Collection, 0, len(s.items))
	for _, it := range s.items {
		if it.ID != id {
			next = append(next, it)
		}
	}
	s.items = next
	s.persist(ctx)
	return s.Items()
}

// Has reports whether id is in the collection.
func (s *Store) Has(id int64) bool {
	return s.items.IndexOf(id) >= 0
}

// ClearCompleted removes every completed item. It persists even when nothing changed.
func (s *Store) ClearCompleted(ctx context.Context) model.Collection {
	next := make(model.Collection, 0, len(s.items))
	for _, it := range s.items {
		if !it.Completed {
			next = append(next, it)
		}
	}
	s.items = next
	s.persist(ctx)
	return s.Items()
}

// Reorder moves the item at collection position from to position to.
// Out-of-range indices return an error wrapping ErrOutOfRange and change nothing.
func (s *Store) Reorder(ctx context.Context, from, to int) (model.Collection, error) {
	next, err := Move(s.items, from, to)
	if err != nil {
		return s.Items(), err
	}
	s.items = next
	s.persist(ctx)
	return s.Items(), nil
}

// ReorderVisible is Reorder with positions taken from the sequence displayed
// under the active filter.
func (s *Store) ReorderVisible(ctx context.Context, from, to int) (model.Collection, error) {
	return s.ReorderWithin(ctx, s.filter, from, to)
}

// ReorderWithin is Reorder with positions taken from the sequence displayed
// under f. The active filter is left alone.
func (s *Store) ReorderWithin(ctx context.Context, f model.Filter, from, to int) (model.Collection, error) {
	next, err := MoveVisible(s.items, f, from, to)
	if err != nil {
		return s.Items(), err
	}
	s.items = next
	s.persist(ctx)
	return s.Items(), nil
}

// LastPersistError returns the most recent write failure, or nil after a successful write.
func (s *Store) LastPersistError() error { return s.lastErr }

func (s *Store) persist(ctx context.Context) {
	if s.readErr != nil {
		perr := &PersistenceError{Op: "set", Key: KeyTodos, Err: ErrUnread}
		s.lastErr = perr
		s.logger.Error("not saving todos; the stored list could not be read", zap.Error(s.readErr), zap.Int("items", len(s.items)))
		return
	}
	raw, err := EncodeCollection(s.items)
	if err == nil {
		err = s.blob.Set(ctx, KeyTodos, raw)
	}
	if err != nil {
		perr := &PersistenceError{Op: "set", Key: KeyTodos, Err: err}
		s.lastErr = perr
		s.logger.Error("persist todos failed; keeping in-memory state", zap.Error(perr), zap.Int("items", len(s.items)))
		return
	}
	s.lastErr = nil
	s.logger.Debug("persisted todos", zap.Int("items", len(s.items)))
}

// Theme returns the stored theme, defaulting to light.
func (s *Store) Theme(ctx context.Context) model.Theme {
	raw, ok, err := s.blob.Get(ctx, KeyTheme)
	if err != nil {
		s.logger.Warn("read theme failed", zap.Error(&PersistenceError{Op: "get", Key: KeyTheme, Err: err}))
		return model.ThemeLight
	}
	if !ok {
		return model.ThemeLight
	}
	t, err := model.ParseTheme(raw)
	if err != nil {
		return model.ThemeLight
	}
	return t
}

func (s *Store) SetTheme(ctx context.Context, t model.Theme) model.Theme {
	if t != model.ThemeDark {
		t = model.ThemeLight
	}
	if err := s.blob.Set(ctx, KeyTheme, string(t)); err != nil {
		perr := &PersistenceError{Op: "set", Key: KeyTheme, Err: err}
		s.lastErr = perr
		s.logger.Error("persist theme failed", zap.Error(perr))
	}
	return t
}

func (s *Store) ToggleTheme(ctx context.Context) model.Theme {
	return s.SetTheme(ctx, s.Theme(ctx).Toggle())
}
