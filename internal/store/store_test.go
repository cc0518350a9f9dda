package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"todo-cli/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		return t
	}
}

func newTestStore(t *testing.T) (*Store, *MemoryBlobStore) {
	t.Helper()
	blob := NewMemoryBlobStore()
	s := New(blob, WithClock(fixedClock(time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC))))
	return s, blob
}

// countingBlob records writes so tests can assert on persistence.
type countingBlob struct {
	BlobStore
	sets int
	err  error
}

func (c *countingBlob) Set(ctx context.Context, key, value string) error {
	c.sets++
	if c.err != nil {
		return c.err
	}
	return c.BlobStore.Set(ctx, key, value)
}

func TestLoad_EmptyStoreSeedsAndPersists(t *testing.T) {
	ctx := context.Background()
	s, blob := newTestStore(t)

	items := s.Load(ctx)
	require.Len(t, items, 3)
	assert.Equal(t, "Complete online JavaScript course", items[0].Text)
	assert.True(t, items[0].Completed)
	assert.Equal(t, "Jog around the park 3x", items[1].Text)
	assert.False(t, items[1].Completed)
	assert.Equal(t, "10 minutes meditation", items[2].Text)
	assert.False(t, items[2].Completed)

	ids := map[int64]bool{}
	for _, it := range items {
		ids[it.ID] = true
	}
	assert.Len(t, ids, 3)

	raw, ok, err := blob.Get(ctx, KeyTodos)
	require.NoError(t, err)
	require.True(t, ok, "seed must be persisted immediately")
	persisted, err := DecodeCollection(raw)
	require.NoError(t, err)
	assert.Equal(t, items, persisted)
}

func TestLoad_InvalidBlobFallsBackToSeed(t *testing.T) {
	ctx := context.Background()
	cases := map[string]string{
		"garbage":      "{not json",
		"empty array":  "[]",
		"blank text":   `[{"id":1,"text":"   ","completed":false,"createdAt":"2024-01-01T00:00:00.000Z"}]`,
		"duplicate id": `[{"id":1,"text":"a","completed":false,"createdAt":"2024-01-01T00:00:00.000Z"},{"id":1,"text":"b","completed":false,"createdAt":"2024-01-01T00:00:00.000Z"}]`,
		"bad date":     `[{"id":1,"text":"a","completed":false,"createdAt":"yesterday"}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			s, blob := newTestStore(t)
			require.NoError(t, blob.Set(ctx, KeyTodos, raw))
			items := s.Load(ctx)
			require.Len(t, items, 3)
			assert.Equal(t, SeedTexts[1], items[1].Text)
		})
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, blob := newTestStore(t)
	s.Load(ctx)
	s.Add(ctx, "write tests")
	s.Toggle(ctx, 2)
	want := s.Items()

	reloaded := New(blob).Load(ctx)
	assert.Equal(t, want, reloaded)
}

func TestAdd_BlankIsNoOp(t *testing.T) {
	ctx := context.Background()
	blob := &countingBlob{BlobStore: NewMemoryBlobStore()}
	s := New(blob)
	s.Load(ctx)
	writes := blob.sets

	for _, text := range []string{"", " ", "\t\n", "   \r\n  "} {
		_, ok := s.Add(ctx, text)
		assert.False(t, ok, "text %q", text)
	}
	assert.Len(t, s.Items(), 3)
	assert.Equal(t, writes, blob.sets, "blank add must not write")
	assert.Error(t, ValidateText("  "))
	assert.NoError(t, ValidateText("x"))
}

func TestAdd_InsertsTrimmedAtFront(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	s.Load(ctx)

	it, ok := s.Add(ctx, "  buy milk  ")
	require.True(t, ok)
	assert.Equal(t, "buy milk", it.Text)
	assert.False(t, it.Completed)
	assert.False(t, it.CreatedAt.IsZero())

	items := s.Items()
	require.Len(t, items, 4)
	assert.Equal(t, it, items[0])
	assert.Equal(t, SeedTexts[0], items[1].Text)
}

func TestAdd_IDsUniqueWithinSameMillisecond(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	s.Load(ctx)

	seen := map[int64]bool{}
	var last int64
	for i := 0; i < 50; i++ {
		it, ok := s.Add(ctx, "x")
		require.True(t, ok)
		require.False(t, seen[it.ID], "duplicate id %d", it.ID)
		require.Greater(t, it.ID, last)
		seen[it.ID] = true
		last = it.ID
	}
}

func TestAdd_IDsNeverCollideWithLoadedIDs(t *testing.T) {
	ctx := context.Background()
	blob := NewMemoryBlobStore()
	future := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	raw, err := EncodeCollection(model.Collection{{ID: future.UnixMilli(), Text: "later", CreatedAt: future}})
	require.NoError(t, err)
	require.NoError(t, blob.Set(ctx, KeyTodos, raw))

	s := New(blob, WithClock(fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))))
	s.Load(ctx)
	it, ok := s.Add(ctx, "now")
	require.True(t, ok)
	assert.Greater(t, it.ID, future.UnixMilli())
}

func TestToggle_IsItsOwnInverse(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	before := s.Load(ctx)

	once := s.Toggle(ctx, 2)
	assert.True(t, once[1].Completed)
	assert.Equal(t, before[1].Text, once[1].Text)
	assert.Equal(t, before[1].CreatedAt, once[1].CreatedAt)

	twice := s.Toggle(ctx, 2)
	assert.Equal(t, before, twice)
}

func TestToggle_UnknownIDStillPersists(t *testing.T) {
	ctx := context.Background()
	blob := &countingBlob{BlobStore: NewMemoryBlobStore()}
	s := New(blob)
	before := s.Load(ctx)
	writes := blob.sets

	after := s.Toggle(ctx, 999)
	assert.Equal(t, before, after)
	assert.Equal(t, writes+1, blob.sets)
}

func TestRemove_Idempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	s.Load(ctx)

	first := s.Remove(ctx, 1)
	require.Len(t, first, 2)
	assert.False(t, s.Has(1))

	second := s.Remove(ctx, 1)
	assert.Equal(t, first, second)
}

func TestClearCompleted_Idempotent(t *testing.T) {
	ctx := context.Background()
	blob := &countingBlob{BlobStore: NewMemoryBlobStore()}
	s := New(blob)
	s.Load(ctx)
	s.Toggle(ctx, 3)

	first := s.ClearCompleted(ctx)
	require.Len(t, first, 1)
	assert.Equal(t, int64(2), first[0].ID)
	for _, it := range first {
		assert.False(t, it.Completed)
	}

	writes := blob.sets
	second := s.ClearCompleted(ctx)
	assert.Equal(t, first, second)
	assert.Equal(t, writes+1, blob.sets, "clear-completed persists even when nothing is removed")
}

func TestReorder_MovesAndPersists(t *testing.T) {
	ctx := context.Background()
	s, blob := newTestStore(t)
	s.Load(ctx)

	got, err := s.Reorder(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, ids(got))

	reloaded := New(blob).Load(ctx)
	assert.Equal(t, []int64{3, 1, 2}, ids(reloaded))
}

func TestReorder_OutOfRange(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	before := s.Load(ctx)

	_, err := s.Reorder(ctx, 0, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, 3, oor.Index)
	assert.Equal(t, before, s.Items())

	_, err = s.Reorder(ctx, -1, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestReorderVisible_RemapsThroughFilter(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	s.Load(ctx) // [1 done, 2, 3]
	s.Add(ctx, "four") // front: [4, 1 done, 2, 3]
	four := s.Items()[0].ID

	s.SetFilter(model.FilterActive) // visible: [4, 2, 3]
	got, err := s.ReorderVisible(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, four, 1, 2}, ids(got))

	_, err = s.ReorderVisible(ctx, 0, 3)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestSetFilter_DoesNotPersist(t *testing.T) {
	ctx := context.Background()
	blob := &countingBlob{BlobStore: NewMemoryBlobStore()}
	s := New(blob)
	s.Load(ctx)
	writes := blob.sets

	s.SetFilter(model.FilterCompleted)
	assert.Equal(t, model.FilterCompleted, s.Filter())
	s.SetFilter(model.Filter("bogus"))
	assert.Equal(t, model.FilterAll, s.Filter())
	assert.Equal(t, writes, blob.sets)
}

func TestPersistFailure_KeepsInMemoryState(t *testing.T) {
	ctx := context.Background()
	blob := &countingBlob{BlobStore: NewMemoryBlobStore()}
	s := New(blob)
	s.Load(ctx)

	blob.err = errors.New("disk full")
	it, ok := s.Add(ctx, "still here")
	require.True(t, ok)
	assert.Equal(t, it, s.Items()[0])

	var perr *PersistenceError
	require.ErrorAs(t, s.LastPersistError(), &perr)
	assert.Equal(t, KeyTodos, perr.Key)

	blob.err = nil
	s.Toggle(ctx, it.ID)
	assert.NoError(t, s.LastPersistError())
}

func TestTheme_DefaultAndToggle(t *testing.T) {
	ctx := context.Background()
	s, blob := newTestStore(t)

	assert.Equal(t, model.ThemeLight, s.Theme(ctx))
	assert.Equal(t, model.ThemeDark, s.ToggleTheme(ctx))
	raw, ok, err := blob.Get(ctx, KeyTheme)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "dark", raw)
	assert.Equal(t, model.ThemeLight, s.ToggleTheme(ctx))

	require.NoError(t, blob.Set(ctx, KeyTheme, "neon"))
	assert.Equal(t, model.ThemeLight, s.Theme(ctx))
}

func ids(c model.Collection) []int64 {
	out := make([]int64, 0, len(c))
	for _, it := range c {
		out = append(out, it.ID)
	}
	return out
}

func TestReload_KeepsEmptyListEmpty(t *testing.T) {
	ctx := context.Background()
	s, blob := newTestStore(t)
	s.Load(ctx)
	s.Remove(ctx, 1)
	s.Remove(ctx, 2)
	s.Remove(ctx, 3)

	assert.Empty(t, s.Reload(ctx))

	require.NoError(t, blob.Set(ctx, KeyTodos, "{broken"))
	assert.Empty(t, s.Reload(ctx))
}

func TestReload_PicksUpOtherWriter(t *testing.T) {
	ctx := context.Background()
	s, blob := newTestStore(t)
	s.Load(ctx)

	other := New(blob)
	other.Load(ctx)
	other.Toggle(ctx, 2)

	got := s.Reload(ctx)
	require.Len(t, got, 3)
	assert.True(t, got[1].Completed)
}

// failingGetBlob fails reads while failGet is set.
type failingGetBlob struct {
	BlobStore
	failGet bool
}

func (f *failingGetBlob) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGet {
		return "", false, errors.New("database is locked")
	}
	return f.BlobStore.Get(ctx, key)
}

func TestLoad_ReadFailureNeverOverwritesStoredList(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryBlobStore()
	stored := `[{"id":99,"text":"user data","completed":false,"createdAt":"2024-05-01T09:30:00.000Z"}]`
	require.NoError(t, mem.Set(ctx, KeyTodos, stored))
	blob := &failingGetBlob{BlobStore: mem, failGet: true}
	s := New(blob)

	items := s.Load(ctx)
	assert.Equal(t, []int64{1, 2, 3}, ids(items))

	s.Add(ctx, "added while unreadable")
	require.Error(t, s.LastPersistError())
	assert.ErrorIs(t, s.LastPersistError(), ErrUnread)

	raw, ok, err := mem.Get(ctx, KeyTodos)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, stored, raw)

	// Once the list is readable again it wins, and writes resume.
	blob.failGet = false
	items = s.Reload(ctx)
	assert.Equal(t, []int64{99}, ids(items))
	s.Toggle(ctx, 99)
	require.NoError(t, s.LastPersistError())

	again := New(mem).Load(ctx)
	require.Len(t, again, 1)
	assert.True(t, again[0].Completed)
}
