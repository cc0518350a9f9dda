// Package bridge connects renderers to the item store: renderers send gesture
// events in and get a fresh snapshot back.
package bridge

import (
	"context"
	"fmt"
	"sync"

	"todo-cli/internal/model"
	"todo-cli/internal/store"
	"todo-cli/internal/view"

	"go.uber.org/zap"
)

// Snapshot is a projection of store state plus the theme, ready to render.
type Snapshot struct {
	view.Projection
	Theme model.Theme `json:"theme" yaml:"theme"`
	Total int         `json:"total" yaml:"total"`
}

// Observer is told about every applied gesture. err is the gesture's result.
type Observer func(kind string, err error)

// Dispatcher applies gestures one at a time. Each gesture runs to completion
// (mutate, persist, project) before the next one starts.
type Dispatcher struct {
	mu       sync.Mutex
	store    *store.Store
	logger   *zap.Logger
	observer Observer
}

type DispatcherOption func(*Dispatcher)

func WithLogger(l *zap.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

func WithObserver(o Observer) DispatcherOption {
	return func(d *Dispatcher) { d.observer = o }
}

func NewDispatcher(s *store.Store, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{store: s, logger: zap.NewNop()}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Dispatch applies ev and returns the resulting snapshot. The snapshot is
// valid even when err is non-nil.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) (Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.apply(ctx, ev)
	if err != nil {
		d.logger.Debug("gesture rejected", zap.String("kind", ev.Kind()), zap.Error(err))
	}
	if d.observer != nil {
		d.observer(ev.Kind(), err)
	}
	return d.snapshot(ctx), err
}

func (d *Dispatcher) apply(ctx context.Context, ev Event) error {
	switch e := ev.(type) {
	case AddRequested:
		if err := store.ValidateText(e.Text); err != nil {
			return err
		}
		d.store.Add(ctx, e.Text)
	case ToggleRequested:
		d.store.Toggle(ctx, e.ID)
	case DeleteRequested:
		d.store.Remove(ctx, e.ID)
	case ClearCompletedRequested:
		d.store.ClearCompleted(ctx)
	case FilterChanged:
		d.store.SetFilter(e.Filter)
	case ReorderRequested:
		f := e.Filter
		if f == "" {
			f = d.store.Filter()
		}
		if _, err := d.store.ReorderWithin(ctx, f, e.From, e.To); err != nil {
			return err
		}
	case ThemeToggled:
		d.store.ToggleTheme(ctx)
	default:
		return fmt.Errorf("unknown gesture %T", ev)
	}
	return nil
}

// Snapshot returns the current state without applying anything.
func (d *Dispatcher) Snapshot(ctx context.Context) Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot(ctx)
}

// Reload re-reads the collection from the blob store, keeping the active filter.
func (d *Dispatcher) Reload(ctx context.Context) Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.store.Reload(ctx)
	return d.snapshot(ctx)
}

// View projects the current state under f without changing the active filter.
func (d *Dispatcher) View(ctx context.Context, f model.Filter) Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotUnder(ctx, f)
}

func (d *Dispatcher) snapshot(ctx context.Context) Snapshot {
	return d.snapshotUnder(ctx, d.store.Filter())
}

func (d *Dispatcher) snapshotUnder(ctx context.Context, f model.Filter) Snapshot {
	items := d.store.Items()
	return Snapshot{
		Projection: view.Project(items, f),
		Theme:      d.store.Theme(ctx),
		Total:      len(items),
	}
}
