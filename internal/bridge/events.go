package bridge

import "todo-cli/internal/model"

// Event is a user gesture. The set is closed: only types in this package implement it.
type Event interface {
	Kind() string
	isEvent()
}

type AddRequested struct{ Text string }

type ToggleRequested struct{ ID int64 }

type DeleteRequested struct{ ID int64 }

type ClearCompletedRequested struct{}

type FilterChanged struct{ Filter model.Filter }

// ReorderRequested carries positions in the displayed sequence. Filter names the
// filter that sequence was shown under; empty means the store's active filter.
type ReorderRequested struct {
	From, To int
	Filter   model.Filter
}

type ThemeToggled struct{}

func (AddRequested) Kind() string            { return "add" }
func (ToggleRequested) Kind() string         { return "toggle" }
func (DeleteRequested) Kind() string         { return "delete" }
func (ClearCompletedRequested) Kind() string { return "clear-completed" }
func (FilterChanged) Kind() string           { return "filter" }
func (ReorderRequested) Kind() string        { return "reorder" }
func (ThemeToggled) Kind() string            { return "theme" }

func (AddRequested) isEvent()            {}
func (ToggleRequested) isEvent()         {}
func (DeleteRequested) isEvent()         {}
func (ClearCompletedRequested) isEvent() {}
func (FilterChanged) isEvent()           {}
func (ReorderRequested) isEvent()        {}
func (ThemeToggled) isEvent()            {}
