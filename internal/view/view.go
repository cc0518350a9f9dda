// Package view derives what a renderer shows from the collection and filter.
// Everything here is pure; nothing touches storage.
package view

import (
	"fmt"

	"todo-cli/internal/model"
)

// VisibleItems returns the items shown under f, in stored order.
func VisibleItems(items model.Collection, f model.Filter) model.Collection {
	out := make(model.Collection, 0, len(items))
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

// ActiveCount counts items not yet completed. It ignores the active filter.
func ActiveCount(items model.Collection) int {
	n := 0
	for _, it := range items {
		if !it.Completed {
			n++
		}
	}
	return n
}

func CompletedCount(items model.Collection) int {
	return len(items) - ActiveCount(items)
}

// ItemsLeftLabel renders the "N item(s) left" summary.
func ItemsLeftLabel(active int) string {
	if active == 1 {
		return "1 item left"
	}
	return fmt.Sprintf("%d items left", active)
}

type EmptyState struct {
	Message string `json:"message" yaml:"message"`
	Hint    string `json:"hint" yaml:"hint"`
}

// EmptyStateMessage is the text shown when nothing is visible under f.
func EmptyStateMessage(f model.Filter) (message, hint string) {
	switch f {
	case model.FilterActive:
		return "No active todos", "All todos are completed"
	case model.FilterCompleted:
		return "No completed todos", "Complete some todos to see them here"
	default:
		return "No todos yet", "Add a todo to get started!"
	}
}

// Projection is everything a renderer needs for one frame.
type Projection struct {
	Items          model.Collection `json:"items" yaml:"items"`
	Filter         model.Filter     `json:"filter" yaml:"filter"`
	ActiveCount    int              `json:"activeCount" yaml:"activeCount"`
	CompletedCount int              `json:"completedCount" yaml:"completedCount"`
	ItemsLeft      string           `json:"itemsLeft" yaml:"itemsLeft"`
	Empty          *EmptyState      `json:"empty,omitempty" yaml:"empty,omitempty"`
}

func Project(items model.Collection, f model.Filter) Projection {
	visible := VisibleItems(items, f)
	active := ActiveCount(items)
	p := Projection{
		Items:          visible,
		Filter:         f,
		ActiveCount:    active,
		CompletedCount: len(items) - active,
		ItemsLeft:      ItemsLeftLabel(active),
	}
	if len(visible) == 0 {
		msg, hint := EmptyStateMessage(f)
		p.Empty = &EmptyState{Message: msg, Hint: hint}
	}
	return p
}
