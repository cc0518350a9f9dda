package store

import "todo-cli/internal/model"

// Move removes the item at from and reinserts it at to. Items between the two
// positions shift by one; everything else keeps its place. The input is never
// modified. from == to returns items as-is.
func Move(items model.Collection, from, to int) (model.Collection, error) {
	n := len(items)
	if from < 0 || from >= n {
		return items, &OutOfRangeError{Index: from, Len: n}
	}
	if to < 0 || to >= n {
		return items, &OutOfRangeError{Index: to, Len: n}
	}
	if from == to {
		return items, nil
	}

	moved := items[from]
	rest := make(model.Collection, 0, n-1)
	rest = append(rest, items[:from]...)
	rest = append(rest, items[from+1:]...)

	out := make(model.Collection, 0, n)
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	return out, nil
}

// VisibleIndex returns the collection position of every item visible under f,
// in display order.
func VisibleIndex(items model.Collection, f model.Filter) []int {
	idx := make([]int, 0, len(items))
	for i := range items {
		if f.Match(items[i]) {
			idx = append(idx, i)
		}
	}
	return idx
}

// MoveVisible reorders using positions in the sequence displayed under f.
// The dragged item lands next to the drop target in the full collection;
// hidden items keep their relative order.
func MoveVisible(items model.Collection, f model.Filter, from, to int) (model.Collection, error) {
	idx := VisibleIndex(items, f)
	if from < 0 || from >= len(idx) {
		return items, &OutOfRangeError{Index: from, Len: len(idx)}
	}
	if to < 0 || to >= len(idx) {
		return items, &OutOfRangeError{Index: to, Len: len(idx)}
	}
	return Move(items, idx[from], idx[to])
}
