package store

import "time"

// idAllocator hands out millisecond-shaped ids that never repeat or go backwards,
// even when several items are created within the same millisecond.
type idAllocator struct {
	last  int64
	clock func() time.Time
}

func (a *idAllocator) observe(id int64) {
	if id > a.last {
		a.last = id
	}
}

func (a *idAllocator) next() int64 {
	id := a.clock().UnixMilli()
	if id <= a.last {
		id = a.last + 1
	}
	a.last = id
	return id
}
