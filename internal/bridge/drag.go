package bridge

// DragState tracks the transient "being dragged" and "drag over" flags for one
// gesture. None of it is persisted. Drop and Abort always clear every flag.
type DragState struct {
	source   int
	sourceID int64
	active   bool
	over     map[int64]bool
}

func (d *DragState) Begin(pos int, id int64) {
	d.reset()
	d.active = true
	d.source = pos
	d.sourceID = id
}

func (d *DragState) Active() bool { return d.active }

func (d *DragState) Source() int { return d.source }

// Dragging reports whether id is the item being dragged.
func (d *DragState) Dragging(id int64) bool {
	return d.active && d.sourceID == id
}

// Enter marks id as the current drop target.
func (d *DragState) Enter(id int64) {
	if !d.active {
		return
	}
	if d.over == nil {
		d.over = map[int64]bool{}
	}
	d.over[id] = true
}

func (d *DragState) Leave(id int64) {
	delete(d.over, id)
}

func (d *DragState) Over(id int64) bool { return d.over[id] }

// Drop ends the gesture and returns the reorder to dispatch. ok is false when
// no drag was in progress or the item was dropped on itself.
func (d *DragState) Drop(target int) (ev ReorderRequested, ok bool) {
	defer d.reset()
	if !d.active || d.source == target {
		return ReorderRequested{}, false
	}
	return ReorderRequested{From: d.source, To: target}, true
}

// Abort ends the gesture without reordering.
func (d *DragState) Abort() { d.reset() }

func (d *DragState) reset() {
	d.active = false
	d.source = -1
	d.sourceID = 0
	d.over = nil
}
