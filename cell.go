package shade

// Traceable is implemented by every payload type a Collector can manage.
// Trace must call Visitor.Trace (directly, or transitively through a
// Member's own Trace method) on every interior cell reference the
// receiver holds, including references behind optional wrappers and
// container-like fields. Missing one is unsafe: the collector may free
// a cell that is still reachable.
type Traceable interface {
	Trace(v *Visitor)
}

// Destroyer is implemented by payload types that need cleanup when their
// cell is freed. Destroy must not allocate from, or mutate the handles
// of, the Collector that owned the cell: it runs during sweep, when no
// other collector operation may be in progress.
type Destroyer interface {
	Destroy()
}

// cell is the header for one heap-allocated, collector-owned value.
// Unlike the hand-rolled vtable this design is grounded on (a record of
// size, alignment, and destructor/trace function pointers, as in
// mark_sweep.rs's Vtable and gc.rs's GcCell), shade dispatches trace and
// destroy through Go's own interface machinery; typ exists alongside
// that dispatch purely for diagnostics.
type cell struct {
	prev  *cell
	value Traceable
	typ   *typeInfo
	mark  bool
}

// newCell wraps v in a fresh, unmarked cell with prev left unset; the
// caller (allocator.alloc) links it onto the chain.
func newCell(v Traceable) *cell {
	return &cell{value: v, typ: registerType(v)}
}

// markAndTrace marks c live if it was not already, then recursively
// traces its interior references. An already-marked cell returns
// immediately, which is what cuts off cycles in the object graph.
func markAndTrace(c *cell, v *Visitor) {
	if c == nil || c.mark {
		return
	}
	c.mark = true
	c.value.Trace(v)
}

// destroy runs c's destructor, if it has one, exactly once.
func (c *cell) destroy() {
	if d, ok := c.value.(Destroyer); ok {
		d.Destroy()
	}
}

// Visitor is passed to Traceable.Trace implementations so they can
// report their interior cell references to the collector during the
// mark phase.
type Visitor struct {
	collector *Collector
}

// markCell marks and transitively traces the cell behind a handle-like
// reference. It is unexported: payload Trace methods reach it through
// Member.Trace, so Visitor has no public method of its own.
func (v *Visitor) markCell(c *cell) {
	if c == nil {
		return
	}
	markAndTrace(c, v)
}
