package shade

// Local is a typed, read-only handle: the address of a handle slot
// holding a *cell. Dereferencing it is a double indirection, as spec
// §4.5 describes: the slot, then the payload. Copying a Local
// duplicates the slot address, producing an alias to the same slot
// rather than a new root — it does not reserve another handle.
type Local[T Traceable] struct {
	slot **cell
}

// Get dereferences the handle, returning its payload.
func (h Local[T]) Get() T {
	return (*h.slot).value.(T)
}

// ToMember converts h to a bare Member for storage inside another
// payload's fields. The resulting Member is a non-owning reference:
// its validity depends on some live handle transitively reaching it,
// and on the enclosing payload's Trace method reporting it.
func (h Local[T]) ToMember() Member[T] {
	return Member[T]{c: *h.slot}
}

// InScope re-roots h into target, the idiomatic-Go form of spec's
// "move-into-scope": it allocates a fresh handle slot in target and
// copies the cell pointer into it, so the value remains rooted even
// after h's own scope closes.
func (h Local[T]) InScope(target *Scope) Local[T] {
	target.mustBeInnermost("InScope")
	slot := target.collector.data.pushSlot(*h.slot, target.collector.blockCapacity())
	return Local[T]{slot: slot}
}

// LocalMut is a Local that can also be overwritten in place: the write
// is a plain store into the slot, and the collector observes the new
// value at its next root enumeration.
type LocalMut[T Traceable] struct {
	inner Local[T]
}

// Get dereferences the handle, returning its payload.
func (h LocalMut[T]) Get() T {
	return h.inner.Get()
}

// Set overwrites the slot with to's cell, aliasing to's payload.
func (h LocalMut[T]) Set(to Local[T]) {
	*h.inner.slot = *to.slot
}

// ToLocal returns a read-only Local aliasing the same slot.
func (h LocalMut[T]) ToLocal() Local[T] {
	return h.inner
}

// AllocMut allocates a value within s, yielding a mutable handle rooted
// in s. s must be the innermost currently open scope.
func AllocMut[T Traceable](s *Scope, v T) LocalMut[T] {
	return LocalMut[T]{inner: Alloc(s, v)}
}

// LocalMutOpt is a handle whose slot may be nil. Get reports whether a
// value is present instead of panicking on an empty slot.
type LocalMutOpt[T Traceable] struct {
	inner Local[T]
}

// EmptySlot reserves a nil handle slot in s, to be filled in later with
// Set. s must be the innermost currently open scope.
func EmptySlot[T Traceable](s *Scope) LocalMutOpt[T] {
	s.mustBeInnermost("EmptySlot")
	slot := s.collector.data.pushSlot(nil, s.collector.blockCapacity())
	return LocalMutOpt[T]{inner: Local[T]{slot: slot}}
}

// Set overwrites the slot with to's cell. Set accepts only a Local[T],
// never an untyped value, so to's payload type always matches T and no
// type-punning through the slot is possible.
func (h LocalMutOpt[T]) Set(to Local[T]) {
	*h.inner.slot = *to.slot
}

// Get returns the handle's current value and true if the slot is
// non-nil, or the zero value and false if it is absent.
func (h LocalMutOpt[T]) Get() (Local[T], bool) {
	if *h.inner.slot == nil {
		return Local[T]{}, false
	}
	return h.inner, true
}

// Member is a bare cell reference embedded inside another payload's
// fields. It is not itself a root: the enclosing payload's Trace
// method must call Member.Trace for every Member field so the
// collector can see through it.
type Member[T Traceable] struct {
	c *cell
}

// Trace reports m's reference to the collector, if any. Payload Trace
// methods should call this for each Member field they hold.
func (m Member[T]) Trace(v *Visitor) {
	v.markCell(m.c)
}

// Get returns the referenced value and true, or the zero value and
// false if m holds no reference.
func (m Member[T]) Get() (T, bool) {
	if m.c == nil {
		var zero T
		return zero, false
	}
	return m.c.value.(T), true
}

// Set stores h's cell in m.
func (m *Member[T]) Set(h Local[T]) {
	m.c = *h.slot
}

// Clear drops m's reference.
func (m *Member[T]) Clear() {
	m.c = nil
}

// InScope re-roots m into target, producing a fresh handle. m must
// currently hold a reference, or this panics; check Get first if that
// is not already known.
func (m Member[T]) InScope(target *Scope) Local[T] {
	target.mustBeInnermost("InScope")
	if m.c == nil {
		panic("shade: InScope called on an empty Member")
	}
	slot := target.collector.data.pushSlot(m.c, target.collector.blockCapacity())
	return Local[T]{slot: slot}
}
