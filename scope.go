package shade

// Scope is a nested root frame: a stack discipline over a Collector's
// shadow stack. Values allocated while a Scope is open are rooted for
// as long as the Scope (or an ancestor it escapes into) stays open.
// Scopes must close in strict LIFO order; Close panics if this is
// violated, matching the fatal contract-violation posture spec §7.1
// requires of scope misuse.
type Scope struct {
	collector *Collector
	saved     slotRef
	level     int
	closed    bool
}

// openScope records the scope data's current bump pointer and depth,
// then increments the depth. It does not allocate a new block: a
// nested scope reuses whatever room is left in the current one.
func openScope(c *Collector) *Scope {
	d := &c.data
	s := &Scope{
		collector: c,
		saved:     d.next,
		level:     d.level,
	}
	d.level++
	return s
}

// Scope opens a nested scope against the Collector and runs f with it,
// closing the scope automatically when f returns (including via
// panic), the equivalent of the lexical-region pattern spec §6
// describes for embedders without deterministic destructors.
func (c *Collector) Scope(f func(s *Scope)) {
	s := openScope(c)
	defer s.Close()
	f(s)
}

// Open opens a scope nested inside s, running f with it and closing it
// automatically when f returns.
func (s *Scope) Open(f func(child *Scope)) {
	s.mustBeInnermost("Open")
	child := openScope(s.collector)
	defer child.Close()
	f(child)
}

// Close pops the scope. It is safe to call at most once; Scope and
// Open already arrange to call it via defer, so callers normally never
// call it directly.
func (s *Scope) Close() {
	if s.closed {
		panic("shade: scope closed twice")
	}
	d := &s.collector.data
	if d.level != s.level+1 {
		panic("shade: scopes must be closed in the order they were opened")
	}
	d.tombstone = d.next
	d.next = s.saved
	d.limit = slotRef{block: s.saved.block, idx: len(d.blocks[s.saved.block].slots)}
	d.level = s.level
	s.closed = true
}

// mustBeInnermost enforces the precondition on Alloc and Open: the
// receiver must be the innermost currently open scope. Violating this
// is a contract violation per spec §7.1 ("allocate while an inner
// scope is open") and is fatal.
func (s *Scope) mustBeInnermost(op string) {
	if s.closed {
		panic("shade: " + op + " called on a closed scope")
	}
	if s.collector.data.level != s.level+1 {
		panic("shade: " + op + " called on a scope that is not the innermost open scope")
	}
}

// Alloc allocates a value within s, yielding a handle rooted in s.
// s must be the innermost currently open scope.
func Alloc[T Traceable](s *Scope, v T) Local[T] {
	s.mustBeInnermost("Alloc")
	c := s.collector.allocValue(v)
	slot := s.collector.data.pushSlot(c, s.collector.blockCapacity())
	return Local[T]{slot: slot}
}
