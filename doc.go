/*
Package shade implements a precise, non-moving, stop-the-world
mark-and-sweep garbage collector, embeddable as a library.

shade manages a set of heap cells whose lifetime is determined by
reachability from a dynamically scoped root set: a shadow stack of
"handle" slots. The central safety property is that any reference an
embedder holds across a point where collection may run is either
registered as a root through a handle, or it is the embedder's
responsibility to not dereference it.

Getting started

Create a collector, open a scope, and allocate within it:

	gc := shade.New(shade.Config{})
	gc.Scope(func(s *shade.Scope) {
		n := shade.Alloc(s, &Node{Value: 1})
		fmt.Println(n.Get().Value)
	})

Types managed by the collector implement Traceable, visiting every
interior cell reference they hold:

	type Node struct {
		Value int
		Next  shade.Member[*Node]
	}

	func (n *Node) Trace(v *shade.Visitor) {
		n.Next.Trace(v)
	}

Scopes nest with strict stack discipline: a scope opened inside another
must close before its parent does. EscapeScope lets a value allocated
in a nested scope outlive that scope by reserving a slot in the parent
before the nested scope is entered.

Collection only ever runs between client operations requested through
Collect, or automatically before every allocation when the collector is
configured with Config.Stress. It never runs concurrently with, or in
the middle of, any other shade operation.
*/
package shade
