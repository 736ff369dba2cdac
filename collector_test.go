package shade_test

import (
	"testing"

	"github.com/shade-gc/shade"
	"github.com/shade-gc/shade/shadetest"
)

// Scenario 1: linear liveness. Allocate A, B, C in one scope; collect;
// all three remain readable.
func TestLinearLiveness(t *testing.T) {
	gc := shade.New(shade.Config{})
	gc.Scope(func(s *shade.Scope) {
		a := shade.Alloc(s, &shadetest.Node{Value: 1})
		b := shade.Alloc(s, &shadetest.Node{Value: 2})
		c := shade.Alloc(s, &shadetest.Node{Value: 3})
		gc.Collect()
		if a.Get().Value != 1 || b.Get().Value != 2 || c.Get().Value != 3 {
			t.Fatal("a live handle's payload changed across a collection with no unreachable objects")
		}
	})
	if gc.Freed() != 0 {
		t.Fatalf("nothing should have been freed, freed=%d", gc.Freed())
	}
}

// Scenario 2: sparse liveness. A and F stay rooted in the outer scope;
// B, C, D, E are allocated in nested scopes that pop, but C is kept
// alive by re-rooting it in the outer scope right after its scope
// closes, before any collection runs.
func TestSparseLiveness(t *testing.T) {
	var freedB, freedC, freedD, freedE int
	gc := shade.New(shade.Config{})
	gc.Scope(func(outer *shade.Scope) {
		a := shade.Alloc(outer, &shadetest.Node{Value: 1})
		var c shade.Local[*shadetest.Node]

		outer.Open(func(inner *shade.Scope) {
			shade.Alloc(inner, &shadetest.Node{Value: 2, OnFree: func() { freedB++ }})
			c = shade.Alloc(inner, &shadetest.Node{Value: 3, OnFree: func() { freedC++ }})
			shade.Alloc(inner, &shadetest.Node{Value: 4, OnFree: func() { freedD++ }})
			shade.Alloc(inner, &shadetest.Node{Value: 5, OnFree: func() { freedE++ }})
		})
		// inner has already popped, so c's slot is no longer a root, but
		// nothing has overwritten it yet. InScope copies its cell
		// pointer into a fresh slot of outer before any collection runs.
		cOuter := c.InScope(outer)

		f := shade.Alloc(outer, &shadetest.Node{Value: 6})

		gc.Collect()

		if a.Get().Value != 1 || f.Get().Value != 6 || cOuter.Get().Value != 3 {
			t.Fatal("a still-live handle lost its payload")
		}
		if freedB != 1 || freedD != 1 || freedE != 1 {
			t.Fatalf("expected B, D, E each freed exactly once; got B=%d D=%d E=%d", freedB, freedD, freedE)
		}
		if freedC != 0 {
			t.Fatal("C was freed even though it was re-rooted in the outer scope")
		}
	})
}

// Scenario 3: compound trace. An outer cell holds a member pointing to
// an inner cell; after collection, dereferencing the outer cell's
// member still yields the inner cell's payload intact.
func TestCompoundTrace(t *testing.T) {
	gc := shade.New(shade.Config{})
	gc.Scope(func(s *shade.Scope) {
		d := shade.Alloc(s, &shadetest.Node{Value: 42})
		holder := &shadetest.Holder{}
		holder.Data.Set(d)
		v := shade.Alloc(s, holder)

		gc.Collect()

		inner, ok := v.Get().Data.Get()
		if !ok {
			t.Fatal("compound member reference lost across collection")
		}
		if inner.Value != 42 {
			t.Fatalf("got %d, want 42", inner.Value)
		}
	})
}

// Scenario 4: escape. Inside an escape scope, allocate a node with
// value 1; escape it; drop the escape scope; collect; the escaped
// handle still dereferences to value 1.
func TestEscapeScenario(t *testing.T) {
	gc := shade.New(shade.Config{})
	gc.Scope(func(outer *shade.Scope) {
		esc := shade.OpenEscape[*shadetest.Node](outer)
		n := shade.Alloc(esc.Scope(), &shadetest.Node{Value: 1})
		escaped := esc.Escape(n)
		esc.Close()

		gc.Collect()

		if escaped.Get().Value != 1 {
			t.Fatalf("got %d, want 1", escaped.Get().Value)
		}
	})
}

// Scenario 5: doubly-linked cycle. Build a ring of four nodes, walk it
// forward and back, then drop the reference to node 4 by rewiring the
// ring into a 3-cycle; exactly node 4's destructor runs on the next
// collection.
func TestDoublyLinkedCycle(t *testing.T) {
	var freed int
	gc := shade.New(shade.Config{})
	gc.Scope(func(s *shade.Scope) {
		n1 := shade.AllocMut(s, shadetest.NewDNode(1, &freed))
		n2 := shade.AllocMut(s, shadetest.NewDNode(2, &freed))
		n3 := shade.AllocMut(s, shadetest.NewDNode(3, &freed))
		n4 := shade.AllocMut(s, shadetest.NewDNode(4, &freed))

		n1.Get().Next.Set(n2.ToLocal())
		n2.Get().Next.Set(n3.ToLocal())
		n3.Get().Next.Set(n4.ToLocal())
		n4.Get().Next.Set(n1.ToLocal())
		n1.Get().Prev.Set(n4.ToLocal())
		n4.Get().Prev.Set(n3.ToLocal())
		n3.Get().Prev.Set(n2.ToLocal())
		n2.Get().Prev.Set(n1.ToLocal())

		// Walk forward: 1, 2, 3, 4.
		cur, _ := n1.Get().Next.Get()
		forward := []int{n1.Get().Value}
		for i := 0; i < 3; i++ {
			forward = append(forward, cur.Value)
			next, _ := cur.Next.Get()
			cur = next
		}
		want := []int{1, 2, 3, 4}
		for i, v := range want {
			if forward[i] != v {
				t.Fatalf("forward walk: position %d: got %d, want %d", i, forward[i], v)
			}
		}

		// Drop the reference to node 4 by closing the ring at 3 -> 1.
		n3.Get().Next.Set(n1.ToLocal())
		n1.Get().Prev.Set(n3.ToLocal())
		// n4's own handle slot would still root node 4; point it at
		// node 1 so that nothing reaches node 4 any more.
		n4.Set(n1.ToLocal())

		gc.Collect()

		if freed != 1 {
			t.Fatalf("expected exactly node 4 freed, got freed=%d", freed)
		}

		// Rotating right through the 3-cycle repeats 1, 2, 3, 1, 2, 3, ...
		cur, _ = n1.Get().Next.Get()
		for i := 0; i < 5; i++ {
			want := []int{2, 3, 1, 2, 3}[i]
			if cur.Value != want {
				t.Fatalf("rotation step %d: got %d, want %d", i, cur.Value, want)
			}
			next, _ := cur.Next.Get()
			cur = next
		}
	})
}

// Scenario 6: tombstone retention. A node allocated in a scope that
// then closes is unrooted the moment the scope pops; the tombstone
// left behind defers block reclaim by one cycle but is not itself a
// root, so the node is freed on the very next collection rather than
// surviving it.
func TestTombstoneRetentionDoesNotCrash(t *testing.T) {
	var freed int
	gc := shade.New(shade.Config{})
	gc.Scope(func(outer *shade.Scope) {
		outer.Open(func(inner *shade.Scope) {
			shade.Alloc(inner, &shadetest.Node{Value: 3, OnFree: func() { freed++ }})
		})
		gc.Collect()
		if freed != 1 {
			t.Fatalf("expected the popped scope's node to be freed, got freed=%d", freed)
		}
	})
}

// A collection that frees nothing is a no-op on chain contents: two
// consecutive collections with no intervening allocation produce
// identical observable state.
func TestIdempotentCollection(t *testing.T) {
	gc := shade.New(shade.Config{})
	gc.Scope(func(s *shade.Scope) {
		a := shade.Alloc(s, &shadetest.Node{Value: 7})
		gc.Collect()
		v1 := a.Get().Value
		gc.Collect()
		v2 := a.Get().Value
		if v1 != v2 || v1 != 7 {
			t.Fatalf("repeated collection changed observable state: %d then %d", v1, v2)
		}
	})
}

func TestCollectorCloseRunsDestructorsOnce(t *testing.T) {
	var freed int
	gc := shade.New(shade.Config{})
	gc.Scope(func(s *shade.Scope) {
		shade.Alloc(s, &shadetest.Node{Value: 1, OnFree: func() { freed++ }})
		shade.Alloc(s, &shadetest.Node{Value: 2, OnFree: func() { freed++ }})
	})
	gc.Close()
	if freed != 2 {
		t.Fatalf("expected both live cells destroyed exactly once on Close, got %d", freed)
	}
}
