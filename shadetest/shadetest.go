// Package shadetest provides small traced fixture types shared by the
// package shade test files, grounded on the teacher's testutils
// package: a single shared helper file that multiple _test.go files in
// the main package import, rather than each test file rolling its own
// fixtures.
package shadetest

import "github.com/shade-gc/shade"

// Node is a singly linked list node, used by tests exercising simple
// linear liveness and sparse-liveness scenarios.
type Node struct {
	Value   int
	Next    shade.Member[*Node]
	OnFree  func()
}

// Trace visits Node's single interior reference.
func (n *Node) Trace(v *shade.Visitor) {
	n.Next.Trace(v)
}

// Destroy calls the fixture's OnFree callback, if any, letting a test
// observe exactly when and how many times a Node was freed.
func (n *Node) Destroy() {
	if n.OnFree != nil {
		n.OnFree()
	}
}

// DNode is a doubly linked list node, used by the cyclic-graph test
// scenario (spec §8, scenario 5): a ring of DNodes linked both forward
// and backward is fully collectible by a correct mark-and-sweep
// collector precisely because it never relies on reference counts.
type DNode struct {
	Value int
	Next  shade.Member[*DNode]
	Prev  shade.Member[*DNode]
	freed *int
}

// NewDNode returns a DNode that increments *freed when destroyed, so a
// test can count how many nodes a collection actually freed.
func NewDNode(value int, freed *int) *DNode {
	return &DNode{Value: value, freed: freed}
}

// Trace visits both of DNode's interior references.
func (n *DNode) Trace(v *shade.Visitor) {
	n.Next.Trace(v)
	n.Prev.Trace(v)
}

// Destroy increments the node's freed counter, if it has one.
func (n *DNode) Destroy() {
	if n.freed != nil {
		*n.freed++
	}
}

// Holder holds one member reference to a Node, used for the
// compound-trace scenario (spec §8, scenario 3): an outer cell whose
// only interior reference is to an inner cell.
type Holder struct {
	Data shade.Member[*Node]
}

// Trace visits Holder's single interior reference.
func (h *Holder) Trace(v *shade.Visitor) {
	h.Data.Trace(v)
}
