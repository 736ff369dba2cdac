package shade

// scopeData is the shadow stack shared by every scope opened against
// one Collector: a growable list of blocks, a bump pointer (next) into
// the current block, and the bookkeeping spec §4.2 and §4.3 describe
// for scope push/pop and the "zombie scope" hazard.
type scopeData struct {
	blocks []*block

	// next is the next free slot. limit is one past the last slot of
	// the block next.block refers to.
	next, limit slotRef

	// tombstone is the next value captured at the most recent scope
	// pop: the high-water mark the stack reached inside the scope that
	// just closed. It plays no part in root enumeration (see
	// liveBound) — only next does, matching
	// original_source/src/gc.rs::mark, which scans only up to
	// scope_data.next. tombstone exists purely to defer block reclaim
	// by one collection cycle after a pop, so a block a scope just
	// vacated is not immediately discarded and then needs reallocating
	// if the program reopens a scope into the same region before the
	// next collection runs. See reclaimBound.
	tombstone slotRef

	level int
}

func newScopeData(capacity int) *scopeData {
	d := &scopeData{}
	d.growBlock(capacity)
	return d
}

// growBlock appends a fresh block and points next/limit at it.
func (d *scopeData) growBlock(capacity int) {
	d.blocks = append(d.blocks, newBlock(capacity))
	idx := len(d.blocks) - 1
	d.next = slotRef{block: idx, idx: 0}
	d.limit = slotRef{block: idx, idx: capacity}
}

// pushSlot reserves the next handle slot, writes c into it, and returns
// the slot's address. It is the O(1) pointer-bump allocation from spec
// §4.2. When the current block is full it moves on to the following
// block if one is still in the list, and grows the list otherwise.
func (d *scopeData) pushSlot(c *cell, capacity int) **cell {
	if d.next == d.limit {
		if nb := d.next.block + 1; nb < len(d.blocks) {
			d.next = slotRef{block: nb, idx: 0}
			d.limit = slotRef{block: nb, idx: len(d.blocks[nb].slots)}
		} else {
			d.growBlock(capacity)
		}
	}
	b := d.blocks[d.next.block]
	slot := &b.slots[d.next.idx]
	*slot = c
	d.next.idx++
	return slot
}

// liveBound returns the slotRef one past the last slot the collector
// must scan during root enumeration. Only next counts: a popped
// scope's still-resident slot contents are not roots, even though they
// have not been overwritten.
func (d *scopeData) liveBound() slotRef {
	return d.next
}

// reclaimBound returns the bound up to which blocks must be kept
// around before being discarded by reclaim: the larger of next and
// tombstone. This bears only on block reclaim timing, never on which
// cells are treated as live.
func (d *scopeData) reclaimBound() slotRef {
	return maxSlotRef(d.next, d.tombstone)
}

// forEachLive calls f once for every handle slot from the start of the
// block list up to (not including) bound, in allocation order.
func (d *scopeData) forEachLive(bound slotRef, f func(c *cell)) {
	for bi := 0; bi <= bound.block && bi < len(d.blocks); bi++ {
		b := d.blocks[bi]
		end := len(b.slots)
		if bi == bound.block {
			end = bound.idx
		}
		for i := 0; i < end; i++ {
			f(b.slots[i])
		}
	}
}

// reclaim discards every block beyond reclaimBound, per spec §4.2's
// block-reclamation rule, then resets tombstone to the current next so
// the deferral it grants only lasts a single collection cycle. It must
// only be called right after a sweep.
func (d *scopeData) reclaim() {
	bound := d.reclaimBound()
	if bound.block+1 < len(d.blocks) {
		d.blocks = d.blocks[:bound.block+1]
	}
	d.tombstone = d.next
}
