package shade

// Collector owns a set of heap cells and the shadow stack that roots
// them. A Collector must be used from a single goroutine: there is no
// internal locking, and none is needed as long as the embedder never
// calls into one Collector concurrently from two goroutines (spec §5).
type Collector struct {
	alloc allocator
	data  scopeData
	cfg   Config
	stats Stats
}

// New creates a Collector. The configuration is stored first, because
// the scope data's block capacity is derived from it; the allocator
// needs no setup, since its zero value is an empty chain.
func New(cfg Config) *Collector {
	c := &Collector{
		cfg: cfg,
	}
	c.data = *newScopeData(c.blockCapacity())
	return c
}

func (c *Collector) blockCapacity() int {
	return c.cfg.blockCapacity()
}

// allocValue allocates v, running a full collection first if the
// Collector is configured with Stress.
func (c *Collector) allocValue(v Traceable) *cell {
	if c.cfg.Stress {
		c.Collect()
	}
	cl := c.alloc.alloc(v)
	c.stats.allocations++
	return cl
}

// Collect runs one mark-and-sweep cycle: root enumeration and
// transitive trace, then a single pass over the allocation chain that
// frees every unmarked cell and repairs the chain's prev links, per
// spec §4.4. Mark and sweep run back to back; no other Collector
// operation may be in progress while this runs.
func (c *Collector) Collect() {
	v := &Visitor{collector: c}
	c.data.forEachLive(c.data.liveBound(), func(cl *cell) {
		markAndTrace(cl, v)
	})
	c.sweep()
	c.data.reclaim()
	c.stats.collections++
	c.trackCollection()
}

// sweep traverses the allocation chain from the allocator head via
// prev, in a single pass. A cell found marked has its mark cleared and
// becomes the new last_live cursor; a cell found unmarked is spliced
// out (by rewriting last_live's prev, if any live cell has been seen
// yet) and destroyed. Because traversal starts at the newest cell, the
// oldest survivor ends up as the cell every later survivor's prev
// chain terminates at.
func (c *Collector) sweep() {
	var lastLive *cell
	var newHead *cell
	current := c.alloc.head
	for current != nil {
		prev := current.prev
		if current.mark {
			current.mark = false
			lastLive = current
			if newHead == nil {
				newHead = current
			}
		} else {
			if lastLive != nil {
				lastLive.prev = prev
			}
			current.destroy()
			c.stats.freed++
		}
		current = prev
	}
	c.alloc.head = newHead
}

// Close runs destructors for every still-live cell, as if the
// Collector itself were being dropped (spec §8, "On collector drop,
// every still-live cell has its destructor run exactly once"). After
// Close, the Collector must not be used again.
func (c *Collector) Close() {
	current := c.alloc.head
	for current != nil {
		prev := current.prev
		current.destroy()
		current = prev
	}
	c.alloc.head = nil
}
