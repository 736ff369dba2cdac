package shade

import (
	"reflect"
	"sync"

	"github.com/zephyrtronium/contains"
)

// typeInfo is the per-type record shade keeps alongside every cell: a
// size, an alignment, and a human-readable name. It plays the role of
// spec's immutable per-type vtable record for diagnostics (the
// verbose Collector.Report listing); it does not participate in trace or destroy
// dispatch, which goes through the Traceable and Destroyer interfaces
// directly. Grounded on mark_sweep.rs's Vtable, which carries a
// drop_in_place thunk alongside Display/Debug formatters for the same
// kind of per-type reporting.
type typeInfo struct {
	name        string
	size, align uintptr
	hasDestroy  bool
}

// registry is the process-wide typeInfo cache. It is process-wide, not
// per-Collector, because Go's reflect.Type identity is itself
// process-wide; a program that builds more than one Collector over its
// life shares one registry across them. See DESIGN.md for why this is
// safe despite shade's otherwise single-threaded-per-collector posture.
//
// seen and order together record first-registration order: seen.Add
// reports whether a type name is being added for the first time
// process-wide, and order records names in that order, for
// firstSeenOrder to report below. info is the actual lookup cache;
// seen/order exist only for this ordering record, not for caching.
var registry = struct {
	mu    sync.Mutex
	seen  contains.Set
	order []string
	info  map[reflect.Type]*typeInfo
}{
	info: make(map[reflect.Type]*typeInfo),
}

// registerType returns the typeInfo for v's dynamic type, computing and
// caching it on first use. Grounded on the teacher's protoSet dedup
// idiom (internal/object.go, internal/vm.go), which uses a
// contains.Set's Add return value to decide, during a traversal,
// whether a given object has already been visited and only then pushes
// it onto further work; here the "traversal" is the sequence of
// allocations a program performs, and the further work is recording the
// type's name in first-registration order for firstSeenOrder.
func registerType(v Traceable) *typeInfo {
	rt := reflect.TypeOf(v)
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if ti, ok := registry.info[rt]; ok {
		return ti
	}
	elem := rt
	if rt.Kind() == reflect.Ptr {
		elem = rt.Elem()
	}
	_, hasDestroy := v.(Destroyer)
	ti := &typeInfo{
		name:       rt.String(),
		size:       elem.Size(),
		align:      uintptr(elem.Align()),
		hasDestroy: hasDestroy,
	}
	registry.info[rt] = ti
	if registry.seen.Add(ti.name) {
		registry.order = append(registry.order, ti.name)
	}
	return ti
}

// knownTypes reports the names of every distinct payload type that has
// been allocated by any Collector in this process, in no particular
// order. It exists for diagnostics (Collector.Report uses it to annotate a
// verbose report) and is otherwise not load-bearing for correctness.
func knownTypes() []string {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	names := make([]string, 0, len(registry.info))
	for _, ti := range registry.info {
		names = append(names, ti.name)
	}
	return names
}

// firstSeenOrder reports every distinct payload type name in the order
// it was first registered, process-wide. Unlike knownTypes, the order
// here is meaningful: it is the sequence in which Collector.Report's
// verbose output can show a type registration history rather than an
// unordered set.
func firstSeenOrder() []string {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	out := make([]string, len(registry.order))
	copy(out, registry.order)
	return out
}
