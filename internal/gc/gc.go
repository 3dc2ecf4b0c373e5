// Package gc wraps the object graph's collection strategy (spec 4.11).
//
// spec.md calls for an arena/tracing collector capable of reclaiming
// cyclic garbage: closures capture environments that hold the very
// closures that created them, so reference counting alone can never
// collect them. Go's runtime already ships exactly that collector —
// a precise, tracing, cycle-safe mark-sweep over the heap — and every
// value.Object, *env.Environment, and async.Promise in this module is
// an ordinary Go heap allocation reachable only through other Go
// pointers. Re-implementing an arena on top of a runtime that already
// traces would just be a second GC fighting the first one for the
// same graph.
//
// Collector is therefore a thin, observable wrapper rather than a new
// allocator: it backs the `std.gc()` host shim, and the package's
// Snapshot reads heap Stats, without second-guessing runtime.GC's tracing.
package gc

import "runtime"

// Stats is a snapshot of heap-allocation pressure, returned by
// Snapshot. Neither std.gc() nor cmd/ecmacore's --trace flag
// reports it.
type Stats struct {
	HeapObjects uint64
	HeapAlloc   uint64
	NumGC       uint32
}

// Collector tracks how many collection cycles this engine instance has
// explicitly requested, distinguishing script-triggered std.gc() calls
// from the runtime's own ambient collection.
type Collector struct {
	requested uint64
}

// New returns a Collector ready to wrap one interpreter instance's
// lifetime.
func New() *Collector { return &Collector{} }

// Collect forces a full tracing collection pass, reclaiming any
// unreachable cycle in the object graph (closures, environments,
// settled promises, completed generators per spec.md's lifetime
// table). Exposed to scripts as std.gc().
func (c *Collector) Collect() {
	c.requested++
	runtime.GC()
}

// Requested returns how many times script code has called std.gc()
// through this Collector.
func (c *Collector) Requested() uint64 { return c.requested }

// Snapshot reads current heap stats without forcing a collection.
func Snapshot() Stats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return Stats{HeapObjects: m.HeapObjects, HeapAlloc: m.HeapAlloc, NumGC: m.NumGC}
}
