package recall

/*
GraphStats holds running counters for one Graph, in the same spirit as
the teacher's Stats struct: a handful of plain counters, no internal
locking, synchronization left entirely to the owner. The teacher leaves
that job to Cache's sync.RWMutex; here it falls out for free from the
single-threaded-per-call-stack contract documented on Graph.

Hits counts Wrapper.Invoke calls that found an existing entry in the
Wrapper's store, whether or not that entry then had to recompute; Misses
counts calls that had to create a new entry. Recomputations
counts every time an entry's function actually ran. Evictions counts
entries disposed by their owning store for being least-recently-used.
CycleErrors counts RecursiveDependencyError occurrences.
*/
type GraphStats struct {
	Hits           uint64
	Misses         uint64
	Recomputations uint64
	Evictions      uint64
	CycleErrors    uint64
}
