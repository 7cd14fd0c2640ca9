package recall

import (
	"container/list"

	"github.com/maypok86/otter"
)

/*
entryStore is the pluggable container behind one Wrapper[T]: at most max
entries once quiescent, each keyed by whatever *keyToken (or custom cache
key) the Wrapper derived. set never evicts by itself — it may leave a
store briefly over max while entries it holds are still on the live
recomputation stack; clean() is what brings it back down to max, and it
disposes whatever it evicts synchronously so the graph invariants in
entry.go stay correct the instant a key is gone (spec.md I5). The Graph
is what decides *when* clean() is safe to call (see
Graph.flushTouchedIfQuiescent).
*/
type entryStore[T any] interface {
	get(key any) (*Entry[T], bool)
	set(key any, e *Entry[T])
	delete(key any) bool
	size() int
	clean()
}

/*
listMapStore is the default entryStore: container/list plus a map,
straight out of the teacher's cache.go/eviction.go (MoveToFront on every
touch, evictOldest/removeElement on overflow), generalized from
TTL-expiring Items to dispose-on-evict *Entry[T]s.

Unlike cache.go's Set, which evicts synchronously the instant capacity is
exceeded, set here never evicts — it only inserts or moves-to-front. A key
freshly inserted mid-recomputation can therefore briefly push the store
over max without anything being torn down while it's still reachable from
the live call stack. Capacity is enforced exclusively by clean(), which
Graph.flushTouchedIfQuiescent runs once the parent slot has emptied back
out (spec.md §5: "the LRU clean step is deferred until the parent slot is
empty, so we never evict an entry that is on the live recomputation
stack"). A self-recursive Wrap with a max of 1 is the case this matters
for: every nested Invoke it makes against itself inserts while the outer
call is still on the stack, and none of those insertions may dispose the
very entry that's mid-fn.
*/
type listMapStore[T any] struct {
	data map[any]*list.Element
	lru  *list.List
	max  int
}

type storeElem[T any] struct {
	key   any
	entry *Entry[T]
}

func newListMapStore[T any](max int) *listMapStore[T] {
	return &listMapStore[T]{
		data: make(map[any]*list.Element),
		lru:  list.New(),
		max:  max,
	}
}

func (s *listMapStore[T]) get(key any) (*Entry[T], bool) {
	el, ok := s.data[key]
	if !ok {
		return nil, false
	}
	s.lru.MoveToFront(el)
	return el.Value.(*storeElem[T]).entry, true
}

func (s *listMapStore[T]) set(key any, e *Entry[T]) {
	if el, ok := s.data[key]; ok {
		el.Value.(*storeElem[T]).entry = e
		s.lru.MoveToFront(el)
		return
	}
	el := s.lru.PushFront(&storeElem[T]{key: key, entry: e})
	s.data[key] = el
}

func (s *listMapStore[T]) evictOldest() {
	el := s.lru.Back()
	if el == nil {
		return
	}
	s.removeElement(el)
	e := el.Value.(*storeElem[T]).entry
	e.g.stats.Evictions++
}

// removeElement assumes the caller already decided the element should
// go; it does not itself decide eviction policy (mirrors eviction.go's
// own note that it performs no synchronization of its own).
func (s *listMapStore[T]) removeElement(el *list.Element) {
	s.lru.Remove(el)
	se := el.Value.(*storeElem[T])
	delete(s.data, se.key)
	se.entry.dispose()
}

func (s *listMapStore[T]) delete(key any) bool {
	el, ok := s.data[key]
	if !ok {
		return false
	}
	s.removeElement(el)
	return true
}

func (s *listMapStore[T]) size() int { return s.lru.Len() }

func (s *listMapStore[T]) clean() {
	for s.max > 0 && s.lru.Len() > s.max {
		s.evictOldest()
	}
}

/*
otterStore is an optional, opt-in entryStore backend for callers who
value otter's concurrent-read throughput over the synchronous-dispose
guarantee listMapStore provides by construction (see DESIGN.md's lru.go
ledger entry for why this is opt-in rather than the default). Grounded on
Resinat-Resin's internal/node/latency.go, which builds exactly this
otter.MustBuilder[...].Cost(...).Build() shape.
*/
type otterStore[T any] struct {
	cache otter.Cache[any, *Entry[T]]
}

func newOtterStore[T any](max int) *otterStore[T] {
	cache, err := otter.MustBuilder[any, *Entry[T]](max).
		Cost(func(_ any, _ *Entry[T]) uint32 { return 1 }).
		DeletionListener(func(_ any, e *Entry[T], cause otter.DeletionCause) {
			if cause == otter.Replaced {
				// Invoke re-sets the same live entry to promote it; that is
				// not a removal.
				return
			}
			if cause == otter.Size {
				e.g.stats.Evictions++
			}
			e.dispose()
		}).
		Build()
	if err != nil {
		panic("recall: failed to build otter-backed entry store: " + err.Error())
	}
	return &otterStore[T]{cache: cache}
}

func (s *otterStore[T]) get(key any) (*Entry[T], bool) { return s.cache.Get(key) }
func (s *otterStore[T]) set(key any, e *Entry[T])      { s.cache.Set(key, e) }

func (s *otterStore[T]) delete(key any) bool {
	if _, found := s.cache.Get(key); !found {
		return false
	}
	s.cache.Delete(key)
	return true
}

func (s *otterStore[T]) size() int { return s.cache.Size() }
func (s *otterStore[T]) clean()    {}
