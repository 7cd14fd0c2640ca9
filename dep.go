package recall

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
)

/*
Dep is a keyed dependency leaf (spec.md §4.6): unlike a Wrap entry, it
never computes a value of its own. Touching a key, from inside some
entry's recomputation, registers that entry as a member of the key's set
using the same edge bookkeeping entry-to-entry edges use. Dirtying a key
later invalidates every member of that set directly.

Grounded on Resinat-Resin/internal/topology/pool.go's xsync.Map +
Compute(key, func(cur, loaded) (next, op)) pattern, used here to create a
key's member set exactly once, on its first touch.
*/
type Dep struct {
	id  string
	g   *Graph
	cfg depConfig

	sets *xsync.Map[any, *depSet]
}

type depConfig struct {
	subscribe func(key any) (Unsubscribe, error)
}

// DepOption configures a Dep at construction time. See options.go for the
// shared functional-options documentation.
type DepOption func(*depConfig)

// WithDepSubscribe installs a subscribe/unsubscribe pair: subscribe runs
// once per key, when the key's member set is first created by a touch, and
// the returned Unsubscribe runs when Dirty drops that set. A set whose
// members all stop touching the key keeps its subscription until then.
func WithDepSubscribe(f func(key any) (Unsubscribe, error)) DepOption {
	return func(c *depConfig) { c.subscribe = f }
}

type depSet struct {
	id          string
	members     map[node]struct{}
	unsubscribe Unsubscribe
}

func (s *depSet) removeMember(n node) { delete(s.members, n) }

// NewDep creates a Dep on an explicit Graph.
func NewDep(g *Graph, opts ...DepOption) *Dep {
	cfg := depConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	return &Dep{
		id:   uuid.New().String(),
		g:    g,
		cfg:  cfg,
		sets: xsync.NewMap[any, *depSet](),
	}
}

// NewDefaultDep creates a Dep on the package-level default Graph.
func NewDefaultDep(opts ...DepOption) *Dep { return NewDep(Default(), opts...) }

// Touch registers the graph's current parent entry as depending on key.
// Called outside any entry's recomputation (no current parent), it is a
// no-op: there is nothing to register the dependency against.
func (d *Dep) Touch(key any) {
	parent := d.g.current
	if parent == nil {
		return
	}

	var justActivated bool
	set, _ := d.sets.Compute(key, func(cur *depSet, loaded bool) (*depSet, xsync.ComputeOp) {
		if !loaded {
			cur = &depSet{
				id:      fmt.Sprintf("%s/%v", d.id, key),
				members: make(map[node]struct{}),
			}
			justActivated = true
		}
		cur.members[parent] = struct{}{}
		return cur, xsync.UpdateOp
	})

	parent.noteDepMembership(set)

	if justActivated && d.cfg.subscribe != nil {
		if unsub, err := d.cfg.subscribe(key); err == nil {
			set.unsubscribe = unsub
		} else {
			d.g.logf("recall: dep subscribe for key %v failed: %v", key, err)
		}
	}
}

// DirtyMethod selects how Dirty invalidates a key's members.
type DirtyMethod int

const (
	// DirtyMethodSetDirty marks every member dirty (the default).
	DirtyMethodSetDirty DirtyMethod = iota
	// DirtyMethodDispose disposes every member outright.
	DirtyMethodDispose
	// DirtyMethodForget is structurally equivalent to
	// DirtyMethodDispose here — see DESIGN.md's Open Question entry on
	// why a bare node cannot reach into its owning Wrapper's store.
	DirtyMethodForget
)

// Dirty invalidates every entry currently in key's member set (an entry
// that recomputed without touching key again has already left it), using
// method (default: DirtyMethodSetDirty).
func (d *Dep) Dirty(key any, method ...DirtyMethod) {
	m := DirtyMethodSetDirty
	if len(method) > 0 {
		m = method[0]
	}

	set, ok := d.sets.LoadAndDelete(key)
	if !ok {
		return
	}

	for p := range set.members {
		switch m {
		case DirtyMethodDispose, DirtyMethodForget:
			p.dispose()
		default:
			p.setDirty()
		}
	}

	if set.unsubscribe != nil {
		if err := set.unsubscribe(); err != nil {
			d.g.logf("recall: dep unsubscribe for key %v failed: %v", key, err)
		}
	}
}

// KeyCount returns the number of keys that have a member set, i.e. keys
// touched since their last Dirty. A set whose members have all left it
// still counts until Dirty drops it.
func (d *Dep) KeyCount() int {
	n := 0
	d.sets.Range(func(_ any, _ *depSet) bool {
		n++
		return true
	})
	return n
}
