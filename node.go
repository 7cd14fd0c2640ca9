package recall

/*
node is the type-erased, non-generic view of a graph vertex.

Every Entry[T], regardless of what T it was instantiated with, implements
node. This is what lets a parent entry of one result type hold child
entries of completely unrelated result types in the same parents/children
bookkeeping: the dirty/clean propagation algorithm (below) never needs to
know what a node actually computes, only whether it might be dirty and
what its parents are.

depMembership plays the same type-erasure role for Dep: a Dep's per-key
member set needs to be severable from an arbitrary node on dispose
without Dep importing Entry[T] for any particular T.
*/
type node interface {
	nodeID() string

	mightBeDirty() bool
	setDirty()

	ensureChildSlot(c node)
	addDirtyChild(c node) bool
	removeDirtyChild(c node) bool
	isFullyClean() bool
	observeChildSnapshot(c node, snap any)

	addParent(p node)
	dropParent(p node)
	parentsSnapshot() []node

	forgetChildRecord(c node)
	maybeSelfForgetIfOrphaned()

	noteDepMembership(m depMembership)

	// recomputeAsChild re-enters the recomputation decision procedure on
	// this node without touching the parent slot or registering a new
	// edge (spec.md §4.4.4's "invoke transparently" step). The returned
	// error mirrors the node's outcome so a walking parent can tell
	// whether to mark itself dirty.
	recomputeAsChild() error

	snapshot() any
	equalSnapshots(a, b any) bool

	dispose()
}

type depMembership interface {
	removeMember(n node)
}

/*
propagateDirty implements spec.md §4.4.2's upward "might become dirty"
message: P records C in its dirtyChildren, and — only if C was not
already listed there — the same message is forwarded to P's own parents.
The short-circuit is the
membership test inside addDirtyChild: once P already lists C, every
further dirtying of C (or of anything below C) stops fanning out the
instant it reaches P again, which is what keeps a diamond-shaped graph
from being visited more than once per edge.
*/
func propagateDirty(p node, c node) {
	if !p.addDirtyChild(c) {
		return
	}
	for _, gp := range p.parentsSnapshot() {
		propagateDirty(gp, p)
	}
}

/*
propagateClean implements spec.md §4.4.3's upward "child resolved" message.
P compares its last-observed snapshot of C against C's current snapshot;
a real change forces P itself dirty (via setDirty, which does its own
upward dirty propagation). Either way C is dropped from P's dirtyChildren,
and if that empties P out entirely (no explicit dirty flag, no remaining
dirty children) the clean message continues upward to P's own parents.
*/
func propagateClean(p node, c node) {
	p.observeChildSnapshot(c, c.snapshot())
	p.removeDirtyChild(c)
	if p.isFullyClean() {
		for _, gp := range p.parentsSnapshot() {
			propagateClean(gp, p)
		}
	}
}

/*
registerAsChild links child underneath parent (spec.md §4.4.2's edge
registration step) and immediately sends the one upward message that
reflects the child's current state, so P's bookkeeping is never out of
sync with the edge it just gained.
*/
func registerAsChild(parent node, child node) {
	child.addParent(parent)
	parent.ensureChildSlot(child)
	if child.mightBeDirty() {
		propagateDirty(parent, child)
	} else {
		propagateClean(parent, child)
	}
}
