package recall

/*
RecursiveDependencyError is returned when an entry's function tries,
directly or transitively, to recompute itself while it is already
recomputing.

WHY THIS MATTERS

The graph only makes sense as a DAG: a node that depends on itself has no
well-defined fixed point, and walking it would recurse forever. Rather
than let that manifest as a stack overflow, the entry currently marked
`recomputing` refuses re-entry and hands back this error instead, which is
then cached as the entry's Err outcome exactly like any other failure the
wrapped function could have returned.
*/
type RecursiveDependencyError struct {
	EntryID string
}

func (e *RecursiveDependencyError) Error() string {
	return "already recomputing"
}
