package recall

import (
	"context"
	"time"
)

/*
BindContext captures the graph's current parent entry and returns a
closure that, when later invoked (typically from a goroutine, a timer
callback, or any other point where the call stack has unwound past the
original caller), reinstates that captured parent before running f and
restores whatever the slot held before f ran once f returns.

This is the Go-shaped equivalent of spec.md §4.7's bind_context: the slot
is a plain struct field here rather than a thread-local, so "capturing"
it is just reading g.current before the closure escapes.
*/
func (g *Graph) BindContext(f func()) func() {
	captured := g.current
	return func() {
		prev := g.current
		g.current = captured
		defer func() { g.current = prev }()
		f()
	}
}

// BindContext binds against the package-level default Graph.
func BindContext(f func()) func() { return Default().BindContext(f) }

// NoContext runs f with the parent slot cleared, so that any Wrap/Dep
// calls f makes are treated as top-level calls with no implicit parent,
// regardless of whether NoContext itself was called from inside a
// recomputation.
func (g *Graph) NoContext(f func()) {
	prev := g.current
	g.current = nil
	defer func() { g.current = prev }()
	f()
}

// NoContext runs against the package-level default Graph.
func NoContext(f func()) { Default().NoContext(f) }

// NoContextValue is NoContext for callbacks that return a value; it
// cannot be a Graph method since Go methods may not introduce new type
// parameters of their own.
func NoContextValue[T any](g *Graph, f func() T) T {
	var out T
	g.NoContext(func() { out = f() })
	return out
}

// SetTimeout schedules cb to run after d, with the parent slot reinstated
// to whatever it was at the call to SetTimeout — the Go-idiomatic
// equivalent of spec.md §4.7's bind_context-wrapped setTimeout.
func (g *Graph) SetTimeout(d time.Duration, cb func()) *time.Timer {
	return time.AfterFunc(d, g.BindContext(cb))
}

/*
Step is one resumable unit of a cooperative, possibly-asynchronous
computation. It runs until it either finishes (done == true, possibly
with an error) or needs to await something external, in which case it
returns a channel RunAsyncSteps waits on before calling Step again.

RunAsyncSteps is the Go-idiomatic rendering of spec.md §4.7's
generator-to-promise bridge: Go has no generator primitive to drive the
way the original async_from_gen does, so the same "suspend, and resume
with the parent slot reinstated" contract is expressed as a loop over a
resumable function and a channel wait instead of a driven generator.
*/
type Step func() (done bool, wait <-chan struct{}, err error)

func (g *Graph) RunAsyncSteps(ctx context.Context, next Step) error {
	bound := g.current
	for {
		restore := g.current
		g.current = bound
		done, wait, err := next()
		g.current = restore

		if err != nil || done {
			return err
		}
		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
