package recall

import "fmt"

/*
Wrapper is the public façade spec.md §4.5 calls Wrap: memoize fn across a
bounded set of argument tuples, invalidate a specific tuple on demand, and
read back a tuple's last value without forcing a recomputation.

Go cannot express "Wrap" itself as a generic method on Graph (a method
may not introduce type parameters of its own), so construction is a pair
of free functions instead: Wrap (package-level default Graph) and WrapIn
(an explicit Graph), mirroring how the rest of the corpus's generic
constructors (e.g. otter.MustBuilder[K, V]) are themselves free functions
rather than methods.
*/
type Wrapper[T any] struct {
	id  string
	g   *Graph
	fn  func(args []any) (T, error)
	opt wrapperConfig[T]

	trie  *KeyTrie
	store entryStore[T]
}

type wrapperConfig[T any] struct {
	max          int
	keyArgsFn    func(args []any) []any
	makeCacheKey func(keyArgs []any) any
	subscribeFn  func(args []any) (Unsubscribe, error)
	disposable   bool
	equal        EqualFunc[T]
	useOtter     bool
}

// WrapOption configures a Wrapper at construction time. See options.go
// for the shared functional-options documentation.
type WrapOption[T any] func(*wrapperConfig[T])

// defaultMax is the LRU capacity a Wrapper gets when WithMax is not
// supplied, matching the option table's stated default.
const defaultMax = 1 << 16

// WithMax bounds how many distinct argument tuples a Wrapper retains at
// once. Defaults to defaultMax; pass 0 explicitly for an unbounded Wrapper.
func WithMax[T any](max int) WrapOption[T] {
	return func(c *wrapperConfig[T]) { c.max = max }
}

// WithKeyArgs derives the subset of arguments (and/or transforms of them)
// that actually determine cache identity, before they reach the default
// key trie. Without this option every argument participates in the key
// as-is.
func WithKeyArgs[T any](f func(args []any) []any) WrapOption[T] {
	return func(c *wrapperConfig[T]) { c.keyArgsFn = f }
}

// WithMakeCacheKey replaces the default KeyTrie-based cache key derivation
// entirely, for callers who want a different identity scheme (e.g.
// hashing the key args into a string).
func WithMakeCacheKey[T any](f func(keyArgs []any) any) WrapOption[T] {
	return func(c *wrapperConfig[T]) { c.makeCacheKey = f }
}

// WithSubscribe installs a subscribe/unsubscribe pair (spec.md §4.4.6)
// that runs once per successful recomputation of a given argument tuple.
func WithSubscribe[T any](f func(args []any) (Unsubscribe, error)) WrapOption[T] {
	return func(c *wrapperConfig[T]) { c.subscribeFn = f }
}

// WithDisposable marks entries as disposable (spec.md §4.4.7): once an
// entry's parent set becomes empty, it removes itself from the Wrapper's
// own store immediately rather than waiting to be evicted or explicitly
// forgotten.
func WithDisposable[T any]() WrapOption[T] {
	return func(c *wrapperConfig[T]) { c.disposable = true }
}

// WithEqual overrides the default value-equality predicate (value.go's
// defaultEqual) used to decide whether a recomputed value actually
// changed for the purposes of upward clean propagation.
func WithEqual[T any](f EqualFunc[T]) WrapOption[T] {
	return func(c *wrapperConfig[T]) { c.equal = f }
}

// WithOtterStore opts a Wrapper into the otter-backed entryStore instead
// of the default container/list+map one. See DESIGN.md's lru.go ledger
// entry for the synchronous-dispose tradeoff this makes.
func WithOtterStore[T any]() WrapOption[T] {
	return func(c *wrapperConfig[T]) { c.useOtter = true }
}

var wrapSeq int

// Wrap memoizes fn on the package-level default Graph.
func Wrap[T any](fn func(args []any) (T, error), opts ...WrapOption[T]) *Wrapper[T] {
	return WrapIn(Default(), fn, opts...)
}

// WrapIn memoizes fn on an explicit Graph.
func WrapIn[T any](g *Graph, fn func(args []any) (T, error), opts ...WrapOption[T]) *Wrapper[T] {
	wrapSeq++
	cfg := wrapperConfig[T]{max: defaultMax}
	for _, o := range opts {
		o(&cfg)
	}

	w := &Wrapper[T]{
		id:   fmt.Sprintf("wrap#%d", wrapSeq),
		g:    g,
		fn:   fn,
		opt:  cfg,
		trie: NewKeyTrie(),
	}
	if cfg.useOtter {
		w.store = newOtterStore[T](cfg.max)
	} else {
		w.store = newListMapStore[T](cfg.max)
	}
	g.registerStore(w.store)
	return w
}

// GetKey derives the cache key for an argument tuple the same way Invoke
// would, without looking anything up or recomputing.
func (w *Wrapper[T]) GetKey(args []any) any {
	keyArgs := args
	if w.opt.keyArgsFn != nil {
		keyArgs = w.opt.keyArgsFn(args)
	}
	if w.opt.makeCacheKey != nil {
		return w.opt.makeCacheKey(keyArgs)
	}
	return w.trie.LookupArray(keyArgs)
}

// Invoke runs (or returns the cached result of) fn for args.
func (w *Wrapper[T]) Invoke(args ...any) (T, error) {
	key := w.GetKey(args)
	if key == nil {
		return w.fn(args)
	}

	e, found := w.store.get(key)
	if !found {
		w.g.stats.Misses++
		e = w.newEntryFor(key)
		// Inserted before Recompute runs, not after: a direct or indirect
		// self-call reached through fn must find this same in-flight
		// entry (and its recomputing flag) rather than spinning up a
		// second one and recursing forever.
		w.store.set(key, e)
	} else {
		w.g.stats.Hits++
	}

	val, err := e.Recompute(args)

	w.store.set(key, e)
	w.g.markTouched(w.store)
	w.g.flushTouchedIfQuiescent()

	return val, err
}

func (w *Wrapper[T]) newEntryFor(key any) *Entry[T] {
	e := newEntry[T](w.g, fmt.Sprintf("%s/%v", w.id, key), w.fn, w.opt.subscribeFn, w.opt.equal)
	e.disposable = w.opt.disposable
	if w.opt.disposable {
		e.onOrphan = func() { w.store.delete(key) }
	}
	return e
}

// Dirty marks the entry for args dirty, if one is cached.
func (w *Wrapper[T]) Dirty(args ...any) { w.DirtyKey(w.GetKey(args)) }

// DirtyKey marks the entry for a previously-derived key dirty, if one is
// cached.
func (w *Wrapper[T]) DirtyKey(key any) {
	if key == nil {
		return
	}
	if e, ok := w.store.get(key); ok {
		e.setDirty()
	}
}

// Peek returns the cached value for args without recomputing.
func (w *Wrapper[T]) Peek(args ...any) (T, bool) { return w.PeekKey(w.GetKey(args)) }

// PeekKey returns the cached value for a previously-derived key without
// recomputing.
func (w *Wrapper[T]) PeekKey(key any) (T, bool) {
	var zero T
	if key == nil {
		return zero, false
	}
	if e, ok := w.store.get(key); ok {
		return e.Peek()
	}
	return zero, false
}

// Forget removes the entry for args entirely, disposing it.
func (w *Wrapper[T]) Forget(args ...any) bool { return w.ForgetKey(w.GetKey(args)) }

// ForgetKey removes the entry for a previously-derived key entirely,
// disposing it.
func (w *Wrapper[T]) ForgetKey(key any) bool {
	if key == nil {
		return false
	}
	return w.store.delete(key)
}

// Size returns the number of argument tuples this Wrapper currently
// retains.
func (w *Wrapper[T]) Size() int { return w.store.size() }

// Options returns a read-only snapshot of this Wrapper's configuration.
func (w *Wrapper[T]) Options() WrapperOptions {
	return WrapperOptions{
		Max:          w.opt.max,
		HasSubscribe: w.opt.subscribeFn != nil,
		Disposable:   w.opt.disposable,
	}
}

// WrapperOptions is the read-only snapshot Options returns.
type WrapperOptions struct {
	Max          int
	HasSubscribe bool
	Disposable   bool
}
