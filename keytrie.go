package recall

import (
	"runtime"
	"weak"

	"github.com/puzpuzpuz/xsync/v4"
)

/*
KeyTrie canonicalizes a variadic argument tuple into a single stable,
comparable identity: the same sequence of argument values, looked up
twice, yields the pointer-identical *keyToken both times, so that token
can be used directly as a map key by a Wrapper's entryStore.

Each level of the trie holds at most two children maps, matching
spec.md §4.2: a strong map, keyed directly by argument value, and a weak
map for arguments the caller has explicitly opted into weak retention for
via WeakKey[T] (see below). An argument not wrapped with WeakKey always
descends through the strong map, regardless of its type.

Go has no way to generically obtain a GC-trackable weak reference to an
arbitrary interface{}-boxed pointer without knowing its concrete type —
weak.Make and runtime.AddCleanup are both generic over the *pointee*
type, not over interface{} (see DESIGN.md's keytrie.go ledger entry).
WeakKey[T] is the caller-visible seam that supplies that type: wrap a
pointer-shaped argument in WeakKey before passing it to a wrapped
function's keyArgs, and the trie will key on it weakly, evicting the
corresponding trie node once nothing but the trie itself still points at
the referenced object.
*/
type KeyTrie struct {
	root trieNode
}

func NewKeyTrie() *KeyTrie { return &KeyTrie{root: newTrieNode()} }

// keyToken is the identity object a terminal trie node mints on first
// visit and returns on every subsequent visit of the same arg sequence.
// Its only useful property is pointer identity. It carries one byte of
// padding because Go may give every zero-size allocation the same address.
type keyToken struct{ _ byte }

type trieNode struct {
	strong *xsync.Map[any, *trieNode]

	weak map[any]*trieNode

	token *keyToken
}

func newTrieNode() trieNode {
	return trieNode{strong: xsync.NewMap[any, *trieNode]()}
}

// Lookup canonicalizes a variadic argument sequence. LookupArray is the
// slice-accepting equivalent, used when the caller already has a []any.
func (t *KeyTrie) Lookup(args ...any) any { return t.LookupArray(args) }

func (t *KeyTrie) LookupArray(args []any) any {
	n := &t.root
	for _, a := range args {
		n = n.child(a)
	}
	if n.token == nil {
		n.token = &keyToken{}
	}
	return n.token
}

func (n *trieNode) child(arg any) *trieNode {
	if wk, ok := arg.(weakKeyArg); ok {
		return n.weakChild(arg, wk)
	}
	fresh := newTrieNode()
	actual, _ := n.strong.LoadOrStore(arg, &fresh)
	return actual
}

func (n *trieNode) weakChild(arg any, wk weakKeyArg) *trieNode {
	if n.weak == nil {
		n.weak = make(map[any]*trieNode)
	}
	if c, ok := n.weak[arg]; ok {
		return c
	}
	c := &trieNode{strong: xsync.NewMap[any, *trieNode]()}
	n.weak[arg] = c
	parent := n
	wk.registerCleanup(func() {
		delete(parent.weak, arg)
	})
	return c
}

// weakKeyArg is the marker interface WeakKey[T]'s return value satisfies,
// letting trieNode.child tell a weakly-tracked argument apart from a
// plain one without knowing T.
type weakKeyArg interface {
	isWeakKeyArg()
	registerCleanup(fn func())
}

type weakArg[T any] struct {
	wp weak.Pointer[T]
}

func (weakArg[T]) isWeakKeyArg() {}

func (w weakArg[T]) registerCleanup(fn func()) {
	v := w.wp.Value()
	if v == nil {
		// Already collected by the time we got here; run the cleanup
		// inline rather than registering on a pointer we no longer have.
		fn()
		return
	}
	runtime.AddCleanup(v, func(_ struct{}) { fn() }, struct{}{})
}

// WeakKey wraps a pointer-shaped argument so that KeyTrie keys on it
// weakly: once v is unreachable from anywhere else in the program, the
// corresponding trie node is dropped without anyone having to call Forget.
// The Wrapper's store still holds the cached Entry under its token until
// that Entry is evicted by the LRU or removed with Forget/ForgetKey.
//
//	w := recall.Wrap(loadDoc, recall.WithKeyArgs(func(args []any) []any {
//	    return []any{recall.WeakKey(args[0].(*Document))}
//	}))
func WeakKey[T any](v *T) any {
	return weakArg[T]{wp: weak.Make(v)}
}
