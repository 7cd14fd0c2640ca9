package recall_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/kedarnag/recall"
	"github.com/stretchr/testify/require"
)

// These tests transcribe spec.md §8's six concrete scenarios literally,
// one test per scenario.

func TestScenarioSaltedIdentity(t *testing.T) {
	g := recall.NewGraph()
	salt := "salt"
	f := recall.WrapIn(g, func(args []any) (string, error) {
		return args[0].(string) + salt, nil
	})

	a1, err := f.Invoke("a")
	require.NoError(t, err)
	require.Equal(t, "asalt", a1)

	salt = "NaCl"
	b1, err := f.Invoke("b")
	require.NoError(t, err)
	require.Equal(t, "bNaCl", b1)

	aAgain, err := f.Invoke("a")
	require.NoError(t, err)
	require.Equal(t, "asalt", aAgain, "cache hit must still reflect the salt at the time of the original computation")

	f.Dirty("a")
	aDirty, err := f.Invoke("a")
	require.NoError(t, err)
	require.Equal(t, "aNaCl", aDirty)
}

func TestScenarioTwoLayerHash(t *testing.T) {
	g := recall.NewGraph()
	files := map[string]string{"a.js": "one", "b.js": "two"}

	read := recall.WrapIn(g, func(args []any) (string, error) {
		return files[args[0].(string)], nil
	})
	hash := recall.WrapIn(g, func(args []any) (string, error) {
		var sb strings.Builder
		for _, a := range args {
			v, err := read.Invoke(a.(string))
			if err != nil {
				return "", err
			}
			sb.WriteString(v)
		}
		return sb.String(), nil
	})

	h1, _ := hash.Invoke("a.js", "b.js")

	files["a.js"] = "ONE" // mutated without dirtying read
	h1Stale, _ := hash.Invoke("a.js", "b.js")
	require.Equal(t, h1, h1Stale, "hash must not change until read is dirtied")

	read.Dirty("a.js")
	h2, _ := hash.Invoke("a.js", "b.js")
	require.NotEqual(t, h1, h2)

	files["b.js"] = "TWO"
	read.Dirty("b.js")
	h3, _ := hash.Invoke("a.js", "b.js")
	require.NotEqual(t, h2, h3)
}

func TestScenarioSubscriptionLifecycle(t *testing.T) {
	g := recall.NewGraph()
	sep := ","
	unsubCount := map[string]int{}

	test := recall.WrapIn(g, func(args []any) (string, error) {
		x := args[0].(string)
		return strings.Join([]string{x, x, x}, sep), nil
	},
		recall.WithMax[string](1),
		recall.WithSubscribe[string](func(args []any) (recall.Unsubscribe, error) {
			x := args[0].(string)
			return func() error {
				unsubCount[x]++
				return nil
			}, nil
		}),
	)

	test.Invoke("a")
	test.Invoke("b") // evicts "a" (max=1)
	test.Invoke("c") // evicts "b"

	require.Equal(t, 1, unsubCount["a"])
	require.Equal(t, 1, unsubCount["b"])

	sep = ";"
	cAgain, _ := test.Invoke("c")
	require.Equal(t, "c,c,c", cAgain, "sep change without dirty must not alter the cached result")

	test.Dirty("c")
	cDirty, _ := test.Invoke("c")
	require.Equal(t, "c;c;c", cDirty)
}

func TestScenarioCycle(t *testing.T) {
	g := recall.NewGraph()
	var self *recall.Wrapper[int]
	recursive := true
	self = recall.WrapIn(g, func(args []any) (int, error) {
		if !recursive {
			return 42, nil
		}
		v, err := self.Invoke()
		if err != nil {
			return 0, err
		}
		return v + 1, nil
	})

	_, err := self.Invoke()
	require.Error(t, err)
	require.Equal(t, "already recomputing", err.Error())

	self.Dirty()
	recursive = false
	v, err := self.Invoke()
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestScenarioEvictedChildDirty(t *testing.T) {
	g := recall.NewGraph()
	childSalt := "cs1"
	parentSalt := "ps1"

	child := recall.WrapIn(g, func(args []any) (string, error) {
		return args[0].(string) + childSalt, nil
	}, recall.WithMax[string](1))

	parent := recall.WrapIn(g, func(args []any) (string, error) {
		c, err := child.Invoke(args[0].(string))
		if err != nil {
			return "", err
		}
		return c + parentSalt, nil
	})

	p1, err := parent.Invoke("asdf")
	require.NoError(t, err)
	require.Equal(t, "asdfcs1ps1", p1)

	child.Invoke("zxcv") // max=1: evicts the "asdf" child entry parent depends on

	childSalt = "cs2"
	parentSalt = "ps2"
	p2, err := parent.Invoke("asdf")
	require.NoError(t, err)
	require.Equal(t, "asdfcs2ps2", p2, "eviction of a dependency must be equivalent to dirtying the parent")
}

func TestScenarioExceptionCache(t *testing.T) {
	g := recall.NewGraph()
	boom := errors.New("boom")

	child := recall.WrapIn(g, func(args []any) (int, error) {
		return 0, boom
	})
	parent := recall.WrapIn(g, func(args []any) (error, error) {
		_, err := child.Invoke()
		return err, nil
	})

	v1, err1 := parent.Invoke()
	require.NoError(t, err1)
	require.Equal(t, boom, v1)

	child.Dirty()
	v2, err2 := parent.Invoke()
	require.NoError(t, err2)
	require.Equal(t, boom, v2)

	parent.Dirty()
	v3, err3 := parent.Invoke()
	require.NoError(t, err3)
	require.Equal(t, boom, v3)
}
