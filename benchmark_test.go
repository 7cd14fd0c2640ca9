package recall_test

import (
	"testing"

	"github.com/kedarnag/recall"
)

func BenchmarkWrapHit(b *testing.B) {
	g := recall.NewGraph()
	w := recall.WrapIn(g, func(args []any) (int, error) {
		return args[0].(int) * 2, nil
	})
	w.Invoke(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Invoke(1)
	}
}

func BenchmarkWrapDirtyRecompute(b *testing.B) {
	g := recall.NewGraph()
	w := recall.WrapIn(g, func(args []any) (int, error) {
		return args[0].(int) * 2, nil
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Invoke(1)
		w.Dirty(1)
	}
}

func BenchmarkTwoLayerRecompute(b *testing.B) {
	g := recall.NewGraph()
	read := recall.WrapIn(g, func(args []any) (int, error) {
		return args[0].(int), nil
	})
	hash := recall.WrapIn(g, func(args []any) (int, error) {
		sum := 0
		for _, a := range args {
			v, _ := read.Invoke(a)
			sum += v
		}
		return sum, nil
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		hash.Invoke(1, 2, 3)
		read.Dirty(1)
	}
}

func BenchmarkDepDirty(b *testing.B) {
	g := recall.NewGraph()
	d := recall.NewDep(g)
	w := recall.WrapIn(g, func(args []any) (int, error) {
		d.Touch(args[0])
		return 0, nil
	})
	w.Invoke(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Dirty(1)
		w.Invoke(1)
	}
}
