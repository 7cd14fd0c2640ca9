// Command recalldemo walks through spec.md §8's two-layer hash scenario:
// a read() leaf wrapped around a fake file system, and a hash() layer on
// top of it, to show dirtying a single file only recomputes the hashes
// that actually depended on it.
package main

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/kedarnag/recall"
)

func main() {
	files := map[string]string{
		"a.txt": "hello",
		"b.txt": "world",
		"c.txt": "!!!",
	}

	reads := 0
	read := recall.Wrap(func(args []any) (string, error) {
		reads++
		name := args[0].(string)
		content, ok := files[name]
		if !ok {
			return "", fmt.Errorf("no such file: %s", name)
		}
		return content, nil
	})

	hashes := 0
	hash := recall.Wrap(func(args []any) (string, error) {
		hashes++
		names := make([]string, len(args))
		for i, a := range args {
			names[i] = a.(string)
		}
		sort.Strings(names)
		h := sha1.New()
		for _, n := range names {
			content, err := read.Invoke(n)
			if err != nil {
				return "", err
			}
			h.Write([]byte(content))
		}
		return hex.EncodeToString(h.Sum(nil)), nil
	})

	group1 := []any{"a.txt", "b.txt"}
	group2 := []any{"b.txt", "c.txt"}

	h1, _ := hash.Invoke(group1...)
	h2, _ := hash.Invoke(group2...)
	fmt.Printf("hash(a,b) = %s\nhash(b,c) = %s\nreads so far: %d, hashes so far: %d\n\n", h1, h2, reads, hashes)

	fmt.Println("editing a.txt ...")
	files["a.txt"] = "HELLO"
	read.Dirty("a.txt")

	h1Again, _ := hash.Invoke(group1...)
	h2Again, _ := hash.Invoke(group2...)
	fmt.Printf("hash(a,b) = %s (changed: %v)\nhash(b,c) = %s (changed: %v)\nreads so far: %d, hashes so far: %d\n",
		h1Again, h1Again != h1, h2Again, h2Again != h2, reads, hashes)

	fmt.Println(strings.Repeat("-", 40))
	stats := recall.Default().Stats()
	fmt.Printf("graph stats: %+v\n", stats)
}
