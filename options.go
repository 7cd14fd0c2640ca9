package recall

/*
This package configures its three constructors — WrapIn, NewDep, and
NewGraph — the same way the teacher's Cache does: the Functional Options
Pattern. Each constructor takes a variadic list of With* functions, and
each With* function is simply a closure that mutates the not-yet-live
configuration before construction finishes:

	w := recall.WrapIn(g, loadUser,
	    recall.WithMax[*User](1000),
	    recall.WithDisposable[*User](),
	)

This buys the same two things the teacher's options.go calls out:

 1. API stability — adding a new knob never changes a constructor's
    signature, so it never breaks an existing call site.
 2. Extensibility — Graph, Wrapper, and Dep each gained a different set
    of options as this package grew, without three different
    constructor-signature upheavals.

WrapOption[T] lives in wrap.go next to Wrapper[T], DepOption lives in
dep.go next to Dep, and GraphOption lives in graph.go next to Graph —
each beside the struct it configures, rather than gathered in one type
declaration here, since (unlike the teacher, which only ever had one
configurable type) three independent option types sharing one file would
read as if they configured the same thing.
*/
