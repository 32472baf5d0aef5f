package event

import (
	"errors"
	"fmt"
)

func ExampleEmitter_priority() {
	e := NewEmitter()
	e.On("greet", func(args ...any) bool {
		fmt.Println("third", args[0])
		return true
	}, WithPriority(300))
	e.On("greet", func(args ...any) bool {
		fmt.Println("first", args[0])
		return true
	}, WithPriority(50))
	e.On("greet", func(args ...any) bool {
		fmt.Println("second", args[0])
		return true
	})

	fmt.Println(e.Emit("greet", "world"))
	// Output:
	// first world
	// second world
	// third world
	// true
}

func ExampleEmitter_EmitWithContinue() {
	e := NewEmitter()
	for _, name := range []string{"cache", "disk", "network"} {
		e.On("lookup", func(args ...any) bool {
			fmt.Println("trying", name)
			return true
		})
	}

	found := false
	lookups := 0
	ok := e.EmitWithContinue("lookup", func() bool {
		lookups++
		found = lookups == 2
		return !found
	})
	fmt.Println(ok, found)
	// Output:
	// trying cache
	// trying disk
	// true true
}

func ExamplePromise_chain() {
	p := New(nil)
	p.Then(func(v any) (any, error) {
		fmt.Println("second")
		return v.(int) * 2, nil
	}, nil).Then(func(v any) (any, error) {
		fmt.Println("third", v)
		return nil, errors.New("no fourth")
	}, nil).Then(func(v any) (any, error) {
		fmt.Println("never")
		return nil, nil
	}, nil).Catch(func(reason any) (any, error) {
		fmt.Println("rejected:", reason)
		return nil, nil
	})

	fmt.Println("first")
	_ = p.Fulfill(7)
	// Output:
	// first
	// second
	// third 14
	// rejected: no fourth
}

func ExampleAll() {
	p1, p2 := New(nil), New(nil)
	all := All(p1, p2)

	_ = p2.Fulfill("b")
	fmt.Println(all.State())
	_ = p1.Fulfill("a")
	fmt.Println(all.State(), all.Value())
	// Output:
	// pending
	// fulfilled [a b]
}
