/*
Event is a library of two small coordination primitives for single-threaded, callback-driven Go code: a priority-ordered event emitter and a chainable promise.

Neither type starts goroutines, blocks, or locks. Every callback runs inline, inside the Emit, Fulfill, Reject or Then call that triggers it. Code that shares an Emitter or Promise between goroutines must synchronize access itself, typically by funnelling results back to one goroutine over a channel (see blog_example/promises_checksum).

Examples

Listeners run in priority order, lowest first:
	e := event.NewEmitter()
	e.On("save", func(args ...any) bool {
		fmt.Println("audit", args[0])
		return true
	}, event.WithPriority(200))
	e.On("save", func(args ...any) bool {
		fmt.Println("validate", args[0])
		return args[0] != ""
	}, event.WithPriority(10))
	ok := e.Emit("save", "report.txt")

A listener returning false aborts the emission and Emit returns false.
EmitWithContinue additionally consults a callback between listeners; when it
returns false propagation stops and the emission still counts as successful.

Listeners are removed by the ID returned on registration:
	id := e.On("save", audit)
	e.RemoveListener("save", id)

Chained promise:
	p := event.New(nil)
	sum := p.Then(func(v any) (any, error) {
		return v.(int) + 2, nil
	}, nil)
	p.Fulfill(1)
	// sum.Value() == 3

Promise.all:
	all := event.All(p1, p2)
	p2.Fulfill(2)
	p1.Fulfill(1)
	// all.Value() == []any{1, 2}

Error handling:
	p.Then(func(v any) (any, error) {
		return nil, errors.New("boom")
	}, nil).Catch(func(reason any) (any, error) {
		// reason == "boom"
		return nil, nil
	})
	// Errors returned or panics raised by handlers reject the dependent promise with their description.
	// Settling a promise twice returns an error wrapping ErrAlreadyResolved.

*/
package event

//go:generate go tool embedmd -w README.md
