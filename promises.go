package event

import (
	"fmt"

	"github.com/joeycumines/logiface"
)

// State is the settlement state of a Promise.
type State int

const (
	// Pending promises have neither a value nor a reason yet.
	Pending State = iota
	// Fulfilled promises hold the value passed to Fulfill.
	Fulfilled
	// Rejected promises hold the reason passed to Reject.
	Rejected
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Handler receives the fulfillment value or rejection reason of a promise.
// Its return value fulfills the dependent promise; if it returns a *Promise
// the dependent follows that promise instead. A non-nil error, or a panic,
// rejects the dependent with the failure's description.
type Handler func(value any) (any, error)

// Resolver settles a promise. It returns an error wrapping
// ErrAlreadyResolved if the promise was already settled.
type Resolver func(value any) error

// Executor is called by New with the new promise's Fulfill and Reject.
type Executor func(fulfill, reject Resolver)

type subscription struct {
	target      *Promise
	onFulfilled Handler
	onRejected  Handler
}

// A Promise is a value that is fulfilled or rejected exactly once. Handlers
// registered with Then run synchronously: immediately if the promise is
// already settled, otherwise inside the Fulfill or Reject call that
// settles it, in registration order.
//
// A Promise is not safe for concurrent use.
type Promise struct {
	state State
	value any
	// subscribers is dropped once the promise settles
	subscribers []subscription
	logger      *logiface.Logger[logiface.Event]
	_           noCopy
}

// Used to trigger lint rules if a promise or emitter is copied
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New returns a pending promise. If executor is non-nil it is called
// synchronously with the promise's Fulfill and Reject before New returns.
func New(executor Executor, opts ...Option) *Promise {
	c := resolveOptions(opts)
	p := &Promise{logger: c.logger}
	if executor != nil {
		executor(p.Fulfill, p.Reject)
	}
	return p
}

// State returns the current state of the promise.
func (p *Promise) State() State {
	return p.state
}

// Value returns the fulfillment value or the rejection reason, or nil while
// the promise is pending.
func (p *Promise) Value() any {
	return p.value
}

// Result returns the value and state together.
func (p *Promise) Result() (any, State) {
	return p.value, p.state
}

// Then returns a promise that is settled from the outcome of p. When p is
// fulfilled onFulfilled is called with its value; when p is rejected
// onRejected is called with its reason. A nil handler passes the outcome
// through unchanged, so rejections skip Then calls without onRejected until
// a handler is found.
func (p *Promise) Then(onFulfilled, onRejected Handler) *Promise {
	next := &Promise{logger: p.logger}
	p.subscribe(subscription{
		target:      next,
		onFulfilled: onFulfilled,
		onRejected:  onRejected,
	})
	return next
}

// Catch is shorthand for Then(nil, onRejected).
func (p *Promise) Catch(onRejected Handler) *Promise {
	return p.Then(nil, onRejected)
}

// Fulfill marks the promise fulfilled with value and runs the queued
// handlers. It fails with ErrAlreadyResolved if the promise is not pending.
func (p *Promise) Fulfill(value any) error {
	return p.settle(Fulfilled, value)
}

// Reject marks the promise rejected with reason and runs the queued
// handlers. It fails with ErrAlreadyResolved if the promise is not pending.
func (p *Promise) Reject(reason any) error {
	return p.settle(Rejected, reason)
}

func (p *Promise) subscribe(s subscription) {
	switch p.state {
	case Pending:
		p.subscribers = append(p.subscribers, s)
	case Fulfilled:
		p.invoke(s.target, s.onFulfilled)
	case Rejected:
		p.invoke(s.target, s.onRejected)
	}
}

func (p *Promise) settle(state State, value any) error {
	if p.state != Pending {
		op := "fulfill"
		if state == Rejected {
			op = "reject"
		}
		err := alreadyResolved(op, p.state)
		p.logger.Debug().
			Err(err).
			Log("promise settle refused")
		return err
	}

	p.state = state
	p.value = value
	subscribers := p.subscribers
	p.subscribers = nil

	p.logger.Debug().
		Stringer("state", state).
		Int("subscribers", len(subscribers)).
		Log("promise settled")

	for _, s := range subscribers {
		if state == Fulfilled {
			p.invoke(s.target, s.onFulfilled)
		} else {
			p.invoke(s.target, s.onRejected)
		}
	}
	return nil
}

// invoke settles target from p, which must already be settled.
func (p *Promise) invoke(target *Promise, h Handler) {
	if h == nil {
		target.settleQuietly(p.state, p.value)
		return
	}
	o := call(h, p.value)
	if o.failed {
		p.logger.Warning().
			Str("reason", fmt.Sprint(o.reason)).
			Log("promise handler failed")
		target.settleQuietly(Rejected, o.reason)
		return
	}
	target.adopt(o.value)
}

// adopt fulfills p with value, unless value is itself a promise, in which
// case p follows that promise's outcome.
func (p *Promise) adopt(value any) {
	inner, ok := value.(*Promise)
	if !ok {
		p.settleQuietly(Fulfilled, value)
		return
	}
	if inner == p {
		p.settleQuietly(Rejected, "chaining cycle detected for promise")
		return
	}
	inner.subscribe(subscription{target: p})
}

// settleQuietly is used for dependents, which the caller may have settled
// directly already; that attempt is logged by settle and otherwise dropped.
func (p *Promise) settleQuietly(state State, value any) {
	_ = p.settle(state, value)
}

func inheritLogger(promises []*Promise) *logiface.Logger[logiface.Event] {
	for _, p := range promises {
		if p != nil && p.logger != nil {
			return p.logger
		}
	}
	return nil
}

// All returns a promise that is fulfilled with the values of promises, in
// argument order, once every one of them is fulfilled. It is rejected with
// the reason of the first of promises to be rejected. With no arguments the
// result is fulfilled immediately with an empty slice.
func All(promises ...*Promise) *Promise {
	all := &Promise{logger: inheritLogger(promises)}
	if len(promises) == 0 {
		all.settleQuietly(Fulfilled, []any{})
		return all
	}

	values := make([]any, len(promises))
	remaining := len(promises)
	for i, p := range promises {
		p.Then(
			func(v any) (any, error) {
				values[i] = v
				remaining--
				if remaining == 0 && all.state == Pending {
					all.settleQuietly(Fulfilled, values)
				}
				return v, nil
			},
			func(reason any) (any, error) {
				if all.state == Pending {
					all.settleQuietly(Rejected, reason)
				}
				return nil, nil
			},
		)
	}
	return all
}

// Race returns a promise that settles the same way as the first of promises
// to settle. With no arguments the result stays pending.
func Race(promises ...*Promise) *Promise {
	race := &Promise{logger: inheritLogger(promises)}
	for _, p := range promises {
		p.Then(
			func(v any) (any, error) {
				if race.state == Pending {
					race.settleQuietly(Fulfilled, v)
				}
				return v, nil
			},
			func(reason any) (any, error) {
				if race.state == Pending {
					race.settleQuietly(Rejected, reason)
				}
				return nil, nil
			},
		)
	}
	return race
}
