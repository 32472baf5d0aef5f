package event

import (
	"sort"

	"github.com/joeycumines/logiface"
)

// DefaultPriority is the priority of listeners registered without
// WithPriority, unless the Emitter was built with WithDefaultPriority.
const DefaultPriority = 100

// Listener is called with the arguments passed to Emit. Returning false
// stops propagation and makes Emit return false.
type Listener func(args ...any) bool

// ContinueFunc is consulted by EmitWithContinue between listeners. Returning
// false stops propagation without failing the emission.
type ContinueFunc func() bool

// ListenerID identifies a registration for RemoveListener. Go function
// values cannot be compared, so listeners are removed by ID.
type ListenerID uint64

type listenerEntry struct {
	id       ListenerID
	priority int
	listener Listener
}

type bucket struct {
	entries []listenerEntry
	// sorted is cleared by every insertion and restored by the next read
	sorted bool
}

func (b *bucket) sort() {
	if b.sorted {
		return
	}
	sort.SliceStable(b.entries, func(i, j int) bool {
		return b.entries[i].priority < b.entries[j].priority
	})
	b.sorted = true
}

// An Emitter holds listeners per event name and emits events to them in
// priority order. Host types may embed an *Emitter to expose the full
// listener API.
//
// Emitters must be created with NewEmitter. An Emitter is not safe for
// concurrent use; callers sharing one between goroutines must synchronize
// access themselves.
type Emitter struct {
	buckets         map[string]*bucket
	nextID          ListenerID
	defaultPriority int
	logger          *logiface.Logger[logiface.Event]
	_               noCopy
}

// NewEmitter returns an Emitter with no listeners.
func NewEmitter(opts ...Option) *Emitter {
	c := resolveOptions(opts)
	return &Emitter{
		buckets:         make(map[string]*bucket),
		defaultPriority: c.defaultPriority,
		logger:          c.logger,
	}
}

// On registers listener for event and returns an ID that can be passed to
// RemoveListener. A nil listener is ignored and the zero ID returned.
func (e *Emitter) On(event string, listener Listener, opts ...ListenerOption) ListenerID {
	if listener == nil {
		return 0
	}

	e.nextID++
	entry := listenerEntry{
		id:       e.nextID,
		priority: e.defaultPriority,
		listener: listener,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&entry)
		}
	}

	b, ok := e.buckets[event]
	if !ok {
		b = &bucket{}
		e.buckets[event] = b
	}
	b.entries = append(b.entries, entry)
	b.sorted = false

	e.logger.Debug().
		Str("event", event).
		Uint64("listener", uint64(entry.id)).
		Int("priority", entry.priority).
		Log("listener registered")

	return entry.id
}

// Once registers listener like On, except that the registration removes
// itself the first time it is invoked, before listener runs.
func (e *Emitter) Once(event string, listener Listener, opts ...ListenerOption) ListenerID {
	if listener == nil {
		return 0
	}
	var id ListenerID
	id = e.On(event, func(args ...any) bool {
		e.RemoveListener(event, id)
		return listener(args...)
	}, opts...)
	return id
}

// Emit calls every listener for event, in priority order, with args. It
// returns false as soon as a listener returns false, and true otherwise,
// including when there are no listeners.
//
// Panics raised by listeners are not recovered.
func (e *Emitter) Emit(event string, args ...any) bool {
	return e.EmitWithContinue(event, nil, args...)
}

// EmitWithContinue behaves like Emit, but after each listener other than the
// last it calls cont, and stops if cont returns false. Stopping this way is
// a successful emission and returns true. A nil cont is never called.
//
// Listeners registered or removed while the emission is in progress take
// effect from the next emission.
func (e *Emitter) EmitWithContinue(event string, cont ContinueFunc, args ...any) bool {
	entries := e.snapshot(event)
	for i, entry := range entries {
		if !entry.listener(args...) {
			e.logger.Trace().
				Str("event", event).
				Uint64("listener", uint64(entry.id)).
				Log("emission aborted by listener")
			return false
		}
		if cont != nil && i < len(entries)-1 && !cont() {
			e.logger.Trace().
				Str("event", event).
				Int("remaining", len(entries)-1-i).
				Log("emission stopped by continue callback")
			break
		}
	}
	return true
}

func (e *Emitter) snapshot(event string) []listenerEntry {
	b, ok := e.buckets[event]
	if !ok || len(b.entries) == 0 {
		return nil
	}
	b.sort()
	entries := make([]listenerEntry, len(b.entries))
	copy(entries, b.entries)
	return entries
}

// Listeners returns the listeners for event in the order Emit would call
// them. The result is empty if event has no listeners.
func (e *Emitter) Listeners(event string) []Listener {
	entries := e.snapshot(event)
	listeners := make([]Listener, len(entries))
	for i, entry := range entries {
		listeners[i] = entry.listener
	}
	return listeners
}

// ListenerCount returns the number of listeners registered for event.
func (e *Emitter) ListenerCount(event string) int {
	if b, ok := e.buckets[event]; ok {
		return len(b.entries)
	}
	return 0
}

// EventNames returns, in lexical order, every event name that currently
// has a listener bucket.
func (e *Emitter) EventNames() []string {
	names := make([]string, 0, len(e.buckets))
	for name := range e.buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RemoveListener removes the registration identified by id from event. It
// reports whether a listener was removed.
func (e *Emitter) RemoveListener(event string, id ListenerID) bool {
	b, ok := e.buckets[event]
	if !ok {
		return false
	}
	for i, entry := range b.entries {
		if entry.id != id {
			continue
		}
		// removal keeps the relative order, so sorted stays valid
		b.entries = append(b.entries[:i], b.entries[i+1:]...)
		e.logger.Debug().
			Str("event", event).
			Uint64("listener", uint64(id)).
			Log("listener removed")
		return true
	}
	return false
}

// RemoveAllListeners drops every listener for the named events. Called
// without arguments it clears the whole emitter.
func (e *Emitter) RemoveAllListeners(events ...string) {
	if len(events) == 0 {
		e.buckets = make(map[string]*bucket)
		e.logger.Debug().Log("all listeners removed")
		return
	}
	for _, event := range events {
		delete(e.buckets, event)
		e.logger.Debug().
			Str("event", event).
			Log("listeners removed")
	}
}
