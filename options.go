package event

import (
	"github.com/joeycumines/logiface"
)

type config struct {
	logger          *logiface.Logger[logiface.Event]
	defaultPriority int
}

// Option configures an Emitter or a Promise.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithLogger attaches a structured logger. A nil logger disables logging.
// Promises derived via Then, Catch, All and Race inherit it.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return optionFunc(func(c *config) {
		c.logger = logger
	})
}

// WithDefaultPriority sets the priority used by On and Once when no
// WithPriority is given. It has no effect on promises.
func WithDefaultPriority(priority int) Option {
	return optionFunc(func(c *config) {
		c.defaultPriority = priority
	})
}

func resolveOptions(opts []Option) config {
	c := config{defaultPriority: DefaultPriority}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.apply(&c)
	}
	return c
}

// ListenerOption configures a single registration made with On or Once.
type ListenerOption func(*listenerEntry)

// WithPriority sets the listener's priority. Lower values run earlier.
func WithPriority(priority int) ListenerOption {
	return func(e *listenerEntry) {
		e.priority = priority
	}
}
