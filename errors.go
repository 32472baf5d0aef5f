package event

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrAlreadyResolved is returned by Fulfill and Reject when the promise has
// already been settled. Use errors.Is to test for it.
var ErrAlreadyResolved = errors.New("promise already resolved")

func alreadyResolved(op string, state State) error {
	return errors.Wrapf(ErrAlreadyResolved, "cannot %s a %s promise", op, state)
}

// outcome is the result of running a Handler.
type outcome struct {
	value any
	// reason is only meaningful when failed is set
	reason any
	failed bool
}

// call runs h, turning a returned error or a panic into a failed outcome
// whose reason is the textual description of the failure.
func call(h Handler, value any) (o outcome) {
	defer func() {
		if r := recover(); r != nil {
			o = outcome{reason: recoverReason(r), failed: true}
		}
	}()
	v, err := h(value)
	if err != nil {
		return outcome{reason: err.Error(), failed: true}
	}
	return outcome{value: v}
}

func recoverReason(r interface{}) string {
	switch v := r.(type) {
	case string:
		return v
	case error:
		return v.Error()
	default:
		return fmt.Sprintf("panic: %v", r)
	}
}
