package output

import (
	"errors"

	"github.com/abdul-hamid-achik/hitbody/packages/core/runner"
)

// Error is returned by output operations. The cause is either a *runner.Error
// raised while rendering or an I/O error from the destination.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newRunError(err *runner.Error) *Error {
	return &Error{Message: err.Error(), Err: err}
}

// RunError returns the *runner.Error behind err, if any.
func RunError(err error) (*runner.Error, bool) {
	var runErr *runner.Error
	if errors.As(err, &runErr) {
		return runErr, true
	}
	return nil, false
}
