package serr

import (
	"fmt"
	"runtime/debug"
)

// ServiceError is an error that carries the message and status code shown to the caller.
// Err keeps the underlying cause for logs and errors.Is/As.
type ServiceError struct {
	Err        error
	Msg        string
	StackTrace string
	StatusCode int
	Env        map[string]string
}

func NewServiceError(err error, statusCode int, msg string, args ...any) *ServiceError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	return &ServiceError{
		Err:        err,
		Msg:        msg,
		StatusCode: statusCode,
		StackTrace: string(debug.Stack()),
		Env:        make(map[string]string),
	}
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}

	return e.Msg
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
