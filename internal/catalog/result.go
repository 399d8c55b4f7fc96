package catalog

import "errors"

// ErrUnknown stands in for a failure that was reported without an error value.
var ErrUnknown = errors.New("catalog: unknown failure")

// Result is the outcome of a remote call: a value or an error, never both.
type Result[T any] struct {
	value T
	err   error
}

// Success wraps a value.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Failure wraps an error. A nil error becomes ErrUnknown.
func Failure[T any](err error) Result[T] {
	if err == nil {
		err = ErrUnknown
	}
	return Result[T]{err: err}
}

func resultOf[T any](v T, err error) Result[T] {
	if err != nil {
		return Failure[T](err)
	}
	return Success(v)
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool { return r.err == nil }

// Err returns the failure, or nil on success.
func (r Result[T]) Err() error { return r.err }

// Value returns the payload; it is the zero value on failure.
func (r Result[T]) Value() T { return r.value }

// Get returns the payload and the failure.
func (r Result[T]) Get() (T, error) { return r.value, r.err }
