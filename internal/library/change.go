package library

import "errors"

var (
	// ErrNotInCatalog reports a delete of a book the manager does not hold.
	// It means the caller and the manager disagree about the catalog.
	ErrNotInCatalog = errors.New("book not in catalog")

	// ErrStopped resolves operations issued or pending after the manager stopped.
	ErrStopped = errors.New("library manager stopped")
)

// Op names the operation behind a Change.
type Op int

const (
	OpFetch Op = iota + 1
	OpAdd
	OpCheckout
	OpDelete
	OpDeleteAll
)

func (o Op) String() string {
	switch o {
	case OpFetch:
		return "fetch"
	case OpAdd:
		return "add"
	case OpCheckout:
		return "checkout"
	case OpDelete:
		return "delete"
	case OpDeleteAll:
		return "delete_all"
	default:
		return "unknown"
	}
}

// Change is delivered to the subscriber when an operation resolves, or when a
// delete removes its entry ahead of the remote call.
type Change struct {
	Op     Op
	OK     bool
	BookID int // zero for fetch and delete-all
	Err    error
}
