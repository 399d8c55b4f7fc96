package catalog

import (
	"context"
	"fmt"
)

// Async adapts a Service to continuation style. Every method returns at once;
// its continuation runs exactly once, on a new goroutine, with the outcome.
// Bool-typed operations report a nil error on success.
type Async struct {
	svc Service
}

// NewAsync wraps svc.
func NewAsync(svc Service) *Async {
	return &Async{svc: svc}
}

// FetchBooks lists every book.
func (a *Async) FetchBooks(ctx context.Context, done func(Result[[]Book])) {
	spawn(func() ([]Book, error) { return a.svc.FetchBooks(ctx) }, done)
}

// AddBook creates a book.
func (a *Async) AddBook(ctx context.Context, book NewBook, done func(Result[Book])) {
	spawn(func() (Book, error) { return a.svc.AddBook(ctx, book) }, done)
}

// Checkout checks book id out to by.
func (a *Async) Checkout(ctx context.Context, id int, by string, done func(Result[Book])) {
	spawn(func() (Book, error) { return a.svc.Checkout(ctx, id, by) }, done)
}

// DeleteBook removes book id.
func (a *Async) DeleteBook(ctx context.Context, id int, done func(error)) {
	spawn(func() (struct{}, error) { return struct{}{}, a.svc.DeleteBook(ctx, id) }, func(r Result[struct{}]) {
		done(r.Err())
	})
}

// DeleteAll removes every book.
func (a *Async) DeleteAll(ctx context.Context, done func(error)) {
	spawn(func() (struct{}, error) { return struct{}{}, a.svc.DeleteAll(ctx) }, func(r Result[struct{}]) {
		done(r.Err())
	})
}

func spawn[T any](call func() (T, error), done func(Result[T])) {
	go func() {
		done(invoke(call))
	}()
}

// invoke keeps a panicking Service from escaping the continuation boundary.
func invoke[T any](call func() (T, error)) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			res = Failure[T](fmt.Errorf("catalog: recovered panic: %v", r))
		}
	}()
	v, err := call()
	return resultOf(v, err)
}
