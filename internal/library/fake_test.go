package library

import (
	"context"
	"testing"
	"time"

	"github.com/five82/shelf/internal/catalog"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 2 * time.Second

// pendingCall is a remote call held open until the test replies to it.
type pendingCall struct {
	op    string
	id    int
	by    string
	input catalog.NewBook
	reply chan reply
}

type reply struct {
	books []catalog.Book
	book  catalog.Book
	err   error
}

func (c *pendingCall) respond(r reply) { c.reply <- r }

// gatedService hands every call to the test and blocks until answered.
type gatedService struct {
	calls chan *pendingCall
}

func newGatedService() *gatedService {
	return &gatedService{calls: make(chan *pendingCall, 16)}
}

func (s *gatedService) issue(ctx context.Context, c *pendingCall) (reply, error) {
	c.reply = make(chan reply, 1)
	s.calls <- c
	select {
	case r := <-c.reply:
		return r, r.err
	case <-ctx.Done():
		return reply{}, ctx.Err()
	}
}

func (s *gatedService) FetchBooks(ctx context.Context) ([]catalog.Book, error) {
	r, err := s.issue(ctx, &pendingCall{op: "fetch"})
	return r.books, err
}

func (s *gatedService) AddBook(ctx context.Context, b catalog.NewBook) (catalog.Book, error) {
	r, err := s.issue(ctx, &pendingCall{op: "add", input: b})
	return r.book, err
}

func (s *gatedService) Checkout(ctx context.Context, id int, by string) (catalog.Book, error) {
	r, err := s.issue(ctx, &pendingCall{op: "checkout", id: id, by: by})
	return r.book, err
}

func (s *gatedService) DeleteBook(ctx context.Context, id int) error {
	_, err := s.issue(ctx, &pendingCall{op: "delete", id: id})
	return err
}

func (s *gatedService) DeleteAll(ctx context.Context) error {
	_, err := s.issue(ctx, &pendingCall{op: "delete_all"})
	return err
}

// next returns the next remote call, failing the test if none arrives.
func (s *gatedService) next(t *testing.T, op string) *pendingCall {
	t.Helper()
	select {
	case c := <-s.calls:
		require.Equal(t, op, c.op)
		return c
	case <-time.After(waitTimeout):
		t.Fatalf("no %s call reached the service", op)
		return nil
	}
}

// idle asserts that no remote call is made for a short while.
func (s *gatedService) idle(t *testing.T) {
	t.Helper()
	select {
	case c := <-s.calls:
		t.Fatalf("unexpected %s call reached the service", c.op)
	case <-time.After(50 * time.Millisecond):
	}
}

type harness struct {
	mgr     *Manager
	svc     *gatedService
	changes chan Change
	cancel  context.CancelFunc
}

func newHarness(t *testing.T, seed ...catalog.Book) *harness {
	t.Helper()
	svc := newGatedService()
	mgr := New(svc, WithBooks(seed))
	h := &harness{mgr: mgr, svc: svc, changes: make(chan Change, 32)}
	mgr.OnChange(func(c Change) { h.changes <- c })

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	mgr.Start(ctx)
	t.Cleanup(func() {
		cancel()
		<-mgr.Done()
	})
	return h
}

func (h *harness) change(t *testing.T) Change {
	t.Helper()
	return recv(t, h.changes)
}

func (h *harness) noChange(t *testing.T) {
	t.Helper()
	select {
	case c := <-h.changes:
		t.Fatalf("unexpected change %+v", c)
	case <-time.After(50 * time.Millisecond):
	}
}

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for callback")
	}
	var zero T
	return zero
}

func ids(books []catalog.Book) []int {
	out := make([]int, 0, len(books))
	for _, b := range books {
		out = append(out, b.ID)
	}
	return out
}

func book(id int, title string) catalog.Book {
	return catalog.Book{ID: id, Title: title, Author: "Author " + title, Publisher: "Pub", Categories: "tag"}
}
