package library

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/five82/shelf/internal/catalog"
)

// Manager owns the session's catalog. Every mutation runs on the goroutine
// started by Start; the public methods only enqueue and never block, so they
// can be called from inside subscriber and completion callbacks.
type Manager struct {
	async  *catalog.Async
	logger *slog.Logger
	queue  *queue
	store  store

	fetching atomic.Bool
	started  atomic.Bool
	stopped  chan struct{}

	subMu      sync.RWMutex
	subscriber func(Change)

	// Owned by the loop goroutine.
	books []catalog.Book
}

// Option customises a Manager.
type Option func(*Manager)

// WithLogger sets the logger for operation failures.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithBooks seeds the catalog before the first fetch.
func WithBooks(books []catalog.Book) Option {
	return func(m *Manager) {
		m.books = cloneBooks(books)
	}
}

// New builds a Manager over svc. Nothing runs until Start.
func New(svc catalog.Service, opts ...Option) *Manager {
	m := &Manager{
		async:   catalog.NewAsync(svc),
		logger:  slog.New(slog.DiscardHandler),
		queue:   newQueue(),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "library")
	m.store.snapshot.Books = cloneBooks(m.books)
	return m
}

// Start runs the manager loop until ctx is cancelled. Remote calls share ctx.
// Operations still queued when it stops, and any issued afterwards, are
// aborted with ErrStopped and complete as failures. Only the first call has
// an effect.
func (m *Manager) Start(ctx context.Context) {
	if !m.started.CompareAndSwap(false, true) {
		return
	}
	go m.loop(ctx)
}

// Done is closed once the loop has stopped.
func (m *Manager) Done() <-chan struct{} {
	return m.stopped
}

// Err returns ErrStopped once the loop has stopped, nil before.
func (m *Manager) Err() error {
	select {
	case <-m.stopped:
		return ErrStopped
	default:
		return nil
	}
}

func (m *Manager) loop(ctx context.Context) {
	defer close(m.stopped)
	for {
		select {
		case <-ctx.Done():
			for _, c := range m.queue.close() {
				c.abort(ErrStopped)
			}
			m.logger.Debug("manager stopped")
			return
		case <-m.queue.wake:
			for _, c := range m.queue.drain() {
				c.run(ctx)
			}
		}
	}
}

func (m *Manager) enqueue(c command) {
	if !m.queue.push(c) {
		c.abort(ErrStopped)
	}
}

// OnChange installs the single subscriber, replacing any previous one. It is
// called on the loop goroutine after the snapshot is published and before the
// operation's completion runs.
func (m *Manager) OnChange(fn func(Change)) {
	m.subMu.Lock()
	m.subscriber = fn
	m.subMu.Unlock()
}

// Books returns a copy of the published catalog.
func (m *Manager) Books() []catalog.Book {
	return m.store.read().Books
}

// Snapshot returns a copy of the published state.
func (m *Manager) Snapshot() Snapshot {
	snap := m.store.read()
	snap.Loading = m.fetching.Load()
	return snap
}

// emit publishes the current catalog and tells the subscriber.
func (m *Manager) emit(ch Change) {
	m.store.publish(m.books, ch)

	m.subMu.RLock()
	fn := m.subscriber
	m.subMu.RUnlock()
	if fn != nil {
		fn(ch)
	}
}

// FetchBooks loads the catalog from the API. With refresh the catalog is
// replaced, otherwise fetched books are appended. While a fetch is in flight
// further calls return false at once and their done is never called. done may
// be nil.
func (m *Manager) FetchBooks(refresh bool, done func(ok bool)) bool {
	if !m.fetching.CompareAndSwap(false, true) {
		m.logger.Debug("fetch already in flight", "op", OpFetch.String())
		return false
	}
	finish := func(ok bool) {
		if done != nil {
			done(ok)
		}
	}
	abort := func(error) {
		m.fetching.Store(false)
		finish(false)
	}

	m.enqueue(command{
		run: func(ctx context.Context) {
			m.async.FetchBooks(ctx, func(res catalog.Result[[]catalog.Book]) {
				m.enqueue(command{
					run:   func(context.Context) { m.resolveFetch(refresh, res, finish) },
					abort: abort,
				})
			})
		},
		abort: abort,
	})
	return true
}

func (m *Manager) resolveFetch(refresh bool, res catalog.Result[[]catalog.Book], done func(bool)) {
	m.fetching.Store(false)

	books, err := res.Get()
	if err != nil {
		m.logger.Warn("fetch failed", "op", OpFetch.String(), "error", err)
		m.emit(Change{Op: OpFetch, Err: err})
		done(false)
		return
	}

	if refresh {
		m.books = cloneBooks(books)
	} else {
		for _, b := range books {
			if indexOf(m.books, b.ID) >= 0 {
				m.logger.Debug("fetched book already in catalog", "op", OpFetch.String(), "book_id", b.ID)
				continue
			}
			m.books = append(m.books, b.Clone())
		}
	}
	m.logger.Debug("fetch resolved", "op", OpFetch.String(), "refresh", refresh, "books", len(m.books))
	m.emit(Change{Op: OpFetch, OK: true})
	done(true)
}

// AddBook creates a book and appends the server's record once it confirms.
// done receives that record, or nil on failure.
func (m *Manager) AddBook(book catalog.NewBook, done func(*catalog.Book)) {
	finish := bookCompletion(done)
	m.enqueue(command{
		run: func(ctx context.Context) {
			m.async.AddBook(ctx, book, func(res catalog.Result[catalog.Book]) {
				m.enqueue(command{
					run:   func(context.Context) { m.resolveAdd(res, finish) },
					abort: func(error) { finish(nil) },
				})
			})
		},
		abort: func(error) { finish(nil) },
	})
}

func (m *Manager) resolveAdd(res catalog.Result[catalog.Book], done func(*catalog.Book)) {
	created, err := res.Get()
	if err != nil {
		m.logger.Warn("add failed", "op", OpAdd.String(), "error", err)
		m.emit(Change{Op: OpAdd, Err: err})
		done(nil)
		return
	}
	m.books = append(m.books, created.Clone())
	m.logger.Info("book added", "op", OpAdd.String(), "book_id", created.ID)
	m.emit(Change{Op: OpAdd, OK: true, BookID: created.ID})
	done(&created)
}

// Checkout checks book out to by. On success only the checkout of the entry
// with the server record's id changes. done receives the server record, or
// nil on failure.
func (m *Manager) Checkout(book catalog.Book, by string, done func(*catalog.Book)) {
	finish := bookCompletion(done)
	m.enqueue(command{
		run: func(ctx context.Context) {
			m.async.Checkout(ctx, book.ID, by, func(res catalog.Result[catalog.Book]) {
				m.enqueue(command{
					run:   func(context.Context) { m.resolveCheckout(book.ID, res, finish) },
					abort: func(error) { finish(nil) },
				})
			})
		},
		abort: func(error) { finish(nil) },
	})
}

func (m *Manager) resolveCheckout(id int, res catalog.Result[catalog.Book], done func(*catalog.Book)) {
	updated, err := res.Get()
	if err != nil {
		m.logger.Warn("checkout failed", "op", OpCheckout.String(), "book_id", id, "error", err)
		m.emit(Change{Op: OpCheckout, BookID: id, Err: err})
		done(nil)
		return
	}
	if idx := indexOf(m.books, updated.ID); idx >= 0 {
		m.books[idx].LastCheckout = updated.Clone().LastCheckout
	} else {
		m.logger.Warn("checked out book no longer in catalog", "op", OpCheckout.String(), "book_id", updated.ID)
	}
	m.emit(Change{Op: OpCheckout, OK: true, BookID: updated.ID})
	done(&updated)
}

// Delete removes book from the catalog at once, then deletes it remotely. If
// the remote delete fails the entry goes back to its original index. done
// receives the remote outcome. Deleting a book the catalog does not hold fails
// with ErrNotInCatalog and makes no remote call.
func (m *Manager) Delete(book catalog.Book, done func(ok bool)) {
	finish := boolCompletion(done)
	m.enqueue(command{
		run: func(ctx context.Context) {
			next, rm, err := beginRemoval(m.books, book.ID)
			if err != nil {
				m.logger.Error("delete of book not in catalog", "op", OpDelete.String(), "book_id", book.ID, "error", err)
				m.emit(Change{Op: OpDelete, BookID: book.ID, Err: err})
				finish(false)
				return
			}
			m.books = next
			m.emit(Change{Op: OpDelete, OK: true, BookID: book.ID})

			m.async.DeleteBook(ctx, book.ID, func(err error) {
				m.enqueue(command{
					run:   func(context.Context) { m.resolveDelete(rm, err, finish) },
					abort: func(error) { finish(false) },
				})
			})
		},
		abort: func(error) { finish(false) },
	})
}

func (m *Manager) resolveDelete(rm *removal, remoteErr error, done func(bool)) {
	id := rm.book.ID
	if remoteErr == nil {
		if err := rm.commit(); err != nil {
			m.logger.Error("commit removal", "op", OpDelete.String(), "book_id", id, "error", err)
		}
		m.logger.Info("book deleted", "op", OpDelete.String(), "book_id", id)
		done(true)
		return
	}

	next, err := rm.rollback(m.books)
	if err != nil {
		m.logger.Error("roll back removal", "op", OpDelete.String(), "book_id", id, "error", err)
	}
	m.books = next
	m.logger.Warn("delete failed, entry restored", "op", OpDelete.String(), "book_id", id, "index", rm.index, "error", remoteErr)
	m.emit(Change{Op: OpDelete, BookID: id, Err: remoteErr})
	done(false)
}

// DeleteAll deletes every book remotely and clears the catalog once the API
// confirms.
func (m *Manager) DeleteAll(done func(ok bool)) {
	finish := boolCompletion(done)
	m.enqueue(command{
		run: func(ctx context.Context) {
			m.async.DeleteAll(ctx, func(err error) {
				m.enqueue(command{
					run:   func(context.Context) { m.resolveDeleteAll(err, finish) },
					abort: func(error) { finish(false) },
				})
			})
		},
		abort: func(error) { finish(false) },
	})
}

func (m *Manager) resolveDeleteAll(err error, done func(bool)) {
	if err != nil {
		m.logger.Warn("delete all failed", "op", OpDeleteAll.String(), "error", err)
		m.emit(Change{Op: OpDeleteAll, Err: err})
		done(false)
		return
	}
	m.books = nil
	m.logger.Info("catalog cleared", "op", OpDeleteAll.String())
	m.emit(Change{Op: OpDeleteAll, OK: true})
	done(true)
}

func bookCompletion(done func(*catalog.Book)) func(*catalog.Book) {
	return func(b *catalog.Book) {
		if done != nil {
			done(b)
		}
	}
}

func boolCompletion(done func(bool)) func(bool) {
	return func(ok bool) {
		if done != nil {
			done(ok)
		}
	}
}
