package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/library"
)

// errFailed is reported when an operation fails without a recorded cause.
var errFailed = errors.New("operation failed")

const idlePoll = 20 * time.Millisecond

// Session is a running client: logger, API client and a started manager.
type Session struct {
	cfg     config.Config
	logger  *slog.Logger
	logFile io.Closer
	client  *catalog.Client
	mgr     *library.Manager
	cancel  context.CancelFunc

	closeOnce sync.Once
	closeErr  error
}

// Open validates cfg, opens the log file and starts the manager. The manager
// stops when ctx is cancelled or Close is called.
func Open(ctx context.Context, cfg config.Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger, logFile, err := openLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	client, err := catalog.NewClient(cfg.APIURL, catalog.WithLogger(logger.With("component", "catalog")))
	if err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("init catalog client: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	mgr := library.New(client, library.WithLogger(logger))
	mgr.Start(runCtx)
	logger.Info("session started", "component", "app", "api_url", client.BaseURL())

	return &Session{
		cfg:     cfg,
		logger:  logger,
		logFile: logFile,
		client:  client,
		mgr:     mgr,
		cancel:  cancel,
	}, nil
}

// Close stops the manager and closes the log file. Later calls return the
// first call's result.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.mgr.Done()
		s.logger.Info("session closed", "component", "app")
		s.closeErr = s.logFile.Close()
	})
	return s.closeErr
}

// Manager returns the session's catalog manager.
func (s *Session) Manager() *library.Manager { return s.mgr }

// Config returns the configuration the session runs with.
func (s *Session) Config() config.Config { return s.cfg }

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger { return s.logger }

// Refresh replaces the catalog with the API's and waits for the outcome. A
// fetch already in flight is waited out and then retried once.
func (s *Session) Refresh(ctx context.Context) error {
	for attempt := 0; attempt < 2; attempt++ {
		done := make(chan bool, 1)
		if s.mgr.FetchBooks(true, func(ok bool) { done <- ok }) {
			ok, err := wait(ctx, done)
			if err != nil {
				return err
			}
			return s.outcome(ok, "fetch books")
		}
		if err := s.waitIdle(ctx); err != nil {
			return err
		}
	}
	return fmt.Errorf("fetch books: another fetch is in flight")
}

// Add creates a book and returns the server's record.
func (s *Session) Add(ctx context.Context, book catalog.NewBook) (catalog.Book, error) {
	done := make(chan *catalog.Book, 1)
	s.mgr.AddBook(book, func(b *catalog.Book) { done <- b })
	created, err := wait(ctx, done)
	if err != nil {
		return catalog.Book{}, err
	}
	if created == nil {
		return catalog.Book{}, s.outcome(false, "add book")
	}
	return *created, nil
}

// CheckoutByID checks out a book already in the catalog.
func (s *Session) CheckoutByID(ctx context.Context, id int, by string) (catalog.Book, error) {
	book, ok := s.mgr.Snapshot().Find(id)
	if !ok {
		return catalog.Book{}, fmt.Errorf("checkout book %d: %w", id, library.ErrNotInCatalog)
	}
	done := make(chan *catalog.Book, 1)
	s.mgr.Checkout(book, by, func(b *catalog.Book) { done <- b })
	updated, err := wait(ctx, done)
	if err != nil {
		return catalog.Book{}, err
	}
	if updated == nil {
		return catalog.Book{}, s.outcome(false, fmt.Sprintf("checkout book %d", id))
	}
	return *updated, nil
}

// DeleteByID deletes a book already in the catalog.
func (s *Session) DeleteByID(ctx context.Context, id int) error {
	book, ok := s.mgr.Snapshot().Find(id)
	if !ok {
		return fmt.Errorf("delete book %d: %w", id, library.ErrNotInCatalog)
	}
	done := make(chan bool, 1)
	s.mgr.Delete(book, func(ok bool) { done <- ok })
	ok, err := wait(ctx, done)
	if err != nil {
		return err
	}
	return s.outcome(ok, fmt.Sprintf("delete book %d", id))
}

// DeleteAll deletes every book.
func (s *Session) DeleteAll(ctx context.Context) error {
	done := make(chan bool, 1)
	s.mgr.DeleteAll(func(ok bool) { done <- ok })
	ok, err := wait(ctx, done)
	if err != nil {
		return err
	}
	return s.outcome(ok, "delete all books")
}

func (s *Session) outcome(ok bool, what string) error {
	if ok {
		return nil
	}
	if err := s.mgr.Err(); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if err := s.mgr.Snapshot().LastError; err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return fmt.Errorf("%s: %w", what, errFailed)
}

// waitIdle polls until no fetch is in flight.
func (s *Session) waitIdle(ctx context.Context) error {
	for s.mgr.Snapshot().Loading {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.mgr.Done():
			return library.ErrStopped
		case <-time.After(idlePoll):
		}
	}
	return nil
}

func wait[T any](ctx context.Context, ch chan T) (T, error) {
	select {
	case v := <-ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
