package library

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/shelf/internal/catalog"
)

// Snapshot is the published state of the catalog as of the last resolution.
type Snapshot struct {
	Books       []catalog.Book
	Version     uint64 // bumped on every publish
	UpdatedAt   time.Time
	LastChange  Change
	LastError   error // most recent failure, cleared by the next success
	Loading     bool  // a fetch is in flight
	HasFetched  bool  // at least one fetch succeeded
	FailedFetch int   // consecutive failed fetches
}

// IsOffline reports whether the API has been unreachable for repeated fetches.
func (s Snapshot) IsOffline() bool {
	return s.FailedFetch >= 2
}

// Find returns the book with the given id.
func (s Snapshot) Find(id int) (catalog.Book, bool) {
	if idx := indexOf(s.Books, id); idx >= 0 {
		return s.Books[idx], true
	}
	return catalog.Book{}, false
}

// store holds the published snapshot. The manager loop is the only writer.
type store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// publish replaces the stored books and records ch. A failed change keeps the
// books as given, which for every failure path is the unchanged catalog.
func (s *store) publish(books []catalog.Book, ch Change) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Books = cloneBooks(books)
	s.snapshot.Version++
	s.snapshot.UpdatedAt = time.Now()
	s.snapshot.LastChange = ch
	if ch.OK {
		s.snapshot.LastError = nil
	} else {
		s.snapshot.LastError = ch.Err
	}
	if ch.Op == OpFetch {
		if ch.OK {
			s.snapshot.HasFetched = true
			s.snapshot.FailedFetch = 0
		} else {
			s.snapshot.FailedFetch++
		}
	}
}

func (s *store) read() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Books = cloneBooks(s.snapshot.Books)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneBooks(books []catalog.Book) []catalog.Book {
	if len(books) == 0 {
		return nil
	}
	dup := make([]catalog.Book, len(books))
	for i, b := range books {
		dup[i] = b.Clone()
	}
	return dup
}
