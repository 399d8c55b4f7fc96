package library

import (
	"fmt"
	"slices"

	"github.com/five82/shelf/internal/catalog"
)

type removalState int

const (
	removalPending removalState = iota
	removalCommitted
	removalRolledBack
)

func (s removalState) String() string {
	switch s {
	case removalPending:
		return "pending"
	case removalCommitted:
		return "committed"
	case removalRolledBack:
		return "rolled back"
	default:
		return "unknown"
	}
}

// removal is an optimistic delete in flight. It keeps the removed entry and
// the index it held so a rollback can put it back exactly where it was.
type removal struct {
	book  catalog.Book
	index int
	state removalState
}

// beginRemoval takes the entry with the given id out of books.
func beginRemoval(books []catalog.Book, id int) ([]catalog.Book, *removal, error) {
	idx := indexOf(books, id)
	if idx < 0 {
		return books, nil, fmt.Errorf("delete book %d: %w", id, ErrNotInCatalog)
	}
	r := &removal{book: books[idx].Clone(), index: idx, state: removalPending}
	return slices.Delete(books, idx, idx+1), r, nil
}

// commit makes the removal final.
func (r *removal) commit() error {
	if r.state != removalPending {
		return fmt.Errorf("commit removal of book %d: already %s", r.book.ID, r.state)
	}
	r.state = removalCommitted
	return nil
}

// rollback reinserts the entry at its original index, clamped to the current
// length. An entry with the same id that reappeared meanwhile (a refresh landed
// during the delete) is left as is.
func (r *removal) rollback(books []catalog.Book) ([]catalog.Book, error) {
	if r.state != removalPending {
		return books, fmt.Errorf("roll back removal of book %d: already %s", r.book.ID, r.state)
	}
	r.state = removalRolledBack
	if indexOf(books, r.book.ID) >= 0 {
		return books, nil
	}
	idx := min(r.index, len(books))
	return slices.Insert(books, idx, r.book.Clone()), nil
}

func indexOf(books []catalog.Book, id int) int {
	return slices.IndexFunc(books, func(b catalog.Book) bool { return b.ID == id })
}
