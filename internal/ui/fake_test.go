package ui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/library"
	"github.com/five82/shelf/internal/prefs"
)

// fakeLibrary completes every operation synchronously.
type fakeLibrary struct {
	snap       library.Snapshot
	subscriber func(library.Change)

	fetchBusy bool
	fetchOK   bool
	fetches   int
	added     []catalog.NewBook
	addOK     bool
	checkouts []string
	deleted   []int
	deleteOK  bool
	cleared   int
}

func (f *fakeLibrary) FetchBooks(refresh bool, done func(ok bool)) bool {
	if f.fetchBusy {
		return false
	}
	f.fetches++
	done(f.fetchOK)
	return true
}

func (f *fakeLibrary) AddBook(book catalog.NewBook, done func(*catalog.Book)) {
	f.added = append(f.added, book)
	if !f.addOK {
		done(nil)
		return
	}
	created := catalog.Book{ID: 100 + len(f.added), Title: book.Title, Author: book.Author, Publisher: book.Publisher, Categories: book.Categories}
	f.snap.Books = append(f.snap.Books, created)
	done(&created)
}

func (f *fakeLibrary) Checkout(book catalog.Book, by string, done func(*catalog.Book)) {
	f.checkouts = append(f.checkouts, by)
	book.LastCheckout = &catalog.Checkout{By: by, At: time.Now()}
	done(&book)
}

func (f *fakeLibrary) Delete(book catalog.Book, done func(ok bool)) {
	f.deleted = append(f.deleted, book.ID)
	done(f.deleteOK)
}

func (f *fakeLibrary) DeleteAll(done func(ok bool)) {
	f.cleared++
	f.snap.Books = nil
	done(true)
}

func (f *fakeLibrary) Snapshot() library.Snapshot { return f.snap }

func (f *fakeLibrary) OnChange(fn func(library.Change)) { f.subscriber = fn }

func newTestModel(t *testing.T, books ...catalog.Book) (Model, *fakeLibrary) {
	t.Helper()
	lib := &fakeLibrary{snap: library.Snapshot{Books: books, HasFetched: true}, fetchOK: true, addOK: true, deleteOK: true}
	m := New(Options{
		Library:   lib,
		Prefs:     prefs.Default(),
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		LogPath:   filepath.Join(t.TempDir(), "shelf.log"),
	})
	return m, lib
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and returns the updated model and command.
func press(t *testing.T, m Model, s string) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(keyPress(s))
	return next.(Model), cmd
}

// deliver runs cmd and feeds its message back into the model.
func deliver(t *testing.T, m Model, cmd tea.Cmd) (Model, tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	next, follow := m.Update(cmd())
	return next.(Model), follow
}

func book(id int, title string) catalog.Book {
	return catalog.Book{ID: id, Title: title, Author: "author", Publisher: "publisher", Categories: "tags"}
}
