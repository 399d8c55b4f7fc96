package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/library"
)

// Messages

type changeMsg library.Change

// opDoneMsg carries the completion of an operation the UI started.
type opDoneMsg struct {
	op   library.Op
	ok   bool
	book *catalog.Book
}

// refreshSkippedMsg reports a refresh dropped while another fetch runs.
type refreshSkippedMsg struct{}

type submitAddMsg struct {
	book catalog.NewBook
}

type submitCheckoutMsg struct {
	book catalog.Book
	by   string
}

type confirmDeleteAllMsg struct{}

// Commands
//
// Each command blocks its goroutine until the manager calls the completion,
// which it does exactly once, also when the manager has stopped.

func waitForChange(ctx context.Context, changes <-chan library.Change) tea.Cmd {
	return func() tea.Msg {
		select {
		case c := <-changes:
			return changeMsg(c)
		case <-ctx.Done():
			return nil
		}
	}
}

func fetchCmd(lib Library, refresh bool) tea.Cmd {
	return func() tea.Msg {
		done := make(chan bool, 1)
		if !lib.FetchBooks(refresh, func(ok bool) { done <- ok }) {
			return refreshSkippedMsg{}
		}
		return opDoneMsg{op: library.OpFetch, ok: <-done}
	}
}

func addCmd(lib Library, book catalog.NewBook) tea.Cmd {
	return func() tea.Msg {
		done := make(chan *catalog.Book, 1)
		lib.AddBook(book, func(b *catalog.Book) { done <- b })
		created := <-done
		return opDoneMsg{op: library.OpAdd, ok: created != nil, book: created}
	}
}

func checkoutCmd(lib Library, book catalog.Book, by string) tea.Cmd {
	return func() tea.Msg {
		done := make(chan *catalog.Book, 1)
		lib.Checkout(book, by, func(b *catalog.Book) { done <- b })
		updated := <-done
		return opDoneMsg{op: library.OpCheckout, ok: updated != nil, book: updated}
	}
}

func deleteCmd(lib Library, book catalog.Book) tea.Cmd {
	return func() tea.Msg {
		done := make(chan bool, 1)
		lib.Delete(book, func(ok bool) { done <- ok })
		return opDoneMsg{op: library.OpDelete, ok: <-done}
	}
}

func deleteAllCmd(lib Library) tea.Cmd {
	return func() tea.Msg {
		done := make(chan bool, 1)
		lib.DeleteAll(func(ok bool) { done <- ok })
		return opDoneMsg{op: library.OpDeleteAll, ok: <-done}
	}
}
