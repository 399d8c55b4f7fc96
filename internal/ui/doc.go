// Package ui provides the shelf terminal interface, built on Bubble Tea.
//
// # Architecture Overview
//
// Model drives a Library (implemented by *library.Manager). It never mutates
// books itself: every key that changes the catalog issues a manager
// operation from a tea.Cmd that blocks until the operation's completion, and
// every catalog change is re-read from the manager's published snapshot.
//
//	┌───────────────┐  FetchBooks/AddBook/...   ┌──────────────────┐
//	│  Model        │ ────────────────────────> │ library.Manager  │
//	│  (Update)     │ <── opDoneMsg ─────────── │  completion      │
//	│               │ <── changeMsg ─────────── │  OnChange        │
//	└───────────────┘      Snapshot()           └──────────────────┘
//
// The OnChange subscriber only forwards into a buffered channel; the
// waitForChange command turns each notification into a changeMsg. A full
// buffer drops the notification, which loses nothing because the handler
// reads the whole snapshot.
//
// # Package Structure
//
//   - app.go: Model, key handling, snapshot application and Run
//   - commands.go: tea messages and the commands wrapping manager operations
//   - library_view.go: book list, titled boxes and pane layout
//   - detail.go: detail pane for the selected book
//   - forms.go: add form, checkout prompt and confirmation dialog
//   - header.go: header, command bar and alert footer
//   - logs.go: activity log view over the log file (package logtail)
//   - help.go, keys.go: help overlay and key bindings
//   - theme.go, style_helpers.go: themes and background-safe rendering
//
// # Views
//
//   - Library (default): list plus detail pane; v hides the pane
//   - Logs (l): the last lines of shelf's own log file, reread every two
//     seconds while open
//
// # Selection
//
// The selection follows the highlighted book's ID through refreshes, adds
// and deletes. When that book leaves the catalog the row index is clamped,
// so the next book is selected.
//
// # Alerts
//
// Failures of user-started operations show as a danger-colored footer line
// and clear on the next key press. A failed delete also shows the restored
// book back in its original place, since the manager rolls the removal
// back before completing.
//
// # Preferences
//
// The theme (T) and the detail pane toggle (v) are saved to prefs.toml on
// every change.
package ui
