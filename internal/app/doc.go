// Package app is the composition root for shelf.
//
// # Overview
//
// A Session wires configuration, the log file, the catalog API client and a
// started library.Manager. Run builds a Session, starts the background
// refresher and hands the manager to the TUI. The CLI subcommands use the
// Session's blocking helpers (Refresh, Add, CheckoutByID, DeleteByID,
// DeleteAll) instead.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> Open()            config.Validate, log file, catalog.NewClient,
//	       │                         library.New + Start
//	       ├─────> prefs.Load()      Theme and detail pane preference
//	       ├─────> StartRefresher()  Periodic FetchBooks(refresh=true)
//	       └─────> ui.Run()          Start TUI (blocks)
//
// # Logging
//
// Every component logs through one slog text handler appending to the
// configured log file, tagged with a component attribute. The TUI's log view
// reads the same file back through package logtail.
//
// # Refreshing
//
// The refresher never queues fetches. A tick that lands while a fetch is in
// flight is dropped by the manager's fetch guard and logged at debug level.
// RefreshSeconds of zero disables it.
//
// # Blocking Helpers
//
// Each helper issues one manager operation and waits for its completion. A
// failed operation returns the error recorded in the snapshot, or
// library.ErrStopped once the session is closed. Checkout and delete look
// the book up in the current snapshot, so callers fetch first.
package app
