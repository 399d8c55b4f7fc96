// Package library keeps the session's catalog of books in step with the
// lending API.
//
// # Overview
//
// Manager owns the authoritative in-memory catalog. The presentation layer
// calls its five operations and renders whatever Snapshot it publishes; it
// never edits the catalog itself.
//
// # Mutation Strategies
//
//	FetchBooks   refresh replaces, otherwise appends; guarded (one in flight)
//	AddBook      commit after confirm (the id comes from the server)
//	Checkout     commit after confirm; only the entry's checkout changes
//	Delete       optimistic: removed first, restored on remote failure
//	DeleteAll    commit after confirm
//
// A delete is tracked as a removal that holds the entry and the index it had.
// It moves from pending to committed on success or to rolled back on failure,
// and a rollback puts the entry back at that index (clamped to the current
// length).
//
// # Concurrency Model
//
// One goroutine, started by Start, applies every mutation:
//
//	caller ──enqueue──▶ queue ──▶ loop ──▶ catalog.Async ──▶ HTTP
//	                      ▲                         │
//	                      └──── result command ◀────┘
//
// The queue is unbounded, so enqueueing never blocks and callbacks may call
// back into the Manager. Readers get a cloned Snapshot guarded by an RWMutex
// and never wait on the loop.
//
// The fetch guard is an atomic flag claimed by the caller. A FetchBooks issued
// while another is in flight returns false and its completion is never called.
// The flag is cleared when the fetch resolves, success or failure, before the
// subscriber and completion run.
//
// # Notifications
//
// Two independent channels report outcomes:
//
//   - the subscriber set with OnChange receives a Change for every path that
//     alters or fails to alter the catalog (a delete notifies once on removal
//     and again only if it rolls back)
//   - the per-call completion always fires exactly once
//
// Within one resolution the order is: reconcile catalog, publish snapshot,
// notify subscriber, run completion. Both run on the loop goroutine and should
// return quickly.
//
// # Shutdown
//
// Cancelling the context passed to Start stops the loop. Queued operations,
// results that arrive later, and operations issued afterwards all complete as
// failures (false or nil). Those completions run on whichever goroutine
// observed the stop and the subscriber is not notified.
package library
