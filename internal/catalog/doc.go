// Package catalog provides the domain record and HTTP client for the
// book-lending API.
//
// # Overview
//
// The package is a pure translation layer: one method per domain operation,
// no local state. It turns operations into requests against a fixed base URL,
// decodes JSON responses into Book records, and reports success or failure
// for every call.
//
// # Architecture
//
//   - book.go: Book, Checkout and NewBook plus the wire codec
//   - timestamp.go: the lastCheckedOut timestamp layout
//   - client.go: blocking, context-aware HTTP client (implements Service)
//   - async.go: continuation-style adapter over any Service
//   - result.go: Result, the success-or-failure outcome of a call
//
// # API Endpoints
//
//   - GET /books: list books (2xx, JSON array)
//   - POST /books: create a book from {author,title,categories,publisher} (2xx)
//   - PUT /books/{id}: check out, body {lastCheckedOutBy} (2xx)
//   - DELETE /books/{id}: delete one (200-204)
//   - DELETE /clean: delete all (200-204)
//
// # Wire Contract
//
// Required fields (id, title, author, publisher, categories) must all be
// present and correctly typed or the record is rejected. The optional checkout
// pair (lastCheckedOut, lastCheckedOutBy) is lenient: anything absent,
// malformed or mistyped decodes as "available". A Book is either available or
// checked out; Checkout holds both halves so the state can never be partial.
//
// Timestamps use "2006-01-02 15:04:05 MST". Encoding always writes UTC so a
// parse/format round trip preserves the instant to the second.
//
// # Error Handling
//
// Failures are returned, never thrown:
//
//   - "execute request: dial tcp: connection refused"
//   - "api GET /books returned status 503" (errors.Is ErrUnexpectedStatus)
//   - "decode response: decode book: missing required field: title"
//
// There are no retries and no timeout beyond the transport defaults. Each
// request carries an X-Request-ID header that is also attached to the debug
// log line for the call.
//
// # Async
//
// Async runs each call on its own goroutine and invokes the continuation
// exactly once with exactly one outcome. A panic inside the wrapped Service is
// recovered and delivered as a failure.
package catalog
