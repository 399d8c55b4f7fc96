// Package logtail reads the tail of shelf's own log file for the activity view.
//
// # Overview
//
// The TUI owns the terminal, so shelf logs to a file. The activity view shows
// the newest records from that file; this package fetches and parses them.
//
// # Reading
//
// Read keeps a ring buffer of the last maxLines lines while scanning, so memory
// stays bounded by the request rather than the file size:
//
//	lines, err := logtail.Read(cfg.LogFile, 200)
//
// A non-positive maxLines returns the whole file. A file that does not exist
// yet (nothing logged) reads as empty. Lines up to 1MB are supported.
//
// # Parsing
//
// Records are in log/slog's text format:
//
//	time=2026-10-14T09:30:00.000Z level=WARN msg="fetch failed" component=library op=fetch error="..."
//
// Parse extracts time, level and msg and keeps the remaining pairs as Attrs in
// order. Quoted values are unquoted. Anything that does not parse as a record
// (a panic trace, a truncated write) is kept whole as the Message with an
// empty Level so the view can still show it.
package logtail
