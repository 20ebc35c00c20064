// Package journal is an append-only SQLite log of session store actions.
//
// Each process run gets a row in runs (UUIDv7 id). Every action that reaches
// the authority writes an invocation when it is issued and a completion when
// its outcome is known. Both carry a seq from a per-run logical clock, so a
// run's timeline is ordered by seq alone and two concurrent actions show up
// interleaved exactly as they happened.
//
// The journal is for debugging and the trace command. Sessions are never
// restored from it.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000ms
//   - foreign_keys=ON
//   - one open connection (SQLite has a single writer)
package journal
