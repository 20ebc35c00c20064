// Package wire provides the request and response shapes exchanged with the
// cooking-sim remote authority.
//
// This package contains type definitions only. Both the api client and the
// session store import wire; wire imports nothing internal.
//
// Key design constraints:
//   - JSON tags match the authority's contract byte-for-byte (snake_case)
//   - Optional payloads are pointers so "absent" and "zero" stay distinct
//   - Values are treated as immutable once decoded; the client replaces whole
//     snapshots and never edits fields in place
package wire
