package testutil

// DefaultRunID is used when a scenario does not name its run.
const DefaultRunID = "test-run-default"

// FixedRunID satisfies journal.RunIDGenerator with a constant id, so golden
// traces do not depend on UUIDv7 timestamps.
type FixedRunID string

// NewRunID returns the fixed id, or DefaultRunID when empty.
func (id FixedRunID) NewRunID() string {
	if id == "" {
		return DefaultRunID
	}
	return string(id)
}
