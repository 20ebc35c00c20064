package journal

import (
	"context"

	"github.com/dechi99991/cooking-sim/internal/session"
)

// Recorder writes a session.Store's actions into one run of the journal.
type Recorder struct {
	store *Store
	runID string
	clock Clock
}

var _ session.Recorder = (*Recorder)(nil)

// NewRecorder returns a Recorder for runID. The run must have been begun.
// A nil clock selects a fresh LogicalClock.
func NewRecorder(store *Store, runID string, clock Clock) *Recorder {
	if clock == nil {
		clock = NewLogicalClock()
	}
	return &Recorder{store: store, runID: runID, clock: clock}
}

// RunID returns the run this recorder writes to.
func (r *Recorder) RunID() string { return r.runID }

// RecordInvocation implements session.Recorder.
func (r *Recorder) RecordInvocation(ctx context.Context, inv session.Invocation) (int64, error) {
	seq := r.clock.Next()
	err := r.store.WriteInvocation(ctx, InvocationRecord{
		RunID:     r.runID,
		Seq:       seq,
		Action:    inv.Action,
		Args:      inv.Args,
		SessionID: inv.SessionID,
	})
	return seq, err
}

// RecordCompletion implements session.Recorder.
func (r *Recorder) RecordCompletion(ctx context.Context, invocationSeq int64, comp session.Completion) error {
	return r.store.WriteCompletion(ctx, CompletionRecord{
		RunID:         r.runID,
		Seq:           r.clock.Next(),
		InvocationSeq: invocationSeq,
		Outcome:       string(comp.Outcome),
		Message:       comp.Message,
		Day:           comp.Day,
		Phase:         comp.Phase,
	})
}
