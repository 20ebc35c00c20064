package harness

import (
	"github.com/dechi99991/cooking-sim/internal/journal"
	"github.com/dechi99991/cooking-sim/internal/testutil"
)

// Trace event types.
const (
	EventInvocation = journal.KindInvocation
	EventCompletion = journal.KindCompletion
)

// TraceEvent is one journal entry as seen by assertions and golden files.
type TraceEvent struct {
	Seq           int64          `json:"seq"`
	Type          string         `json:"type"` // "invocation" or "completion"
	Action        string         `json:"action"`
	SessionID     string         `json:"session_id,omitempty"`
	Args          map[string]any `json:"args,omitempty"`
	InvocationSeq int64          `json:"invocation_seq,omitempty"`
	Outcome       string         `json:"outcome,omitempty"`
	Message       string         `json:"message,omitempty"`
	Day           int            `json:"day,omitempty"`
	Phase         string         `json:"phase,omitempty"`
}

func traceFromJournal(events []journal.Event) []TraceEvent {
	trace := make([]TraceEvent, len(events))
	for i, ev := range events {
		trace[i] = TraceEvent{
			Seq:           ev.Seq,
			Type:          ev.Kind,
			Action:        ev.Action,
			SessionID:     ev.SessionID,
			Args:          ev.Args,
			InvocationSeq: ev.InvocationSeq,
			Outcome:       ev.Outcome,
			Message:       ev.Message,
			Day:           ev.Day,
			Phase:         ev.Phase,
		}
	}
	return trace
}

// StepResult records how one flow step finished.
type StepResult struct {
	Action  string `json:"action"`
	OK      bool   `json:"ok"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace is the journal timeline in seq order.
	Trace []TraceEvent `json:"trace"`

	// Steps has one entry per flow step.
	Steps []StepResult `json:"steps"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// View is the final session.View, JSON-decoded.
	View map[string]any `json:"view,omitempty"`

	// Requests are the requests the fake authority received.
	Requests []testutil.Request `json:"requests,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Steps:  []StepResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
