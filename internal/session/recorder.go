package session

import "context"

// Outcome labels how an action finished.
type Outcome string

const (
	OutcomeOK        Outcome = "ok"
	OutcomeError     Outcome = "error"
	OutcomeDiscarded Outcome = "discarded" // response arrived for a session that no longer exists
)

// Invocation describes an action as it is sent to the authority.
type Invocation struct {
	Action    string         `json:"action"`
	SessionID string         `json:"session_id,omitempty"`
	Args      map[string]any `json:"args,omitempty"`
}

// Completion describes how an action finished.
// Day and Phase are read from the snapshot after the result was applied.
type Completion struct {
	Outcome Outcome `json:"outcome"`
	Message string  `json:"message,omitempty"`
	Day     int     `json:"day,omitempty"`
	Phase   string  `json:"phase,omitempty"`
}

// Recorder observes every action that reaches the authority.
// RecordInvocation returns a sequence number that is passed back to
// RecordCompletion for the same action. Recorder errors are logged and never
// affect the Store.
type Recorder interface {
	RecordInvocation(ctx context.Context, inv Invocation) (int64, error)
	RecordCompletion(ctx context.Context, invocationSeq int64, comp Completion) error
}

type nopRecorder struct{}

func (nopRecorder) RecordInvocation(context.Context, Invocation) (int64, error) { return 0, nil }
func (nopRecorder) RecordCompletion(context.Context, int64, Completion) error   { return nil }
