package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// timeLayout has fixed width so started_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one process lifetime of the client.
type Run struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	APIURL    string    `json:"api_url"`
}

// BeginRun inserts a run row. Beginning the same run twice is a no-op.
func (s *Store) BeginRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, api_url)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, run.ID, run.StartedAt.UTC().Format(timeLayout), run.APIURL)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// InvocationRecord is an action as issued.
type InvocationRecord struct {
	RunID     string
	Seq       int64
	Action    string
	Args      map[string]any
	SessionID string
}

// CompletionRecord is an action's outcome.
type CompletionRecord struct {
	RunID         string
	Seq           int64
	InvocationSeq int64
	Outcome       string
	Message       string
	Day           int
	Phase         string
}

// WriteInvocation appends an invocation. Duplicate (run, seq) pairs are ignored.
func (s *Store) WriteInvocation(ctx context.Context, rec InvocationRecord) error {
	args, err := marshalArgs(rec.Args)
	if err != nil {
		return fmt.Errorf("write invocation: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO invocations (run_id, seq, action, args, session_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, rec.RunID, rec.Seq, rec.Action, args, rec.SessionID)
	if err != nil {
		return fmt.Errorf("write invocation: %w", err)
	}
	return nil
}

// WriteCompletion appends a completion. The invocation must exist, and a
// second completion for the same invocation is silently ignored.
func (s *Store) WriteCompletion(ctx context.Context, rec CompletionRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO completions (run_id, seq, invocation_seq, outcome, message, day, phase)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, rec.RunID, rec.Seq, rec.InvocationSeq, rec.Outcome, rec.Message, rec.Day, rec.Phase)
	if err != nil {
		return fmt.Errorf("write completion: %w", err)
	}
	return nil
}

// marshalArgs stores args as JSON with sorted keys and no HTML escaping, so
// identical actions produce identical rows.
func marshalArgs(args map[string]any) (string, error) {
	if args == nil {
		return "{}", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(args); err != nil {
		return "", fmt.Errorf("marshal args: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
