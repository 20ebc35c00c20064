package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Event kinds in a run timeline.
const (
	KindInvocation = "invocation"
	KindCompletion = "completion"
)

// Event is one timeline entry. Completions carry the action name of their
// invocation.
type Event struct {
	Seq           int64          `json:"seq"`
	Kind          string         `json:"kind"`
	Action        string         `json:"action"`
	SessionID     string         `json:"session_id,omitempty"`
	Args          map[string]any `json:"args,omitempty"`
	InvocationSeq int64          `json:"invocation_seq,omitempty"`
	Outcome       string         `json:"outcome,omitempty"`
	Message       string         `json:"message,omitempty"`
	Day           int            `json:"day,omitempty"`
	Phase         string         `json:"phase,omitempty"`
}

// ListRuns returns every run, oldest first.
// Returns an empty slice (not nil) when the journal is empty.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, api_url
		FROM runs
		ORDER BY started_at ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &started, &r.APIURL); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt, err = time.Parse(timeLayout, started)
		if err != nil {
			return nil, fmt.Errorf("parse started_at for run %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// LatestRun returns the most recently started run, or sql.ErrNoRows.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	runs, err := s.ListRuns(ctx)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, sql.ErrNoRows
	}
	return runs[len(runs)-1], nil
}

// ReadRun returns a run's timeline ordered by seq.
// Returns an empty slice (not nil) for an unknown run.
func (s *Store) ReadRun(ctx context.Context, runID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, 'invocation', action, session_id, args, 0, '', '', 0, ''
		FROM invocations
		WHERE run_id = ?
		UNION ALL
		SELECT c.seq, 'completion', i.action, i.session_id, '{}', c.invocation_seq,
		       c.outcome, c.message, c.day, c.phase
		FROM completions c
		JOIN invocations i ON i.run_id = c.run_id AND i.seq = c.invocation_seq
		WHERE c.run_id = ?
		ORDER BY 1 ASC
	`, runID, runID)
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", runID, err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var ev Event
		var args string
		if err := rows.Scan(&ev.Seq, &ev.Kind, &ev.Action, &ev.SessionID, &args,
			&ev.InvocationSeq, &ev.Outcome, &ev.Message, &ev.Day, &ev.Phase); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if ev.Kind == KindInvocation && args != "{}" {
			if err := json.Unmarshal([]byte(args), &ev.Args); err != nil {
				return nil, fmt.Errorf("unmarshal args at seq %d: %w", ev.Seq, err)
			}
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
