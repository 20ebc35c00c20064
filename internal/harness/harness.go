package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dechi99991/cooking-sim/internal/api"
	"github.com/dechi99991/cooking-sim/internal/journal"
	"github.com/dechi99991/cooking-sim/internal/script"
	"github.com/dechi99991/cooking-sim/internal/session"
	"github.com/dechi99991/cooking-sim/internal/testutil"
)

// runStartedAt is the fixed start time of every scenario run.
var runStartedAt = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

// Harness holds the per-scenario fixtures.
type Harness struct {
	remote  *testutil.Remote
	journal *journal.Store
	store   *session.Store
	runID   string
	logger  *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh fake authority, a fresh in-memory
// journal and a fresh Store.
//
// Execution flow:
// 1. Start the fake authority and queue the scenario's replies
// 2. Open an in-memory journal and begin a run with the fixed run id
// 3. Execute flow steps through script.Dispatch, checking expect clauses
// 4. Read the trace back from the journal and snapshot the final view
// 5. Evaluate assertions
//
// The returned error covers infrastructure failures only; scenario failures
// are reported through Result.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	h, err := newHarness(ctx, scenario)
	if err != nil {
		return nil, err
	}
	defer h.close()

	result := NewResult()
	h.executeFlow(ctx, scenario.Flow, result)

	events, err := h.journal.ReadRun(ctx, h.runID)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}
	result.Trace = traceFromJournal(events)

	result.View, err = viewMap(h.store.View())
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot view: %w", err)
	}
	result.Requests = h.remote.Requests()

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func newHarness(ctx context.Context, scenario *Scenario) (*Harness, error) {
	remote := testutil.NewRemote()
	for _, r := range scenario.Remote {
		remote.On(strings.ToUpper(r.Method), r.Path, r.reply())
	}

	j, err := journal.Open(":memory:")
	if err != nil {
		remote.Close()
		return nil, fmt.Errorf("failed to create in-memory journal: %w", err)
	}

	runID := testutil.FixedRunID(scenario.RunID).NewRunID()
	if err := j.BeginRun(ctx, journal.Run{ID: runID, StartedAt: runStartedAt, APIURL: "fake"}); err != nil {
		remote.Close()
		j.Close()
		return nil, fmt.Errorf("failed to begin run: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	client, err := api.New(remote.URL(), api.WithLogger(logger))
	if err != nil {
		remote.Close()
		j.Close()
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}

	rec := journal.NewRecorder(j, runID, testutil.NewDeterministicClock())
	return &Harness{
		remote:  remote,
		journal: j,
		store:   session.New(client, session.WithJournal(rec), session.WithLogger(logger)),
		runID:   runID,
		logger:  logger,
	}, nil
}

func (h *Harness) close() {
	h.remote.Close()
	_ = h.journal.Close()
}

// executeFlow runs all flow steps and validates expect clauses.
// A step whose args cannot be dispatched fails the scenario but does not
// stop the flow.
func (h *Harness) executeFlow(ctx context.Context, flow []FlowStep, result *Result) {
	for i, step := range flow {
		sr, err := script.Exec(ctx, h.store, script.Step{Action: step.Action, Args: step.Args})
		if err != nil {
			result.AddError(fmt.Sprintf("flow[%d] %s: %v", i, step.Action, err))
		}
		res := StepResult{Action: sr.Action, OK: sr.OK, Skipped: sr.Skipped, Error: sr.Error}
		result.Steps = append(result.Steps, res)

		if step.Expect != nil {
			for _, msg := range checkExpect(step.Expect, res) {
				result.AddError(fmt.Sprintf("flow[%d] %s: %s", i, step.Action, msg))
			}
		}

		h.logger.Info("flow step completed",
			"step", i,
			"action", step.Action,
			"ok", res.OK,
			"skipped", res.Skipped,
			"error", res.Error,
		)
	}
}

func checkExpect(expect *ExpectClause, res StepResult) []string {
	var msgs []string
	if expect.OK != nil && *expect.OK != res.OK {
		msgs = append(msgs, fmt.Sprintf("expected ok=%t, got ok=%t (error %q)", *expect.OK, res.OK, res.Error))
	}
	if expect.ErrorContains != "" && !strings.Contains(res.Error, expect.ErrorContains) {
		msgs = append(msgs, fmt.Sprintf("expected error containing %q, got %q", expect.ErrorContains, res.Error))
	}
	if expect.Skipped != nil && *expect.Skipped != res.Skipped {
		msgs = append(msgs, fmt.Sprintf("expected skipped=%t, got skipped=%t", *expect.Skipped, res.Skipped))
	}
	return msgs
}

// viewMap renders a view the way a presentation layer would receive it.
func viewMap(v session.View) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
