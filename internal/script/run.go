package script

import (
	"context"
	"io"
	"log/slog"

	"github.com/dechi99991/cooking-sim/internal/session"
)

// StepResult reports how one step went. A skipped step never reached the
// authority because no session was active; it is not OK.
type StepResult struct {
	Index   int    `json:"index"`
	Action  string `json:"action"`
	OK      bool   `json:"ok"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Runner executes scripts.
type Runner struct {
	logger *slog.Logger
}

// NewRunner returns a Runner. A nil logger discards output.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{logger: logger}
}

// Run executes the script's steps in order, waiting for each to finish.
// It stops at the first failing step unless the script sets
// continue_on_error. The returned slice has one entry per executed step.
func (r *Runner) Run(ctx context.Context, s *session.Store, sc *Script) []StepResult {
	results := make([]StepResult, 0, len(sc.Steps))
	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			results = append(results, StepResult{Index: i, Action: step.Action, Error: err.Error()})
			break
		}
		if step.Action == "start_game" && sc.Character != "" && step.Args["character_id"] == nil {
			step = withArg(step, "character_id", sc.Character)
		}

		res, _ := Exec(ctx, s, step)
		res.Index = i
		results = append(results, res)

		r.logger.Info("step", "index", i, "action", step.Action, "ok", res.OK, "skipped", res.Skipped, "error", res.Error)
		if !res.OK && !sc.ContinueOnError {
			break
		}
	}
	return results
}

func withArg(step Step, key string, value any) Step {
	args := make(map[string]any, len(step.Args)+1)
	for k, v := range step.Args {
		args[k] = v
	}
	args[key] = value
	return Step{Action: step.Action, Args: args}
}
