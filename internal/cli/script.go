package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dechi99991/cooking-sim/internal/script"
	"github.com/dechi99991/cooking-sim/internal/session"
)

// ScriptResult is the JSON output of the script command.
type ScriptResult struct {
	Name   string              `json:"name"`
	RunID  string              `json:"run_id,omitempty"`
	Steps  []script.StepResult `json:"steps"`
	Passed int                 `json:"passed"`
	Failed int                 `json:"failed"`
	View   session.View        `json:"view"`
}

// NewScriptCommand creates the script command.
func NewScriptCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "script <file>",
		Short: "Run a play script",
		Long: `Run a YAML play script against the authority, one action at a time.

The script is validated first; an invalid script is not run. Execution
stops at the first failing step unless the script sets continue_on_error.

Exit codes:
  0 - Every step succeeded
  1 - A step failed
  2 - Command error (unreadable or invalid script, etc.)

Examples:
  cooksim script plays/first_week.yaml
  cooksim script plays/first_week.yaml --journal ./cooksim.db
  cooksim script plays/first_week.yaml --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(rootOpts, args[0], cmd)
		},
	}
}

func runScript(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := commandContext(cmd)

	sc, err := script.Load(path)
	if err != nil {
		_ = formatter.Error(ErrCodeInvalidScript, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load script", err)
	}
	formatter.VerboseLog("Running %s (%d steps)", sc.Name, len(sc.Steps))

	h, err := opts.openSession(ctx)
	if err != nil {
		return err
	}
	defer h.Close()

	steps := script.NewRunner(opts.Logger).Run(ctx, h.Store, sc)

	result := ScriptResult{
		Name:  sc.Name,
		RunID: h.RunID,
		Steps: steps,
		View:  h.Store.View(),
	}
	for _, s := range steps {
		if s.OK {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	var failure error
	if result.Failed > 0 {
		failure = NewExitError(ExitFailure, fmt.Sprintf("%d step(s) failed", result.Failed))
	}

	if formatter.IsJSON() {
		if failure != nil {
			if err := formatter.Failure(ErrCodeStepFailed, failure.Error(), result); err != nil {
				return err
			}
			return failure
		}
		return formatter.Success(result)
	}

	writeScriptResult(formatter.Writer, result, len(sc.Steps))
	return failure
}

func writeScriptResult(w io.Writer, result ScriptResult, total int) {
	for _, s := range result.Steps {
		if s.OK {
			fmt.Fprintf(w, "✓ [%d] %s\n", s.Index, s.Action)
			continue
		}
		fmt.Fprintf(w, "✗ [%d] %s: %s\n", s.Index, s.Action, s.Error)
	}
	if skipped := total - len(result.Steps); skipped > 0 {
		fmt.Fprintf(w, "  %d step(s) not run\n", skipped)
	}

	fmt.Fprintln(w)
	writeStatus(w, result.View)
	if result.RunID != "" {
		fmt.Fprintf(w, "Journal run: %s\n", result.RunID)
	}
	fmt.Fprintf(w, "Script Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, total)
}
