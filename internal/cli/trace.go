package cli

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dechi99991/cooking-sim/internal/journal"
	"github.com/dechi99991/cooking-sim/internal/session"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Run    string // run id, or "latest"
	Action string // optional - filter to specific action
}

// TraceResult holds the complete trace output for one run.
type TraceResult struct {
	Run      journal.Run     `json:"run"`
	Timeline []journal.Event `json:"timeline"`
	Stats    TraceStats      `json:"stats"`
}

// TraceStats holds summary statistics for the trace.
type TraceStats struct {
	TotalEvents int `json:"total_events"`
	Invocations int `json:"invocations"`
	Completions int `json:"completions"`
	Errors      int `json:"errors"`
	Discarded   int `json:"discarded"`
	Pending     int `json:"pending"` // invocations with no completion
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect the action journal",
		Long: `Inspect runs recorded in the action journal.

Without --run, lists every run. With --run, prints the run's timeline:
each action invocation followed by its completion, with the outcome and
the day and phase the session had reached.

Examples:
  cooksim trace --journal ./cooksim.db
  cooksim trace --journal ./cooksim.db --run latest
  cooksim trace --journal ./cooksim.db --run latest --action cook_confirm
  cooksim trace --journal ./cooksim.db --run 0190... --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Run, "run", "", `run id to show ("latest" for the most recent)`)
	cmd.Flags().StringVar(&opts.Action, "action", "", "filter to a specific action")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := commandContext(cmd)

	if opts.Journal == "" {
		_ = formatter.Error(ErrCodeJournal, "no journal configured", nil)
		return NewExitError(ExitCommandError, "no journal configured: set --journal or COOKSIM_JOURNAL")
	}
	// Opening a missing path would create an empty journal.
	if _, err := os.Stat(opts.Journal); err != nil {
		_ = formatter.Error(ErrCodeJournal, fmt.Sprintf("journal not found: %s", opts.Journal), nil)
		return WrapExitError(ExitCommandError, "journal not found", err)
	}

	j, err := journal.Open(opts.Journal)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	if opts.Run == "" {
		runs, err := j.ListRuns(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		if formatter.IsJSON() {
			return formatter.Success(runs)
		}
		writeRuns(formatter.Writer, runs)
		return nil
	}

	run, err := findRun(opts, j, cmd)
	if err != nil {
		_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to find run", err)
	}

	events, err := j.ReadRun(ctx, run.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	timeline := buildTimeline(events, opts.Action)
	result := TraceResult{
		Run:      run,
		Timeline: timeline,
		Stats:    traceStats(timeline),
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}
	return outputTraceText(formatter.Writer, result)
}

func findRun(opts *TraceOptions, j *journal.Store, cmd *cobra.Command) (journal.Run, error) {
	ctx := commandContext(cmd)
	if opts.Run == "latest" {
		run, err := j.LatestRun(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return journal.Run{}, errors.New("journal has no runs")
		}
		return run, err
	}

	runs, err := j.ListRuns(ctx)
	if err != nil {
		return journal.Run{}, err
	}
	for _, r := range runs {
		if r.ID == opts.Run {
			return r, nil
		}
	}
	return journal.Run{}, fmt.Errorf("run not found: %s", opts.Run)
}

// buildTimeline filters events to one action when actionFilter is set.
// Completions carry their invocation's action, so both sides are kept.
func buildTimeline(events []journal.Event, actionFilter string) []journal.Event {
	if actionFilter == "" {
		return events
	}
	timeline := []journal.Event{}
	for _, ev := range events {
		if ev.Action == actionFilter {
			timeline = append(timeline, ev)
		}
	}
	return timeline
}

func traceStats(timeline []journal.Event) TraceStats {
	stats := TraceStats{TotalEvents: len(timeline)}
	completed := make(map[int64]bool)
	for _, ev := range timeline {
		switch ev.Kind {
		case journal.KindInvocation:
			stats.Invocations++
		case journal.KindCompletion:
			stats.Completions++
			completed[ev.InvocationSeq] = true
			switch session.Outcome(ev.Outcome) {
			case session.OutcomeError:
				stats.Errors++
			case session.OutcomeDiscarded:
				stats.Discarded++
			}
		}
	}
	for _, ev := range timeline {
		if ev.Kind == journal.KindInvocation && !completed[ev.Seq] {
			stats.Pending++
		}
	}
	return stats
}

func writeRuns(w io.Writer, runs []journal.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	t := &table{}
	t.add("RUN", "STARTED", "API")
	for _, r := range runs {
		t.add(r.ID, r.StartedAt.Local().Format(time.DateTime), r.APIURL)
	}
	t.write(w)
}

// outputTraceText outputs the trace result as text.
func outputTraceText(w io.Writer, result TraceResult) error {
	fmt.Fprintf(w, "Run: %s (%s)\n", result.Run.ID, result.Run.APIURL)
	fmt.Fprintln(w)

	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "No events.")
		return nil
	}

	fmt.Fprintln(w, "Timeline:")
	for _, ev := range result.Timeline {
		switch ev.Kind {
		case journal.KindInvocation:
			line := fmt.Sprintf("  [%d] INV  %s", ev.Seq, ev.Action)
			if len(ev.Args) > 0 {
				args, err := json.Marshal(ev.Args)
				if err != nil {
					return err
				}
				line += " " + string(args)
			}
			fmt.Fprintln(w, line)
		case journal.KindCompletion:
			line := fmt.Sprintf("  [%d] COMP %s -> %s", ev.Seq, ev.Action, ev.Outcome)
			if ev.Message != "" {
				line += ": " + ev.Message
			}
			if ev.Day > 0 {
				line += fmt.Sprintf(" (day %d %s)", ev.Day, ev.Phase)
			}
			fmt.Fprintln(w, line)
		}
	}

	s := result.Stats
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Stats: %d invocations, %d completions, %d errors, %d discarded",
		s.Invocations, s.Completions, s.Errors, s.Discarded)
	if s.Pending > 0 {
		fmt.Fprintf(w, ", %d pending", s.Pending)
	}
	fmt.Fprintln(w)
	return nil
}
