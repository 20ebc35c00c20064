package cli

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/dechi99991/cooking-sim/internal/config"
	"github.com/dechi99991/cooking-sim/internal/journal"
	"github.com/dechi99991/cooking-sim/internal/telemetry"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// APIURL and Journal fall back to COOKSIM_API_URL and COOKSIM_JOURNAL.
	APIURL  string
	Journal string

	// RunIDs names journal runs. Defaults to UUIDv7; tests inject a fixed id.
	RunIDs journal.RunIDGenerator

	// Resolved in PersistentPreRunE.
	Config   config.Config
	Logger   *slog.Logger
	shutdown func(context.Context) error
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the cooksim CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

// Execute runs the cooksim command line with the process arguments.
// Pending spans are flushed on every exit path, failing commands included.
func Execute(ctx context.Context) error {
	opts := &RootOptions{}
	return runCommand(ctx, newRootCommand(opts), opts)
}

func runCommand(ctx context.Context, cmd *cobra.Command, opts *RootOptions) error {
	err := cmd.ExecuteContext(ctx)
	opts.flushTelemetry(ctx)
	return err
}

// flushTelemetry shuts the tracer provider down once. It ignores ctx
// cancellation so an interrupted run still exports what it recorded.
func (o *RootOptions) flushTelemetry(ctx context.Context) {
	if o.shutdown == nil {
		return
	}
	shutdown := o.shutdown
	o.shutdown = nil
	if err := shutdown(context.WithoutCancel(ctx)); err != nil && o.Logger != nil {
		o.Logger.Warn("telemetry shutdown failed", "error", err)
	}
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cooksim",
		Short: "cooksim - client for the cooking-sim authority",
		Long: `A command-line client for the cooking-sim game authority.

Every command talks to the authority over HTTP and keeps no state of its
own between runs. Set --journal (or COOKSIM_JOURNAL) to record each action
in a SQLite journal for later inspection with "cooksim trace".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.APIURL, "api-url", "", "authority base URL (default $COOKSIM_API_URL or http://localhost:8000)")
	cmd.PersistentFlags().StringVar(&opts.Journal, "journal", "", "SQLite journal path (default $COOKSIM_JOURNAL; empty disables)")

	cmd.AddCommand(NewCharactersCommand(opts))
	cmd.AddCommand(NewPlayCommand(opts))
	cmd.AddCommand(NewScriptCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// resolve merges environment configuration under the flags and sets up
// logging and tracing.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid environment", err)
	}
	o.Config = cfg
	if o.APIURL == "" {
		o.APIURL = cfg.APIURL
	}
	if o.Journal == "" {
		o.Journal = cfg.JournalPath
	}

	level, err := cfg.Level()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid environment", err)
	}
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))

	o.shutdown, err = telemetry.Setup(commandContext(cmd), telemetry.Config{
		Endpoint: cfg.OTelEndpoint,
		Enabled:  cfg.TracingEnabled(),
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to set up tracing", err)
	}
	return nil
}

// formatter returns an OutputFormatter bound to the command's writers.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
