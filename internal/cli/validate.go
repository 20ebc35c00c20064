package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dechi99991/cooking-sim/internal/script"
)

// ValidationResult holds validation results for one or more scripts.
type ValidationResult struct {
	Valid  bool                     `json:"valid"`
	Files  int                      `json:"files"`
	Errors []script.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <script>...",
		Short: "Validate play scripts without running them",
		Long: `Check play scripts against the script schema without contacting the
authority. Reports every problem with its file, line and field path.

Exit codes:
  0 - All scripts valid
  1 - One or more scripts invalid
  2 - Command error (unreadable file, etc.)

Examples:
  cooksim validate plays/first_week.yaml
  cooksim validate plays/*.yaml --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	var all []script.ValidationError
	for _, path := range paths {
		formatter.VerboseLog("Validating %s", path)
		errs, err := script.Validate(path)
		if err != nil {
			_ = formatter.Error(ErrCodeInvalidScript, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to read script", err)
		}
		all = append(all, errs...)
	}

	if len(all) > 0 {
		return outputValidationErrors(formatter, len(paths), all)
	}
	return outputValidateSuccess(formatter, len(paths))
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, files int) error {
	if formatter.IsJSON() {
		return formatter.Success(ValidationResult{Valid: true, Files: files})
	}

	fmt.Fprintf(formatter.Writer, "✓ %d script(s) valid\n", files)
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, files int, errs []script.ValidationError) error {
	failure := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.IsJSON() {
		if err := formatter.Failure(ErrCodeInvalidScript, errs[0].Message, ValidationResult{
			Valid:  false,
			Files:  files,
			Errors: errs,
		}); err != nil {
			return err
		}
		return failure
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, e := range errs {
		fmt.Fprintf(formatter.Writer, "  %s\n", e.Error())
	}
	return failure
}
