package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dechi99991/cooking-sim/internal/wire"
)

// NewCharactersCommand creates the characters command.
func NewCharactersCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "characters",
		Short: "List selectable characters",
		Long: `List the characters the authority offers for a new session.

Examples:
  cooksim characters
  cooksim characters --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCharacters(rootOpts, cmd)
		},
	}
}

func runCharacters(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := commandContext(cmd)

	h, err := opts.openSession(ctx)
	if err != nil {
		return err
	}
	defer h.Close()

	h.Store.FetchCharacters(ctx)
	if msg := h.Store.Err(); msg != "" {
		_ = formatter.Error(ErrCodeRemote, msg, nil)
		return NewExitError(ExitFailure, msg)
	}

	chars := h.Store.Characters()
	if formatter.IsJSON() {
		return formatter.Success(chars)
	}
	writeCharacters(cmd.OutOrStdout(), chars)
	return nil
}

func writeCharacters(w io.Writer, chars []wire.Character) {
	if len(chars) == 0 {
		fmt.Fprintln(w, "No characters available.")
		return
	}

	t := &table{}
	t.add("ID", "NAME", "MONEY", "ENERGY", "STAMINA", "SALARY", "RENT")
	for _, c := range chars {
		t.add(c.ID, c.Name,
			strconv.Itoa(c.InitialMoney),
			strconv.Itoa(c.InitialEnergy),
			strconv.Itoa(c.InitialStamina),
			strconv.Itoa(c.SalaryAmount),
			strconv.Itoa(c.RentAmount),
		)
	}
	t.write(w)
}
