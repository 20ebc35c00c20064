package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/dechi99991/cooking-sim/internal/script"
	"github.com/dechi99991/cooking-sim/internal/session"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Character string // start immediately with this character
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play interactively",
		Long: `Drive one session from a line-oriented prompt.

Each line is an action name optionally followed by its arguments as a YAML
flow mapping, exactly as in a play script:

  start_game {character_id: salaryman}
  go_shopping
  buy_from_shop {items: [{ingredient_name: 卵, quantity: 2}]}
  cook_confirm {ingredients: [卵]}
  advance_phase

Besides actions, the prompt understands: status, stock, view, help, quit.
Input may also be piped in, one action per line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Character, "character", "", "start a session with this character before reading input")

	return cmd
}

func runPlay(opts *PlayOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	h, err := opts.openSession(ctx)
	if err != nil {
		return err
	}
	defer h.Close()

	r := &repl{
		store:     h.Store,
		out:       cmd.OutOrStdout(),
		formatter: opts.formatter(cmd),
	}
	if h.RunID != "" {
		opts.formatter(cmd).VerboseLog("journal run %s", h.RunID)
	}

	if opts.Character != "" {
		r.step(ctx, script.Step{Action: "start_game", Args: map[string]any{"character_id": opts.Character}})
	}

	in := cmd.InOrStdin()
	interactive := isTerminal(in)
	if interactive {
		fmt.Fprintln(r.out, `Type "help" for commands.`)
	}

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(r.out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		if r.exec(ctx, scanner.Text()) {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}
	return nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// repl executes prompt lines against one Store.
type repl struct {
	store     *session.Store
	out       io.Writer
	formatter *OutputFormatter
}

// actionReport is the JSON form of one executed prompt line.
type actionReport struct {
	Action  string       `json:"action"`
	OK      bool         `json:"ok"`
	Skipped bool         `json:"skipped,omitempty"`
	Error   string       `json:"error,omitempty"`
	View    session.View `json:"view"`
}

// exec runs one line and reports whether the prompt should exit.
func (r *repl) exec(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false
	}
	word, rest, _ := strings.Cut(line, " ")

	switch word {
	case "quit", "exit":
		return true
	case "help":
		r.help()
		return false
	case "status":
		writeStatus(r.out, r.store.View())
		return false
	case "stock":
		writeStock(r.out, r.store.View())
		return false
	case "view":
		_ = r.formatter.encode(CLIResponse{Status: "ok", Data: r.store.View()})
		return false
	}

	step := script.Step{Action: word}
	if rest = strings.TrimSpace(rest); rest != "" {
		if err := yaml.Unmarshal([]byte(rest), &step.Args); err != nil {
			r.report(script.StepResult{Action: word, Error: fmt.Sprintf("args: %v", err)}, ErrCodeStepFailed)
			return false
		}
	}
	r.step(ctx, step)
	return false
}

// step dispatches one action and reports its outcome. Refusals by the
// authority are E_REMOTE; steps that could not run are E_STEP_FAILED.
func (r *repl) step(ctx context.Context, step script.Step) {
	res, err := script.Exec(ctx, r.store, step)
	code := ErrCodeRemote
	if err != nil || res.Skipped {
		code = ErrCodeStepFailed
	}
	r.report(res, code)
}

func (r *repl) report(res script.StepResult, code string) {
	v := r.store.View()
	if r.formatter.IsJSON() {
		rep := actionReport{Action: res.Action, OK: res.OK, Skipped: res.Skipped, Error: res.Error, View: v}
		if res.OK {
			_ = r.formatter.Success(rep)
			return
		}
		_ = r.formatter.Failure(code, res.Error, rep)
		return
	}

	if !res.OK {
		fmt.Fprintf(r.out, "error: %s\n", res.Error)
		return
	}
	writeOutcome(r.out, res.Action, v)
	writeStatus(r.out, v)
}

func (r *repl) help() {
	fmt.Fprintln(r.out, "Actions:")
	t := &table{indent: "  "}
	for _, name := range script.Actions() {
		t.add(name, actionHelp[name])
	}
	t.write(r.out)
	fmt.Fprintln(r.out, "Other commands:")
	t = &table{indent: "  "}
	t.add("status", "show day, phase and resources")
	t.add("stock", "show ingredients, provisions and prepared dishes")
	t.add("view", "print the full session view as JSON")
	t.add("quit", "leave")
	t.write(r.out)
}

var actionHelp = map[string]string{
	"fetch_characters":        "list characters",
	"start_game":              "{character_id: ID}",
	"refresh_state":           "re-read the session state",
	"reset":                   "forget the current session",
	"go_shopping":             "leave for the supermarket",
	"fetch_shop":              "{distant: BOOL}",
	"buy_from_shop":           "{items: [{ingredient_name: NAME, quantity: N}], distant: BOOL}",
	"fetch_online_shop":       "list the online shop",
	"buy_from_online_shop":    "{item_type: provision|relic, item_name: NAME, quantity: N}",
	"fetch_recipes":           "list named recipes",
	"cook_preview":            "{ingredients: [NAME...], dish_number: N}",
	"cook_confirm":            "{ingredients: [NAME...]}",
	"eat_cafeteria":           "eat at the cafeteria",
	"eat_delivery":            "order delivery",
	"make_bento":              "{ingredients: [NAME...]}",
	"eat_provision":           "{provisions: [NAME...]}",
	"eat_prepared":            "{index: N}",
	"advance_phase":           "move to the next phase",
	"holiday_action":          "{action: rest|local|outing|prep|shop|distant|batch|skip}",
	"mark_boss_preview_shown": "dismiss the weekly boss preview",
}
