package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dechi99991/cooking-sim/internal/testutil"
)

// cliRun is the captured outcome of one command execution.
type cliRun struct {
	stdout string
	stderr string
	err    error
}

// execute runs the root command with a fixed journal run id and a hermetic
// environment.
func execute(t *testing.T, stdin string, args ...string) cliRun {
	t.Helper()
	t.Setenv("COOKSIM_API_URL", "")
	t.Setenv("COOKSIM_JOURNAL", "")
	t.Setenv("COOKSIM_OTEL_ENABLED", "false")
	t.Setenv("COOKSIM_LOG_LEVEL", "")

	return executeWithEnv(t, stdin, args...)
}

// executeWithEnv runs the root command against the environment as the test
// left it.
func executeWithEnv(t *testing.T, stdin string, args ...string) cliRun {
	t.Helper()
	opts := &RootOptions{RunIDs: testutil.FixedRunID("cli-run")}
	cmd := newRootCommand(opts)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := runCommand(context.Background(), cmd, opts)
	return cliRun{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func journalPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "journal.db")
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "cooksim", cmd.Use)
	assert.Contains(t, cmd.Long, "cooksim trace")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"characters", "play", "script", "validate", "trace", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"api-url", "journal"} {
		f := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Empty(t, f.DefValue, name)
	}
}

func TestSubcommandFlags(t *testing.T) {
	tests := []struct {
		command string
		flag    string
		def     string
	}{
		{"play", "character", ""},
		{"trace", "run", ""},
		{"trace", "action", ""},
		{"test", "update", "false"},
		{"test", "filter", ""},
	}

	for _, tt := range tests {
		t.Run(tt.command+"/"+tt.flag, func(t *testing.T) {
			sub, _, err := NewRootCommand().Find([]string{tt.command})
			require.NoError(t, err)
			f := sub.Flags().Lookup(tt.flag)
			require.NotNil(t, f)
			assert.Equal(t, tt.def, f.DefValue)
		})
	}
}

func TestInvalidFormat(t *testing.T) {
	res := execute(t, "", "characters", "--format", "xml")
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
	assert.Contains(t, res.err.Error(), `invalid format "xml"`)
}

func TestInvalidLogLevel(t *testing.T) {
	t.Setenv("COOKSIM_LOG_LEVEL", "loud")

	cmd := newRootCommand(&RootOptions{})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"validate", "missing.yaml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid environment")
}

func TestEnvironmentFillsUnsetFlags(t *testing.T) {
	remote := testutil.StartRemote(t)
	remote.JSON("GET", "/api/characters", []any{})

	t.Setenv("COOKSIM_API_URL", remote.URL())
	t.Setenv("COOKSIM_JOURNAL", "")
	t.Setenv("COOKSIM_OTEL_ENABLED", "false")

	cmd := newRootCommand(&RootOptions{})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"characters"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, 1, remote.Count("GET", "/api/characters"))
}

func TestFlagOverridesEnvironment(t *testing.T) {
	remote := testutil.StartRemote(t)
	remote.JSON("GET", "/api/characters", []any{})

	t.Setenv("COOKSIM_API_URL", "http://127.0.0.1:1")
	t.Setenv("COOKSIM_JOURNAL", "")
	t.Setenv("COOKSIM_OTEL_ENABLED", "false")

	cmd := newRootCommand(&RootOptions{})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"characters", "--api-url", remote.URL()})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, 1, remote.Count("GET", "/api/characters"))
}

func TestVerboseLogsToStderr(t *testing.T) {
	remote := testutil.StartRemote(t)
	remote.JSON("GET", "/api/characters", []any{})

	res := execute(t, "", "characters", "--api-url", remote.URL(), "--journal", journalPath(t), "-v")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "journal run started")
	assert.NotContains(t, res.stdout, "journal run started")
}

func TestTelemetryFlushedWhenCommandFails(t *testing.T) {
	var exports atomic.Int32
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/v1/traces" {
			exports.Add(1)
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(collector.Close)

	remote := testutil.StartRemote(t)
	remote.Fail("POST", "/api/game/start", 503, "maintenance")

	t.Setenv("COOKSIM_API_URL", remote.URL())
	t.Setenv("COOKSIM_JOURNAL", "")
	t.Setenv("COOKSIM_LOG_LEVEL", "")
	t.Setenv("COOKSIM_OTEL_ENABLED", "true")
	t.Setenv("COOKSIM_OTEL_ENDPOINT", collector.URL+"/v1/traces")

	path := filepath.Join(t.TempDir(), "start.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps:\n  - action: start_game\n"), 0o644))

	res := executeWithEnv(t, "", "script", path)
	require.Error(t, res.err)
	assert.Equal(t, ExitFailure, GetExitCode(res.err))
	assert.Positive(t, exports.Load(), "spans of a failing run are exported")
}
