package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dechi99991/cooking-sim/internal/api"
	"github.com/dechi99991/cooking-sim/internal/journal"
	"github.com/dechi99991/cooking-sim/internal/session"
)

// sessionHandle is a Store plus the journal it writes to, if any.
type sessionHandle struct {
	Store *session.Store
	RunID string // empty when journaling is off

	journal *journal.Store
}

// openSession builds a Store against the configured authority. When a
// journal path is set, the journal is opened and a new run begun.
func (o *RootOptions) openSession(ctx context.Context) (*sessionHandle, error) {
	client, err := api.New(o.APIURL, api.WithLogger(o.Logger))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid api url", err)
	}

	storeOpts := []session.Option{session.WithLogger(o.Logger)}
	h := &sessionHandle{}

	if o.Journal != "" {
		j, err := journal.Open(o.Journal)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
		}

		runIDs := o.RunIDs
		if runIDs == nil {
			runIDs = journal.UUIDv7Generator{}
		}
		run := journal.Run{ID: runIDs.NewRunID(), StartedAt: time.Now(), APIURL: client.BaseURL()}
		if err := j.BeginRun(ctx, run); err != nil {
			_ = j.Close()
			return nil, WrapExitError(ExitCommandError, "failed to begin journal run", err)
		}
		o.Logger.Debug("journal run started", "run_id", run.ID, "path", o.Journal)

		storeOpts = append(storeOpts, session.WithJournal(journal.NewRecorder(j, run.ID, nil)))
		h.RunID = run.ID
		h.journal = j
	}

	h.Store = session.New(client, storeOpts...)
	return h, nil
}

// Close releases the journal.
func (h *sessionHandle) Close() error {
	if h.journal == nil {
		return nil
	}
	if err := h.journal.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}
	return nil
}
