package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dechi99991/cooking-sim/internal/testutil"
)

type recorded struct {
	inv  Invocation
	comp *Completion
}

type memoryRecorder struct {
	mu      sync.Mutex
	entries []recorded
	failing bool
}

func (m *memoryRecorder) RecordInvocation(_ context.Context, inv Invocation) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return 0, errors.New("disk full")
	}
	m.entries = append(m.entries, recorded{inv: inv})
	return int64(len(m.entries)), nil
}

func (m *memoryRecorder) RecordCompletion(_ context.Context, seq int64, comp Completion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errors.New("disk full")
	}
	m.entries[seq-1].comp = &comp
	return nil
}

func TestRecorder_SeesEveryRemoteAction(t *testing.T) {
	rec := &memoryRecorder{}
	s, remote := startedStore(t, WithJournal(rec))
	remote.Fail(http.MethodPost, testutil.GamePath(sid, "eat-cafeteria"), http.StatusBadRequest, "満腹です")

	s.EatCafeteria(context.Background())
	s.Reset()
	s.EatCafeteria(context.Background()) // no session: not recorded

	require.Len(t, rec.entries, 2)

	start := rec.entries[0]
	assert.Equal(t, "start_game", start.inv.Action)
	require.NotNil(t, start.comp)
	assert.Equal(t, OutcomeOK, start.comp.Outcome)
	assert.Equal(t, 1, start.comp.Day)
	assert.Equal(t, "morning", start.comp.Phase)

	eat := rec.entries[1]
	assert.Equal(t, "eat_cafeteria", eat.inv.Action)
	assert.Equal(t, sid, eat.inv.SessionID)
	require.NotNil(t, eat.comp)
	assert.Equal(t, OutcomeError, eat.comp.Outcome)
	assert.Contains(t, eat.comp.Message, "満腹です")
}

func TestRecorder_FailuresDoNotAffectStore(t *testing.T) {
	rec := &memoryRecorder{failing: true}
	s, _ := startedStore(t, WithJournal(rec))

	assert.Equal(t, sid, s.SessionID())
	assert.Empty(t, s.Err())
}
