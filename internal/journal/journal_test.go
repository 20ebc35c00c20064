package journal

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dechi99991/cooking-sim/internal/session"
)

var t0 = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

func TestBeginRun_ListRunsOldestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.BeginRun(ctx, Run{ID: "b", StartedAt: t0.Add(time.Minute), APIURL: "http://x"}))
	require.NoError(t, s.BeginRun(ctx, Run{ID: "a", StartedAt: t0.Add(100 * time.Millisecond)}))
	require.NoError(t, s.BeginRun(ctx, Run{ID: "a", StartedAt: t0.Add(time.Hour)}), "duplicate run is ignored")

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "a", runs[0].ID)
	assert.True(t, runs[0].StartedAt.Equal(t0.Add(100*time.Millisecond)))
	assert.Equal(t, "http://x", runs[1].APIURL)

	latest, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", latest.ID)
}

func TestLatestRun_Empty(t *testing.T) {
	s := openTestStore(t)
	_, err := s.LatestRun(context.Background())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRecorder_Timeline(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.BeginRun(ctx, Run{ID: "run-1", StartedAt: t0}))
	rec := NewRecorder(s, "run-1", nil)

	startSeq, err := rec.RecordInvocation(ctx, session.Invocation{Action: "start_game"})
	require.NoError(t, err)
	require.NoError(t, rec.RecordCompletion(ctx, startSeq, session.Completion{Outcome: session.OutcomeOK, Day: 1, Phase: "morning"}))

	cookSeq, err := rec.RecordInvocation(ctx, session.Invocation{
		Action:    "cook_confirm",
		SessionID: "abc",
		Args:      map[string]any{"ingredients": []string{"卵", "<米>"}},
	})
	require.NoError(t, err)
	require.NoError(t, rec.RecordCompletion(ctx, cookSeq, session.Completion{Outcome: session.OutcomeError, Message: "エネルギー不足", Day: 1, Phase: "morning"}))

	events, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, events, 4)

	assert.Equal(t, Event{Seq: 1, Kind: KindInvocation, Action: "start_game"}, events[0])
	assert.Equal(t, Event{Seq: 2, Kind: KindCompletion, Action: "start_game", InvocationSeq: 1, Outcome: "ok", Day: 1, Phase: "morning"}, events[1])
	assert.Equal(t, KindInvocation, events[2].Kind)
	assert.Equal(t, "abc", events[2].SessionID)
	assert.Equal(t, []any{"卵", "<米>"}, events[2].Args["ingredients"])
	assert.Equal(t, "cook_confirm", events[3].Action)
	assert.Equal(t, "error", events[3].Outcome)
	assert.Equal(t, "エネルギー不足", events[3].Message)
	assert.Equal(t, int64(3), events[3].InvocationSeq)
}

func TestRecorder_SecondCompletionIgnored(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.BeginRun(ctx, Run{ID: "r", StartedAt: t0}))
	rec := NewRecorder(s, "r", NewLogicalClock())

	seq, err := rec.RecordInvocation(ctx, session.Invocation{Action: "advance_phase", SessionID: "abc"})
	require.NoError(t, err)
	require.NoError(t, rec.RecordCompletion(ctx, seq, session.Completion{Outcome: session.OutcomeOK}))
	require.NoError(t, rec.RecordCompletion(ctx, seq, session.Completion{Outcome: session.OutcomeError}))

	events, err := s.ReadRun(ctx, "r")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "ok", events[1].Outcome)
}

func TestWriteCompletion_RequiresInvocation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.BeginRun(ctx, Run{ID: "r", StartedAt: t0}))

	err := s.WriteCompletion(ctx, CompletionRecord{RunID: "r", Seq: 1, InvocationSeq: 99, Outcome: "ok"})
	assert.Error(t, err)
}

func TestWriteInvocation_RequiresRun(t *testing.T) {
	s := openTestStore(t)
	err := s.WriteInvocation(context.Background(), InvocationRecord{RunID: "missing", Seq: 1, Action: "x"})
	assert.Error(t, err)
}

func TestReadRun_UnknownRunIsEmpty(t *testing.T) {
	s := openTestStore(t)
	events, err := s.ReadRun(context.Background(), "nope")
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestRecorder_ConcurrentActionsGetDistinctSeqs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.BeginRun(ctx, Run{ID: "r", StartedAt: t0}))
	rec := NewRecorder(s, "r", nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := rec.RecordInvocation(ctx, session.Invocation{Action: "eat_cafeteria", SessionID: "abc"})
			if assert.NoError(t, err) {
				assert.NoError(t, rec.RecordCompletion(ctx, seq, session.Completion{Outcome: session.OutcomeOK}))
			}
		}()
	}
	wg.Wait()

	events, err := s.ReadRun(ctx, "r")
	require.NoError(t, err)
	require.Len(t, events, 20)
	for i, ev := range events {
		assert.Equal(t, int64(i+1), ev.Seq)
	}
}

func TestMarshalArgs_Deterministic(t *testing.T) {
	a, err := marshalArgs(map[string]any{"b": 1, "a": "<x>"})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"<x>","b":1}`, a)

	empty, err := marshalArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", empty)
}

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}
	first, second := gen.NewRunID(), gen.NewRunID()

	id, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.NotEqual(t, first, second)
}

func TestLogicalClock(t *testing.T) {
	c := NewLogicalClock()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())
}
