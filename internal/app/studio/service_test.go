package studio_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/studycircle/studycircle/internal/adapters/llm"
	"github.com/studycircle/studycircle/internal/adapters/storage/memory"
	"github.com/studycircle/studycircle/internal/app/studio"
	"github.com/studycircle/studycircle/internal/domain"
)

func newTestService(t *testing.T) (*studio.Service, *memory.StateStore) {
	t.Helper()

	states := memory.NewStateStore()
	svc := studio.NewService(llm.NewMockLLM(), memory.NewSessionStore(), states, nil, nil)
	return svc, states
}

func startSession(t *testing.T, svc *studio.Service) domain.SessionID {
	t.Helper()

	out, err := svc.StartSession(context.Background(), studio.StartSessionInput{Title: "测试小组"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Session.ID)
	return out.Session.ID
}

func TestSubmitAppendsExactlyFourTranscriptEntries(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	id := startSession(t, svc)

	out, err := svc.Submit(ctx, studio.SubmitInput{SessionID: id, Draft: "工业革命改变了社会。"})
	require.NoError(t, err)
	require.Len(t, out.Messages, 4)

	tl, err := svc.Timeline(ctx, id)
	require.NoError(t, err)
	require.Len(t, tl.Transcript, 4)

	// Per-agent history grows by exactly 2 per submission.
	_, err = svc.Submit(ctx, studio.SubmitInput{SessionID: id, Draft: "第二稿内容。"})
	require.NoError(t, err)

	tl, err = svc.Timeline(ctx, id)
	require.NoError(t, err)
	require.Len(t, tl.Transcript, 8)
}

func TestSubmitPersistsStateAcrossReload(t *testing.T) {
	ctx := context.Background()
	states := memory.NewStateStore()
	sessions := memory.NewSessionStore()

	svc := studio.NewService(llm.NewMockLLM(), sessions, states, nil, nil)
	id := startSession(t, svc)

	_, err := svc.Submit(ctx, studio.SubmitInput{SessionID: id, Draft: "第一稿"})
	require.NoError(t, err)

	// A fresh service over the same stores sees the same transcript.
	reloaded := studio.NewService(llm.NewMockLLM(), sessions, states, nil, nil)
	tl, err := reloaded.Timeline(ctx, id)
	require.NoError(t, err)
	require.Len(t, tl.Transcript, 4)
}

func TestSubmitEmptyDraftIsRecoverableSignal(t *testing.T) {
	ctx := context.Background()
	svc, states := newTestService(t)
	id := startSession(t, svc)

	for _, draft := range []string{"", "   ", "\n\t"} {
		_, err := svc.Submit(ctx, studio.SubmitInput{SessionID: id, Draft: draft})
		require.ErrorIs(t, err, domain.ErrEmptyDraft)
	}

	// Nothing was appended or persisted.
	snap, err := states.LoadState(id)
	require.NoError(t, err)
	require.Nil(t, snap)

	tl, err := svc.Timeline(ctx, id)
	require.NoError(t, err)
	require.Empty(t, tl.Transcript)
}

func TestSubmitUnknownSession(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Submit(context.Background(), studio.SubmitInput{SessionID: "missing", Draft: "草稿"})
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestClearEmptiesEverything(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	id := startSession(t, svc)

	_, err := svc.Submit(ctx, studio.SubmitInput{SessionID: id, Draft: "第一稿"})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, id))
	require.NoError(t, svc.Clear(ctx, id)) // idempotent

	tl, err := svc.Timeline(ctx, id)
	require.NoError(t, err)
	require.Empty(t, tl.Transcript)
	require.True(t, tl.JustCleared)

	// The cleared flag is consumed by the first observation.
	tl, err = svc.Timeline(ctx, id)
	require.NoError(t, err)
	require.False(t, tl.JustCleared)

	// Submitting after a clear starts from empty history.
	out, err := svc.Submit(ctx, studio.SubmitInput{SessionID: id, Draft: "新的开始"})
	require.NoError(t, err)
	require.Len(t, out.Messages, 4)
}

// failingStateStore simulates an unreadable persisted form.
type failingStateStore struct {
	saved *domain.StateSnapshot
}

func (f *failingStateStore) SaveState(id domain.SessionID, snap *domain.StateSnapshot) error {
	f.saved = snap
	return nil
}

func (f *failingStateStore) LoadState(id domain.SessionID) (*domain.StateSnapshot, error) {
	return nil, errors.New("corrupt snapshot")
}

func TestSubmitRecoversFromUnreadableState(t *testing.T) {
	ctx := context.Background()
	states := &failingStateStore{}
	svc := studio.NewService(llm.NewMockLLM(), memory.NewSessionStore(), states, nil, nil)
	id := startSession(t, svc)

	out, err := svc.Submit(ctx, studio.SubmitInput{SessionID: id, Draft: "草稿内容"})
	require.NoError(t, err)
	require.Len(t, out.Messages, 4)

	// The fresh state was persisted.
	require.NotNil(t, states.saved)
	require.Len(t, states.saved.Transcript, 4)
}

func TestListSessions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	startSession(t, svc)
	startSession(t, svc)

	sessions, err := svc.ListSessions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
}
