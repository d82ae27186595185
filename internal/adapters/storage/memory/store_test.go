package memory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/studycircle/studycircle/internal/adapters/storage/memory"
	"github.com/studycircle/studycircle/internal/domain"
)

func TestSessionStoreCRUD(t *testing.T) {
	store := memory.NewSessionStore()

	sess := &domain.Session{
		ID:        "s1",
		Title:     "小组一",
		CreatedAt: time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC),
	}

	require.NoError(t, store.CreateSession(sess))
	require.ErrorIs(t, store.CreateSession(sess), domain.ErrSessionExists)

	got, err := store.GetSession("s1")
	require.NoError(t, err)
	require.Equal(t, "小组一", got.Title)

	sess.Title = "改名后的小组"
	require.NoError(t, store.UpdateSession(sess))

	_, err = store.GetSession("missing")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	require.ErrorIs(t, store.UpdateSession(&domain.Session{ID: "missing"}), domain.ErrSessionNotFound)
}

func TestSessionStoreListOrdersByRecency(t *testing.T) {
	store := memory.NewSessionStore()

	older := &domain.Session{ID: "old", UpdatedAt: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)}
	newer := &domain.Session{ID: "new", UpdatedAt: time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, store.CreateSession(older))
	require.NoError(t, store.CreateSession(newer))

	out, err := store.ListSessions(0)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, domain.SessionID("new"), out[0].ID)

	out, err = store.ListSessions(1)
	require.NoError(t, err)
	require.Len(t, out, 1)
}

func TestStateStoreRoundTrip(t *testing.T) {
	store := memory.NewStateStore()

	// Missing snapshot is (nil, nil), not an error.
	snap, err := store.LoadState("s1")
	require.NoError(t, err)
	require.Nil(t, snap)

	in := &domain.StateSnapshot{
		Histories: map[domain.AgentID][]domain.Turn{
			domain.AgentReviewer: {{Role: domain.RoleUser, Content: "草稿"}},
		},
	}
	require.NoError(t, store.SaveState("s1", in))

	snap, err = store.LoadState("s1")
	require.NoError(t, err)
	require.Equal(t, in, snap)
}
