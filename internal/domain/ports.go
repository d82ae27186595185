package domain

import "context"

// LLMClient is the sole network boundary to a model backend. It is treated
// as an untrusted, latency-bearing, failure-prone collaborator: any error it
// returns is recovered at the agent boundary, never propagated further.
type LLMClient interface {
	Generate(ctx context.Context, modelID string, messages []Turn) (string, error)
}

// SessionStore defines session metadata persistence.
type SessionStore interface {
	CreateSession(session *Session) error
	UpdateSession(session *Session) error
	GetSession(id SessionID) (*Session, error)
	ListSessions(limit int) ([]*Session, error)
}

// StateStore persists conversation state snapshots.
// LoadState returns (nil, nil) when no snapshot exists yet; an error means
// the persisted form is unreadable, which callers recover from by starting
// over with an empty state.
type StateStore interface {
	SaveState(id SessionID, snap *StateSnapshot) error
	LoadState(id SessionID) (*StateSnapshot, error)
}
