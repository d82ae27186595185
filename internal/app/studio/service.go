package studio

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studycircle/studycircle/internal/domain"
	"github.com/studycircle/studycircle/internal/observability"
)

// Service is the application layer: it owns session lifecycles and threads
// conversation state between the stores and the orchestrator.
type Service struct {
	sessions     domain.SessionStore
	states       domain.StateStore
	orchestrator *Orchestrator
	now          func() time.Time
	newID        func() string
}

func NewService(
	llm domain.LLMClient,
	sessions domain.SessionStore,
	states domain.StateStore,
	models map[domain.AgentID]string,
	rules []FallbackRule,
) *Service {
	return &Service{
		sessions:     sessions,
		states:       states,
		orchestrator: NewOrchestrator(llm, models, NewRepairer(rules)),
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

type StartSessionInput struct {
	Title string
}

type StartSessionOutput struct {
	Session *domain.Session
}

func (s *Service) StartSession(ctx context.Context, in StartSessionInput) (*StartSessionOutput, error) {
	now := s.now()

	log := observability.LoggerFromContext(ctx)
	log.Info("starting new session", "title", in.Title)

	session := &domain.Session{
		ID:        domain.SessionID(s.newID()),
		Title:     in.Title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sessions.CreateSession(session); err != nil {
		log.Error("failed to create session", "error", err)
		return nil, err
	}

	log.Info("session started", "session_id", session.ID)

	return &StartSessionOutput{Session: session}, nil
}

type SubmitInput struct {
	SessionID       domain.SessionID
	Draft           string
	ContextMaterial string
}

type SubmitOutput struct {
	// Messages are the transcript entries this submission appended:
	// the user entry plus one per agent, in fan-out order.
	Messages []domain.DisplayMessage
}

// Submit runs one draft through the full fan-out. An empty draft yields
// domain.ErrEmptyDraft without touching any state.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*SubmitOutput, error) {
	if strings.TrimSpace(in.Draft) == "" {
		return nil, domain.ErrEmptyDraft
	}

	session, err := s.sessions.GetSession(in.SessionID)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With("session_id", session.ID)
	log.Info("submission received", "draft_len", len(in.Draft), "has_context", in.ContextMaterial != "")

	state := s.loadState(ctx, session.ID)

	messages := s.orchestrator.Run(ctx, state, in.Draft, in.ContextMaterial)

	if err := s.states.SaveState(session.ID, state.Snapshot()); err != nil {
		log.Error("failed to persist state", "error", err)
		return nil, err
	}

	session.UpdatedAt = s.now()
	if err := s.sessions.UpdateSession(session); err != nil {
		log.Error("failed to update session", "error", err)
		return nil, err
	}

	log.Info("submission completed", "appended", len(messages))

	return &SubmitOutput{Messages: messages}, nil
}

// Clear empties the session's histories and transcript and marks it freshly
// cleared for one subsequent observation. Idempotent.
func (s *Service) Clear(ctx context.Context, id domain.SessionID) error {
	session, err := s.sessions.GetSession(id)
	if err != nil {
		return err
	}

	log := observability.LoggerFromContext(ctx).With("session_id", session.ID)

	state := s.loadState(ctx, session.ID)
	state.Reset()

	if err := s.states.SaveState(session.ID, state.Snapshot()); err != nil {
		log.Error("failed to persist cleared state", "error", err)
		return err
	}

	session.UpdatedAt = s.now()
	if err := s.sessions.UpdateSession(session); err != nil {
		log.Error("failed to update session", "error", err)
		return err
	}

	log.Info("session cleared")
	return nil
}

type TimelineOutput struct {
	Session    *domain.Session
	Transcript []domain.DisplayMessage
	// JustCleared is true exactly once after a clear, for the next render.
	JustCleared bool
}

// Timeline returns the session and its unified transcript. Observing a
// freshly cleared session consumes the cleared flag.
func (s *Service) Timeline(ctx context.Context, id domain.SessionID) (*TimelineOutput, error) {
	session, err := s.sessions.GetSession(id)
	if err != nil {
		return nil, err
	}

	state := s.loadState(ctx, session.ID)

	justCleared := state.ConsumeCleared()
	if justCleared {
		if err := s.states.SaveState(session.ID, state.Snapshot()); err != nil {
			observability.LoggerFromContext(ctx).Error("failed to consume cleared flag", "error", err)
		}
	}

	return &TimelineOutput{
		Session:     session,
		Transcript:  state.Transcript(),
		JustCleared: justCleared,
	}, nil
}

// ListSessions returns the most recent sessions.
func (s *Service) ListSessions(ctx context.Context, limit int) ([]*domain.Session, error) {
	return s.sessions.ListSessions(limit)
}

// loadState fetches the persisted snapshot for a session. A missing or
// unreadable snapshot yields a fresh empty state; persistence problems are
// never fatal.
func (s *Service) loadState(ctx context.Context, id domain.SessionID) *State {
	snap, err := s.states.LoadState(id)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("discarding unreadable state",
			"session_id", id, "error", err)
		return NewState()
	}
	return RestoreState(snap)
}
