package studio

import (
	"time"

	"github.com/studycircle/studycircle/internal/domain"
)

// State holds one session's conversation state: the model-facing history per
// agent and the unified human-facing transcript. It is mutated only by the
// orchestrator's submission handling and by Reset; the single-active-
// submission discipline means no locking is needed here.
type State struct {
	histories  map[domain.AgentID][]domain.Turn
	transcript []domain.DisplayMessage
	cleared    bool
}

func NewState() *State {
	return &State{
		histories: make(map[domain.AgentID][]domain.Turn),
	}
}

// History returns the accumulated turns for one agent, oldest first.
func (s *State) History(id domain.AgentID) []domain.Turn {
	return s.histories[id]
}

// AppendExchange appends a user turn then an assistant turn to one agent's
// history. History length stays even and never decreases until a reset.
func (s *State) AppendExchange(id domain.AgentID, userContent, assistantContent string) {
	s.histories[id] = append(s.histories[id],
		domain.Turn{Role: domain.RoleUser, Content: userContent},
		domain.Turn{Role: domain.RoleAssistant, Content: assistantContent},
	)
}

// AppendDisplay appends one entry to the unified transcript.
func (s *State) AppendDisplay(msg domain.DisplayMessage) {
	s.transcript = append(s.transcript, msg)
}

// Transcript returns the unified transcript, oldest first.
func (s *State) Transcript() []domain.DisplayMessage {
	return s.transcript
}

// Reset empties all histories and the transcript and marks the state as
// freshly cleared. Idempotent.
func (s *State) Reset() {
	s.histories = make(map[domain.AgentID][]domain.Turn)
	s.transcript = nil
	s.cleared = true
}

// ConsumeCleared reports whether the state was cleared since the last
// observation, and consumes the flag.
func (s *State) ConsumeCleared() bool {
	c := s.cleared
	s.cleared = false
	return c
}

// Snapshot serializes the state into its flat persisted layout.
func (s *State) Snapshot() *domain.StateSnapshot {
	snap := &domain.StateSnapshot{
		Histories: make(map[domain.AgentID][]domain.Turn, len(s.histories)),
		Cleared:   s.cleared,
	}

	for id, turns := range s.histories {
		copied := make([]domain.Turn, len(turns))
		copy(copied, turns)
		snap.Histories[id] = copied
	}

	snap.Transcript = make([]domain.DisplayMessageRecord, 0, len(s.transcript))
	for _, m := range s.transcript {
		snap.Transcript = append(snap.Transcript, domain.DisplayMessageRecord{
			ID:          string(m.ID),
			Sender:      m.Sender,
			DisplayName: m.DisplayName,
			Content:     m.Content,
			CreatedAt:   m.CreatedAt.Format(time.RFC3339Nano),
		})
	}

	return snap
}

// RestoreState rebuilds a State from its persisted layout. Missing or
// malformed pieces default to empty: a bad snapshot degrades to a fresh
// state rather than failing the load.
func RestoreState(snap *domain.StateSnapshot) *State {
	s := NewState()
	if snap == nil {
		return s
	}

	for id, turns := range snap.Histories {
		if len(turns) == 0 {
			continue
		}
		copied := make([]domain.Turn, len(turns))
		copy(copied, turns)
		s.histories[id] = copied
	}

	for _, rec := range snap.Transcript {
		// Unparseable timestamps become zero times, not load failures.
		ts, _ := time.Parse(time.RFC3339Nano, rec.CreatedAt)
		s.transcript = append(s.transcript, domain.DisplayMessage{
			ID:          domain.MessageID(rec.ID),
			Sender:      rec.Sender,
			DisplayName: rec.DisplayName,
			Content:     rec.Content,
			CreatedAt:   ts,
		})
	}

	s.cleared = snap.Cleared
	return s
}
