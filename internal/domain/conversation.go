package domain

// Turn is one role-tagged message in an agent's model-facing history.
// Immutable once appended; append order is chronological order.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// DisplayMessage is one sender-tagged entry of the unified, human-facing
// transcript. Append-only; removed only by a full reset.
type DisplayMessage struct {
	ID          MessageID
	Sender      string // SenderUser or a stringified AgentID
	DisplayName string
	Content     string
	CreatedAt   Timestamp
}

// Session is one study-group conversation. Each session owns an independent
// conversation state (per-agent histories + transcript).
type Session struct {
	ID        SessionID
	Title     string
	CreatedAt Timestamp
	UpdatedAt Timestamp
}

// StateSnapshot is the flat persisted layout of one session's conversation
// state. It is the only shape storage adapters ever see.
type StateSnapshot struct {
	Histories  map[AgentID][]Turn     `json:"per_agent_history"`
	Transcript []DisplayMessageRecord `json:"transcript"`
	Cleared    bool                   `json:"cleared,omitempty"`
}

// DisplayMessageRecord is the wire/storage form of a DisplayMessage.
// Timestamps travel as RFC 3339 text so the snapshot stays storage-agnostic.
type DisplayMessageRecord struct {
	ID          string `json:"id"`
	Sender      string `json:"sender"`
	DisplayName string `json:"display_name"`
	Content     string `json:"content"`
	CreatedAt   string `json:"created_at"`
}
