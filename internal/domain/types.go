package domain

import "time"

type SessionID string
type MessageID string

// AgentID identifies one of the fixed set of specialized agents.
type AgentID string

const (
	AgentReviewer   AgentID = "reviewer"
	AgentResearcher AgentID = "researcher"
	AgentVisualizer AgentID = "visualizer"
)

// AgentOrder is the fixed fan-out order. The transcript preserves this
// relative order within every submission.
var AgentOrder = []AgentID{AgentReviewer, AgentResearcher, AgentVisualizer}

// SenderUser is the transcript sender value for the human participant.
const SenderUser = "user"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Timestamp = time.Time
