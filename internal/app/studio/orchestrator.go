package studio

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/studycircle/studycircle/internal/domain"
	"github.com/studycircle/studycircle/internal/observability"
)

// DefaultModelID is used for any agent without a configured model.
const DefaultModelID = "qwen-plus"

const userDisplayName = "你"

// Orchestrator fans one submission out to the fixed trio of agents and
// records the resulting turns. It processes one submission at a time to
// completion; there is no overlap between submissions.
type Orchestrator struct {
	agents   []*Agent
	repairer *Repairer
	now      func() time.Time
	newID    func() string
}

// NewOrchestrator constructs the reviewer -> researcher -> visualizer
// fan-out. models maps agent IDs to model IDs; missing entries use
// DefaultModelID.
func NewOrchestrator(llm domain.LLMClient, models map[domain.AgentID]string, repairer *Repairer) *Orchestrator {
	if repairer == nil {
		repairer = NewRepairer(nil)
	}
	return &Orchestrator{
		agents: []*Agent{
			NewAgent(NewReviewer(""), modelFor(models, domain.AgentReviewer), llm),
			NewAgent(NewResearcher(""), modelFor(models, domain.AgentResearcher), llm),
			NewAgent(NewVisualizer(""), modelFor(models, domain.AgentVisualizer), llm),
		},
		repairer: repairer,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func modelFor(models map[domain.AgentID]string, id domain.AgentID) string {
	if m := models[id]; m != "" {
		return m
	}
	return DefaultModelID
}

// Run executes the fan-out for one draft against the given state and returns
// the transcript entries it appended: one for the user and one per agent, in
// fixed order. An individual agent failure is recorded as that agent's
// response text; the remaining agents still run.
func (o *Orchestrator) Run(ctx context.Context, state *State, draft, contextMaterial string) []domain.DisplayMessage {
	log := observability.LoggerFromContext(ctx)
	log.Info("fan-out started", "agents_count", len(o.agents))

	userMsg := domain.DisplayMessage{
		ID:          domain.MessageID(o.newID()),
		Sender:      domain.SenderUser,
		DisplayName: userDisplayName,
		Content:     draft,
		CreatedAt:   o.now(),
	}
	state.AppendDisplay(userMsg)

	appended := make([]domain.DisplayMessage, 0, len(o.agents)+1)
	appended = append(appended, userMsg)

	for _, ag := range o.agents {
		start := time.Now()
		log.Info("agent run start", "agent", ag.ID())

		res := ag.Respond(ctx, draft, state.History(ag.ID()), contextMaterial)
		observability.ObserveAgentRequest(string(ag.ID()), res.Err == nil, time.Since(start))
		if res.Err != nil {
			log.Error("agent backend failure", "agent", ag.ID(), "error", res.Err)
		}

		text := res.Display()
		if ag.ID() == domain.AgentVisualizer {
			// Repair runs on whatever the visualizer produced, recovered
			// error strings included, so the display layer always gets
			// renderable diagram source.
			text = o.repairer.Repair(text, draft)
		}

		state.AppendExchange(ag.ID(), draft, text)

		agentMsg := domain.DisplayMessage{
			ID:          domain.MessageID(o.newID()),
			Sender:      string(ag.ID()),
			DisplayName: ag.DisplayName(),
			Content:     text,
			CreatedAt:   o.now(),
		}
		state.AppendDisplay(agentMsg)
		appended = append(appended, agentMsg)

		log.Info("agent run end", "agent", ag.ID(), "elapsed_ms", time.Since(start).Milliseconds())
	}

	observability.IncSubmission()
	log.Info("fan-out completed")
	return appended
}
