package studio

import (
	"context"
	"fmt"

	"github.com/studycircle/studycircle/internal/domain"
)

// Persona is the single capability that distinguishes the three agents:
// who they are and how they instruct the model. The set is closed.
type Persona interface {
	ID() domain.AgentID
	DisplayName() string
	SystemPrompt() string
}

// reviewerPersona: finds logical gaps, never rewrites.
type reviewerPersona struct {
	name string
}

// NewReviewer creates the logic-review persona. An empty name uses the
// default display name.
func NewReviewer(name string) Persona {
	if name == "" {
		name = "马克"
	}
	return reviewerPersona{name: name}
}

func (p reviewerPersona) ID() domain.AgentID { return domain.AgentReviewer }

func (p reviewerPersona) DisplayName() string { return p.name }

func (p reviewerPersona) SystemPrompt() string {
	return fmt.Sprintf(
		"你是 %s，一个严厉的逻辑审核员。"+
			"你的任务是检查用户的文档是否存在逻辑漏洞、论据不足或表达不清的问题。"+
			"规则："+
			"1. 不要重写用户的文章。"+
			"2. 使用 Markdown 列表格式指出具体的逻辑问题。"+
			"3. 语气要客观、批判性强。"+
			"4. 如果写得很好，就简短回答'逻辑通顺'。",
		p.name,
	)
}

// researcherPersona: supplies supporting data, never evaluates.
type researcherPersona struct {
	name string
}

func NewResearcher(name string) Persona {
	if name == "" {
		name = "艾米"
	}
	return researcherPersona{name: name}
}

func (p researcherPersona) ID() domain.AgentID { return domain.AgentResearcher }

func (p researcherPersona) DisplayName() string { return p.name }

func (p researcherPersona) SystemPrompt() string {
	return fmt.Sprintf(
		"你是 %s，一个高效的资料搜集员。"+
			"你的任务是根据用户的内容，补充相关的事实数据、案例或名言。"+
			"规则："+
			"1. 提取用户文档中的关键概念。"+
			"2. 提供 1-2 个真实的数据或引用来源（你可以模拟检索到的数据）。"+
			"3. 格式必须是：**推荐数据：** [内容] (来源)。"+
			"4. 不要对文章进行评价，只提供素材。",
		p.name,
	)
}

// visualizerPersona: turns the draft into Mermaid diagram source.
type visualizerPersona struct {
	name string
}

func NewVisualizer(name string) Persona {
	if name == "" {
		name = "薇薇"
	}
	return visualizerPersona{name: name}
}

func (p visualizerPersona) ID() domain.AgentID { return domain.AgentVisualizer }

func (p visualizerPersona) DisplayName() string { return p.name }

func (p visualizerPersona) SystemPrompt() string {
	return fmt.Sprintf(
		"你是 %s，一个擅长逻辑可视化的设计师。"+
			"你的任务是将用户提供的文本转化为 Mermaid.js 的流程图或思维导图代码。"+
			"规则："+
			"1. 仔细分析文本中的因果关系、步骤或层级结构。"+
			"2. 如果内容是线性的，生成 'graph TD' (流程图)。"+
			"3. 如果内容是发散的，生成 'mindmap' (思维导图)。"+
			"4. 节点内容必须简洁，不超过 10 个字。"+
			"5. 严禁包含 Markdown 代码块标记（如 ```mermaid），只输出纯代码内容。"+
			"6. 确保使用中文作为节点标签。"+
			"7. 必须严格输出有效的Mermaid代码，确保图表能正确渲染。",
		p.name,
	)
}

// Result is the outcome of one agent invocation. Err carries a recovered
// backend failure; callers branch on it or render it inline, they never see
// a raised fault.
type Result struct {
	Text string
	Err  error
}

// Display renders the result as always-valid agent output. Failures become
// inline "Error: ..." text, matching what the transcript shows the user.
func (r Result) Display() string {
	if r.Err != nil {
		return "Error: " + r.Err.Error()
	}
	return r.Text
}

// Agent binds a persona to a model ID and the model backend.
type Agent struct {
	persona Persona
	modelID string
	llm     domain.LLMClient
}

func NewAgent(persona Persona, modelID string, llm domain.LLMClient) *Agent {
	return &Agent{
		persona: persona,
		modelID: modelID,
		llm:     llm,
	}
}

func (a *Agent) ID() domain.AgentID { return a.persona.ID() }

func (a *Agent) DisplayName() string { return a.persona.DisplayName() }

// Respond builds the prompt for this agent, invokes the model backend once,
// and returns the outcome as a Result. It holds no state: history is passed
// in, not kept.
func (a *Agent) Respond(ctx context.Context, draft string, history []domain.Turn, contextMaterial string) (res Result) {
	// A panicking backend must not take down the fan-out.
	defer func() {
		if r := recover(); r != nil {
			res = Result{Err: fmt.Errorf("model backend panic: %v", r)}
		}
	}()

	messages := BuildMessages(a.persona.SystemPrompt(), contextMaterial, history, draft)

	text, err := a.llm.Generate(ctx, a.modelID, messages)
	if err != nil {
		return Result{Err: err}
	}
	return Result{Text: text}
}
