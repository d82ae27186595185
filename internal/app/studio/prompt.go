package studio

import (
	"fmt"

	"github.com/studycircle/studycircle/internal/domain"
)

// contextTemplate wraps uploaded reference material in a delimiter block the
// agents are told to prioritize over the draft itself.
const contextTemplate = "【参考资料/背景知识】\n" +
	"请优先基于以下提供的资料内容进行分析。如果用户的内容与资料冲突，请指出。\n" +
	"---开始资料---\n%s\n---结束资料---\n\n"

// draftTemplate wraps the draft the user is currently writing.
const draftTemplate = "【用户正在撰写的文档】\n%s\n\n请根据你的角色给出反馈。"

// BuildMessages assembles the model-facing turn sequence for one agent
// invocation: system prompt, optional reference material, the agent's prior
// turns verbatim, and the wrapped draft as the final user turn.
// Pure function: no I/O, deterministic for identical inputs.
func BuildMessages(systemPrompt, contextMaterial string, history []domain.Turn, draft string) []domain.Turn {
	messages := make([]domain.Turn, 0, len(history)+3)

	messages = append(messages, domain.Turn{
		Role:    domain.RoleSystem,
		Content: systemPrompt,
	})

	if contextMaterial != "" {
		messages = append(messages, domain.Turn{
			Role:    domain.RoleSystem,
			Content: fmt.Sprintf(contextTemplate, contextMaterial),
		})
	}

	messages = append(messages, history...)

	messages = append(messages, domain.Turn{
		Role:    domain.RoleUser,
		Content: fmt.Sprintf(draftTemplate, draft),
	})

	return messages
}
