package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/studycircle/studycircle/internal/domain"
)

// MockLLM is a deterministic stand-in for local mode and tests. The
// visualizer gets valid Mermaid source so the repair pipeline passes it
// through; everyone else gets an echo.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Generate(ctx context.Context, modelID string, messages []domain.Turn) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("mock llm: empty message list")
	}

	if strings.Contains(messages[0].Content, "Mermaid") {
		return "graph TD\n    A[草稿主题] --> B[要点一]\n    A --> C[要点二]", nil
	}

	last := messages[len(messages)-1].Content
	return fmt.Sprintf("（本地模拟回复，共 %d 条消息）我读完了你的草稿：%q", len(messages), last), nil
}
