package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/studycircle/studycircle/internal/domain"
)

// DashScope exposes an OpenAI-compatible endpoint for the qwen model family.
const defaultDashScopeBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"

type DashScopeClient struct {
	client openai.Client
}

// NewDashScopeClient creates an LLMClient backed by DashScope's
// OpenAI-compatible API.
func NewDashScopeClient(apiKey, baseURL string) (*DashScopeClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("dashscope api key is required")
	}
	if baseURL == "" {
		baseURL = defaultDashScopeBaseURL
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)

	return &DashScopeClient{client: client}, nil
}

// Generate implements domain.LLMClient.
func (c *DashScopeClient) Generate(ctx context.Context, modelID string, messages []domain.Turn) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(modelID),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
	}

	for _, t := range messages {
		switch t.Role {
		case domain.RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(t.Content))
		case domain.RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(t.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(t.Content))
		}
	}

	res, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("dashscope chat completion: %w", err)
	}

	if len(res.Choices) == 0 {
		return "", fmt.Errorf("dashscope returned no choices")
	}

	text := res.Choices[0].Message.Content
	if text == "" {
		return "", fmt.Errorf("dashscope returned empty text")
	}

	return text, nil
}
