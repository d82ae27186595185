package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/studycircle/studycircle/internal/domain"
)

type VertexClient struct {
	client *genai.Client
}

// NewVertexClient creates an LLMClient based on Vertex AI (Gemini).
func NewVertexClient(ctx context.Context, projectID, location string) (*VertexClient, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("project and location are required for Vertex AI")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &VertexClient{client: client}, nil
}

// Generate implements domain.LLMClient using Vertex AI. System turns are
// folded into the system instruction; user/assistant turns become contents.
func (v *VertexClient) Generate(ctx context.Context, modelID string, messages []domain.Turn) (string, error) {
	var systemParts []string
	var contents []*genai.Content

	for _, t := range messages {
		switch t.Role {
		case domain.RoleSystem:
			systemParts = append(systemParts, t.Content)
		case domain.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(t.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(t.Content, genai.RoleUser))
		}
	}

	temp := float32(0.7)
	topP := float32(0.9)

	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		TopP:            &topP,
		MaxOutputTokens: 8192,
	}
	if len(systemParts) > 0 {
		cfg.SystemInstruction = genai.NewContentFromText(strings.Join(systemParts, "\n\n"), genai.RoleUser)
	}

	res, err := v.client.Models.GenerateContent(ctx, modelID, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("vertex generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("vertex returned empty text")
	}

	return text, nil
}
