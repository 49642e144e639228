package evals

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider scores grounding with an OpenAI-compatible API. A custom
// base URL points it at self-hosted grounding models behind the same
// protocol.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider reads the API key from AXGROUND_OPENAI_KEY or
// OPENAI_API_KEY.
func NewOpenAIProvider(model, baseURL string) (*OpenAIProvider, error) {
	apiKey := os.Getenv("AXGROUND_OPENAI_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("evals: AXGROUND_OPENAI_KEY or OPENAI_API_KEY environment variable required")
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	if model == "" {
		model = "gpt-4o"
	}

	return &OpenAIProvider{client: openai.NewClientWithConfig(config), model: model}, nil
}

func (p *OpenAIProvider) Name() string { return "openai/" + p.model }

// Locate sends the screenshot and instruction and parses the answer point.
func (p *OpenAIProvider) Locate(ctx context.Context, imagePNG []byte, instruction string) (Point, error) {
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(imagePNG)

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
					{
						Type: openai.ChatMessagePartTypeText,
						Text: buildLocatePrompt(instruction),
					},
				},
			},
		},
		MaxTokens: 256,
	})
	if err != nil {
		return Point{}, fmt.Errorf("evals: openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Point{}, fmt.Errorf("evals: openai: empty response")
	}
	return ParsePoint(resp.Choices[0].Message.Content)
}
