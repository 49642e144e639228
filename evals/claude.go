package evals

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ClaudeProvider scores grounding with Anthropic's API.
type ClaudeProvider struct {
	client *anthropic.Client
	model  string
}

// NewClaudeProvider reads the API key from AXGROUND_ANTHROPIC_KEY or
// ANTHROPIC_API_KEY.
func NewClaudeProvider(model string) (*ClaudeProvider, error) {
	apiKey := os.Getenv("AXGROUND_ANTHROPIC_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("evals: AXGROUND_ANTHROPIC_KEY or ANTHROPIC_API_KEY environment variable required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	if model == "" {
		model = string(anthropic.ModelClaudeSonnet4_20250514)
	}

	return &ClaudeProvider{client: &client, model: model}, nil
}

func (p *ClaudeProvider) Name() string { return "claude/" + p.model }

// Locate sends the screenshot and instruction and parses the answer point.
func (p *ClaudeProvider) Locate(ctx context.Context, imagePNG []byte, instruction string) (Point, error) {
	encoded := base64.StdEncoding.EncodeToString(imagePNG)

	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 256,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64("image/png", encoded),
				anthropic.NewTextBlock(buildLocatePrompt(instruction)),
			),
		},
	})
	if err != nil {
		return Point{}, fmt.Errorf("evals: claude: %w", err)
	}

	var responseText string
	for _, block := range resp.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}
	if responseText == "" {
		return Point{}, fmt.Errorf("evals: claude: empty response")
	}
	return ParsePoint(responseText)
}
