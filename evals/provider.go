// Package evals measures grounding accuracy: for every benchmark sample a
// vision model is shown the page screenshot and asked where it would
// click, and the answer is scored against the sample's bounding box.
package evals

import (
	"context"
	"fmt"
)

// Point is a click location on the normalized [0,1000] grid used in model
// answers, origin top-left.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Provider asks one vision model where to click for an instruction.
type Provider interface {
	// Locate returns the model's click point on the [0,1000] grid for the
	// given PNG screenshot and element description.
	Locate(ctx context.Context, imagePNG []byte, instruction string) (Point, error)

	// Name identifies the provider in results and logs.
	Name() string
}

// NewProvider creates a provider by name.
func NewProvider(name, model, baseURL string) (Provider, error) {
	switch name {
	case "claude", "anthropic":
		return NewClaudeProvider(model)
	case "openai", "gpt":
		return NewOpenAIProvider(model, baseURL)
	default:
		return nil, fmt.Errorf("evals: unknown provider: %s (supported: claude, openai)", name)
	}
}
