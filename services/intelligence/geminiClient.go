// File: service/ai/gemini_client.go
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cenkalti/backoff/v4"
	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// maxGenerateRetries bounds the retry budget for one generation call; after
// that the caller's fallback path takes over.
const maxGenerateRetries = 2

type GeminiClient struct {
	model *genai.GenerativeModel
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	return &GeminiClient{model: model}, nil
}

func (g *GeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	var out string
	op := func() error {
		resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return backoff.Permanent(errors.New("gemini returned no candidates"))
		}
		var sb strings.Builder
		for _, part := range resp.Candidates[0].Content.Parts {
			if textPart, ok := part.(genai.Text); ok {
				sb.WriteString(string(textPart))
			}
		}
		out = sb.String()
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxGenerateRetries), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	return out, nil
}
