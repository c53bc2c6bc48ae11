// File: service/ai/extractor.go
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"grotto/models"
)

// GeminiExtractor mines intent, questions and renter profile from a
// transcript snapshot. It satisfies call.Extractor. The three methods are
// independent and idempotent given the same transcript.
type GeminiExtractor struct {
	client *GeminiClient
}

func NewGeminiExtractor(client *GeminiClient) *GeminiExtractor {
	return &GeminiExtractor{client: client}
}

var intentLabels = map[string]struct{}{
	"availability_check":  {},
	"pricing_inquiry":     {},
	"reservation_request": {},
	"rental_terms":        {},
	"general_inquiry":     {},
}

func (e *GeminiExtractor) ExtractIntent(ctx context.Context, transcript string) (string, error) {
	raw, err := e.client.GenerateContent(ctx, intentPrompt+transcript)
	if err != nil {
		return "", err
	}
	label := strings.ToLower(strings.Trim(stripFences(raw), `" .`))
	if _, ok := intentLabels[label]; !ok {
		return "", fmt.Errorf("unrecognized intent label %q", label)
	}
	return label, nil
}

func (e *GeminiExtractor) ExtractQuestions(ctx context.Context, transcript string) ([]string, error) {
	raw, err := e.client.GenerateContent(ctx, questionsPrompt+transcript)
	if err != nil {
		return nil, err
	}
	var questions []string
	if err := json.Unmarshal([]byte(stripFences(raw)), &questions); err != nil {
		return nil, fmt.Errorf("failed to parse questions response: %w", err)
	}
	return questions, nil
}

func (e *GeminiExtractor) ExtractProfile(ctx context.Context, transcript string) (models.RenterProfile, error) {
	raw, err := e.client.GenerateContent(ctx, profilePrompt+transcript)
	if err != nil {
		return models.RenterProfile{}, err
	}
	var profile models.RenterProfile
	if err := json.Unmarshal([]byte(stripFences(raw)), &profile); err != nil {
		return models.RenterProfile{}, fmt.Errorf("failed to parse profile response: %w", err)
	}
	return profile, nil
}

// stripFences removes a surrounding markdown code fence, which the model
// tends to add around JSON output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
