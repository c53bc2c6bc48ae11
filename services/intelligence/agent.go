// File: service/ai/agent.go
package ai

import (
	"context"
	"strings"

	"grotto/models"
)

// Agent generates the voice agent's replies. It satisfies call.ReplyGenerator.
type Agent struct {
	client *GeminiClient
}

func NewAgent(client *GeminiClient) *Agent {
	return &Agent{client: client}
}

// GenerateReply asks the model for the agent's next utterance, given the
// bounded window of recent turns chosen by the conversation loop.
func (a *Agent) GenerateReply(ctx context.Context, turns []models.TranscriptEntry) (string, error) {
	reply, err := a.client.GenerateContent(ctx, buildReplyPrompt(turns))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}
