// File: service/ai/prompts.go
package ai

import (
	"strings"

	"grotto/models"
	"grotto/services/inventory"
)

const systemPrompt = `You are a helpful car rental assistant.
You help customers find the right rental car for their needs.
You have information about various cars including economy, SUV, luxury, and van options.
Be friendly, concise, and helpful. Answer questions about:
- Car availability and features
- Pricing
- Rental terms
- Recommendations based on customer needs

Keep responses brief and conversational since this is a voice call.
`

func buildReplyPrompt(turns []models.TranscriptEntry) string {
	var sb strings.Builder
	sb.WriteString(systemPrompt)
	sb.WriteString("\nAvailable cars:\n")
	sb.WriteString(inventory.Summary())
	sb.WriteString("\nConversation so far:\n")
	for _, turn := range turns {
		sb.WriteString(string(turn.Role))
		sb.WriteString(": ")
		sb.WriteString(turn.Text)
		sb.WriteByte('\n')
	}
	sb.WriteString("\nagent:")
	return sb.String()
}

const intentPrompt = `Classify the primary intent of the caller in this car rental call transcript.
Answer with exactly one of these labels and nothing else:
availability_check, pricing_inquiry, reservation_request, rental_terms, general_inquiry

Transcript:
`

const questionsPrompt = `List every distinct question the caller asked in this car rental call transcript.
Answer with a JSON array of strings, and nothing else. Answer [] if the caller asked no questions.

Transcript:
`

const profilePrompt = `Extract the renter profile from this car rental call transcript.
Answer with a single JSON object and nothing else, using exactly these keys
(omit any key the transcript gives no information for):
{"name": string, "phone": string, "email": string, "rental_dates": string,
 "location": string, "budget_range": string, "car_preferences": [string],
 "additional_notes": [string]}

Transcript:
`
