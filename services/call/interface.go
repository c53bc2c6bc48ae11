// File: call/interface.go
package call

import (
	"context"

	"grotto/models"
)

// ReplyGenerator produces the agent's next utterance from a bounded window of
// recent turns. Failures are transient; the conversation loop substitutes a
// fallback reply instead of ending the call.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, turns []models.TranscriptEntry) (string, error)
}

// Extractor mines structured data from a transcript snapshot. The three
// extractions are independent: each may fail on its own, and each is
// idempotent given the same input.
type Extractor interface {
	ExtractIntent(ctx context.Context, transcript string) (string, error)
	ExtractQuestions(ctx context.Context, transcript string) ([]string, error)
	ExtractProfile(ctx context.Context, transcript string) (models.RenterProfile, error)
}

// Recorder persists the finalized call record. The finalizer calls Create
// exactly once per call and discards the record if it fails.
type Recorder interface {
	Create(ctx context.Context, record models.CallRecord) (string, error)
}

// CallerMemory carries a caller's merged profile across calls from the same
// number.
type CallerMemory interface {
	Get(ctx context.Context, callerNumber string) (models.RenterProfile, error)
	Put(ctx context.Context, callerNumber string, profile models.RenterProfile) error
}
