// File: call/finalizer.go
package call

import (
	"context"

	"go.uber.org/zap"
)

// finalize tears down one call. The steps run strictly in order: the session
// leaves the active state, the extraction loop is cancelled and awaited
// (bounded), one last synchronous extraction pass catches the closing seconds
// of conversation, then the record is persisted with a single save attempt and
// the session leaves the store. A failed save is logged and the record
// discarded; holding the session open for retries is deliberately not done.
func (m *Manager) finalize(ctx context.Context, ac *ActiveCall) {
	sess := ac.session
	logger := m.logger.With(zap.String("callSid", sess.CallSID()))

	sess.markFinalizing()
	ac.cancel() // stops the conversation loop

	if !ac.extr.stop(m.opts.FinalizeTimeout) {
		logger.Warn("extraction loop did not acknowledge cancellation in time, proceeding")
	}

	passCtx, cancel := context.WithTimeout(context.Background(), m.opts.PassTimeout)
	runExtractionPass(passCtx, sess, m.extractor, logger)
	cancel()

	sess.markClosed()

	record := sess.Record()
	if _, err := m.recorder.Create(ctx, record); err != nil {
		logger.Error("failed to persist call record, discarding", zap.Error(err))
	} else {
		logger.Info("call record persisted",
			zap.Int("turns", len(record.Transcript)),
			zap.Int("intents", len(record.Intents)),
			zap.Int("questions", len(record.Questions)))
	}

	if m.memory != nil && sess.CallerNumber() != "" {
		if err := m.memory.Put(ctx, sess.CallerNumber(), record.Profile); err != nil {
			logger.Warn("failed to update caller memory", zap.Error(err))
		}
	}

	m.store.Remove(sess.CallSID())
	logger.Info("call finalized")
}
