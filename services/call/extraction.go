// File: call/extraction.go
package call

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"grotto/models"
)

// extractionLoop runs alongside the conversation loop of one call. On a fixed
// cadence it snapshots the transcript, fans out to the three extraction
// collaborators, and merges their results into the session. Cancellation is
// cooperative: it is observed only between passes, so an in-flight pass always
// completes and merges before the loop exits.
type extractionLoop struct {
	session   *Session
	extractor Extractor
	logger    *zap.Logger

	interval    time.Duration
	passTimeout time.Duration

	cancel context.CancelFunc
	ctx    context.Context
	done   chan struct{}

	// inFlight counts concurrently running passes; it must never exceed 1.
	inFlight atomic.Int32
	passes   atomic.Int64
}

func newExtractionLoop(session *Session, extractor Extractor, interval, passTimeout time.Duration, logger *zap.Logger) *extractionLoop {
	ctx, cancel := context.WithCancel(context.Background())
	return &extractionLoop{
		session:     session,
		extractor:   extractor,
		logger:      logger,
		interval:    interval,
		passTimeout: passTimeout,
		cancel:      cancel,
		ctx:         ctx,
		done:        make(chan struct{}),
	}
}

func (l *extractionLoop) start() {
	go l.run()
}

func (l *extractionLoop) run() {
	defer close(l.done)
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.ctx.Done():
			return
		case <-ticker.C:
			if l.session.Status() != models.CallActive {
				continue
			}
			if l.session.TurnCount() == 0 {
				continue
			}
			l.runPass()
		}
	}
}

// runPass executes one extraction pass. A fresh context is used on purpose:
// cancelling the loop must not abort a pass that is already under way, only
// the pass timeout bounds it.
func (l *extractionLoop) runPass() {
	if !l.inFlight.CompareAndSwap(0, 1) {
		// The loop is single-threaded, so a second concurrent pass would be a bug.
		l.logger.Error("extraction pass overlap detected", zap.String("callSid", l.session.CallSID()))
		return
	}
	defer l.inFlight.Store(0)

	ctx, cancel := context.WithTimeout(context.Background(), l.passTimeout)
	defer cancel()

	runExtractionPass(ctx, l.session, l.extractor, l.logger)
	l.passes.Add(1)
}

// stop signals cancellation and waits for the loop to exit, bounded by the
// given timeout. It returns false if the in-flight pass did not finish in
// time; finalization proceeds without it.
func (l *extractionLoop) stop(timeout time.Duration) bool {
	l.cancel()
	select {
	case <-l.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// runExtractionPass snapshots the transcript and fans out to the three
// extraction collaborators concurrently. A failure of one collaborator only
// skips that category for this pass; the other two still merge.
func runExtractionPass(ctx context.Context, session *Session, extractor Extractor, logger *zap.Logger) {
	transcript := session.SnapshotText()
	if transcript == "" {
		return
	}

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		intent, err := extractor.ExtractIntent(ctx, transcript)
		if err != nil {
			logger.Warn("intent extraction failed",
				zap.String("callSid", session.CallSID()), zap.Error(err))
			return
		}
		session.AddIntent(intent)
	}()

	go func() {
		defer wg.Done()
		questions, err := extractor.ExtractQuestions(ctx, transcript)
		if err != nil {
			logger.Warn("question extraction failed",
				zap.String("callSid", session.CallSID()), zap.Error(err))
			return
		}
		session.AddQuestions(questions)
	}()

	go func() {
		defer wg.Done()
		profile, err := extractor.ExtractProfile(ctx, transcript)
		if err != nil {
			logger.Warn("profile extraction failed",
				zap.String("callSid", session.CallSID()), zap.Error(err))
			return
		}
		session.MergeProfile(profile)
	}()

	wg.Wait()
}
