// File: call/loop.go
package call

import (
	"context"
	"time"

	"go.uber.org/zap"

	"grotto/models"
)

// FallbackReply is spoken when the reply generator fails for a turn. A single
// bad turn must never end the call.
const FallbackReply = "I apologize, I'm having trouble processing that. Could you please repeat?"

const replyTimeout = 20 * time.Second

// conversationLoop is the real-time half of one call: it consumes inbound
// utterances one at a time in arrival order, asks the generator for a reply
// using a bounded window of recent turns, appends both sides to the session,
// and emits the reply outbound.
type conversationLoop struct {
	session   *Session
	generator ReplyGenerator
	logger    *zap.Logger

	window      int // number of recent turns handed to the generator
	maxFailures int // consecutive generator failures before hanging up; 0 disables

	inbound chan string
	emit    func(text string)
	hangup  func()
	done    chan struct{}
}

func newConversationLoop(session *Session, generator ReplyGenerator, window, maxFailures int, emit func(string), hangup func(), logger *zap.Logger) *conversationLoop {
	return &conversationLoop{
		session:     session,
		generator:   generator,
		logger:      logger,
		window:      window,
		maxFailures: maxFailures,
		inbound:     make(chan string, 16),
		emit:        emit,
		hangup:      hangup,
		done:        make(chan struct{}),
	}
}

// offer hands an inbound utterance to the loop. Utterances are processed
// strictly in arrival order; if the loop has fallen far enough behind to fill
// the buffer, the utterance is dropped rather than blocking the media stream.
func (cl *conversationLoop) offer(text string) {
	select {
	case cl.inbound <- text:
	default:
		cl.logger.Warn("conversation loop backlogged, dropping utterance",
			zap.String("callSid", cl.session.CallSID()))
	}
}

func (cl *conversationLoop) start(ctx context.Context) {
	go cl.run(ctx)
}

func (cl *conversationLoop) run(ctx context.Context) {
	defer close(cl.done)
	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case text := <-cl.inbound:
			if cl.session.Status() != models.CallActive {
				return
			}
			cl.session.AppendTurn(models.RoleCaller, text)

			genCtx, cancel := context.WithTimeout(ctx, replyTimeout)
			reply, err := cl.generator.GenerateReply(genCtx, cl.session.LastTurns(cl.window))
			cancel()

			if ctx.Err() != nil {
				// The call ended while the reply was in flight. The caller
				// will never hear it, so nothing is appended or emitted.
				return
			}

			if err != nil {
				failures++
				cl.logger.Warn("reply generation failed",
					zap.String("callSid", cl.session.CallSID()),
					zap.Int("consecutiveFailures", failures),
					zap.Error(err))
				reply = FallbackReply
			} else {
				failures = 0
			}

			cl.session.AppendTurn(models.RoleAgent, reply)
			cl.emit(reply)

			if err != nil && cl.maxFailures > 0 && failures >= cl.maxFailures {
				cl.logger.Error("too many consecutive generation failures, ending call",
					zap.String("callSid", cl.session.CallSID()))
				cl.hangup()
				return
			}
		}
	}
}
