package call

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"grotto/models"
)

func collectEmits() (func(string), chan string) {
	out := make(chan string, 32)
	return func(text string) { out <- text }, out
}

func awaitReply(t *testing.T, out chan string) string {
	t.Helper()
	select {
	case reply := <-out:
		return reply
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a reply")
		return ""
	}
}

func TestConversationLoopAppendsBothSidesInOrder(t *testing.T) {
	sess := newSession("CA1", "")
	gen := &stubGenerator{}
	emit, out := collectEmits()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop := newConversationLoop(sess, gen, 5, 0, emit, func() {}, zap.NewNop())
	loop.start(ctx)

	loop.offer("I need a car")
	assert.Equal(t, "echo: I need a car", awaitReply(t, out))
	loop.offer("an SUV")
	assert.Equal(t, "echo: an SUV", awaitReply(t, out))

	turns := sess.LastTurns(10)
	require.Len(t, turns, 4)
	assert.Equal(t, models.RoleCaller, turns[0].Role)
	assert.Equal(t, "I need a car", turns[0].Text)
	assert.Equal(t, models.RoleAgent, turns[1].Role)
	assert.Equal(t, models.RoleCaller, turns[2].Role)
	assert.Equal(t, "an SUV", turns[2].Text)
	assert.Equal(t, models.RoleAgent, turns[3].Role)
}

func TestConversationLoopFallsBackOnGeneratorError(t *testing.T) {
	sess := newSession("CA1", "")
	gen := &stubGenerator{err: errStub}
	emit, out := collectEmits()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop := newConversationLoop(sess, gen, 5, 0, emit, func() {}, zap.NewNop())
	loop.start(ctx)

	loop.offer("hello?")
	assert.Equal(t, FallbackReply, awaitReply(t, out))

	// The call survives the bad turn and keeps answering.
	loop.offer("still there?")
	assert.Equal(t, FallbackReply, awaitReply(t, out))

	turns := sess.LastTurns(10)
	require.Len(t, turns, 4)
	assert.Equal(t, FallbackReply, turns[1].Text)
}

func TestConversationLoopBoundsContextWindow(t *testing.T) {
	sess := newSession("CA1", "")
	gen := &stubGenerator{reply: "ok"}
	emit, out := collectEmits()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop := newConversationLoop(sess, gen, 3, 0, emit, func() {}, zap.NewNop())
	loop.start(ctx)

	for i := 0; i < 5; i++ {
		loop.offer("another utterance")
		awaitReply(t, out)
	}

	for _, size := range gen.windowSizes() {
		assert.LessOrEqual(t, size, 3)
	}
}

func TestConversationLoopHangsUpAfterConsecutiveFailures(t *testing.T) {
	sess := newSession("CA1", "")
	gen := &stubGenerator{err: errStub}
	emit, out := collectEmits()
	hungup := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop := newConversationLoop(sess, gen, 5, 2, emit, func() { close(hungup) }, zap.NewNop())
	loop.start(ctx)

	loop.offer("first")
	awaitReply(t, out)
	loop.offer("second")
	awaitReply(t, out)

	select {
	case <-hungup:
	case <-time.After(2 * time.Second):
		t.Fatal("expected hang-up after consecutive generation failures")
	}

	select {
	case <-loop.done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not exit after hanging up")
	}
}

type generatorFunc func(ctx context.Context, turns []models.TranscriptEntry) (string, error)

func (f generatorFunc) GenerateReply(ctx context.Context, turns []models.TranscriptEntry) (string, error) {
	return f(ctx, turns)
}

// Ending the call while a reply is in flight must not append or emit that
// reply: the caller never heard it, and the transcript is settled once the
// session leaves the active state.
func TestConversationLoopDropsReplyCancelledMidGeneration(t *testing.T) {
	sess := newSession("CA1", "")
	entered := make(chan struct{}, 1)
	gen := generatorFunc(func(ctx context.Context, _ []models.TranscriptEntry) (string, error) {
		entered <- struct{}{}
		<-ctx.Done()
		return "", ctx.Err()
	})
	emit, out := collectEmits()

	ctx, cancel := context.WithCancel(context.Background())
	loop := newConversationLoop(sess, gen, 5, 0, emit, func() {}, zap.NewNop())
	loop.start(ctx)

	loop.offer("I need a car")
	<-entered

	// Teardown order used by the finalizer: leave active, then cancel.
	sess.markFinalizing()
	cancel()

	select {
	case <-loop.done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not exit after cancellation")
	}

	select {
	case reply := <-out:
		t.Fatalf("emitted %q to an ended call", reply)
	default:
	}

	turns := sess.LastTurns(10)
	require.Len(t, turns, 1)
	assert.Equal(t, models.RoleCaller, turns[0].Role)
	assert.Equal(t, "I need a car", turns[0].Text)
}

func TestConversationLoopStopsOnceNotActive(t *testing.T) {
	sess := newSession("CA1", "")
	gen := &stubGenerator{}
	emit, out := collectEmits()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop := newConversationLoop(sess, gen, 5, 0, emit, func() {}, zap.NewNop())
	loop.start(ctx)

	sess.markFinalizing()
	loop.offer("too late")

	select {
	case reply := <-out:
		t.Fatalf("expected no reply after finalization, got %q", reply)
	case <-loop.done:
	case <-time.After(time.Second):
		t.Fatal("loop did not exit after the session left the active state")
	}
	assert.Equal(t, 0, sess.TurnCount())
}
