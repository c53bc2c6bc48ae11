// File: call/manager.go
package call

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"grotto/models"
)

// Options are the tunable policy constants of call handling.
type Options struct {
	ExtractionInterval   time.Duration
	PassTimeout          time.Duration
	FinalizeTimeout      time.Duration
	ContextWindow        int
	MaxGeneratorFailures int
	MaxActiveCalls       int
}

func (o *Options) withDefaults() {
	if o.ExtractionInterval <= 0 {
		o.ExtractionInterval = 5 * time.Second
	}
	if o.PassTimeout <= 0 {
		o.PassTimeout = 15 * time.Second
	}
	if o.FinalizeTimeout <= 0 {
		o.FinalizeTimeout = 10 * time.Second
	}
	if o.ContextWindow <= 0 {
		o.ContextWindow = 5
	}
}

// Manager owns the session store and wires each call's two loops to the
// response-generation, extraction, persistence and caller-memory
// collaborators.
type Manager struct {
	store     *Store
	generator ReplyGenerator
	extractor Extractor
	recorder  Recorder
	memory    CallerMemory // may be nil
	opts      Options
	logger    *zap.Logger
}

func NewManager(generator ReplyGenerator, extractor Extractor, recorder Recorder, memory CallerMemory, opts Options, logger *zap.Logger) *Manager {
	opts.withDefaults()
	return &Manager{
		store:     NewStore(),
		generator: generator,
		extractor: extractor,
		recorder:  recorder,
		memory:    memory,
		opts:      opts,
		logger:    logger,
	}
}

// Store exposes the session registry, mainly for handlers and tests.
func (m *Manager) Store() *Store {
	return m.store
}

// StartSession registers a new call session at webhook time. If the caller
// has a remembered profile from earlier calls it seeds the session, so the
// extraction merge only ever fills what is still missing.
func (m *Manager) StartSession(ctx context.Context, callSID, callerNumber string) (*Session, error) {
	sess, err := m.store.Create(callSID, callerNumber, m.opts.MaxActiveCalls)
	if err != nil {
		return nil, err
	}
	if m.memory != nil && callerNumber != "" {
		profile, err := m.memory.Get(ctx, callerNumber)
		if err != nil {
			m.logger.Warn("failed to load caller memory",
				zap.String("caller", callerNumber), zap.Error(err))
		} else {
			sess.MergeProfile(profile)
		}
	}
	return sess, nil
}

// ActiveCall binds a live session to its two running loops for the duration
// of the media stream.
type ActiveCall struct {
	manager *Manager
	session *Session
	conv    *conversationLoop
	extr    *extractionLoop
	cancel  context.CancelFunc
	endOnce sync.Once
}

// Attach starts the conversation loop and extraction loop for a registered
// session. If the media stream connects without a prior webhook the session
// is created on the spot.
func (m *Manager) Attach(ctx context.Context, callSID, callerNumber string, emit func(string), hangup func()) (*ActiveCall, error) {
	sess, err := m.store.Get(callSID)
	if errors.Is(err, ErrSessionNotFound) {
		sess, err = m.StartSession(ctx, callSID, callerNumber)
	}
	if err != nil {
		return nil, err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	conv := newConversationLoop(sess, m.generator, m.opts.ContextWindow, m.opts.MaxGeneratorFailures, emit, hangup, m.logger)
	extr := newExtractionLoop(sess, m.extractor, m.opts.ExtractionInterval, m.opts.PassTimeout, m.logger)
	conv.start(loopCtx)
	extr.start()

	m.logger.Info("call attached",
		zap.String("callSid", callSID),
		zap.String("caller", sess.CallerNumber()))

	return &ActiveCall{
		manager: m,
		session: sess,
		conv:    conv,
		extr:    extr,
		cancel:  cancel,
	}, nil
}

// Session returns the call's shared session.
func (ac *ActiveCall) Session() *Session {
	return ac.session
}

// HandleUtterance feeds one recognized caller utterance into the
// conversation loop, in arrival order.
func (ac *ActiveCall) HandleUtterance(text string) {
	if text == "" || ac.session.Status() != models.CallActive {
		return
	}
	ac.conv.offer(text)
}

// End runs call teardown exactly once; repeat calls are no-ops.
func (ac *ActiveCall) End(ctx context.Context) {
	ac.endOnce.Do(func() {
		ac.manager.finalize(ctx, ac)
	})
}
