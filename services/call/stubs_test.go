package call

import (
	"context"
	"errors"
	"sync"

	"grotto/models"
)

// stubGenerator echoes a canned reply and records the context windows it was
// handed.
type stubGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	windows [][]models.TranscriptEntry
}

func (g *stubGenerator) GenerateReply(ctx context.Context, turns []models.TranscriptEntry) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.windows = append(g.windows, turns)
	if g.err != nil {
		return "", g.err
	}
	if g.reply != "" {
		return g.reply, nil
	}
	return "echo: " + turns[len(turns)-1].Text, nil
}

func (g *stubGenerator) windowSizes() []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	sizes := make([]int, len(g.windows))
	for i, w := range g.windows {
		sizes[i] = len(w)
	}
	return sizes
}

// stubExtractor delegates to per-category funcs; nil funcs return zero values.
type stubExtractor struct {
	intentFn    func(transcript string) (string, error)
	questionsFn func(transcript string) ([]string, error)
	profileFn   func(transcript string) (models.RenterProfile, error)
}

func (e *stubExtractor) ExtractIntent(ctx context.Context, transcript string) (string, error) {
	if e.intentFn == nil {
		return "", nil
	}
	return e.intentFn(transcript)
}

func (e *stubExtractor) ExtractQuestions(ctx context.Context, transcript string) ([]string, error) {
	if e.questionsFn == nil {
		return nil, nil
	}
	return e.questionsFn(transcript)
}

func (e *stubExtractor) ExtractProfile(ctx context.Context, transcript string) (models.RenterProfile, error) {
	if e.profileFn == nil {
		return models.RenterProfile{}, nil
	}
	return e.profileFn(transcript)
}

// stubRecorder collects saved records and can be told to fail.
type stubRecorder struct {
	mu      sync.Mutex
	err     error
	records []models.CallRecord
}

func (r *stubRecorder) Create(ctx context.Context, record models.CallRecord) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	if r.err != nil {
		return "", r.err
	}
	return record.CallSID, nil
}

func (r *stubRecorder) saved() []models.CallRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.CallRecord(nil), r.records...)
}

// stubMemory is an in-memory caller profile store.
type stubMemory struct {
	mu       sync.Mutex
	profiles map[string]models.RenterProfile
}

func newStubMemory() *stubMemory {
	return &stubMemory{profiles: make(map[string]models.RenterProfile)}
}

func (m *stubMemory) Get(ctx context.Context, callerNumber string) (models.RenterProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profiles[callerNumber], nil
}

func (m *stubMemory) Put(ctx context.Context, callerNumber string, profile models.RenterProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[callerNumber] = profile
	return nil
}

var errStub = errors.New("stub collaborator failure")
