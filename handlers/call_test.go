package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"grotto/config"
	"grotto/models"
	"grotto/services/call"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type nopGenerator struct{}

func (nopGenerator) GenerateReply(ctx context.Context, turns []models.TranscriptEntry) (string, error) {
	return "ok", nil
}

type nopExtractor struct{}

func (nopExtractor) ExtractIntent(ctx context.Context, transcript string) (string, error) {
	return "", nil
}

func (nopExtractor) ExtractQuestions(ctx context.Context, transcript string) ([]string, error) {
	return nil, nil
}

func (nopExtractor) ExtractProfile(ctx context.Context, transcript string) (models.RenterProfile, error) {
	return models.RenterProfile{}, nil
}

type nopRecorder struct{}

func (nopRecorder) Create(ctx context.Context, record models.CallRecord) (string, error) {
	return record.CallSID, nil
}

func newTestManager(opts call.Options) *call.Manager {
	return call.NewManager(nopGenerator{}, nopExtractor{}, nopRecorder{}, nil, opts, zap.NewNop())
}

func postWebhook(h *CallHandler, form url.Values) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/voice", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req
	h.VoiceWebhookHandler(c)
	return w
}

func TestVoiceWebhookConnectsStreamWithCallerNumber(t *testing.T) {
	config.AppConfig.PublicHost = "example.com"
	h := NewCallHandler(newTestManager(call.Options{}), nil, zap.NewNop())

	w := postWebhook(h, url.Values{"CallSid": {"CA1"}, "From": {"+15551234567"}})

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<Say>"+welcomeGreeting+"</Say>")
	// The stream URL carries the caller number so the media handler can
	// re-register a session from it.
	assert.Contains(t, body, `wss://example.com/ws/CA1?from=%2B15551234567`)
}

func TestVoiceWebhookAtCapacityAnswersBusyWithoutStream(t *testing.T) {
	config.AppConfig.PublicHost = "example.com"
	m := newTestManager(call.Options{MaxActiveCalls: 1})
	_, err := m.StartSession(context.Background(), "CA0", "")
	require.NoError(t, err)
	h := NewCallHandler(m, nil, zap.NewNop())

	w := postWebhook(h, url.Values{"CallSid": {"CA1"}, "From": {"+15551234567"}})

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<Say>"+busyGreeting+"</Say>")
	assert.NotContains(t, body, "<Connect>")
}

func TestVoiceWebhookDuplicateSIDConflicts(t *testing.T) {
	m := newTestManager(call.Options{})
	_, err := m.StartSession(context.Background(), "CA1", "")
	require.NoError(t, err)
	h := NewCallHandler(m, nil, zap.NewNop())

	w := postWebhook(h, url.Values{"CallSid": {"CA1"}})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestVoiceWebhookRejectsMissingCallSid(t *testing.T) {
	h := NewCallHandler(newTestManager(call.Options{}), nil, zap.NewNop())
	w := postWebhook(h, url.Values{"From": {"+15551234567"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
