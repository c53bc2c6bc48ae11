package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"grotto/config"
	"grotto/services/call"
	"grotto/services/speech"
	"grotto/twiml"
	"grotto/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const welcomeGreeting = "Welcome to our car rental service. How can I help you today?"
const busyGreeting = "We're sorry, all of our agents are busy right now. Please call back in a few minutes."

// CallHandler serves the telephony surface: the voice webhook answering an
// incoming call and the websocket carrying its media stream.
type CallHandler struct {
	manager     *call.Manager
	transcriber *speech.Transcriber // nil disables audio transcription
	logger      *zap.Logger
}

func NewCallHandler(manager *call.Manager, transcriber *speech.Transcriber, logger *zap.Logger) *CallHandler {
	return &CallHandler{
		manager:     manager,
		transcriber: transcriber,
		logger:      logger,
	}
}

// VoiceWebhookHandler receives Twilio's incoming-call notification, registers
// the call session, and answers with TwiML connecting the call to the media
// websocket.
func (h *CallHandler) VoiceWebhookHandler(c *gin.Context) {
	callSID := c.PostForm("CallSid")
	from := c.PostForm("From")
	if callSID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid webhook payload", "CallSid is required")
		return
	}

	h.logger.Info("incoming call",
		zap.String("callSid", callSID),
		zap.String("from", from),
		zap.String("to", c.PostForm("To")))

	_, err := h.manager.StartSession(c.Request.Context(), callSID, from)
	switch {
	case errors.Is(err, call.ErrTooManyCalls):
		h.logger.Warn("rejecting call, at capacity", zap.String("callSid", callSID))
		h.respondTwiML(c, busyGreeting, "")
		return
	case errors.Is(err, call.ErrDuplicateSession):
		utils.JSONError(c, http.StatusConflict, "Duplicate call", "a session for this CallSid already exists")
		return
	case err != nil:
		utils.JSONError(c, http.StatusInternalServerError, "Failed to start call session", err.Error())
		return
	}

	// The caller number rides along so a stream reconnecting after a session
	// expired can still re-register with it.
	streamURL := "wss://" + config.AppConfig.PublicHost + "/ws/" + callSID
	if from != "" {
		streamURL += "?from=" + url.QueryEscape(from)
	}
	h.respondTwiML(c, welcomeGreeting, streamURL)
}

func (h *CallHandler) respondTwiML(c *gin.Context, greeting, streamURL string) {
	body, err := twiml.Voice(greeting, streamURL)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to render TwiML", err.Error())
		return
	}
	c.Data(http.StatusOK, "application/xml", body)
}
