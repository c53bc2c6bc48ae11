package handlers

import (
	"context"
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"grotto/services/speech"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Twilio connects from its own infrastructure
	},
}

// twilioEvent is the websocket frame shape of Twilio media streams. The
// "text" event is not part of Twilio's protocol; it is a development path
// that injects an utterance without audio.
type twilioEvent struct {
	Event     string        `json:"event"`
	StreamSID string        `json:"streamSid,omitempty"`
	Media     *mediaPayload `json:"media,omitempty"`
	Text      string        `json:"text,omitempty"`
}

type mediaPayload struct {
	Payload string `json:"payload"` // base64 mu-law audio
}

// MediaStreamHandler carries one call's media stream. Inbound audio is fed
// to speech recognition; recognized utterances go to the conversation loop;
// replies are emitted back as response events. When the stream stops or
// drops, the call is finalized.
func (h *CallHandler) MediaStreamHandler(c *gin.Context) {
	callSID := c.Param("callSid")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.String("callSid", callSID), zap.Error(err))
		return
	}
	defer conn.Close()

	var writeMu sync.Mutex
	var streamSID string

	emit := func(text string) {
		writeMu.Lock()
		defer writeMu.Unlock()
		err := conn.WriteJSON(gin.H{"event": "response", "streamSid": streamSID, "text": text})
		if err != nil {
			h.logger.Warn("failed to emit reply", zap.String("callSid", callSID), zap.Error(err))
		}
	}
	hangup := func() {
		writeMu.Lock()
		_ = conn.WriteJSON(gin.H{"event": "close", "streamSid": streamSID})
		writeMu.Unlock()
		conn.Close()
	}

	ac, err := h.manager.Attach(c.Request.Context(), callSID, c.Query("from"), emit, hangup)
	if err != nil {
		h.logger.Warn("failed to attach call", zap.String("callSid", callSID), zap.Error(err))
		writeMu.Lock()
		_ = conn.WriteJSON(gin.H{"event": "error", "text": err.Error()})
		writeMu.Unlock()
		return
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		ac.End(ctx)
	}()

	h.logger.Info("media stream connected", zap.String("callSid", callSID))

	var stt *speech.Stream
	if h.transcriber != nil {
		sttCtx, sttCancel := context.WithCancel(context.Background())
		defer sttCancel()
		stt, err = h.transcriber.OpenStream(sttCtx)
		if err != nil {
			h.logger.Warn("speech recognition unavailable for call",
				zap.String("callSid", callSID), zap.Error(err))
			stt = nil
		} else {
			defer stt.Close()
			go func() {
				for text := range stt.Results() {
					ac.HandleUtterance(text)
				}
			}()
		}
	}

	for {
		var ev twilioEvent
		if err := conn.ReadJSON(&ev); err != nil {
			h.logger.Info("media stream disconnected", zap.String("callSid", callSID))
			return
		}

		switch ev.Event {
		case "connected":
			// handshake frame, nothing to do
		case "start":
			streamSID = ev.StreamSID
		case "media":
			if stt == nil || ev.Media == nil {
				continue
			}
			audio, err := base64.StdEncoding.DecodeString(ev.Media.Payload)
			if err != nil {
				h.logger.Warn("dropping malformed media frame", zap.String("callSid", callSID))
				continue
			}
			if err := stt.Write(audio); err != nil {
				h.logger.Warn("failed to forward audio to recognizer",
					zap.String("callSid", callSID), zap.Error(err))
			}
		case "text":
			ac.HandleUtterance(ev.Text)
		case "stop":
			h.logger.Info("media stream stopped", zap.String("callSid", callSID))
			return
		}
	}
}
