// File: speech/transcriber.go
package speech

import (
	"context"
	"fmt"
	"io"
	"sync"

	speech "cloud.google.com/go/speech/apiv1"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	speechpb "google.golang.org/genproto/googleapis/cloud/speech/v1"
)

// Transcriber wraps the Google Cloud Speech-to-Text client. One Transcriber
// is shared by all calls; each call opens its own recognition stream.
type Transcriber struct {
	client *speech.Client
	logger *zap.Logger
}

func NewTranscriber(ctx context.Context, credentialsFile string, logger *zap.Logger) (*Transcriber, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize speech client: %w", err)
	}
	return &Transcriber{client: client, logger: logger}, nil
}

func (t *Transcriber) Close() error {
	return t.client.Close()
}

// Stream is one live recognition session. Twilio media frames go in via
// Write; finalized utterances come out on Results in recognition order.
type Stream struct {
	stream    speechpb.Speech_StreamingRecognizeClient
	results   chan string
	logger    *zap.Logger
	closeOnce sync.Once
}

// OpenStream starts a streaming-recognition session configured for Twilio's
// media format (mu-law, 8 kHz, mono).
func (t *Transcriber) OpenStream(ctx context.Context) (*Stream, error) {
	st, err := t.client.StreamingRecognize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open recognition stream: %w", err)
	}

	cfg := &speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:          speechpb.RecognitionConfig_MULAW,
					SampleRateHertz:   8000,
					LanguageCode:      "en-US",
					AudioChannelCount: 1,
				},
				InterimResults: false,
			},
		},
	}
	if err := st.Send(cfg); err != nil {
		return nil, fmt.Errorf("failed to send recognition config: %w", err)
	}

	s := &Stream{
		stream:  st,
		results: make(chan string, 16),
		logger:  t.logger,
	}
	go s.receive()
	return s, nil
}

// Write feeds raw mu-law audio into the recognizer.
func (s *Stream) Write(audio []byte) error {
	return s.stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
			AudioContent: audio,
		},
	})
}

// Results delivers finalized utterances. The channel closes when the
// recognition stream ends.
func (s *Stream) Results() <-chan string {
	return s.results
}

// Close ends the audio side of the stream; pending results still drain.
func (s *Stream) Close() {
	s.closeOnce.Do(func() {
		if err := s.stream.CloseSend(); err != nil {
			s.logger.Warn("failed to close recognition stream", zap.Error(err))
		}
	})
}

func (s *Stream) receive() {
	defer close(s.results)
	for {
		resp, err := s.stream.Recv()
		if err == io.EOF {
			return
		}
		if err != nil {
			s.logger.Warn("recognition stream ended", zap.Error(err))
			return
		}
		for _, result := range resp.Results {
			if !result.IsFinal || len(result.Alternatives) == 0 {
				continue
			}
			if text := result.Alternatives[0].Transcript; text != "" {
				s.results <- text
			}
		}
	}
}
