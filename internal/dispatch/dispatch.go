// Package dispatch connects transports to the synthesizer.
//
// Every transport hands incoming SpeechRequests to Dispatcher.Handle. A
// failed synthesis is reported inside the SpeechResult, never as a Go error,
// so each transport can always answer the sender.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/nadzzz/incognito/internal/message"
	"github.com/nadzzz/incognito/internal/tts"
)

// ErrEmptyText is reported when a request carries no text.
var ErrEmptyText = errors.New("text is required")

// Dispatcher routes speech requests to a synthesizer.
type Dispatcher struct {
	synthesizer tts.Synthesizer
}

// New creates a new Dispatcher around synthesizer.
func New(synthesizer tts.Synthesizer) *Dispatcher {
	return &Dispatcher{synthesizer: synthesizer}
}

// Handle synthesizes a single request.
// This function is passed as the transport.Handler to each transport.
func (d *Dispatcher) Handle(ctx context.Context, req *message.SpeechRequest) (*message.SpeechResult, error) {
	start := time.Now()
	req.EnsureID()
	logger := slog.With("request_id", req.ID)

	result := &message.SpeechResult{RequestID: req.ID}

	if strings.TrimSpace(req.Text) == "" {
		result.Error = ErrEmptyText.Error()
		return result, nil
	}

	logger.Info("synthesis requested", "text_length", len([]rune(req.Text)), "voice", req.Voice)

	res, err := d.synthesizer.Synthesize(ctx, req.Text, tts.SynthesizeOpts{
		Locale: req.Locale,
		Voice:  req.Voice,
		Style:  req.Style,
	})
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err.Error()
		logger.Warn("synthesis failed", "error", err, "duration", result.Duration)
		return result, nil
	}

	result.SetAudio(res.Audio, res.ContentType)
	logger.Info("synthesis complete", "bytes", result.Bytes, "content_type", result.ContentType, "duration", result.Duration)
	return result, nil
}

// IsEmptyText reports whether result failed because the request had no text.
func IsEmptyText(result *message.SpeechResult) bool {
	return result.Error == ErrEmptyText.Error()
}
