// Package message defines the request and result types exchanged by every
// transport.
package message

import (
	"encoding/base64"
	"time"

	"github.com/google/uuid"
)

// SpeechRequest asks for one text to be synthesized.
type SpeechRequest struct {
	// ID identifies the request in logs; assigned by the dispatcher when empty.
	ID string `json:"id,omitempty"`

	// Text is the input to synthesize. Required.
	Text string `json:"text"`

	// Locale, Voice and Style override the configured defaults when set.
	Locale string `json:"locale,omitempty"`
	Voice  string `json:"voice,omitempty"`
	Style  string `json:"style,omitempty"`
}

// EnsureID assigns a fresh UUID when the request has none.
func (r *SpeechRequest) EnsureID() {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
}

// SpeechResult is the outcome of a SpeechRequest. Exactly one of AudioData and
// Error is set.
type SpeechResult struct {
	// RequestID echoes SpeechRequest.ID.
	RequestID string `json:"request_id"`

	// AudioData is the synthesized audio, base64-encoded.
	AudioData string `json:"audioData,omitempty"`

	// ContentType is the sniffed MIME type of the audio.
	ContentType string `json:"contentType,omitempty"`

	// Bytes is the decoded audio size.
	Bytes int `json:"bytes,omitempty"`

	// Duration is the synthesis wall time.
	Duration time.Duration `json:"duration_ns,omitempty" swaggertype:"integer"`

	// Error describes why no audio was produced.
	Error string `json:"error,omitempty"`
}

// SetAudio base64-encodes raw audio bytes into AudioData.
func (r *SpeechResult) SetAudio(audio []byte, contentType string) {
	if len(audio) == 0 {
		return
	}
	r.AudioData = base64.StdEncoding.EncodeToString(audio)
	r.ContentType = contentType
	r.Bytes = len(audio)
}

// Audio decodes AudioData. It returns nil when the result carries no audio.
func (r *SpeechResult) Audio() ([]byte, error) {
	if r.AudioData == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(r.AudioData)
}

// OK reports whether the result carries audio.
func (r *SpeechResult) OK() bool {
	return r.Error == "" && r.AudioData != ""
}
