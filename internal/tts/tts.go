// Package tts defines the interface for text-to-speech synthesis.
//
// A synthesizer either produces audio or it does not: callers get audio bytes
// or ErrNoAudio, with the cause available only as diagnostic text.
package tts

import (
	"context"
	"errors"
)

// ErrNoAudio is returned when synthesis finished without producing audio.
var ErrNoAudio = errors.New("no audio produced")

// SynthesizeOpts controls synthesis behavior. Empty fields select the
// synthesizer's configured defaults.
type SynthesizeOpts struct {
	// Locale is the BCP-47 locale of the text (e.g., "ja-JP").
	Locale string

	// Voice is the remote voice identifier (e.g., "ja-JP-NanamiNeural").
	Voice string

	// Style is the speaking style understood by the voice ("default", "cheerful", ...).
	Style string
}

// Synthesizer converts text to audio.
type Synthesizer interface {
	// Synthesize generates audio from the given text.
	Synthesize(ctx context.Context, text string, opts SynthesizeOpts) (*SynthesizeResult, error)

	// Close releases any resources held by the synthesizer.
	Close() error
}

// SynthesizeResult holds the output of TTS synthesis.
type SynthesizeResult struct {
	// Audio is the synthesized audio exactly as delivered by the remote service.
	Audio []byte

	// ContentType is the sniffed MIME type of Audio (e.g., "audio/wav").
	ContentType string
}
