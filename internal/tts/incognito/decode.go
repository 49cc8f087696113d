package incognito

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// OutcomeKind tags the result of one synthesis exchange.
type OutcomeKind int

const (
	// OutcomeEmptyOrError means no audio was produced, for whatever reason.
	OutcomeEmptyOrError OutcomeKind = iota

	// OutcomeDecodedAudio means Outcome.Audio holds the synthesized audio.
	OutcomeDecodedAudio
)

func (k OutcomeKind) String() string {
	if k == OutcomeDecodedAudio {
		return "audio"
	}
	return "empty"
}

// Source tells where decoded audio came from.
type Source string

const (
	SourceJSON Source = "json" // base64 "stream" field of a JSON envelope
	SourceRaw  Source = "raw"  // response body used as-is
)

// Outcome is the result of one synthesis exchange. Audio is nil unless Kind
// is OutcomeDecodedAudio; Reason is diagnostic text for the empty case.
type Outcome struct {
	Kind        OutcomeKind
	Source      Source
	Audio       []byte
	ContentType string
	Reason      string
}

// HasAudio reports whether the outcome carries audio.
func (o Outcome) HasAudio() bool { return o.Kind == OutcomeDecodedAudio }

func emptyOutcome(format string, args ...any) Outcome {
	return Outcome{Kind: OutcomeEmptyOrError, Reason: fmt.Sprintf(format, args...)}
}

func audioOutcome(src Source, audio []byte) Outcome {
	return Outcome{Kind: OutcomeDecodedAudio, Source: src, Audio: audio}
}

// envelope is the JSON shape of the synthesis endpoint.
type envelope struct {
	Status string `json:"status"`
	Stream string `json:"stream"`
}

// Decode interprets a synthesis response. Any status other than 200 yields no
// audio. JSON bodies must carry status "success" and a base64 stream; other
// bodies count as audio only when longer than rawThreshold bytes.
func Decode(status int, contentType string, body []byte, rawThreshold int) Outcome {
	if status != http.StatusOK {
		return emptyOutcome("unexpected status %d: %s", status, preview(body))
	}

	if strings.Contains(strings.ToLower(contentType), "json") {
		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return emptyOutcome("parsing json response: %v", err)
		}
		if env.Status != "success" {
			return emptyOutcome("service returned status %q: %s", env.Status, preview(body))
		}
		if env.Stream == "" {
			return emptyOutcome("service reported success with an empty stream")
		}
		audio, err := base64.StdEncoding.DecodeString(env.Stream)
		if err != nil {
			return emptyOutcome("decoding base64 stream: %v", err)
		}
		return audioOutcome(SourceJSON, audio)
	}

	if len(body) > rawThreshold {
		return audioOutcome(SourceRaw, body)
	}
	return emptyOutcome("unexpected %d-byte %q response: %s", len(body), contentType, preview(body))
}

// preview shortens a body for log output.
func preview(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
