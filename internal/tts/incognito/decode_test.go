package incognito

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	audio := []byte("RIFF....WAVEfmt fake audio payload")
	stream := base64.StdEncoding.EncodeToString(audio)
	bigBody := bytes.Repeat([]byte{0x52}, 1001)
	exactBody := bytes.Repeat([]byte{0x52}, 1000)

	tests := []struct {
		name        string
		status      int
		contentType string
		body        []byte
		wantKind    OutcomeKind
		wantSource  Source
		wantAudio   []byte
	}{
		{
			name:        "json success",
			status:      http.StatusOK,
			contentType: "application/json; charset=utf-8",
			body:        []byte(`{"status":"success","stream":"` + stream + `"}`),
			wantKind:    OutcomeDecodedAudio,
			wantSource:  SourceJSON,
			wantAudio:   audio,
		},
		{
			name:        "json error status",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        []byte(`{"status":"error","message":"limit reached"}`),
			wantKind:    OutcomeEmptyOrError,
		},
		{
			name:        "json success without stream",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        []byte(`{"status":"success"}`),
			wantKind:    OutcomeEmptyOrError,
		},
		{
			name:        "malformed json",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        []byte(`{"status":`),
			wantKind:    OutcomeEmptyOrError,
		},
		{
			name:        "invalid base64",
			status:      http.StatusOK,
			contentType: "text/json",
			body:        []byte(`{"status":"success","stream":"***"}`),
			wantKind:    OutcomeEmptyOrError,
		},
		{
			name:        "non-200 with valid json",
			status:      http.StatusForbidden,
			contentType: "application/json",
			body:        []byte(`{"status":"success","stream":"` + stream + `"}`),
			wantKind:    OutcomeEmptyOrError,
		},
		{
			name:        "non-200 with large body",
			status:      http.StatusInternalServerError,
			contentType: "audio/wav",
			body:        bigBody,
			wantKind:    OutcomeEmptyOrError,
		},
		{
			name:        "raw body over threshold",
			status:      http.StatusOK,
			contentType: "audio/wav",
			body:        bigBody,
			wantKind:    OutcomeDecodedAudio,
			wantSource:  SourceRaw,
			wantAudio:   bigBody,
		},
		{
			name:        "raw body at threshold",
			status:      http.StatusOK,
			contentType: "audio/wav",
			body:        exactBody,
			wantKind:    OutcomeEmptyOrError,
		},
		{
			name:        "short html page",
			status:      http.StatusOK,
			contentType: "text/html",
			body:        []byte("<!DOCTYPE html><html>blocked</html>"),
			wantKind:    OutcomeEmptyOrError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Decode(tt.status, tt.contentType, tt.body, 1000)

			assert.Equal(t, tt.wantKind, out.Kind)
			assert.Equal(t, tt.wantSource, out.Source)
			assert.Equal(t, tt.wantAudio, out.Audio)
			if tt.wantKind == OutcomeEmptyOrError {
				assert.False(t, out.HasAudio())
				assert.NotEmpty(t, out.Reason)
			}
		})
	}
}

func TestDecodeThresholdIsConfigurable(t *testing.T) {
	body := bytes.Repeat([]byte{1}, 64)

	assert.False(t, Decode(http.StatusOK, "application/octet-stream", body, 1000).HasAudio())
	assert.True(t, Decode(http.StatusOK, "application/octet-stream", body, 63).HasAudio())
}

func TestPreviewTruncates(t *testing.T) {
	long := bytes.Repeat([]byte("a"), 500)
	assert.Len(t, preview(long), 203)
	assert.Equal(t, "short", preview([]byte("short")))
}
