// Package http implements the HTTP transport for incognito.
//
// It exposes the synthesizer to browsers and scripts that cannot talk to the
// remote site themselves (no CORS, no cookie handling). /api/tts answers with
// base64 JSON, /api/speech with the audio bytes.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/nadzzz/incognito/docs"
	"github.com/nadzzz/incognito/internal/dispatch"
	"github.com/nadzzz/incognito/internal/message"
	"github.com/nadzzz/incognito/internal/transport"
)

// maxRequestSize bounds JSON request bodies.
const maxRequestSize = 1 << 20

// Transport implements transport.Transport over HTTP.
type Transport struct {
	port   int
	server *http.Server
}

// New creates a new HTTP transport on the given port.
func New(port int) *Transport {
	return &Transport{port: port}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "http" }

// Routes builds the request multiplexer around handler.
func (t *Transport) Routes(handler transport.Handler) http.Handler {
	mux := http.NewServeMux()

	// POST /api/tts: JSON in, base64 audio out.
	mux.HandleFunc("POST /api/tts", func(w http.ResponseWriter, r *http.Request) {
		t.handleTTS(w, r, handler)
	})

	// POST /api/speech: JSON in, audio bytes out.
	mux.HandleFunc("POST /api/speech", func(w http.ResponseWriter, r *http.Request) {
		t.handleSpeech(w, r, handler)
	})

	// Swagger UI, served from the generated OpenAPI docs.
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return mux
}

// Listen starts the HTTP server and routes incoming requests to the handler.
func (t *Transport) Listen(ctx context.Context, handler transport.Handler) error {
	t.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", t.port),
		Handler:           t.Routes(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("http transport listening", "port", t.port)

	go func() {
		<-ctx.Done()
		slog.Info("http transport shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = t.server.Shutdown(shutdownCtx)
	}()

	if err := t.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

// handleTTS processes a POST /api/tts request.
//
// @Summary     Synthesize speech (base64)
// @Description Runs one incognito session against the remote TTS site and returns the audio base64-encoded.
// @Tags        tts
// @Accept      json
// @Produce     json
// @Param       request  body      message.SpeechRequest  true  "Text and optional voice settings"
// @Success     200      {object}  message.SpeechResult   "Synthesized audio"
// @Failure     400      {object}  message.SpeechResult   "Missing text or invalid JSON"
// @Failure     502      {object}  message.SpeechResult   "The remote service produced no audio"
// @Router      /api/tts [post]
func (t *Transport) handleTTS(w http.ResponseWriter, r *http.Request, handler transport.Handler) {
	result, ok := t.run(w, r, handler)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleSpeech processes a POST /api/speech request.
//
// @Summary     Synthesize speech (audio)
// @Description Same as /api/tts but answers with the audio bytes and their sniffed content type.
// @Tags        tts
// @Accept      json
// @Produce     audio/wav
// @Param       request  body      message.SpeechRequest  true  "Text and optional voice settings"
// @Success     200      {file}    binary                 "Synthesized audio"
// @Failure     400      {object}  message.SpeechResult   "Missing text or invalid JSON"
// @Failure     502      {object}  message.SpeechResult   "The remote service produced no audio"
// @Router      /api/speech [post]
func (t *Transport) handleSpeech(w http.ResponseWriter, r *http.Request, handler transport.Handler) {
	result, ok := t.run(w, r, handler)
	if !ok {
		return
	}

	audio, err := result.Audio()
	if err != nil {
		slog.Error("decoding dispatched audio", "request_id", result.RequestID, "error", err)
		writeJSON(w, http.StatusInternalServerError, &message.SpeechResult{RequestID: result.RequestID, Error: err.Error()})
		return
	}

	contentType := result.ContentType
	if contentType == "" {
		contentType = "audio/wav"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", fmt.Sprint(len(audio)))
	w.Header().Set("X-Request-Id", result.RequestID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}

// run decodes the request and dispatches it. It writes the error response
// itself and returns ok=false when there is no audio to send.
func (t *Transport) run(w http.ResponseWriter, r *http.Request, handler transport.Handler) (*message.SpeechResult, bool) {
	var req message.SpeechRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestSize)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, &message.SpeechResult{Error: "invalid json: " + err.Error()})
		return nil, false
	}

	result, err := handler(r.Context(), &req)
	if err != nil {
		slog.Error("dispatch failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, &message.SpeechResult{RequestID: req.ID, Error: err.Error()})
		return nil, false
	}

	switch {
	case dispatch.IsEmptyText(result):
		writeJSON(w, http.StatusBadRequest, result)
		return nil, false
	case !result.OK():
		writeJSON(w, http.StatusBadGateway, result)
		return nil, false
	}
	return result, true
}

// Close gracefully shuts down the HTTP server.
func (t *Transport) Close() error {
	if t.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return t.server.Shutdown(ctx)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
