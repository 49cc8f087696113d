// Package incognito implements the TTS Synthesizer by driving a public
// text-to-speech web page the way a private browser window would.
//
// Every call opens a fresh session (cookie jar and connection pool), loads
// the landing page to collect cookies, echoes the CSRF cookie back, and posts
// a multipart form to the synthesis endpoint:
//
//	GET  {base_url}                      -> Set-Cookie: csrf_cookie_name=...
//	POST {base_url}{generate_path}       locale, text, voice, style[, csrf_token]
//	     X-CSRF-TOKEN: ...
//
// The response is either {"status":"success","stream":"<base64>"} or the raw
// audio bytes. Every failure collapses into an Outcome without audio.
package incognito

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/nadzzz/incognito/internal/config"
	"github.com/nadzzz/incognito/internal/metrics"
	"github.com/nadzzz/incognito/internal/tts"
)

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 25 << 20

// Client synthesizes speech through short-lived incognito sessions. It holds
// configuration only, so one Client may be shared freely.
type Client struct {
	baseURL      *url.URL
	generateURL  string
	origin       string
	csrfCookie   string
	userAgent    string
	rawThreshold int
	timeout      time.Duration
	maxBody      int64
	defaults     tts.SynthesizeOpts
	metrics      *metrics.Metrics
}

// Option customizes a Client.
type Option func(*Client)

// WithMetrics records every synthesis outcome in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a Client from the service and voice configuration.
func New(svc config.ServiceConfig, voice config.VoiceConfig, opts ...Option) (*Client, error) {
	base, err := url.Parse(svc.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", svc.BaseURL)
	}
	if base.Path == "" {
		base.Path = "/"
	}

	ua := svc.UserAgent
	if ua == "" {
		ua = config.DefaultUserAgent
	}
	csrf := svc.CSRFCookie
	if csrf == "" {
		csrf = "csrf_cookie_name"
	}

	c := &Client{
		baseURL:      base,
		generateURL:  base.JoinPath(svc.GeneratePath).String(),
		origin:       base.Scheme + "://" + base.Host,
		csrfCookie:   csrf,
		userAgent:    ua,
		rawThreshold: svc.RawAudioThreshold,
		timeout:      svc.Timeout,
		maxBody:      maxBodySize,
		defaults: tts.SynthesizeOpts{
			Locale: voice.Locale,
			Voice:  voice.Voice,
			Style:  voice.Style,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Generate runs one incognito exchange for text. It never fails: an Outcome
// without audio carries the reason as diagnostic text.
func (c *Client) Generate(ctx context.Context, text string, opts tts.SynthesizeOpts) Outcome {
	start := time.Now()
	opts = c.withDefaults(opts)
	logger := slog.With("voice", opts.Voice, "locale", opts.Locale, "text_length", len([]rune(text)))

	out := c.exchange(ctx, logger, text, opts)
	if out.HasAudio() {
		out.ContentType = mimetype.Detect(out.Audio).String()
		logger.Info("incognito synthesis complete",
			"source", out.Source, "bytes", len(out.Audio), "content_type", out.ContentType,
			"duration", time.Since(start))
	} else {
		logger.Warn("incognito synthesis produced no audio", "reason", out.Reason)
	}

	c.metrics.ObserveSynthesis(out.Kind.String(), string(out.Source), time.Since(start))
	return out
}

// exchange performs the two requests inside a session that is released on
// every return path.
func (c *Client) exchange(ctx context.Context, logger *slog.Logger, text string, opts tts.SynthesizeOpts) Outcome {
	if strings.TrimSpace(text) == "" {
		return emptyOutcome("empty text")
	}

	sess, err := newSession(c.timeout)
	if err != nil {
		return emptyOutcome("opening session: %v", err)
	}
	defer func() {
		sess.Close()
		logger.Debug("incognito session closed")
	}()

	status, err := c.visitLanding(ctx, sess)
	if err != nil {
		return emptyOutcome("loading landing page: %v", err)
	}

	cookies := sess.cookies(c.baseURL)
	logger.Debug("landing page loaded", "status", status, "cookies", cookieNames(cookies))

	token := cookies[c.csrfCookie]
	req, err := c.newGenerateRequest(ctx, text, opts, token)
	if err != nil {
		return emptyOutcome("building synthesis request: %v", err)
	}

	resp, err := sess.client.Do(req)
	if err != nil {
		return emptyOutcome("synthesis request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return emptyOutcome("reading synthesis response: %v", err)
	}
	if int64(len(body)) > c.maxBody {
		return emptyOutcome("response exceeds %d bytes", c.maxBody)
	}

	contentType := resp.Header.Get("Content-Type")
	logger.Debug("synthesis response received",
		"status", resp.StatusCode, "content_type", contentType, "bytes", len(body), "csrf", token != "")

	return Decode(resp.StatusCode, contentType, body, c.rawThreshold)
}

// visitLanding loads the landing page so the session collects its cookies.
// The landing page status is informational only.
func (c *Client) visitLanding(ctx context.Context, sess *session) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.String(), nil)
	if err != nil {
		return 0, err
	}
	req.Header = documentHeaders(c.userAgent)

	resp, err := sess.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	sess.remember(resp.Cookies())
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBody))

	return resp.StatusCode, nil
}

// newGenerateRequest builds the multipart synthesis POST. The CSRF token is
// sent as form field and header only when the landing page issued one.
func (c *Client) newGenerateRequest(ctx context.Context, text string, opts tts.SynthesizeOpts, csrfToken string) (*http.Request, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := [][2]string{
		{"locale", opts.Locale},
		{"text", text},
		{"voice", opts.Voice},
		{"style", opts.Style},
	}
	if csrfToken != "" {
		fields = append(fields, [2]string{csrfFormField, csrfToken})
	}
	for _, f := range fields {
		if err := writer.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("writing field %s: %w", f[0], err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.generateURL, body)
	if err != nil {
		return nil, err
	}
	req.Header = xhrHeaders(c.userAgent, c.origin, c.baseURL.String())
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if csrfToken != "" {
		req.Header.Set(csrfHeader, csrfToken)
	}
	return req, nil
}

// Synthesize implements tts.Synthesizer. A missing result is reported as
// tts.ErrNoAudio wrapped with the diagnostic reason.
func (c *Client) Synthesize(ctx context.Context, text string, opts tts.SynthesizeOpts) (*tts.SynthesizeResult, error) {
	out := c.Generate(ctx, text, opts)
	if !out.HasAudio() {
		return nil, fmt.Errorf("%w: %s", tts.ErrNoAudio, out.Reason)
	}
	return &tts.SynthesizeResult{
		Audio:       out.Audio,
		ContentType: out.ContentType,
	}, nil
}

// Ping loads the landing page in a throwaway session and fails when the site
// is unreachable or answers with a server error.
func (c *Client) Ping(ctx context.Context) error {
	sess, err := newSession(c.timeout)
	if err != nil {
		return err
	}
	defer sess.Close()

	status, err := c.visitLanding(ctx, sess)
	if err != nil {
		return fmt.Errorf("landing page: %w", err)
	}
	if status >= http.StatusInternalServerError {
		return fmt.Errorf("landing page: status %d", status)
	}
	return nil
}

// Close is a no-op; sessions are per-call.
func (c *Client) Close() error { return nil }

func (c *Client) withDefaults(opts tts.SynthesizeOpts) tts.SynthesizeOpts {
	if opts.Locale == "" {
		opts.Locale = c.defaults.Locale
	}
	if opts.Voice == "" {
		opts.Voice = c.defaults.Voice
	}
	if opts.Style == "" {
		opts.Style = c.defaults.Style
	}
	return opts
}

func cookieNames(cookies map[string]string) []string {
	names := make([]string, 0, len(cookies))
	for name := range cookies {
		names = append(names, name)
	}
	return names
}
