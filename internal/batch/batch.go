// Package batch runs a synthesizer over many texts, one at a time, and writes
// each result to a numbered file.
//
// Items are independent: a failed item is recorded and the loop moves on.
// Each item starts a fixed pause after the previous one finished, so the
// remote service never sees back-to-back sessions.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/nadzzz/incognito/internal/config"
	"github.com/nadzzz/incognito/internal/metrics"
	"github.com/nadzzz/incognito/internal/storage"
	"github.com/nadzzz/incognito/internal/tts"
)

// Result describes one batch item. Path is empty when Saved is false.
type Result struct {
	Index int // 1-based position in the input
	Text  string
	Path  string
	Saved bool
}

// Runner drives sequential batch synthesis.
type Runner struct {
	synth   tts.Synthesizer
	pause   time.Duration
	pattern string
	metrics *metrics.Metrics
}

// New creates a Runner. m may be nil.
func New(synth tts.Synthesizer, cfg config.BatchConfig, m *metrics.Metrics) *Runner {
	return &Runner{
		synth:   synth,
		pause:   cfg.Pause,
		pattern: cfg.FilePattern,
		metrics: m,
	}
}

// Run synthesizes texts in order into outputDir and returns one Result per
// text. The only error is failing to create outputDir. A cancelled context
// stops the loop; the remaining items are returned unsaved.
func (r *Runner) Run(ctx context.Context, texts []string, outputDir string) ([]Result, error) {
	store := storage.NewFileStore(outputDir, r.pattern)
	if err := store.Ensure(); err != nil {
		return nil, err
	}

	results := make([]Result, len(texts))
	for i, text := range texts {
		results[i] = Result{Index: i + 1, Text: text}
	}

	total := len(texts)
	for i := range results {
		item := &results[i]

		if i > 0 {
			if err := r.rest(ctx); err != nil {
				slog.Warn("batch interrupted", "processed", i, "total", total, "error", err)
				break
			}
		}
		if err := ctx.Err(); err != nil {
			slog.Warn("batch interrupted", "processed", i, "total", total, "error", err)
			break
		}

		logger := slog.With("item", item.Index, "total", total)
		logger.Info("processing batch item", "preview", preview(item.Text, 50))

		res, err := r.synth.Synthesize(ctx, item.Text, tts.SynthesizeOpts{})
		if err != nil {
			logger.Warn("batch item failed", "error", err)
			r.metrics.ObserveBatchItem(false)
			continue
		}

		path, err := store.Save(item.Index, res.Audio)
		if err != nil {
			logger.Error("saving batch item", "error", err)
			r.metrics.ObserveBatchItem(false)
			continue
		}

		item.Path = path
		item.Saved = true
		r.metrics.ObserveBatchItem(true)
		logger.Info("batch item saved", "path", path, "bytes", len(res.Audio))
	}

	slog.Info("batch complete", "succeeded", Succeeded(results), "total", total, "dir", outputDir)
	return results, nil
}

// rest blocks for one full pause counted from now. The limiter's initial
// token is spent first so Wait has to refill a whole token.
func (r *Runner) rest(ctx context.Context) error {
	if r.pause <= 0 {
		return nil
	}
	limiter := rate.NewLimiter(rate.Every(r.pause), 1)
	limiter.Allow()
	return limiter.Wait(ctx)
}

// Succeeded counts the saved items.
func Succeeded(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Saved {
			n++
		}
	}
	return n
}

// Summary renders "n/total" for log and CLI output.
func Summary(results []Result) string {
	return fmt.Sprintf("%d/%d", Succeeded(results), len(results))
}

func preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
