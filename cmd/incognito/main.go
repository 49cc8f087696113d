// Incognito synthesizes speech through a public text-to-speech web page,
// opening a fresh private-browsing-style session for every text.
//
// Usage:
//
//	incognito [flags]                          synthesize --text into --output
//	incognito [flags] TEXT...                  batch: one numbered file per TEXT in --out
//	incognito --batch-file texts.yaml          batch from a file (YAML list or one text per line)
//	incognito --serve                          run the HTTP/gRPC proxy daemon
//	incognito --config /path/to/incognito.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nadzzz/incognito/internal/batch"
	"github.com/nadzzz/incognito/internal/config"
	"github.com/nadzzz/incognito/internal/dispatch"
	"github.com/nadzzz/incognito/internal/health"
	"github.com/nadzzz/incognito/internal/metrics"
	"github.com/nadzzz/incognito/internal/transport"
	grpctransport "github.com/nadzzz/incognito/internal/transport/grpc"
	httptransport "github.com/nadzzz/incognito/internal/transport/http"
	"github.com/nadzzz/incognito/internal/tts"
	"github.com/nadzzz/incognito/internal/tts/incognito"
)

// version is set at build time via ldflags.
var version = "dev"

const sampleText = "一方で、医師の働き方改革はまったなし、患者数の減少などで経営難に陥る病院もあとを絶たないといった葛藤も。"

func main() {
	fs := pflag.NewFlagSet("incognito", pflag.ExitOnError)
	showVersion := fs.Bool("version", false, "print version and exit")
	configFile := fs.String("config", "", "path to config file (e.g. configs/incognito.yaml)")
	serve := fs.Bool("serve", false, "run the HTTP/gRPC daemon instead of a one-shot synthesis")
	text := fs.String("text", sampleText, "text to synthesize in single-shot mode")
	output := fs.String("output", "incognito_output.wav", "output file in single-shot mode")
	batchFile := fs.String("batch-file", "", "file with texts to synthesize (.yaml list or one per line)")
	fs.String("out", "", "batch output directory (default incognito_audio)")
	fs.Duration("pause", 0, "pause between batch requests (default 1s)")
	fs.String("locale", "", "locale sent to the service (default ja-JP)")
	fs.String("voice", "", "voice sent to the service (default ja-JP-NanamiNeural)")
	fs.String("style", "", "speaking style sent to the service (default \"default\")")
	fs.String("base-url", "", "landing page of the TTS site")
	fs.String("log-level", "", "debug, info, warn or error")
	_ = fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("incognito %s\n", version)
		os.Exit(0)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	// Load configuration.
	cfg, err := config.Load(*configFile, fs)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging.
	config.SetupLogging(cfg.Logging)
	slog.Debug("incognito starting", "version", version, "service", cfg.Service.BaseURL)

	// Create root context with signal handling for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := metrics.New()
	client, err := incognito.New(cfg.Service, cfg.Voice, incognito.WithMetrics(m))
	if err != nil {
		slog.Error("failed to create client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	texts := fs.Args()
	if *batchFile != "" && !*serve {
		fromFile, loadErr := batch.LoadTexts(*batchFile)
		if loadErr != nil {
			slog.Error("failed to load batch input", "error", loadErr)
			os.Exit(1)
		}
		texts = append(texts, fromFile...)
	}

	switch chooseMode(*serve, texts, *batchFile) {
	case modeServe:
		err = runServer(ctx, cfg, client, m)
	case modeBatch:
		err = runBatch(ctx, cfg, client, m, texts)
	default:
		err = runSingle(ctx, client, *text, *output)
	}

	if err != nil {
		slog.Error("incognito failed", "error", err)
		os.Exit(1)
	}
}

type mode int

const (
	modeSingle mode = iota
	modeBatch
	modeServe
)

// chooseMode picks what main runs. --serve wins; any positional text or a
// batch file, even an empty one, means batch; otherwise single-shot.
func chooseMode(serve bool, texts []string, batchFile string) mode {
	switch {
	case serve:
		return modeServe
	case len(texts) > 0 || batchFile != "":
		return modeBatch
	default:
		return modeSingle
	}
}

// runSingle synthesizes one text into path.
func runSingle(ctx context.Context, synth tts.Synthesizer, text, path string) error {
	res, err := synth.Synthesize(ctx, text, tts.SynthesizeOpts{})
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, res.Audio, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	slog.Info("audio saved", "path", path, "bytes", len(res.Audio), "content_type", res.ContentType)
	return nil
}

// runBatch synthesizes texts sequentially into the configured directory.
func runBatch(ctx context.Context, cfg *config.Config, synth tts.Synthesizer, m *metrics.Metrics, texts []string) error {
	results, err := batch.New(synth, cfg.Batch, m).Run(ctx, texts, cfg.Batch.OutputDir)
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Saved {
			fmt.Printf("%03d  %s\n", r.Index, r.Path)
		} else {
			fmt.Printf("%03d  -\n", r.Index)
		}
	}
	if n := batch.Succeeded(results); n < len(results) {
		return fmt.Errorf("batch finished with failures: %s succeeded", batch.Summary(results))
	}
	return nil
}

// runServer exposes the client through the enabled transports until ctx ends.
func runServer(ctx context.Context, cfg *config.Config, client *incognito.Client, m *metrics.Metrics) error {
	var transports []transport.Transport
	if cfg.Transports.HTTP.Enabled {
		transports = append(transports, httptransport.New(cfg.Transports.HTTP.Port))
	}
	if cfg.Transports.GRPC.Enabled {
		transports = append(transports, grpctransport.New(cfg.Transports.GRPC.Port))
	}
	if len(transports) == 0 {
		return errors.New("no transports enabled, enable at least one in config")
	}

	dispatcher := dispatch.New(client)

	// Start health check server.
	healthServer := health.New(cfg.Server.HealthPort, m.Handler())
	healthServer.AddCheck("upstream", client.Ping)
	go func() {
		if err := healthServer.ListenAndServe(ctx); err != nil {
			slog.Error("health server failed", "error", err)
		}
	}()

	// Start all transports.
	var wg sync.WaitGroup
	for _, t := range transports {
		wg.Add(1)
		go func(t transport.Transport) {
			defer wg.Done()
			slog.Info("starting transport", "name", t.Name())
			if err := t.Listen(ctx, dispatcher.Handle); err != nil {
				slog.Error("transport failed", "name", t.Name(), "error", err)
			}
		}(t)
	}

	// Mark as ready once all transports are started.
	healthServer.SetReady(true)
	slog.Info("incognito ready",
		"version", version,
		"transports", len(transports),
		"health_port", cfg.Server.HealthPort)

	// Block until shutdown signal.
	<-ctx.Done()
	slog.Info("shutdown signal received, draining...")

	// Close all transports gracefully.
	for _, t := range transports {
		if err := t.Close(); err != nil {
			slog.Error("transport close error", "name", t.Name(), "error", err)
		}
	}

	wg.Wait()
	slog.Info("incognito stopped")
	return nil
}
