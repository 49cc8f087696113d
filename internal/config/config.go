// Package config handles loading and validating the incognito configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the root configuration for the incognito client and daemon.
type Config struct {
	Service    ServiceConfig    `mapstructure:"service"`
	Voice      VoiceConfig      `mapstructure:"voice"`
	Batch      BatchConfig      `mapstructure:"batch"`
	Server     ServerConfig     `mapstructure:"server"`
	Transports TransportsConfig `mapstructure:"transports"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServiceConfig describes the remote text-to-speech site.
type ServiceConfig struct {
	BaseURL      string `mapstructure:"base_url"`      // landing page, also used for Origin/Referer
	GeneratePath string `mapstructure:"generate_path"` // synthesis endpoint, relative to BaseURL
	CSRFCookie   string `mapstructure:"csrf_cookie"`   // cookie echoed back as csrf_token / X-CSRF-TOKEN
	UserAgent    string `mapstructure:"user_agent"`

	// RawAudioThreshold is the body size above which a non-JSON response is
	// taken as audio. Smaller bodies are treated as error pages.
	RawAudioThreshold int `mapstructure:"raw_audio_threshold"`

	Timeout time.Duration `mapstructure:"timeout"`
}

// VoiceConfig holds the default synthesis parameters.
type VoiceConfig struct {
	Locale string `mapstructure:"locale"`
	Voice  string `mapstructure:"voice"`
	Style  string `mapstructure:"style"`
}

// BatchConfig configures the sequential batch runner.
type BatchConfig struct {
	OutputDir   string        `mapstructure:"output_dir"`
	FilePattern string        `mapstructure:"file_pattern"` // fmt pattern taking the 1-based index
	Pause       time.Duration `mapstructure:"pause"`
}

// ServerConfig holds the health check server settings.
type ServerConfig struct {
	HealthPort int `mapstructure:"health_port"`
}

// TransportsConfig holds the configuration for each transport layer.
type TransportsConfig struct {
	GRPC GRPCConfig `mapstructure:"grpc"`
	HTTP HTTPConfig `mapstructure:"http"`
}

// GRPCConfig configures the gRPC transport.
type GRPCConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// HTTPConfig configures the HTTP transport.
type HTTPConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"out":       "batch.output_dir",
	"pause":     "batch.pause",
	"locale":    "voice.locale",
	"voice":     "voice.voice",
	"style":     "voice.style",
	"base-url":  "service.base_url",
	"log-level": "logging.level",
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./incognito.yaml, ./configs/incognito.yaml, /etc/incognito/incognito.yaml.
// Flags from fs that are listed in flagKeys override every other source.
func Load(configFile string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("service.base_url", "https://speechactors.com/")
	v.SetDefault("service.generate_path", "/open-tool/generate")
	v.SetDefault("service.csrf_cookie", "csrf_cookie_name")
	v.SetDefault("service.user_agent", DefaultUserAgent)
	v.SetDefault("service.raw_audio_threshold", 1000)
	v.SetDefault("service.timeout", 60*time.Second)
	v.SetDefault("voice.locale", "ja-JP")
	v.SetDefault("voice.voice", "ja-JP-NanamiNeural")
	v.SetDefault("voice.style", "default")
	v.SetDefault("batch.output_dir", "incognito_audio")
	v.SetDefault("batch.file_pattern", "incognito_audio_%03d.wav")
	v.SetDefault("batch.pause", time.Second)
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("transports.http.enabled", true)
	v.SetDefault("transports.http.port", 8080)
	v.SetDefault("transports.grpc.enabled", false)
	v.SetDefault("transports.grpc.port", 50051)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("incognito")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/incognito")
	}

	// Environment variables: INCOGNITO_SERVICE_BASE_URL, INCOGNITO_BATCH_PAUSE, etc.
	v.SetEnvPrefix("INCOGNITO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %q: %w", name, err)
				}
			}
		}
	}

	// Read config file (optional; env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Debug("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the client cannot work with.
func (c *Config) Validate() error {
	if c.Service.BaseURL == "" {
		return fmt.Errorf("service.base_url must be set")
	}
	if c.Service.RawAudioThreshold < 0 {
		return fmt.Errorf("service.raw_audio_threshold must not be negative, got %d", c.Service.RawAudioThreshold)
	}
	if c.Batch.Pause < 0 {
		return fmt.Errorf("batch.pause must not be negative, got %s", c.Batch.Pause)
	}
	if !strings.Contains(c.Batch.FilePattern, "%") {
		return fmt.Errorf("batch.file_pattern %q has no index verb", c.Batch.FilePattern)
	}
	return nil
}

// DefaultUserAgent is a desktop Chrome user agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
