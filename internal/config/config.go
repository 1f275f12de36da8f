package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/fiber/internal/errors"
	"github.com/vango-dev/fiber/pkg/fiber"
	"github.com/vango-dev/fiber/pkg/metrics"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "fiber.json"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log format.
	DefaultLogFormat = "text"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "fiber"

	// DefaultTracerName is the default tracer name.
	DefaultTracerName = "github.com/vango-dev/fiber"

	// DefaultListen is the default devtools listen address.
	DefaultListen = "localhost:7070"

	// DefaultHistory is the default number of pass summaries devtools keeps.
	DefaultHistory = 50
)

// Config represents the complete fiber.json configuration.
type Config struct {
	// Log configures the reconciler's logger.
	Log LogConfig `json:"log,omitempty"`

	// Metrics configures the Prometheus collector.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing configures reconciliation spans.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// Devtools configures the devtools server.
	Devtools DevtoolsConfig `json:"devtools,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty"`
	Subsystem string `json:"subsystem,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty"`
}

// DevtoolsConfig contains devtools server settings.
type DevtoolsConfig struct {
	// Listen is the host:port the devtools server binds to.
	Listen string `json:"listen,omitempty"`

	// History is how many pass summaries are kept.
	History int `json:"history,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
		Devtools: DevtoolsConfig{
			Listen:  DefaultListen,
			History: DefaultHistory,
		},
	}
}

// Load reads fiber.json from the specified directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOrDefault reads fiber.json from dir, or returns the defaults when
// the directory has none.
func LoadOrDefault(dir string) (*Config, error) {
	if !Exists(dir) {
		return New(), nil
	}
	return Load(dir)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("F010").
				WithDetail("No " + ConfigFileName + " found at " + path).
				WithSuggestion("Run 'fiberctl config init' or create " + ConfigFileName + " manually")
		}
		return nil, errors.New("F010").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("F010").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("F010").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("F010").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
	if c.Devtools.Listen == "" {
		c.Devtools.Listen = DefaultListen
	}
	if c.Devtools.History == 0 {
		c.Devtools.History = DefaultHistory
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("F011").
			WithDetail("log.format must be text or json, got " + quote(c.Log.Format))
	}
	if c.Devtools.History < 1 {
		return errors.New("F012").
			WithDetail("devtools.history must be positive")
	}
	if _, _, err := net.SplitHostPort(c.Devtools.Listen); err != nil {
		return errors.New("F012").
			WithDetail("devtools.listen " + quote(c.Devtools.Listen) + " is not host:port").
			Wrap(err)
	}
	return nil
}

// SlogLevel parses Log.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, errors.New("F011").
		WithDetail("log.level " + quote(c.Log.Level) + " is not one of debug, info, warn, error")
}

// Logger builds the configured logger writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// MetricsOptions maps the metrics section to collector options.
func (c *Config) MetricsOptions() []metrics.Option {
	return []metrics.Option{
		metrics.WithNamespace(c.Metrics.Namespace),
		metrics.WithSubsystem(c.Metrics.Subsystem),
	}
}

// ReconcilerOptions maps the log and tracing sections to reconciler
// options. Spans go to the global tracer provider when tracing is enabled.
func (c *Config) ReconcilerOptions(logOut io.Writer) []fiber.Option {
	opts := []fiber.Option{fiber.WithLogger(c.Logger(logOut))}
	if c.Tracing.Enabled {
		opts = append(opts, fiber.WithTracerProvider(otel.GetTracerProvider()))
	} else {
		opts = append(opts, fiber.WithTracerProvider(noop.NewTracerProvider()))
	}
	return opts
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

func quote(s string) string {
	return `"` + s + `"`
}
