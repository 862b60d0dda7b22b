package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/vango-dev/fiber/internal/errors"
	"github.com/vango-dev/fiber/pkg/fiber"
	"github.com/vango-dev/fiber/pkg/host/idleloop"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "fiber.json"

	// DefaultThreshold is the minimum deadline slack for starting a unit.
	DefaultThreshold = "1ms"

	// DefaultFrameInterval is the idle loop frame period.
	DefaultFrameInterval = "16ms"

	// DefaultBudget is the idle time granted per frame.
	DefaultBudget = "10ms"

	// DefaultQueueSize is the idle loop task queue capacity.
	DefaultQueueSize = 256

	// DefaultMaxNestedUpdates bounds render-phase re-renders.
	DefaultMaxNestedUpdates = 25

	// DefaultAddr is the listen address of the live server.
	DefaultAddr = "localhost:8080"

	// DefaultRegion is the AWS region used for snapshot publishing.
	DefaultRegion = "us-east-1"

	// DefaultLogMaxSizeMB is the log file rotation size.
	DefaultLogMaxSizeMB = 10

	// DefaultLogMaxBackups is the number of rotated log files kept.
	DefaultLogMaxBackups = 3
)

// Config represents the complete fiber.json configuration.
type Config struct {
	// Scheduler contains idle loop and work loop timing.
	Scheduler SchedulerConfig `json:"scheduler,omitempty"`

	// Engine contains reconciler settings.
	Engine EngineConfig `json:"engine,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// Serve contains live server settings.
	Serve ServeConfig `json:"serve,omitempty"`

	// Publish contains snapshot publishing settings.
	Publish PublishConfig `json:"publish,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// SchedulerConfig contains timing settings. Durations use Go syntax
// (e.g., "16ms").
type SchedulerConfig struct {
	// Threshold is the deadline slack required to start another unit.
	Threshold string `json:"threshold,omitempty"`

	// FrameInterval is the period between idle callbacks batches.
	FrameInterval string `json:"frameInterval,omitempty"`

	// Budget is the idle time granted to each frame.
	Budget string `json:"budget,omitempty"`

	// QueueSize is the capacity of the task queue.
	QueueSize int `json:"queueSize,omitempty"`
}

// EngineConfig contains reconciler settings.
type EngineConfig struct {
	// Debug enables hook-count assertions.
	Debug bool `json:"debug,omitempty"`

	// MaxNestedUpdates bounds render-phase re-renders.
	MaxNestedUpdates int `json:"maxNestedUpdates,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`

	// File, when set, receives logs instead of the terminal. The file is
	// rotated once it reaches MaxSizeMB.
	File string `json:"file,omitempty"`

	// MaxSizeMB is the rotation size. Default: 10.
	MaxSizeMB int `json:"maxSizeMB,omitempty"`

	// MaxBackups is the number of rotated files kept. Default: 3.
	MaxBackups int `json:"maxBackups,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty"`
}

// ServeConfig contains live server settings.
type ServeConfig struct {
	// Addr is the HTTP listen address.
	Addr string `json:"addr,omitempty"`

	// WriteTimeout bounds each websocket write.
	WriteTimeout string `json:"writeTimeout,omitempty"`
}

// PublishConfig contains S3 snapshot settings. Publishing is disabled
// while Bucket is empty.
type PublishConfig struct {
	Bucket   string `json:"bucket,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
	Region   string `json:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Scheduler: SchedulerConfig{
			Threshold:     DefaultThreshold,
			FrameInterval: DefaultFrameInterval,
			Budget:        DefaultBudget,
			QueueSize:     DefaultQueueSize,
		},
		Engine: EngineConfig{
			MaxNestedUpdates: DefaultMaxNestedUpdates,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "fiber",
		},
		Tracing: TracingConfig{
			TracerName: "fiber",
		},
		Serve: ServeConfig{
			Addr:         DefaultAddr,
			WriteTimeout: "5s",
		},
		Publish: PublishConfig{
			Region: DefaultRegion,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for fiber.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("F012").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path))
		}
		return nil, errors.New("F013").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("F013").
			WithDetail("Failed to parse " + path + ": " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("F013").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("F013").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Scheduler.Threshold == "" {
		c.Scheduler.Threshold = DefaultThreshold
	}
	if c.Scheduler.FrameInterval == "" {
		c.Scheduler.FrameInterval = DefaultFrameInterval
	}
	if c.Scheduler.Budget == "" {
		c.Scheduler.Budget = DefaultBudget
	}
	if c.Scheduler.QueueSize == 0 {
		c.Scheduler.QueueSize = DefaultQueueSize
	}
	if c.Engine.MaxNestedUpdates == 0 {
		c.Engine.MaxNestedUpdates = DefaultMaxNestedUpdates
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.File != "" && c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = DefaultLogMaxSizeMB
	}
	if c.Log.File != "" && c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = DefaultLogMaxBackups
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "fiber"
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = "fiber"
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultAddr
	}
	if c.Serve.WriteTimeout == "" {
		c.Serve.WriteTimeout = "5s"
	}
	if c.Publish.Region == "" {
		c.Publish.Region = DefaultRegion
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	for name, value := range map[string]string{
		"scheduler.threshold":     c.Scheduler.Threshold,
		"scheduler.frameInterval": c.Scheduler.FrameInterval,
		"scheduler.budget":        c.Scheduler.Budget,
		"serve.writeTimeout":      c.Serve.WriteTimeout,
	} {
		d, err := time.ParseDuration(value)
		if err != nil {
			return errors.New("F014").WithDetailf("%s: %s", name, err)
		}
		if d < 0 {
			return errors.New("F014").WithDetailf("%s must not be negative", name)
		}
	}
	if c.Scheduler.QueueSize < 0 {
		return errors.New("F014").WithDetail("scheduler.queueSize must not be negative")
	}
	if c.Engine.MaxNestedUpdates < 0 {
		return errors.New("F014").WithDetail("engine.maxNestedUpdates must not be negative")
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("F014").WithDetailf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("F014").WithDetailf("log.format %q is not text or json", c.Log.Format)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 {
		return errors.New("F014").WithDetail("log.maxSizeMB and log.maxBackups must not be negative")
	}
	return nil
}

// duration parses a validated duration field.
func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

// Threshold returns the work loop threshold.
func (c *Config) Threshold() time.Duration { return duration(c.Scheduler.Threshold) }

// FrameInterval returns the idle loop frame period.
func (c *Config) FrameInterval() time.Duration { return duration(c.Scheduler.FrameInterval) }

// Budget returns the idle time per frame.
func (c *Config) Budget() time.Duration { return duration(c.Scheduler.Budget) }

// WriteTimeout returns the websocket write timeout.
func (c *Config) WriteTimeout() time.Duration { return duration(c.Serve.WriteTimeout) }

// EngineOptions returns the fiber.Root options described by c.
func (c *Config) EngineOptions() []fiber.Option {
	return []fiber.Option{
		fiber.WithThreshold(c.Threshold()),
		fiber.WithDebug(c.Engine.Debug),
		fiber.WithMaxNestedUpdates(c.Engine.MaxNestedUpdates),
	}
}

// LoopOptions returns the idleloop.Loop options described by c.
func (c *Config) LoopOptions() []idleloop.Option {
	return []idleloop.Option{
		idleloop.WithFrameInterval(c.FrameInterval()),
		idleloop.WithBudget(c.Budget()),
		idleloop.WithQueueSize(c.Scheduler.QueueSize),
	}
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// LogWriter returns the rotating log file when Log.File is set, and w
// otherwise. Relative paths are resolved against the config directory.
func (c *Config) LogWriter(w io.Writer) io.Writer {
	if c.Log.File == "" {
		return w
	}
	path := c.Log.File
	if !filepath.IsAbs(path) && c.configPath != "" {
		path = filepath.Join(filepath.Dir(c.configPath), path)
	}
	size, backups := c.Log.MaxSizeMB, c.Log.MaxBackups
	if size <= 0 {
		size = DefaultLogMaxSizeMB
	}
	if backups <= 0 {
		backups = DefaultLogMaxBackups
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    size,
		MaxBackups: backups,
	}
}

// Logger builds the slog logger described by c, writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// LoadOrDefault loads fiber.json from dir, falling back to defaults when
// the file does not exist.
func LoadOrDefault(dir string) (*Config, error) {
	if !Exists(dir) {
		return New(), nil
	}
	return Load(dir)
}
