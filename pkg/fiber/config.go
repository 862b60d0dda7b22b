package fiber

import (
	"log/slog"
	"time"
)

// Config holds the Root settings.
type Config struct {
	// Threshold is the slack a deadline must report for another unit to
	// start. At least one unit runs per callback regardless.
	Threshold time.Duration

	// Debug enables hook-count assertions between renders.
	Debug bool

	// MaxNestedUpdates bounds consecutive re-renders caused by state
	// updates issued while rendering.
	MaxNestedUpdates int

	// Logger receives engine logs. Defaults to slog.Default().
	Logger *slog.Logger

	// OnError receives errors raised inside idle callbacks.
	// Defaults to logging them at error level.
	OnError func(error)

	// Observers are notified about cycle progress.
	Observers []Observer
}

// DefaultConfig returns the default Root configuration.
func DefaultConfig() Config {
	return Config{
		Threshold:        time.Millisecond,
		MaxNestedUpdates: 25,
	}
}

// Option configures a Root.
type Option func(*Config)

// WithThreshold sets the minimum deadline slack for starting a unit.
func WithThreshold(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.Threshold = d
		}
	}
}

// WithDebug toggles hook-count assertions.
func WithDebug(enabled bool) Option {
	return func(c *Config) {
		c.Debug = enabled
	}
}

// WithMaxNestedUpdates sets the render-phase update limit.
func WithMaxNestedUpdates(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxNestedUpdates = n
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithErrorHandler sets the handler for errors raised inside idle
// callbacks.
func WithErrorHandler(fn func(error)) Option {
	return func(c *Config) {
		c.OnError = fn
	}
}

// WithObserver adds an observer.
func WithObserver(o Observer) Option {
	return func(c *Config) {
		if o != nil {
			c.Observers = append(c.Observers, o)
		}
	}
}
