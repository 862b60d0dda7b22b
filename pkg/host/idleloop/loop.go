// Package idleloop runs idle callbacks on a single goroutine in fixed
// frames, giving the fiber engine a real-time host.IdleScheduler.
//
// Every frame the loop hands each queued idle callback a deadline of
// Config.Budget past the frame start. Work posted with Submit runs on the
// same goroutine between frames, so host events and rendering never run
// concurrently.
package idleloop

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vango-dev/fiber/pkg/host"
)

var (
	// ErrClosed is returned when work is submitted after Run returned.
	ErrClosed = errors.New("idleloop: loop closed")

	// ErrRunning is returned when Run is called twice.
	ErrRunning = errors.New("idleloop: loop already running")
)

// Config configures a Loop.
type Config struct {
	// FrameInterval is the time between frames.
	// Default: 16ms.
	FrameInterval time.Duration

	// Budget is the idle time handed to callbacks in each frame.
	// Default: 10ms.
	Budget time.Duration

	// QueueSize is the capacity of the Submit queue.
	// Default: 256.
	QueueSize int

	// Logger receives panics recovered from callbacks and tasks.
	// Default: slog.Default().
	Logger *slog.Logger
}

// Option configures a Loop.
type Option func(*Config)

// WithFrameInterval sets the frame interval.
func WithFrameInterval(d time.Duration) Option {
	return func(c *Config) {
		c.FrameInterval = d
	}
}

// WithBudget sets the per-frame idle budget.
func WithBudget(d time.Duration) Option {
	return func(c *Config) {
		c.Budget = d
	}
}

// WithQueueSize sets the Submit queue capacity.
func WithQueueSize(n int) Option {
	return func(c *Config) {
		c.QueueSize = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

func defaultConfig() Config {
	return Config{
		FrameInterval: 16 * time.Millisecond,
		Budget:        10 * time.Millisecond,
		QueueSize:     256,
		Logger:        slog.Default(),
	}
}

// Loop is a frame-driven idle scheduler.
type Loop struct {
	cfg    Config
	logger *slog.Logger

	idleMu sync.Mutex
	idle   []func(host.Deadline)

	tasks   chan func()
	done    chan struct{}
	running atomic.Bool
	frames  atomic.Uint64
}

var _ host.IdleScheduler = (*Loop)(nil)

// New creates a Loop. Call Run to start it.
func New(opts ...Option) *Loop {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = 16 * time.Millisecond
	}
	if cfg.Budget <= 0 || cfg.Budget > cfg.FrameInterval {
		cfg.Budget = cfg.FrameInterval
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Loop{
		cfg:    cfg,
		logger: cfg.Logger.With("component", "idleloop"),
		tasks:  make(chan func(), cfg.QueueSize),
		done:   make(chan struct{}),
	}
}

// Config returns the effective configuration.
func (l *Loop) Config() Config {
	return l.cfg
}

// RequestIdleCallback implements host.IdleScheduler.
// Thread-safe: can be called from any goroutine.
func (l *Loop) RequestIdleCallback(cb func(host.Deadline)) {
	l.idleMu.Lock()
	l.idle = append(l.idle, cb)
	l.idleMu.Unlock()
}

// Submit queues fn to run on the loop goroutine.
// Thread-safe: can be called from any goroutine.
func (l *Loop) Submit(fn func()) error {
	select {
	case <-l.done:
		return ErrClosed
	default:
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrClosed
	}
}

// Do runs fn on the loop goroutine and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := l.Submit(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Frames returns the number of frames run so far.
func (l *Loop) Frames() uint64 {
	return l.frames.Load()
}

// Run drives the loop until ctx is done. It returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer close(l.done)

	ticker := time.NewTicker(l.cfg.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			l.safeExecute(fn)
		case now := <-ticker.C:
			l.frame(now)
		}
	}
}

// frame runs the idle callbacks queued before the frame started.
// Callbacks requested during the frame wait for the next one.
func (l *Loop) frame(start time.Time) {
	l.idleMu.Lock()
	batch := l.idle
	l.idle = nil
	l.idleMu.Unlock()

	deadline := host.Until(start.Add(l.cfg.Budget))
	for _, cb := range batch {
		l.safeExecute(func() { cb(deadline) })
	}
	l.frames.Add(1)
}

// safeExecute wraps execution with panic recovery so a single panicking
// callback doesn't stop the loop.
func (l *Loop) safeExecute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("task panicked", "panic", r)
		}
	}()
	fn()
}
