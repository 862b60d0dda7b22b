package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/vango-dev/fiber/internal/config"
	"github.com/vango-dev/fiber/pkg/fiber"
	"github.com/vango-dev/fiber/pkg/host/idleloop"
	"github.com/vango-dev/fiber/pkg/host/memhost"
	"github.com/vango-dev/fiber/pkg/metrics"
	"github.com/vango-dev/fiber/pkg/tracing"
)

type runOptions struct {
	dir      string
	title    string
	items    []string
	logLevel string
	debug    bool
	ops      bool
	metrics  bool
	timeout  time.Duration
}

func runCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the demo on a real-time idle loop",
		Long: `Run mounts the demo app into an in-memory host scheduled by a
frame-based idle loop, then types and clicks through it.

Timing, logging and observers are read from fiber.json in the config
directory when present; flags override it.

Examples:
  fiberdemo run
  fiberdemo run --add milk --add eggs --metrics
  fiberdemo run --log-level=debug --ops`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runDemo(ctx, os.Stdout, os.Stderr, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "config", "c", ".", "Directory containing fiber.json")
	cmd.Flags().StringVarP(&opts.title, "title", "t", "Todos", "Application title")
	cmd.Flags().StringArrayVarP(&opts.items, "add", "a", []string{"write tests", "ship it"}, "Item to add through the form (repeatable)")
	cmd.Flags().StringVarP(&opts.logLevel, "log-level", "l", "", "Log level: debug, info, warn, error (default from fiber.json)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable hook-count assertions")
	cmd.Flags().BoolVar(&opts.ops, "ops", false, "Print the host mutation log")
	cmd.Flags().BoolVarP(&opts.metrics, "metrics", "m", false, "Print Prometheus metrics")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 5*time.Second, "Maximum time to wait for each render to settle")

	return cmd
}

func runDemo(ctx context.Context, stdout, stderr io.Writer, opts runOptions) error {
	cfg, err := config.LoadOrDefault(opts.dir)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.debug {
		cfg.Engine.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logOut := cfg.LogWriter(stderr)
	if c, ok := logOut.(io.Closer); ok {
		defer c.Close()
	}
	logger := cfg.Logger(logOut)

	loop := idleloop.New(append(cfg.LoopOptions(), idleloop.WithLogger(logger))...)

	registry := prometheus.NewRegistry()
	engineOpts := append(cfg.EngineOptions(), fiber.WithLogger(logger))
	if cfg.Metrics.Enabled || opts.metrics {
		engineOpts = append(engineOpts, fiber.WithObserver(metrics.New(
			metrics.WithRegistry(registry),
			metrics.WithNamespace(cfg.Metrics.Namespace),
		)))
	}
	if cfg.Tracing.Enabled {
		engineOpts = append(engineOpts, fiber.WithObserver(tracing.New(
			tracing.WithTracerName(cfg.Tracing.TracerName),
			tracing.WithContext(ctx),
		)))
	}

	h := memhost.New()
	root := fiber.NewRoot(h, loop, engineOpts...)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	start := time.Now()
	d := loopDriver{ctx: ctx, loop: loop, root: root, poll: loop.Config().FrameInterval, timeout: opts.timeout}
	if err := scenario(d, root, h, opts.title, opts.items); err != nil {
		return err
	}
	logger.Info("scenario finished", "items", len(opts.items), "frames", loop.Frames(), "elapsed", time.Since(start))

	var printErr error
	if err := loop.Do(ctx, func() {
		printErr = printHost(stdout, h, true, opts.ops)
		_ = root.Unmount()
	}); err != nil {
		return err
	}
	if printErr != nil {
		return printErr
	}

	cancel()
	<-done

	if opts.metrics {
		return writeMetrics(stdout, registry)
	}
	fmt.Fprintf(stdout, "\nrendered %d item(s) in %d frames\n", len(opts.items), loop.Frames())
	return nil
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	io.WriteString(w, "\n")
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
