package main

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/fiber/internal/config"
	"github.com/vango-dev/fiber/pkg/element"
	"github.com/vango-dev/fiber/pkg/fiber"
	"github.com/vango-dev/fiber/pkg/live"
	"github.com/vango-dev/fiber/pkg/tracing"
)

type serveOptions struct {
	dir      string
	addr     string
	title    string
	publish  string
	region   string
	endpoint string
	logLevel string
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo to browsers over a websocket",
		Long: `Serve mounts the demo app into a live session and serves it over
HTTP. Browsers receive the rendered HTML after every commit and send
their events back to the session.

Routes:
  /          the app
  /ws        websocket stream
  /snapshot  current HTML
  /publish   POST to store a snapshot in S3
  /metrics   Prometheus metrics

Examples:
  fiberdemo serve
  fiberdemo serve --addr :9000 --publish s3://my-bucket/demo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := serveConfig(opts)
			if err != nil {
				return err
			}
			ln, err := net.Listen("tcp", cfg.Serve.Addr)
			if err != nil {
				return err
			}
			success("serving on http://%s", ln.Addr())
			return runServe(ctx, ln, os.Stderr, cfg, opts.title)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "config", "c", ".", "Directory containing fiber.json")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (default from fiber.json)")
	cmd.Flags().StringVarP(&opts.title, "title", "t", "Todos", "Application title")
	cmd.Flags().StringVar(&opts.publish, "publish", "", "S3 location for snapshots, as s3://bucket/prefix")
	cmd.Flags().StringVar(&opts.region, "region", "", "AWS region (default from fiber.json)")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "S3-compatible endpoint URL")
	cmd.Flags().StringVarP(&opts.logLevel, "log-level", "l", "", "Log level: debug, info, warn, error (default from fiber.json)")

	return cmd
}

// serveConfig loads fiber.json and applies the flag overrides.
func serveConfig(opts serveOptions) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(opts.dir)
	if err != nil {
		return nil, err
	}
	if opts.addr != "" {
		cfg.Serve.Addr = opts.addr
	}
	if opts.publish != "" {
		bucket, prefix, err := live.ParseS3URL(opts.publish)
		if err != nil {
			return nil, err
		}
		cfg.Publish.Bucket, cfg.Publish.Prefix = bucket, prefix
	}
	if opts.region != "" {
		cfg.Publish.Region = opts.region
	}
	if opts.endpoint != "" {
		cfg.Publish.Endpoint = opts.endpoint
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runServe serves the demo session on ln until ctx is done.
func runServe(ctx context.Context, ln net.Listener, stderr io.Writer, cfg *config.Config, title string) error {
	logOut := cfg.LogWriter(stderr)
	if c, ok := logOut.(io.Closer); ok {
		defer c.Close()
	}
	logger := cfg.Logger(logOut)

	opts := []live.Option{
		live.WithTitle(title),
		live.WithLogger(logger),
		live.WithWriteTimeout(cfg.WriteTimeout()),
		live.WithEngineOptions(cfg.EngineOptions()...),
		live.WithLoopOptions(cfg.LoopOptions()...),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, live.WithRegistry(prometheus.NewRegistry()))
	}
	if cfg.Tracing.Enabled {
		opts = append(opts, live.WithEngineOptions(fiber.WithObserver(tracing.New(
			tracing.WithTracerName(cfg.Tracing.TracerName),
			tracing.WithContext(ctx),
		))))
	}
	if cfg.Publish.Bucket != "" {
		client := live.NewS3Client(cfg.Publish.Region, cfg.Publish.Endpoint)
		opts = append(opts, live.WithPublisher(live.NewS3Publisher(client, cfg.Publish.Bucket, cfg.Publish.Prefix)))
	}
	session := live.New(opts...)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	loopDone := make(chan error, 1)
	go func() { loopDone <- session.Run(ctx) }()

	if err := session.Mount(ctx, todoApp.Element(element.Prop("title", title))); err != nil {
		ln.Close()
		return err
	}

	srv := &http.Server{
		Handler:           session.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveDone := make(chan error, 1)
	go func() { serveDone <- srv.Serve(ln) }()
	logger.Info("serving", "addr", ln.Addr().String())

	var err error
	select {
	case <-ctx.Done():
	case err = <-serveDone:
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if shutdownErr := srv.Shutdown(shutdownCtx); err == nil {
		err = shutdownErr
	}
	cancel()
	<-loopDone

	if stderrors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
