// Package live serves a fiber Root over HTTP.
//
// A Session owns an in-memory host, an idle loop and a Root mounted into
// the host's container. Browsers load the page, connect over a websocket
// and receive the host HTML after every commit, together with the
// mutations the commit made. Client events are addressed to host nodes by
// ID and dispatched on the loop goroutine, so rendering and event handling
// never race.
//
// Every websocket write happens on the loop goroutine too.
package live

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/fiber/internal/errors"
	"github.com/vango-dev/fiber/pkg/element"
	"github.com/vango-dev/fiber/pkg/fiber"
	"github.com/vango-dev/fiber/pkg/host/idleloop"
	"github.com/vango-dev/fiber/pkg/host/memhost"
	"github.com/vango-dev/fiber/pkg/metrics"
)

var (
	// ErrUnknownEvent is sent to clients naming an unsupported event.
	ErrUnknownEvent = errors.New("F015")

	// ErrNodeNotFound is sent to clients addressing a missing host node.
	ErrNodeNotFound = errors.New("F016")

	// ErrNoPublisher is returned by Publish without a Publisher.
	ErrNoPublisher = errors.New("F017")
)

// Config configures a Session.
type Config struct {
	// Title is the page title.
	// Default: "fiber".
	Title string

	// Logger is used by the session, its loop and its Root.
	// Default: slog.Default().
	Logger *slog.Logger

	// Registry receives render metrics and is served on /metrics.
	// Default: nil (no metrics).
	Registry *prometheus.Registry

	// Publisher stores snapshots for POST /publish.
	// Default: nil (publishing disabled).
	Publisher Publisher

	// WriteTimeout bounds each websocket write.
	// Default: 5s.
	WriteTimeout time.Duration

	// EngineOptions are passed to fiber.NewRoot.
	EngineOptions []fiber.Option

	// LoopOptions are passed to idleloop.New.
	LoopOptions []idleloop.Option
}

// Option configures a Session.
type Option func(*Config)

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(c *Config) {
		c.Title = title
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithRegistry enables render metrics on the given registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(c *Config) {
		c.Registry = r
	}
}

// WithPublisher enables snapshot publishing.
func WithPublisher(p Publisher) Option {
	return func(c *Config) {
		c.Publisher = p
	}
}

// WithWriteTimeout sets the websocket write timeout.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.WriteTimeout = d
	}
}

// WithEngineOptions appends Root options.
func WithEngineOptions(opts ...fiber.Option) Option {
	return func(c *Config) {
		c.EngineOptions = append(c.EngineOptions, opts...)
	}
}

// WithLoopOptions appends idle loop options.
func WithLoopOptions(opts ...idleloop.Option) Option {
	return func(c *Config) {
		c.LoopOptions = append(c.LoopOptions, opts...)
	}
}

// Message is sent from the server to clients.
type Message struct {
	Type MessageType `json:"type"`

	// Seq is the number of commits broadcast so far.
	Seq uint64 `json:"seq"`

	// Client is the ID assigned to the receiving client (snapshot only).
	Client string `json:"client,omitempty"`

	// HTML is the container's inner HTML with data-node attributes.
	HTML string `json:"html,omitempty"`

	// Ops are the host mutations made by the commit, one per line.
	Ops []string `json:"ops,omitempty"`

	Error string `json:"error,omitempty"`
}

// MessageType identifies a server message.
type MessageType string

const (
	MessageSnapshot MessageType = "snapshot"
	MessagePatch    MessageType = "patch"
	MessageError    MessageType = "error"
)

// ClientEvent is sent from clients to the server.
type ClientEvent struct {
	// Type is a host event name (e.g., "click").
	Type string `json:"type"`

	// Node is the data-node ID of the target.
	Node int `json:"node"`

	Value string `json:"value,omitempty"`
	Key   string `json:"key,omitempty"`
}

// Session hosts one Root and its connected clients.
type Session struct {
	cfg      Config
	logger   *slog.Logger
	loop     *idleloop.Loop
	host     *memhost.Host
	root     *fiber.Root
	upgrader websocket.Upgrader

	// Loop goroutine only. Values are client IDs.
	clients map[*websocket.Conn]string
	seq     uint64
}

// New creates a Session. Call Run to start its loop and Mount to render.
func New(opts ...Option) *Session {
	cfg := Config{
		Title:        "fiber",
		Logger:       slog.Default(),
		WriteTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}

	s := &Session{
		cfg:     cfg,
		logger:  cfg.Logger.With("component", "live"),
		host:    memhost.New(),
		clients: make(map[*websocket.Conn]string),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	s.loop = idleloop.New(append(slices.Clone(cfg.LoopOptions), idleloop.WithLogger(cfg.Logger))...)

	engine := append(slices.Clone(cfg.EngineOptions),
		fiber.WithLogger(cfg.Logger),
		fiber.WithObserver(broadcaster{s: s}),
	)
	if cfg.Registry != nil {
		engine = append(engine, fiber.WithObserver(metrics.New(metrics.WithRegistry(cfg.Registry))))
	}
	s.root = fiber.NewRoot(s.host, s.loop, engine...)
	return s
}

// Run drives the session's loop until ctx is done, then disconnects all
// clients.
func (s *Session) Run(ctx context.Context) error {
	err := s.loop.Run(ctx)
	for conn := range s.clients {
		conn.Close()
		delete(s.clients, conn)
	}
	return err
}

// Mount renders el into the session's container.
func (s *Session) Mount(ctx context.Context, el *element.Element) error {
	var err error
	if doErr := s.loop.Do(ctx, func() {
		err = s.root.Mount(el, s.host.Container())
	}); doErr != nil {
		return doErr
	}
	return err
}

// Settle waits until the Root has no pending render work, polling once
// per frame.
func (s *Session) Settle(ctx context.Context) error {
	for {
		var pending bool
		if err := s.loop.Do(ctx, func() { pending = s.root.Pending() }); err != nil {
			return err
		}
		if !pending {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.loop.Config().FrameInterval):
		}
	}
}

// Dispatch delivers ev to its target host node on the loop goroutine.
func (s *Session) Dispatch(ctx context.Context, ev ClientEvent) error {
	var err error
	if doErr := s.loop.Do(ctx, func() { err = s.dispatch(ev) }); doErr != nil {
		return doErr
	}
	return err
}

// HTML returns the container's inner HTML. With ids set, elements carry
// data-node attributes.
func (s *Session) HTML(ctx context.Context, ids bool) (string, error) {
	var html string
	err := s.loop.Do(ctx, func() { html = s.html(ids) })
	return html, err
}

// Clients returns the number of connected websocket clients.
func (s *Session) Clients(ctx context.Context) (int, error) {
	var n int
	err := s.loop.Do(ctx, func() { n = len(s.clients) })
	return n, err
}

// Publish stores a static page of the current HTML and returns the
// location reported by the Publisher.
func (s *Session) Publish(ctx context.Context) (string, error) {
	if s.cfg.Publisher == nil {
		return "", ErrNoPublisher
	}
	var (
		body string
		seq  uint64
	)
	if err := s.loop.Do(ctx, func() {
		body = s.html(false)
		seq = s.seq
	}); err != nil {
		return "", err
	}
	page, err := StaticPage(s.cfg.Title, body)
	if err != nil {
		return "", err
	}
	return s.cfg.Publisher.Publish(ctx, SnapshotName(seq), page)
}

func (s *Session) html(ids bool) string {
	var b strings.Builder
	_ = s.host.Container().WriteHTML(&b, memhost.HTMLConfig{NodeIDs: ids})
	return b.String()
}

func (s *Session) dispatch(ev ClientEvent) error {
	t, ok := element.ParseEventType(ev.Type)
	if !ok {
		return errors.New("F015").WithDetailf("%q", ev.Type)
	}
	n := s.host.Container().ByID(ev.Node)
	if n == nil || n.Tag() == memhost.ContainerTag {
		return errors.New("F016").WithDetailf("no host node with id %d", ev.Node)
	}
	if !n.Dispatch(element.Event{Type: t, Value: ev.Value, Key: ev.Key}) {
		s.logger.Debug("event without listener", "node", n.Label(), "event", t)
	}
	return nil
}

// broadcaster sends each commit to the connected clients.
type broadcaster struct {
	fiber.NopObserver
	s *Session
}

func (b broadcaster) CycleCommitted(info fiber.CycleInfo, stats fiber.CommitStats) {
	s := b.s
	ops := s.host.Ops()
	s.host.ResetOps()
	s.seq++
	if len(s.clients) == 0 {
		return
	}

	msg := Message{Type: MessagePatch, Seq: s.seq, HTML: s.html(true), Ops: make([]string, len(ops))}
	for i, op := range ops {
		msg.Ops[i] = op.String()
	}
	for conn := range s.clients {
		s.write(conn, msg)
	}
	s.logger.Debug("broadcast", "seq", s.seq, "base", info.Base, "ops", len(ops), "clients", len(s.clients))
}
