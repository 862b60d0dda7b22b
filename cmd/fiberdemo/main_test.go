package main

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/fiber/internal/config"
	"github.com/vango-dev/fiber/internal/errors"
)

func TestRunRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := runRender(&buf, renderOptions{title: "Chores"}); err != nil {
		t.Fatalf("runRender: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Chores", "Nothing to do"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunRenderItems(t *testing.T) {
	var buf bytes.Buffer
	opts := renderOptions{title: "Todos", items: []string{"milk", "eggs"}, ops: true}
	if err := runRender(&buf, opts); err != nil {
		t.Fatalf("runRender: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"milk", "eggs", "2 item(s)", "undo", "host operations:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Nothing to do") {
		t.Errorf("empty placeholder still rendered:\n%s", out)
	}
}

func TestRunDemo(t *testing.T) {
	dir := t.TempDir()
	cfg := config.New()
	cfg.Scheduler.FrameInterval = "1ms"
	if err := cfg.SaveTo(filepath.Join(dir, config.ConfigFileName)); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var stdout, stderr bytes.Buffer
	opts := runOptions{
		dir:      dir,
		title:    "Todos",
		items:    []string{"write tests"},
		logLevel: "error",
		metrics:  true,
		timeout:  5 * time.Second,
	}
	if err := runDemo(ctx, &stdout, &stderr, opts); err != nil {
		t.Fatalf("runDemo: %v\n%s", err, stderr.String())
	}
	out := stdout.String()
	for _, want := range []string{"write tests", "1 item(s)", "fiber_cycles_committed_total", "fiber_host_mutations_total"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunDemoInvalidConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	opts := runOptions{dir: t.TempDir(), logLevel: "loud", timeout: time.Second}
	err := runDemo(context.Background(), &stdout, &stderr, opts)
	if !stderrors.Is(err, errors.New("F014")) {
		t.Fatalf("runDemo error = %v, want F014", err)
	}
}

func TestRunInit(t *testing.T) {
	dir := t.TempDir()
	if err := runInit(dir, false); err != nil {
		t.Fatalf("runInit: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, config.ConfigFileName)); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if err := runInit(dir, false); err == nil {
		t.Error("second runInit without force succeeded")
	}
	if err := runInit(dir, true); err != nil {
		t.Errorf("runInit with force: %v", err)
	}
}

func TestRunExplain(t *testing.T) {
	errors.DisableColors()
	defer errors.EnableColors()

	var buf bytes.Buffer
	if err := runExplain(&buf, "f003"); err != nil {
		t.Fatalf("runExplain: %v", err)
	}
	if !strings.Contains(buf.String(), "Hook order changed") {
		t.Errorf("explain F003 = %q", buf.String())
	}

	buf.Reset()
	if err := runExplain(&buf, ""); err != nil {
		t.Fatalf("runExplain: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(errors.Codes()) {
		t.Errorf("listed %d codes, want %d", len(lines), len(errors.Codes()))
	}
	if !strings.HasPrefix(lines[0], "F001") {
		t.Errorf("first line = %q, want F001", lines[0])
	}

	if err := runExplain(&buf, "Z999"); err == nil {
		t.Error("unknown code accepted")
	}
}

// memPublisher keeps published pages in memory.
type memPublisher struct {
	pages map[string]string
}

func (p *memPublisher) Publish(ctx context.Context, name string, body []byte) (string, error) {
	if p.pages == nil {
		p.pages = make(map[string]string)
	}
	p.pages[name] = string(body)
	return "mem://" + name, nil
}

func TestRunRenderPublish(t *testing.T) {
	pub := &memPublisher{}
	var buf bytes.Buffer
	opts := renderOptions{title: "Todos", items: []string{"milk"}, publisher: pub}
	if err := runRender(&buf, opts); err != nil {
		t.Fatalf("runRender: %v", err)
	}
	if !strings.Contains(buf.String(), "published mem://index.html") {
		t.Errorf("output = %s", buf.String())
	}
	page := pub.pages["index.html"]
	if !strings.Contains(page, "<title>Todos</title>") || !strings.Contains(page, "milk") {
		t.Errorf("published page = %s", page)
	}
}

func TestServeConfig(t *testing.T) {
	cfg, err := serveConfig(serveOptions{
		dir:     t.TempDir(),
		addr:    "127.0.0.1:0",
		publish: "s3://pages/demo",
		region:  "eu-west-1",
	})
	if err != nil {
		t.Fatalf("serveConfig: %v", err)
	}
	if cfg.Serve.Addr != "127.0.0.1:0" {
		t.Errorf("Addr = %s", cfg.Serve.Addr)
	}
	if cfg.Publish.Bucket != "pages" || cfg.Publish.Prefix != "demo" || cfg.Publish.Region != "eu-west-1" {
		t.Errorf("Publish = %+v", cfg.Publish)
	}

	if _, err := serveConfig(serveOptions{dir: t.TempDir(), publish: "pages/demo"}); err == nil {
		t.Error("serveConfig accepted a non-s3 publish URL")
	}
}

func TestRunServe(t *testing.T) {
	cfg := config.New()
	cfg.Scheduler.FrameInterval = "1ms"
	cfg.Log.Level = "error"

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServe(ctx, ln, io.Discard, cfg, "Served") }()

	base := "http://" + ln.Addr().String()
	deadline := time.Now().Add(5 * time.Second)
	var body string
	for {
		resp, err := http.Get(base + "/snapshot")
		if err == nil {
			b, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			body = string(b)
			if strings.Contains(body, "Served") {
				break
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("snapshot never rendered: %q, %v", body, err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !strings.Contains(body, "Nothing to do") {
		t.Errorf("snapshot = %s", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("runServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runServe did not stop")
	}
}
