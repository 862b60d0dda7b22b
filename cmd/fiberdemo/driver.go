package main

import (
	"context"
	"fmt"
	"time"

	"github.com/vango-dev/fiber/pkg/element"
	"github.com/vango-dev/fiber/pkg/fiber"
	"github.com/vango-dev/fiber/pkg/host/idleloop"
	"github.com/vango-dev/fiber/pkg/host/memhost"
)

// driver runs host-side actions against a Root and waits for the
// resulting render work.
type driver interface {
	Do(fn func()) error
	Settle() error
}

// syncDriver runs everything on the calling goroutine and drains cycles
// with Flush.
type syncDriver struct {
	root *fiber.Root
}

func (d syncDriver) Do(fn func()) error {
	fn()
	return nil
}

func (d syncDriver) Settle() error {
	return d.root.Flush()
}

// loopDriver posts actions onto an idle loop and polls until the Root has
// no pending cycle.
type loopDriver struct {
	ctx     context.Context
	loop    *idleloop.Loop
	root    *fiber.Root
	poll    time.Duration
	timeout time.Duration
}

func (d loopDriver) Do(fn func()) error {
	return d.loop.Do(d.ctx, fn)
}

func (d loopDriver) Settle() error {
	deadline := time.Now().Add(d.timeout)
	for {
		var pending bool
		if err := d.loop.Do(d.ctx, func() { pending = d.root.Pending() }); err != nil {
			return err
		}
		if !pending {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("render work still pending after %s", d.timeout)
		}
		time.Sleep(d.poll)
	}
}

// scenario mounts the demo app, adds items through the form and toggles
// the first one.
func scenario(d driver, root *fiber.Root, h *memhost.Host, title string, items []string) error {
	var err error
	step := func(fn func()) {
		if err != nil {
			return
		}
		if err = d.Do(fn); err == nil {
			err = d.Settle()
		}
	}

	var mountErr error
	step(func() {
		mountErr = root.Mount(todoApp.Element(element.Prop("title", title)), h.Container())
	})
	if mountErr != nil {
		return mountErr
	}
	for _, item := range items {
		step(func() {
			h.Container().Find("input").Dispatch(element.Event{Type: element.EventInput, Value: item})
		})
		step(func() {
			if add := findByID(h.Container(), "button", "add"); add != nil {
				add.Dispatch(element.Event{Type: element.EventClick})
			}
		})
	}
	if len(items) > 0 {
		step(func() {
			if li := h.Container().Find("li"); li != nil {
				li.Find("button").Dispatch(element.Event{Type: element.EventClick})
			}
		})
	}
	return err
}

// findByID returns the first node with tag whose id property equals id.
func findByID(n *memhost.Node, tag, id string) *memhost.Node {
	for _, c := range n.FindAll(tag) {
		if v, _ := c.Prop("id"); v == id {
			return c
		}
	}
	return nil
}
