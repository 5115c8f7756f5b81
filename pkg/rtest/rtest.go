// Package rtest provides helpers for testing route trees: a lifecycle
// recorder and panic-on-error tree construction, mirroring how the
// package tests in this module build fixtures.
package rtest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/routekit-go/routekit/pkg/pattern"
	"github.com/routekit-go/routekit/pkg/route"
)

// MustAdd adds a child route compiled from a template string and panics
// on any configuration error. Intended for test fixtures.
//
//	users := rtest.MustAdd(engine.Root(), "users", "/users/:id")
func MustAdd(parent *route.RouteNode, name, template string, opts ...route.Option) *route.RouteNode {
	n, err := parent.AddChild(name, pattern.MustCompile(template), opts...)
	if err != nil {
		panic(fmt.Sprintf("rtest: add %q: %v", name, err))
	}
	return n
}

// Recorder captures lifecycle events as "phase:route" strings in firing
// order, so tests can assert event sequences directly.
type Recorder struct {
	mu      sync.Mutex
	entries []string
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Hook subscribes the recorder to all four lifecycle channels of a node.
func (r *Recorder) Hook(n *route.RouteNode) {
	name := n.Name()
	n.OnPreEnter(func(*route.PreEvent) { r.add("preEnter", name) })
	n.OnPreLeave(func(*route.PreEvent) { r.add("preLeave", name) })
	n.OnEnter(func(*route.Event) { r.add("enter", name) })
	n.OnLeave(func(*route.Event) { r.add("leave", name) })
}

// Events returns the recorded entries in firing order.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	copy(out, r.entries)
	return out
}

// String joins the recorded entries with spaces.
func (r *Recorder) String() string {
	return strings.Join(r.Events(), " ")
}

// Reset clears the recorded entries.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}

func (r *Recorder) add(phase, name string) {
	r.mu.Lock()
	r.entries = append(r.entries, phase+":"+name)
	r.mu.Unlock()
}

// ActiveNames renders the engine's active path as dotted-joined names,
// or "" when nothing is active.
func ActiveNames(e *route.Engine) string {
	var names []string
	for _, n := range e.ActivePath() {
		names = append(names, n.Name())
	}
	return strings.Join(names, ".")
}
