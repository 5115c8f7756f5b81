package route

import (
	"net/url"
	"sync"
)

// Params holds the path parameters extracted by a matcher.
type Params map[string]string

// clone returns a shallow copy so event consumers cannot mutate tree state.
func (p Params) clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// equal reports whether two parameter maps hold the same pairs.
func (p Params) equal(other Params) bool {
	if len(p) != len(other) {
		return false
	}
	for k, v := range p {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// cloneValues copies a query map so event consumers cannot mutate tree
// state through it.
func cloneValues(q url.Values) url.Values {
	if q == nil {
		return nil
	}
	out := make(url.Values, len(q))
	for k, vals := range q {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

// Event describes one lifecycle occurrence on a route node. Events are
// snapshots: mutating the maps has no effect on the tree.
type Event struct {
	// Path is the URL fragment the node's matcher consumed.
	Path string

	// Params are the path parameters for this node's edge.
	Params Params

	// Query holds the query parameters of the navigation.
	Query url.Values

	// Route is the node the event fired on.
	Route *RouteNode
}

// PreEvent is fired before a transition commits. Listeners may contribute
// Decision futures; the engine awaits every contributed decision before
// committing, and a single false blocks the whole transition.
type PreEvent struct {
	Event

	mu        sync.Mutex
	decisions []*Decision
}

// Defer contributes a decision the engine will await before committing.
// Calling Defer after the publish call returned has no effect.
func (e *PreEvent) Defer(d *Decision) {
	if d == nil {
		return
	}
	e.mu.Lock()
	e.decisions = append(e.decisions, d)
	e.mu.Unlock()
}

// Veto contributes an already-resolved negative decision.
func (e *PreEvent) Veto() {
	e.Defer(Resolved(false))
}

// collect returns the contributed decisions.
func (e *PreEvent) collect() []*Decision {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.decisions
}

// Decision is a future boolean contributed by a pre-event listener.
// Resolve may be called from any goroutine, exactly once; later calls
// are ignored.
type Decision struct {
	done  chan struct{}
	once  sync.Once
	allow bool
}

// NewDecision creates an unresolved decision.
func NewDecision() *Decision {
	return &Decision{done: make(chan struct{})}
}

// Resolved returns a decision that is already resolved to allow.
func Resolved(allow bool) *Decision {
	d := NewDecision()
	d.Resolve(allow)
	return d
}

// Resolve completes the decision. The first call wins.
func (d *Decision) Resolve(allow bool) {
	d.once.Do(func() {
		d.allow = allow
		close(d.done)
	})
}

// Done is closed once the decision is resolved.
func (d *Decision) Done() <-chan struct{} {
	return d.done
}

// Allowed reports the resolved value. Valid only after Done is closed.
func (d *Decision) Allowed() bool {
	return d.allow
}

// Outcome is the eventual result of one Route invocation. It resolves
// exactly once, when the navigation commits, is vetoed, or errors out.
type Outcome struct {
	done      chan struct{}
	committed bool
	err       error
}

func newOutcome() *Outcome {
	return &Outcome{done: make(chan struct{})}
}

func (o *Outcome) resolve(committed bool, err error) {
	o.committed = committed
	o.err = err
	close(o.done)
}

// Done is closed once the navigation finished.
func (o *Outcome) Done() <-chan struct{} {
	return o.done
}

// Committed reports whether the navigation committed. Valid only after
// Done is closed.
func (o *Outcome) Committed() bool {
	return o.committed
}

// Err returns the navigation error, if any. Valid only after Done is closed.
func (o *Outcome) Err() error {
	return o.err
}

// StartEvent correlates an invoked path with the eventual outcome of that
// invocation. It is published for every Route and Reload call, before any
// matching happens.
type StartEvent struct {
	// Path is the raw path the navigation was invoked with.
	Path string

	// Outcome resolves when the navigation finishes.
	Outcome *Outcome
}

// handlerList is an observer list with synchronous snapshot dispatch:
// publish runs every handler subscribed at publish time before returning.
type handlerList[T any] struct {
	mu  sync.Mutex
	seq int
	fns map[int]func(T)
}

// subscribe registers a handler and returns its unsubscribe function.
func (l *handlerList[T]) subscribe(fn func(T)) func() {
	l.mu.Lock()
	if l.fns == nil {
		l.fns = make(map[int]func(T))
	}
	id := l.seq
	l.seq++
	l.fns[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.fns, id)
		l.mu.Unlock()
	}
}

// publish invokes a snapshot of the current handlers in subscription order.
func (l *handlerList[T]) publish(ev T) {
	l.mu.Lock()
	ids := make([]int, 0, len(l.fns))
	for id := range l.fns {
		ids = append(ids, id)
	}
	// Subscription order, not map order.
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	fns := make([]func(T), len(ids))
	for i, id := range ids {
		fns[i] = l.fns[id]
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
