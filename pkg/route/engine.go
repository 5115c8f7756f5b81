package route

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Engine owns the route tree and drives the navigation protocol: greedy
// matching, active-chain diffing, and the vetoable four-phase lifecycle
// (pre-leave, pre-enter, leave, enter).
//
// Route and Reload are serialized through a single navigation slot:
// overlapping calls queue rather than interleaving their commit phases.
type Engine struct {
	root         *RouteNode
	logger       *slog.Logger
	useFragment  bool
	sortMatchers bool

	// nav is the single navigation slot, held across await and commit.
	nav sync.Mutex

	starts handlerList[StartEvent]
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// WithFragment makes generated URLs navigate via the fragment ("#/...")
// instead of full paths.
func WithFragment() EngineOption {
	return func(e *Engine) { e.useFragment = true }
}

// WithSortedMatchers orders ambiguous candidates by matcher specificity
// instead of declaration order.
func WithSortedMatchers() EngineOption {
	return func(e *Engine) { e.sortMatchers = true }
}

// NewEngine creates an engine with an empty route tree.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		root:   newRouteNode("", nil, nil),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Root returns the tree root. The root has no name and no matcher; routes
// hang off it via AddChild.
func (e *Engine) Root() *RouteNode {
	return e.root
}

// AddRoute adds a child route under parent, or under the root when parent
// is nil.
func (e *Engine) AddRoute(parent *RouteNode, name string, matcher Matcher, opts ...Option) (*RouteNode, error) {
	if parent == nil {
		parent = e.root
	}
	return parent.AddChild(name, matcher, opts...)
}

// FindRoute resolves a dotted route path from the root.
func (e *Engine) FindRoute(dotted string) (*RouteNode, bool) {
	return e.root.FindRoute(dotted)
}

// ActivePath returns the active nodes from the root's first active child
// to the active leaf. The root itself is excluded.
func (e *Engine) ActivePath() []*RouteNode {
	return activeChain(e.root)
}

// OnRouteStart subscribes to the stream of StartEvents published for every
// Route and Reload invocation; the returned function unsubscribes.
func (e *Engine) OnRouteStart(fn func(StartEvent)) func() {
	return e.starts.subscribe(fn)
}

// Walk visits every route below the root depth-first in declaration
// order, reporting each node's depth. The root is not visited.
func (e *Engine) Walk(fn func(n *RouteNode, depth int)) {
	var walk func(n *RouteNode, depth int)
	walk = func(n *RouteNode, depth int) {
		for _, child := range n.ordered {
			fn(child, depth)
			walk(child, depth+1)
		}
	}
	walk(e.root, 0)
}

// RouteOption configures one Route or Reload invocation.
type RouteOption func(*routeConfig)

type routeConfig struct {
	from        *RouteNode
	forceReload bool
}

// StartingFrom resolves the path relative to the given node instead of
// the root.
func StartingFrom(n *RouteNode) RouteOption {
	return func(c *routeConfig) { c.from = n }
}

// ForceReload forces every node on the resulting chain to leave and
// re-enter even when nothing changed.
func ForceReload() RouteOption {
	return func(c *routeConfig) { c.forceReload = true }
}

// Route resolves path against the tree and, if no pre-leave or pre-enter
// listener vetoes, commits the transition. It returns false with a nil
// error when a veto occurred; tree state is then untouched. A non-nil
// error is returned only when ctx is cancelled while awaiting decisions,
// again with state untouched.
func (e *Engine) Route(ctx context.Context, path string, opts ...RouteOption) (bool, error) {
	var cfg routeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	e.nav.Lock()
	defer e.nav.Unlock()
	return e.routeLocked(ctx, path, cfg)
}

// Reload rebuilds the path of the currently active chain (optionally
// rooted at StartingFrom) and re-routes it with ForceReload semantics.
// It fails when a matcher cannot reverse its last match.
func (e *Engine) Reload(ctx context.Context, opts ...RouteOption) (bool, error) {
	var cfg routeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.forceReload = true

	e.nav.Lock()
	defer e.nav.Unlock()

	base := cfg.from
	if base == nil {
		base = e.root
	}
	path, err := e.activePathString(base)
	if err != nil {
		return false, err
	}
	return e.routeLocked(ctx, path, cfg)
}

// activePathString folds each active node's matcher reverse over its last
// match, leaf inward, and appends the leaf's query string. A failed
// reverse aborts: routing a partially rebuilt path would navigate
// somewhere the active chain never was.
func (e *Engine) activePathString(base *RouteNode) (string, error) {
	chain := activeChain(base)
	path := ""
	for i := len(chain) - 1; i >= 0; i-- {
		n := chain[i]
		var params Params
		if n.last != nil {
			params = n.last.params
		}
		segment, err := n.matcher.Reverse(params, path)
		if err != nil {
			return "", fmt.Errorf("route %q: %w", n.Dotted(), err)
		}
		path = segment
	}
	if len(chain) > 0 {
		leaf := chain[len(chain)-1]
		if leaf.last != nil {
			path += EncodeQuery(leaf.last.query)
		}
	}
	return path, nil
}

// routeLocked runs the complete navigation protocol. The navigation slot
// must be held.
func (e *Engine) routeLocked(ctx context.Context, path string, cfg routeConfig) (committed bool, err error) {
	outcome := newOutcome()
	e.starts.publish(StartEvent{Path: path, Outcome: outcome})
	defer func() { outcome.resolve(committed, err) }()

	base := cfg.from
	if base == nil {
		base = e.root
	}

	pathOnly, rawQuery := splitPathQuery(path)
	query := ParseQuery(rawQuery)

	treePath := e.matchTree(pathOnly, base, query)
	active := activeChain(base)

	// Common prefix excluded from leave: positions keep their node while
	// identity matches and either the node ignores parameter changes or
	// nothing observable changed (and no reload is forced).
	keepLeave := 0
	for i, node := range active {
		if i >= len(treePath) || treePath[i].Route != node {
			break
		}
		if !node.dontLeaveOnParamChanges && (cfg.forceReload || paramsChanged(node, treePath[i])) {
			break
		}
		keepLeave++
	}
	mustLeave := active[keepLeave:]

	// Common prefix excluded from enter, walked independently: the
	// dontLeaveOnParamChanges escape does not apply here, so the two
	// prefixes may legitimately differ in length.
	keepEnter := 0
	for i, m := range treePath {
		if i >= len(active) || active[i] != m.Route {
			break
		}
		if cfg.forceReload || paramsChanged(m.Route, m) {
			break
		}
		keepEnter++
	}
	mustEnter := treePath[keepEnter:]

	// Phase 1: pre-leave, child first. Await every contributed decision
	// before touching anything.
	var decisions []*Decision
	for i := len(mustLeave) - 1; i >= 0; i-- {
		ev := &PreEvent{Event: mustLeave[i].lastEvent()}
		mustLeave[i].preLeave.publish(ev)
		decisions = append(decisions, ev.collect()...)
	}
	allowed, err := awaitDecisions(ctx, decisions)
	if err != nil {
		return false, err
	}
	if !allowed {
		e.logger.Debug("navigation vetoed on pre-leave", "path", path)
		return false, nil
	}

	// Phase 2: pre-enter, parent first. Still no mutation has happened,
	// so a veto here leaves the tree byte-for-byte unchanged.
	decisions = decisions[:0]
	for _, m := range mustEnter {
		ev := &PreEvent{Event: enterEvent(m)}
		m.Route.preEnter.publish(ev)
		decisions = append(decisions, ev.collect()...)
	}
	allowed, err = awaitDecisions(ctx, decisions)
	if err != nil {
		return false, err
	}
	if !allowed {
		e.logger.Debug("navigation vetoed on pre-enter", "path", path)
		return false, nil
	}

	// Phase 3: commit leave, child first, then prune the active chain at
	// the divergence point.
	for i := len(mustLeave) - 1; i >= 0; i-- {
		ev := mustLeave[i].lastEvent()
		mustLeave[i].leave.publish(&ev)
	}
	if len(mustLeave) > 0 {
		for _, node := range mustLeave {
			node.currentChild = nil
		}
		leaveBase := base
		if keepLeave > 0 {
			leaveBase = active[keepLeave-1]
		}
		leaveBase.currentChild = nil
	}

	// Phase 4: commit enter, parent first.
	for _, m := range mustEnter {
		node := m.Route
		node.parent.currentChild = node
		node.last = &lastMatch{
			path:   m.Match.Matched,
			params: m.Match.Params.clone(),
			query:  cloneValues(query),
		}
		ev := enterEvent(m)
		node.enter.publish(&ev)
	}

	return true, nil
}

// enterEvent builds the event snapshot for entering a matched node.
func enterEvent(m RouteMatch) Event {
	return Event{
		Path:   m.Match.Matched,
		Params: m.Match.Params.clone(),
		Query:  cloneValues(m.Query),
		Route:  m.Route,
	}
}

// awaitDecisions waits for every decision. The overall answer is true
// only when all of them allow; a cancelled context aborts the wait.
func awaitDecisions(ctx context.Context, decisions []*Decision) (bool, error) {
	allowed := true
	for _, d := range decisions {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-d.Done():
			if !d.Allowed() {
				allowed = false
			}
		}
	}
	return allowed, nil
}
