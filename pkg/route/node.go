package route

import (
	"net/url"
	"strings"
)

// Separator joins route names into dotted paths ("users.detail").
// Route names must not contain it.
const Separator = "."

// Matcher matches and renders one URL fragment for a tree edge. It is
// supplied by an external pattern component; pkg/pattern ships the
// default implementation.
type Matcher interface {
	// Match consumes a prefix of path. The second return is false when
	// the matcher does not accept the path.
	Match(path string) (MatchResult, bool)

	// Reverse renders the fragment for the given parameters and appends
	// tail. It must be a right inverse of Match on parameters Match
	// produced.
	Reverse(params Params, tail string) (string, error)

	// Specificity orders matchers when several accept the same input;
	// higher wins.
	Specificity() int
}

// MatchResult is the outcome of one Matcher.Match call.
type MatchResult struct {
	// Matched is the consumed prefix.
	Matched string

	// Tail is the unconsumed remainder.
	Tail string

	// Params are the extracted path parameters.
	Params Params
}

// Configurer declares nested children on a freshly added route.
// It runs synchronously before AddChild returns.
type Configurer interface {
	ConfigureRoute(*RouteNode) error
}

// ConfigureFunc adapts a plain function to Configurer.
type ConfigureFunc func(*RouteNode) error

// ConfigureRoute implements Configurer.
func (f ConfigureFunc) ConfigureRoute(n *RouteNode) error {
	return f(n)
}

// lastMatch records the most recent enter of a node: the fragment its
// matcher consumed, the extracted parameters, and the query parameters of
// that navigation.
type lastMatch struct {
	path   string
	params Params
	query  url.Values
}

// RouteNode is a node in the route tree. Nodes are created through
// AddChild and never removed; after construction only the active-chain
// pointers (currentChild) and lastMatch records move.
type RouteNode struct {
	name    string
	matcher Matcher
	parent  *RouteNode

	children map[string]*RouteNode
	ordered  []*RouteNode // declaration order, for matching and Walk

	defaultChild *RouteNode
	currentChild *RouteNode
	last         *lastMatch

	dontLeaveOnParamChanges bool
	watchQuery              []string

	preEnter handlerList[*PreEvent]
	preLeave handlerList[*PreEvent]
	enter    handlerList[*Event]
	leave    handlerList[*Event]
}

func newRouteNode(name string, matcher Matcher, parent *RouteNode) *RouteNode {
	return &RouteNode{
		name:     name,
		matcher:  matcher,
		parent:   parent,
		children: make(map[string]*RouteNode),
	}
}

// Option configures a route added with AddChild.
type Option func(*nodeConfig)

type nodeConfig struct {
	isDefault               bool
	dontLeaveOnParamChanges bool
	watchQuery              []string
	preEnter                []func(*PreEvent)
	preLeave                []func(*PreEvent)
	enter                   []func(*Event)
	leave                   []func(*Event)
	mounts                  []Configurer
}

// Default marks the new route as its parent's default child, entered when
// no sibling matcher accepts the remaining path.
func Default() Option {
	return func(c *nodeConfig) { c.isDefault = true }
}

// DontLeaveOnParamChanges keeps the route active when only its parameters
// change; the node then skips the leave/enter cycle for such navigations.
func DontLeaveOnParamChanges() Option {
	return func(c *nodeConfig) { c.dontLeaveOnParamChanges = true }
}

// WatchQuery restricts query-parameter change detection to keys matching
// one of the patterns. A pattern matches its key exactly, or as a prefix
// when it ends in "*".
func WatchQuery(patterns ...string) Option {
	return func(c *nodeConfig) { c.watchQuery = append(c.watchQuery, patterns...) }
}

// OnPreEnter registers a vetoable pre-enter handler.
func OnPreEnter(fn func(*PreEvent)) Option {
	return func(c *nodeConfig) { c.preEnter = append(c.preEnter, fn) }
}

// OnPreLeave registers a vetoable pre-leave handler.
func OnPreLeave(fn func(*PreEvent)) Option {
	return func(c *nodeConfig) { c.preLeave = append(c.preLeave, fn) }
}

// OnEnter registers an enter handler.
func OnEnter(fn func(*Event)) Option {
	return func(c *nodeConfig) { c.enter = append(c.enter, fn) }
}

// OnLeave registers a leave handler.
func OnLeave(fn func(*Event)) Option {
	return func(c *nodeConfig) { c.leave = append(c.leave, fn) }
}

// Mount invokes the configurer with the new node before AddChild returns,
// so nested children can be declared in place.
func Mount(c Configurer) Option {
	return func(cfg *nodeConfig) { cfg.mounts = append(cfg.mounts, c) }
}

// MountFunc is Mount for a plain function.
func MountFunc(fn func(*RouteNode) error) Option {
	return Mount(ConfigureFunc(fn))
}

// AddChild creates a child route under n. The name must be non-empty,
// unique among siblings, and free of the separator character. At most one
// child per parent may be flagged Default.
func (n *RouteNode) AddChild(name string, matcher Matcher, opts ...Option) (*RouteNode, error) {
	if name == "" {
		return nil, configErr(n, name, ErrEmptyName)
	}
	if strings.Contains(name, Separator) {
		return nil, configErr(n, name, ErrNameSeparator)
	}
	if _, exists := n.children[name]; exists {
		return nil, configErr(n, name, ErrDuplicateName)
	}
	if matcher == nil {
		return nil, configErr(n, name, ErrNilMatcher)
	}

	var cfg nodeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.isDefault && n.defaultChild != nil {
		return nil, configErr(n, name, ErrDuplicateDefault)
	}

	child := newRouteNode(name, matcher, n)
	child.dontLeaveOnParamChanges = cfg.dontLeaveOnParamChanges
	child.watchQuery = cfg.watchQuery
	for _, fn := range cfg.preEnter {
		child.preEnter.subscribe(fn)
	}
	for _, fn := range cfg.preLeave {
		child.preLeave.subscribe(fn)
	}
	for _, fn := range cfg.enter {
		child.enter.subscribe(fn)
	}
	for _, fn := range cfg.leave {
		child.leave.subscribe(fn)
	}

	n.children[name] = child
	n.ordered = append(n.ordered, child)
	if cfg.isDefault {
		n.defaultChild = child
	}

	for _, m := range cfg.mounts {
		if err := m.ConfigureRoute(child); err != nil {
			return nil, err
		}
	}
	return child, nil
}

// FindRoute resolves a dotted chain of names starting at n. The second
// return is false when any segment is missing; a miss is a normal outcome,
// not an error.
func (n *RouteNode) FindRoute(dotted string) (*RouteNode, bool) {
	if dotted == "" {
		return nil, false
	}
	current := n
	for _, name := range strings.Split(dotted, Separator) {
		child, ok := current.children[name]
		if !ok {
			return nil, false
		}
		current = child
	}
	return current, true
}

// Name returns the route's name, unique among its siblings.
func (n *RouteNode) Name() string {
	return n.name
}

// Parent returns the owning route, or nil for the root.
func (n *RouteNode) Parent() *RouteNode {
	return n.parent
}

// Children returns the child routes in declaration order.
func (n *RouteNode) Children() []*RouteNode {
	out := make([]*RouteNode, len(n.ordered))
	copy(out, n.ordered)
	return out
}

// DefaultChild returns the child flagged Default, or nil.
func (n *RouteNode) DefaultChild() *RouteNode {
	return n.defaultChild
}

// ActiveChild returns the child currently active under n, or nil.
func (n *RouteNode) ActiveChild() *RouteNode {
	return n.currentChild
}

// IsActive reports whether n is reachable from the root of its tree via
// active-chain links.
func (n *RouteNode) IsActive() bool {
	for r := n; r.parent != nil; r = r.parent {
		if r.parent.currentChild != r {
			return false
		}
	}
	return true
}

// Parameters returns the path parameters of the most recent enter, or nil
// when the node is not active. Inactive nodes never expose stale data.
func (n *RouteNode) Parameters() Params {
	if !n.IsActive() || n.last == nil {
		return nil
	}
	return n.last.params.clone()
}

// QueryParameters returns the query parameters of the most recent enter,
// or nil when the node is not active.
func (n *RouteNode) QueryParameters() url.Values {
	if !n.IsActive() || n.last == nil {
		return nil
	}
	return cloneValues(n.last.query)
}

// Dotted returns the dotted name path from the root to n. The root itself
// renders as "".
func (n *RouteNode) Dotted() string {
	if n.parent == nil {
		return ""
	}
	parent := n.parent.Dotted()
	if parent == "" {
		return n.name
	}
	return parent + Separator + n.name
}

// OnPreEnter subscribes a vetoable pre-enter handler and returns its
// unsubscribe function.
func (n *RouteNode) OnPreEnter(fn func(*PreEvent)) func() {
	return n.preEnter.subscribe(fn)
}

// OnPreLeave subscribes a vetoable pre-leave handler and returns its
// unsubscribe function.
func (n *RouteNode) OnPreLeave(fn func(*PreEvent)) func() {
	return n.preLeave.subscribe(fn)
}

// OnEnter subscribes an enter handler and returns its unsubscribe function.
func (n *RouteNode) OnEnter(fn func(*Event)) func() {
	return n.enter.subscribe(fn)
}

// OnLeave subscribes a leave handler and returns its unsubscribe function.
func (n *RouteNode) OnLeave(fn func(*Event)) func() {
	return n.leave.subscribe(fn)
}

// lastEvent builds an event snapshot from the node's last match.
func (n *RouteNode) lastEvent() Event {
	ev := Event{Route: n}
	if n.last != nil {
		ev.Path = n.last.path
		ev.Params = n.last.params.clone()
		ev.Query = cloneValues(n.last.query)
	}
	return ev
}
