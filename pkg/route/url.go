package route

import (
	"fmt"
	"net/url"
)

// URLOption configures one URL call.
type URLOption func(*urlConfig)

type urlConfig struct {
	from   *RouteNode
	params Params
	query  url.Values
}

// URLFrom resolves the dotted route path relative to the given node and
// prefixes the result with that node's active ancestry.
func URLFrom(n *RouteNode) URLOption {
	return func(c *urlConfig) { c.from = n }
}

// URLParams overrides path parameters when rendering the URL. Parameters
// not overridden fall back to each node's last match.
func URLParams(p Params) URLOption {
	return func(c *urlConfig) { c.params = p }
}

// URLQuery appends query parameters to the URL.
func URLQuery(q url.Values) URLOption {
	return func(c *urlConfig) { c.query = q }
}

// URL reconstructs the URL for the route named by the dotted path. The
// tail below the base node is rendered from explicit or last-match
// parameters; the head above it is rendered from the active chain, and an
// inactive ancestor is an invariant violation reported as ErrNotActive.
func (e *Engine) URL(routePath string, opts ...URLOption) (string, error) {
	var cfg urlConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	base := cfg.from
	if base == nil {
		base = e.root
	}

	target, ok := base.FindRoute(routePath)
	if !ok {
		return "", fmt.Errorf("%w: %q under %q", ErrRouteNotFound, routePath, base.Dotted())
	}

	tail, err := tailURL(target, base, cfg.params)
	if err != nil {
		return "", err
	}
	head, err := headURL(base)
	if err != nil {
		return "", err
	}

	u := head + tail + EncodeQuery(cfg.query)
	if e.useFragment {
		u = "#" + u
	}
	return u, nil
}

// tailURL renders the URL fragment from target up to (excluding) base,
// threading the accumulated tail through each edge's matcher.
func tailURL(target, base *RouteNode, override Params) (string, error) {
	tail := ""
	for r := target; r != base && r.parent != nil; r = r.parent {
		var params Params
		if r.last != nil {
			params = r.last.params
		}
		segment, err := r.matcher.Reverse(mergeParams(params, override), tail)
		if err != nil {
			return "", fmt.Errorf("route %q: %w", r.Dotted(), err)
		}
		tail = segment
	}
	return tail, nil
}

// headURL renders the active prefix from the tree root down to base. Every
// ancestor level must have an active child; a level without one means the
// caller extends a path from a node that is not actually active.
func headURL(base *RouteNode) (string, error) {
	head := ""
	for r := base; r.parent != nil; r = r.parent {
		current := r.parent.currentChild
		if current == nil {
			return "", fmt.Errorf("%w: route %q has no active child", ErrNotActive, r.parent.Dotted())
		}
		var params Params
		if current.last != nil {
			params = current.last.params
		}
		segment, err := current.matcher.Reverse(params, head)
		if err != nil {
			return "", fmt.Errorf("route %q: %w", current.Dotted(), err)
		}
		head = segment
	}
	return head, nil
}

// mergeParams overlays explicit override parameters on a node's last-match
// parameters.
func mergeParams(last, override Params) Params {
	if len(override) == 0 {
		return last
	}
	merged := last.clone()
	if merged == nil {
		merged = make(Params, len(override))
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}
