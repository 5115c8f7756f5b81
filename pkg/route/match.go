package route

import (
	"net/url"
	"sort"
	"strings"
)

// RouteMatch pairs a node with the concrete match result for one step of
// tree descent.
type RouteMatch struct {
	// Route is the matched node.
	Route *RouteNode

	// Match is the matcher output for this step.
	Match MatchResult

	// Query holds the query parameters of the navigation.
	Query url.Values
}

// matchTree descends the tree from base against path, producing the tree
// path of the navigation: greedy longest-prefix descent with default
// fallback and no backtracking. The result may be shorter than the
// requested path and may be empty.
func (e *Engine) matchTree(path string, base *RouteNode, query url.Values) []RouteMatch {
	var treePath []RouteMatch
	current := base

	for {
		matched, result, ok := e.matchChild(current, path)
		if !ok {
			// No child accepts the remainder, which may be empty after
			// full consumption. A default child is entered against an
			// empty match and ends the descent.
			if current.defaultChild != nil {
				treePath = append(treePath, RouteMatch{
					Route: current.defaultChild,
					Match: MatchResult{},
					Query: query,
				})
			}
			break
		}

		treePath = append(treePath, RouteMatch{Route: matched, Match: result, Query: query})
		path = result.Tail
		current = matched
	}
	return treePath
}

// matchChild matches path against the children of node and picks one
// candidate. Several accepting matchers are tolerated: the first after
// tie-break wins and the ambiguity is logged.
func (e *Engine) matchChild(node *RouteNode, path string) (*RouteNode, MatchResult, bool) {
	type candidate struct {
		route  *RouteNode
		result MatchResult
	}
	var candidates []candidate

	for _, child := range node.ordered {
		if result, ok := child.matcher.Match(path); ok {
			candidates = append(candidates, candidate{route: child, result: result})
		}
	}
	if len(candidates) == 0 {
		return nil, MatchResult{}, false
	}

	if e.sortMatchers {
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].route.matcher.Specificity() > candidates[j].route.matcher.Specificity()
		})
	}
	if len(candidates) > 1 {
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c.route.name
		}
		e.logger.Warn("ambiguous route match",
			"path", path,
			"parent", node.Dotted(),
			"candidates", strings.Join(names, ", "),
			"chosen", candidates[0].route.name)
	}
	return candidates[0].route, candidates[0].result, true
}

// activeChain returns the active nodes under base, outermost first.
func activeChain(base *RouteNode) []*RouteNode {
	var chain []*RouteNode
	for r := base.currentChild; r != nil; r = r.currentChild {
		chain = append(chain, r)
	}
	return chain
}

// paramsChanged reports whether entering node with m would change its
// observable state: the matched fragment, the path parameters, or the
// watched query parameters.
func paramsChanged(node *RouteNode, m RouteMatch) bool {
	if node.last == nil {
		return true
	}
	if node.last.path != m.Match.Matched {
		return true
	}
	if !node.last.params.equal(m.Match.Params) {
		return true
	}
	return !queryEqual(
		filterQuery(node.last.query, node.watchQuery),
		filterQuery(m.Query, node.watchQuery),
	)
}

// filterQuery reduces query to the keys matching the watch patterns.
// A nil pattern set watches everything.
func filterQuery(query url.Values, patterns []string) url.Values {
	if patterns == nil || len(query) == 0 {
		return query
	}
	filtered := url.Values{}
	for key, vals := range query {
		for _, pattern := range patterns {
			if watchMatches(pattern, key) {
				filtered[key] = vals
				break
			}
		}
	}
	return filtered
}

// watchMatches reports whether a watch pattern covers a query key:
// exact match, or prefix match for patterns ending in "*".
func watchMatches(pattern, key string) bool {
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(key, strings.TrimSuffix(pattern, "*"))
	}
	return pattern == key
}

// queryEqual compares two query maps by keys and ordered values.
func queryEqual(a, b url.Values) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
	}
	return true
}
