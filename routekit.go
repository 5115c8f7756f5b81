// Package routekit provides the public API for the routekit hierarchical
// routing engine.
//
// This is the recommended import for most applications:
//
//	import "github.com/routekit-go/routekit"
//
// Usage:
//
//	engine := routekit.NewEngine()
//	engine.Root().AddChild("users", routekit.MustCompile("/users/:id"),
//	    routekit.OnEnter(func(ev *routekit.Event) { ... }))
//	ok, err := engine.Route(ctx, "/users/42")
package routekit

import (
	"github.com/routekit-go/routekit/pkg/nav"
	"github.com/routekit-go/routekit/pkg/pattern"
	"github.com/routekit-go/routekit/pkg/route"
)

// =============================================================================
// Core engine (pkg/route re-exports)
// =============================================================================

// Engine owns the route tree and drives the navigation lifecycle.
type Engine = route.Engine

// RouteNode is a node in the route tree.
type RouteNode = route.RouteNode

// Matcher matches and renders one URL fragment for a tree edge.
type Matcher = route.Matcher

// MatchResult is the outcome of one Matcher.Match call.
type MatchResult = route.MatchResult

// Params holds path parameters extracted by a matcher.
type Params = route.Params

// Event describes one lifecycle occurrence on a route node.
type Event = route.Event

// PreEvent is a vetoable lifecycle event.
type PreEvent = route.PreEvent

// Decision is a future boolean contributed by a pre-event listener.
type Decision = route.Decision

// StartEvent correlates an invoked path with its eventual outcome.
type StartEvent = route.StartEvent

// Outcome is the eventual result of one Route invocation.
type Outcome = route.Outcome

// NewEngine creates an engine with an empty route tree.
var NewEngine = route.NewEngine

// NewDecision creates an unresolved decision.
var NewDecision = route.NewDecision

// Resolved returns an already-resolved decision.
var Resolved = route.Resolved

// Engine options.
var (
	WithLogger         = route.WithLogger
	WithFragment       = route.WithFragment
	WithSortedMatchers = route.WithSortedMatchers
)

// Route declaration options.
var (
	Default                 = route.Default
	DontLeaveOnParamChanges = route.DontLeaveOnParamChanges
	WatchQuery              = route.WatchQuery
	OnPreEnter              = route.OnPreEnter
	OnPreLeave              = route.OnPreLeave
	OnEnter                 = route.OnEnter
	OnLeave                 = route.OnLeave
	Mount                   = route.Mount
	MountFunc               = route.MountFunc
)

// Navigation options.
var (
	StartingFrom = route.StartingFrom
	ForceReload  = route.ForceReload
	URLFrom      = route.URLFrom
	URLParams    = route.URLParams
	URLQuery     = route.URLQuery
)

// Error taxonomy.
var (
	ErrConfiguration = route.ErrConfiguration
	ErrRouteNotFound = route.ErrRouteNotFound
	ErrNotActive     = route.ErrNotActive
)

// =============================================================================
// Pattern templates (pkg/pattern re-exports)
// =============================================================================

// Template is a compiled URI template implementing Matcher.
type Template = pattern.Template

// Compile parses a URI template like "/users/:id".
var Compile = pattern.Compile

// MustCompile is Compile but panics on error.
var MustCompile = pattern.MustCompile

// =============================================================================
// Navigation (pkg/nav re-exports)
// =============================================================================

// Navigator binds an engine to a platform History.
type Navigator = nav.Navigator

// History is the platform navigation binding.
type History = nav.History

// NewNavigator creates a navigator over an engine and history binding.
var NewNavigator = nav.New

// WithReplace replaces the current history entry instead of pushing.
var WithReplace = nav.WithReplace
