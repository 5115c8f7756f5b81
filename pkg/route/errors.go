package route

import (
	"errors"
	"fmt"
)

// Sentinel errors for tree construction and URL reconstruction failures.
var (
	// ErrConfiguration is the root of all tree-construction errors.
	// Every configuration failure wraps it, so callers can match the
	// whole class with errors.Is(err, ErrConfiguration).
	ErrConfiguration = errors.New("route: invalid configuration")

	// ErrEmptyName is returned when a route is added with an empty name.
	ErrEmptyName = fmt.Errorf("%w: empty route name", ErrConfiguration)

	// ErrNameSeparator is returned when a route name contains the
	// dotted-path separator.
	ErrNameSeparator = fmt.Errorf("%w: route name contains %q", ErrConfiguration, Separator)

	// ErrDuplicateName is returned when a sibling with the same name exists.
	ErrDuplicateName = fmt.Errorf("%w: duplicate route name", ErrConfiguration)

	// ErrDuplicateDefault is returned when a second default child is
	// registered on the same parent.
	ErrDuplicateDefault = fmt.Errorf("%w: default route already set", ErrConfiguration)

	// ErrNilMatcher is returned when a route is added without a matcher.
	ErrNilMatcher = fmt.Errorf("%w: nil matcher", ErrConfiguration)

	// ErrRouteNotFound is returned by URL when the dotted route path does
	// not resolve. Probing the tree with FindRoute is the non-erroring way
	// to ask the same question.
	ErrRouteNotFound = errors.New("route: route not found")

	// ErrNotActive is returned when URL reconstruction reaches an ancestor
	// whose parent has no active child. It indicates corrupted active-chain
	// bookkeeping and is not recoverable by retrying.
	ErrNotActive = errors.New("route: ancestor not active")
)

// ConfigError wraps a configuration sentinel with the tree position that
// triggered it.
type ConfigError struct {
	// Route is the dotted path of the parent the operation ran on.
	Route string

	// Name is the child name involved, if any.
	Name string

	// Err is the underlying sentinel error.
	Err error
}

// Error returns the error message with tree context.
func (e *ConfigError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("route %q: %v", e.Route, e.Err)
	}
	return fmt.Sprintf("route %q: adding %q: %v", e.Route, e.Name, e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configErr(parent *RouteNode, name string, err error) error {
	return &ConfigError{Route: parent.Dotted(), Name: name, Err: err}
}
