package nav

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/routekit-go/routekit/pkg/route"
)

// ErrAlreadyListening is returned when Listen is called twice on the same
// navigator.
var ErrAlreadyListening = fmt.Errorf("%w: navigator already listening", route.ErrConfiguration)

// History is the platform navigation binding: it reads the current
// location, moves the history stack, and surfaces navigation intents
// (back/forward, link clicks) as path strings.
type History interface {
	// Current returns the current path including query and fragment, per
	// the platform's configured mode.
	Current() string

	// Push appends a history entry for path.
	Push(path, title string) error

	// Replace replaces the current history entry with path.
	Replace(path, title string) error

	// Back moves one entry back, reverting an optimistic navigation.
	Back() error

	// Intents emits a path string for every platform navigation intent.
	Intents() <-chan string
}

// Navigator binds a routing engine to a platform History. Intents flow
// from the history into the engine; on a veto the optimistic platform
// navigation is reverted with Back, and programmatic navigations update
// the history only after the engine committed.
type Navigator struct {
	engine *route.Engine
	hist   History
	logger *slog.Logger
	title  func(path string) string

	mu        sync.Mutex
	listening bool
}

// NavigatorOption configures a Navigator.
type NavigatorOption func(*Navigator)

// WithNavLogger sets the navigator logger. Defaults to slog.Default.
func WithNavLogger(logger *slog.Logger) NavigatorOption {
	return func(n *Navigator) { n.logger = logger }
}

// WithTitle derives the history-entry title from the committed path.
func WithTitle(fn func(path string) string) NavigatorOption {
	return func(n *Navigator) { n.title = fn }
}

// New creates a navigator over the given engine and history binding.
func New(engine *route.Engine, hist History, opts ...NavigatorOption) *Navigator {
	n := &Navigator{
		engine: engine,
		hist:   hist,
		logger: slog.Default(),
		title:  func(string) string { return "" },
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Engine returns the underlying routing engine.
func (n *Navigator) Engine() *route.Engine {
	return n.engine
}

// Listen routes the current location, then consumes navigation intents
// until ctx is cancelled or the intent channel closes. It may be called
// at most once per navigator; a second call is a configuration error.
func (n *Navigator) Listen(ctx context.Context) error {
	n.mu.Lock()
	if n.listening {
		n.mu.Unlock()
		return ErrAlreadyListening
	}
	n.listening = true
	n.mu.Unlock()

	if current := n.hist.Current(); current != "" {
		n.handleIntent(ctx, current, false)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case path, ok := <-n.hist.Intents():
			if !ok {
				return nil
			}
			n.handleIntent(ctx, path, true)
		}
	}
}

// handleIntent canonicalizes and routes one platform intent. The platform
// already moved optimistically, so a veto reverts it with Back.
func (n *Navigator) handleIntent(ctx context.Context, path string, revertOnVeto bool) {
	canon, err := CanonicalizeNavPath(path)
	if err != nil {
		n.logger.Warn("rejected navigation intent", "path", path, "error", err)
		return
	}

	ok, err := n.engine.Route(ctx, canon)
	if err != nil {
		n.logger.Error("navigation failed", "path", canon, "error", err)
		return
	}
	if !ok {
		n.logger.Debug("navigation vetoed", "path", canon)
		if revertOnVeto {
			if err := n.hist.Back(); err != nil {
				n.logger.Error("history revert failed", "path", canon, "error", err)
			}
		}
	}
}

// GoOption configures a programmatic navigation.
type GoOption func(*goConfig)

type goConfig struct {
	replace bool
}

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() GoOption {
	return func(c *goConfig) { c.replace = true }
}

// Go navigates programmatically. The history is updated only when the
// engine commits; a vetoed navigation returns false and leaves the
// platform untouched.
func (n *Navigator) Go(ctx context.Context, path string, opts ...GoOption) (bool, error) {
	var cfg goConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	canon, err := Canonicalize(path)
	if err != nil {
		return false, err
	}

	ok, err := n.engine.Route(ctx, canon)
	if err != nil || !ok {
		return ok, err
	}

	title := n.title(canon)
	if cfg.replace {
		err = n.hist.Replace(canon, title)
	} else {
		err = n.hist.Push(canon, title)
	}
	return true, err
}

// Link renders the href for a dotted route path, for client-side
// navigation anchors.
func (n *Navigator) Link(routePath string, params route.Params) (string, error) {
	return n.engine.URL(routePath, route.URLParams(params))
}
