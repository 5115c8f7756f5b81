// Package nav binds a routing engine to a platform history.
//
// The Navigator consumes navigation intents from a History implementation
// (back/forward events, intercepted link clicks), canonicalizes each path,
// and feeds it to the engine. A vetoed navigation reverts the optimistic
// platform movement with Back; a programmatic Go updates the history only
// after the engine committed.
//
// WSHistory is a History backed by a WebSocket connection to a browser
// shim, speaking a small JSON frame protocol (INTENT from the shim,
// NAV_PUSH / NAV_REPLACE / NAV_BACK from the server).
package nav
