// Package route implements hierarchical route resolution.
//
// A tree of named routes is built with AddChild, each edge carrying a
// Matcher for one URL fragment. Routing a path descends the tree greedily,
// diffs the result against the currently active chain, and runs a
// four-phase lifecycle over the nodes that change:
//
//  1. pre-leave (child first, vetoable)
//  2. pre-enter (parent first, vetoable)
//  3. leave (child first)
//  4. enter (parent first)
//
// Listeners on the "pre" events contribute Decision futures; a single
// negative decision aborts the navigation before any state is touched, so
// a veto is never observable as a partial transition.
//
// # Usage
//
//	engine := route.NewEngine()
//	users, _ := engine.Root().AddChild("users", pattern.MustCompile("/users/:id"),
//	    route.OnEnter(func(ev *route.Event) {
//	        show(ev.Params["id"])
//	    }))
//	users.AddChild("edit", pattern.MustCompile("/edit"))
//
//	ok, err := engine.Route(ctx, "/users/42/edit")
//
// URLs are reconstructed in the reverse direction with URL, which folds
// each edge's Reverse over the recorded parameters:
//
//	href, _ := engine.URL("users.edit", route.URLParams(route.Params{"id": "7"}))
package route
