package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/routekit-go/routekit/pkg/middleware"
	"github.com/routekit-go/routekit/pkg/nav"
	"github.com/routekit-go/routekit/pkg/pattern"
	"github.com/routekit-go/routekit/pkg/route"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo navigator server",
		Long: `Serve hosts the demo route tree behind a WebSocket history
endpoint. A browser shim connects to /ws, reports navigation intents, and
receives NAV_PUSH / NAV_REPLACE / NAV_BACK frames back. Prometheus metrics
are exposed on /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8420", "listen address")
	return cmd
}

func runServe(addr string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	engine, err := demoEngine(logger)
	if err != nil {
		return err
	}
	middleware.Observe(engine)
	middleware.Trace(engine)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			logger.Error("websocket upgrade failed", "error", err)
			return
		}

		hist := nav.NewWSHistory(conn, req.URL.Query().Get("path"), nav.DefaultWSHistoryConfig())
		defer hist.Close()

		navigator := nav.New(engine, hist, nav.WithNavLogger(logger))
		go hist.ReadLoop(req.Context())
		if err := navigator.Listen(req.Context()); err != nil {
			logger.Debug("navigator stopped", "error", err)
		}
	})

	logger.Info("routekit demo server listening", "addr", addr)
	return http.ListenAndServe(addr, r)
}

// demoEngine builds the route tree served by the demo commands.
func demoEngine(logger *slog.Logger) (*route.Engine, error) {
	engine := route.NewEngine(route.WithLogger(logger), route.WithSortedMatchers())

	_, err := engine.Root().AddChild("home", pattern.MustCompile("/home"),
		route.Default(),
		route.OnEnter(func(ev *route.Event) {
			logger.Info("entered home")
		}))
	if err != nil {
		return nil, err
	}

	_, err = engine.Root().AddChild("users", pattern.MustCompile("/users/:id"),
		route.OnEnter(func(ev *route.Event) {
			logger.Info("entered user", "id", ev.Params["id"])
		}),
		route.MountFunc(func(users *route.RouteNode) error {
			if _, err := users.AddChild("profile", pattern.MustCompile("/profile"), route.Default()); err != nil {
				return err
			}
			_, err := users.AddChild("settings", pattern.MustCompile("/settings"),
				route.OnPreLeave(func(ev *route.PreEvent) {
					// Unsaved settings would contribute a veto here.
				}))
			return err
		}))
	if err != nil {
		return nil, err
	}

	_, err = engine.Root().AddChild("search", pattern.MustCompile("/search"),
		route.WatchQuery("q", "page"),
		route.DontLeaveOnParamChanges())
	if err != nil {
		return nil, err
	}

	return engine, nil
}
