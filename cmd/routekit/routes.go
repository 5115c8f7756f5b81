package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/routekit-go/routekit/pkg/route"
)

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the demo route table",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
			engine, err := demoEngine(logger)
			if err != nil {
				return err
			}
			printRoutes(engine)
			return nil
		},
	}
}

func printRoutes(engine *route.Engine) {
	fmt.Printf("%-30s %s\n", "ROUTE", "FLAGS")
	engine.Walk(func(n *route.RouteNode, depth int) {
		var flags []string
		if parent := n.Parent(); parent != nil && parent.DefaultChild() == n {
			flags = append(flags, "default")
		}
		fmt.Printf("%-30s %s\n",
			strings.Repeat("  ", depth)+n.Name(),
			strings.Join(flags, ","))
	})
}
