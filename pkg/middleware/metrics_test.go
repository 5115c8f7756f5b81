package middleware_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/routekit-go/routekit/pkg/middleware"
	"github.com/routekit-go/routekit/pkg/route"
	"github.com/routekit-go/routekit/pkg/rtest"
)

// counterValue reads one counter sample from the registry, matching the
// given label pair when the metric is a vector.
func counterValue(t *testing.T, reg *prometheus.Registry, name, labelValue string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelValue == "" {
				return m.GetCounter().GetValue()
			}
			for _, lp := range m.GetLabel() {
				if lp.GetValue() == labelValue {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

// waitCounter polls until the counter reaches want; the outcome handler
// runs on its own goroutine.
func waitCounter(t *testing.T, reg *prometheus.Registry, name, labelValue string, want float64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if counterValue(t, reg, name, labelValue) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("%s{%s} = %v, want %v",
		name, labelValue, counterValue(t, reg, name, labelValue), want)
}

func TestObserve(t *testing.T) {
	reg := prometheus.NewRegistry()

	e := route.NewEngine()
	rtest.MustAdd(e.Root(), "home", "/home")
	rtest.MustAdd(e.Root(), "blocked", "/blocked",
		route.OnPreEnter(func(ev *route.PreEvent) { ev.Veto() }))

	unsub := middleware.Observe(e, middleware.WithRegistry(reg), middleware.WithSubsystem("test"))
	defer unsub()

	ctx := context.Background()

	if ok, err := e.Route(ctx, "/home"); err != nil || !ok {
		t.Fatalf("Route(/home) = (%v, %v), want (true, nil)", ok, err)
	}
	waitCounter(t, reg, "routekit_test_navigations_total", "committed", 1)

	if ok, err := e.Route(ctx, "/blocked"); err != nil || ok {
		t.Fatalf("Route(/blocked) = (%v, %v), want (false, nil)", ok, err)
	}
	waitCounter(t, reg, "routekit_test_navigations_total", "vetoed", 1)
	waitCounter(t, reg, "routekit_test_vetoes_total", "", 1)
}
