package route_test

import (
	"context"
	"errors"
	"testing"

	"github.com/routekit-go/routekit/pkg/pattern"
	"github.com/routekit-go/routekit/pkg/route"
)

func TestAddChildRejectsEmptyName(t *testing.T) {
	e := route.NewEngine()

	_, err := e.Root().AddChild("", pattern.MustCompile("/x"))
	if !errors.Is(err, route.ErrEmptyName) {
		t.Fatalf("err = %v, want ErrEmptyName", err)
	}
	if !errors.Is(err, route.ErrConfiguration) {
		t.Error("configuration errors must match ErrConfiguration")
	}
}

func TestAddChildRejectsSeparatorInName(t *testing.T) {
	e := route.NewEngine()

	_, err := e.Root().AddChild("a.b", pattern.MustCompile("/x"))
	if !errors.Is(err, route.ErrNameSeparator) {
		t.Fatalf("err = %v, want ErrNameSeparator", err)
	}
}

func TestAddChildRejectsDuplicateName(t *testing.T) {
	e := route.NewEngine()

	if _, err := e.Root().AddChild("base", pattern.MustCompile("/path/:id")); err != nil {
		t.Fatal(err)
	}
	_, err := e.Root().AddChild("base", pattern.MustCompile("/other"))
	if !errors.Is(err, route.ErrDuplicateName) {
		t.Fatalf("err = %v, want ErrDuplicateName", err)
	}

	// The failed add must not disturb the existing tree.
	if got := len(e.Root().Children()); got != 1 {
		t.Errorf("len(children) = %d, want 1", got)
	}
}

func TestAddChildRejectsSecondDefault(t *testing.T) {
	e := route.NewEngine()

	if _, err := e.Root().AddChild("a", pattern.MustCompile("/a"), route.Default()); err != nil {
		t.Fatal(err)
	}
	_, err := e.Root().AddChild("b", pattern.MustCompile("/b"), route.Default())
	if !errors.Is(err, route.ErrDuplicateDefault) {
		t.Fatalf("err = %v, want ErrDuplicateDefault", err)
	}
}

func TestAddChildRejectsNilMatcher(t *testing.T) {
	e := route.NewEngine()

	_, err := e.Root().AddChild("a", nil)
	if !errors.Is(err, route.ErrNilMatcher) {
		t.Fatalf("err = %v, want ErrNilMatcher", err)
	}
}

func TestMountDeclaresNestedChildren(t *testing.T) {
	e := route.NewEngine()

	_, err := e.Root().AddChild("users", pattern.MustCompile("/users/:id"),
		route.MountFunc(func(users *route.RouteNode) error {
			_, err := users.AddChild("edit", pattern.MustCompile("/edit"))
			return err
		}))
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := e.FindRoute("users.edit"); !ok {
		t.Error("users.edit not found after mount")
	}
}

func TestMountErrorPropagates(t *testing.T) {
	e := route.NewEngine()

	boom := errors.New("boom")
	_, err := e.Root().AddChild("users", pattern.MustCompile("/users"),
		route.MountFunc(func(*route.RouteNode) error { return boom }))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestFindRoute(t *testing.T) {
	e := route.NewEngine()

	users, err := e.Root().AddChild("users", pattern.MustCompile("/users/:id"))
	if err != nil {
		t.Fatal(err)
	}
	edit, err := users.AddChild("edit", pattern.MustCompile("/edit"))
	if err != nil {
		t.Fatal(err)
	}

	got, ok := e.FindRoute("users.edit")
	if !ok || got != edit {
		t.Errorf("FindRoute(users.edit) = %v, %v; want edit node", got, ok)
	}

	if _, ok := e.FindRoute("users.missing"); ok {
		t.Error("FindRoute should miss on unknown segment")
	}
	if _, ok := e.FindRoute(""); ok {
		t.Error("FindRoute should miss on empty path")
	}

	// A miss relative to a subtree is not a miss from the root.
	if got, ok := users.FindRoute("edit"); !ok || got != edit {
		t.Errorf("users.FindRoute(edit) = %v, %v; want edit node", got, ok)
	}
}

func TestDotted(t *testing.T) {
	e := route.NewEngine()

	users, _ := e.Root().AddChild("users", pattern.MustCompile("/users/:id"))
	edit, _ := users.AddChild("edit", pattern.MustCompile("/edit"))

	if got := edit.Dotted(); got != "users.edit" {
		t.Errorf("Dotted() = %q, want %q", got, "users.edit")
	}
	if got := e.Root().Dotted(); got != "" {
		t.Errorf("root Dotted() = %q, want empty", got)
	}
}

func TestParametersHiddenWhileInactive(t *testing.T) {
	e := route.NewEngine()
	base, _ := e.Root().AddChild("base", pattern.MustCompile("/path/:id"))
	e.Root().AddChild("other", pattern.MustCompile("/other"))

	if ok, err := e.Route(context.Background(), "/path/3"); err != nil || !ok {
		t.Fatalf("Route = %v, %v", ok, err)
	}
	if got := base.Parameters()["id"]; got != "3" {
		t.Fatalf("active Parameters()[id] = %q, want %q", got, "3")
	}

	if ok, err := e.Route(context.Background(), "/other"); err != nil || !ok {
		t.Fatalf("Route = %v, %v", ok, err)
	}
	if got := base.Parameters(); got != nil {
		t.Errorf("inactive Parameters() = %v, want nil", got)
	}
}
