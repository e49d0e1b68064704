package hierarchy

import (
	"strings"
	"testing"

	"github.com/chazu/multimethod/dispatch"
)

func TestObjectIsItsOwnNode(t *testing.T) {
	s := seaSpace(t)
	heinz, _ := s.New("HealthyShark", "heinz")

	if heinz.Parent() != dispatch.Node(s.MustClass("HealthyShark")) {
		t.Errorf("Parent() = %v, want HealthyShark", heinz.Parent())
	}
	if !heinz.Is(s.MustClass("Shark")) {
		t.Error("heinz should be a Shark")
	}
	if heinz.String() != "heinz" {
		t.Errorf("String() = %q, want heinz", heinz.String())
	}
	if !strings.HasPrefix(heinz.ID, "healthyshark_") {
		t.Errorf("ID = %q, want healthyshark_ prefix", heinz.ID)
	}
}

func TestObjectDefaultName(t *testing.T) {
	s := seaSpace(t)
	o, _ := s.New("Fish", "")
	if o.Name != o.ID {
		t.Errorf("Name = %q, want the ID %q", o.Name, o.ID)
	}
	p, _ := s.New("Fish", "")
	if o.ID == p.ID {
		t.Error("objects should get distinct IDs")
	}
}

func TestObjectBecome(t *testing.T) {
	s := seaSpace(t)
	heinz, _ := s.New("HealthyShark", "heinz")
	dying := s.MustClass("DyingShark")

	heinz.Become(dying)
	if heinz.Class() != dying {
		t.Errorf("Class() = %v, want DyingShark", heinz.Class())
	}
	if heinz.Parent() != dispatch.Node(dying) {
		t.Errorf("Parent() = %v, want DyingShark", heinz.Parent())
	}
}

func TestObjectFields(t *testing.T) {
	s := seaSpace(t)
	o, _ := s.New("Fish", "nemo")
	if o.Get("fins") != nil {
		t.Error("unset field should be nil")
	}
	o.Set("fins", 3)
	if o.Get("fins") != 3 {
		t.Errorf("Get(fins) = %v, want 3", o.Get("fins"))
	}
}

// The object model hosts an engine end to end, including dispatch on
// builtin classes and re-parenting between calls.
func TestSpaceHostsEngine(t *testing.T) {
	s := seaSpace(t)
	e := dispatch.NewEngine(s, dispatch.Options{Name: "encounter"})

	label := func(l string) dispatch.Impl {
		return func(args ...any) (any, error) { return l, nil }
	}
	e.Define(label("fish-fish"), s.MustClass("Fish"), s.MustClass("Fish"))
	e.Define(label("math"), s.MustClass("Fish"), s.MustClass(NumberClass))
	e.Define(label("dying"), s.MustClass("DyingShark"), s.MustClass("Fish"))

	karl, _ := s.New("HealthyShark", "karl")
	andy, _ := s.New("Anchovy", "andy")

	check := func(want string, args ...any) {
		t.Helper()
		got, err := e.Dispatch(args...)
		if err != nil {
			t.Fatalf("Dispatch(%v): %v", args, err)
		}
		if got != want {
			t.Errorf("Dispatch(%v) = %v, want %s", args, got, want)
		}
	}

	check("fish-fish", karl, andy)
	check("math", karl, 42)
	karl.Become(s.MustClass("DyingShark"))
	check("dying", karl, andy)
}
