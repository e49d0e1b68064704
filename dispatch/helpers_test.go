package dispatch

import "fmt"

// testClass is a minimal single-parent class for exercising the engine
// without the hierarchy package.
type testClass struct {
	name  string
	super *testClass
}

func newClass(name string, super *testClass) *testClass {
	return &testClass{name: name, super: super}
}

func (c *testClass) Parent() Node {
	if c.super == nil {
		return nil
	}
	return c.super
}

func (c *testClass) String() string { return c.name }

// testObject is its own singleton node; its parent is its class.
type testObject struct {
	name  string
	class *testClass
}

func (o *testObject) Parent() Node   { return o.class }
func (o *testObject) String() string { return o.name }

var testHost = HierarchyFunc(func(v any) Node {
	switch x := v.(type) {
	case *testObject:
		return x
	case *testClass:
		return x
	}
	return nil
})

// sea builds the Fish/Shark hierarchy used across tests.
type sea struct {
	Object, Fish, Shark, Healthy, Dying, Anchovy *testClass
}

func newSea() *sea {
	s := &sea{}
	s.Object = newClass("Object", nil)
	s.Fish = newClass("Fish", s.Object)
	s.Shark = newClass("Shark", s.Fish)
	s.Healthy = newClass("HealthyShark", s.Shark)
	s.Dying = newClass("DyingShark", s.Shark)
	s.Anchovy = newClass("Anchovy", s.Fish)
	return s
}

func (s *sea) obj(name string, c *testClass) *testObject {
	return &testObject{name: name, class: c}
}

// returns builds an Impl that reports which instance ran.
func returns(label string) Impl {
	return func(args ...any) (any, error) {
		return label, nil
	}
}

func nodes(ns ...*testClass) []Node {
	out := make([]Node, len(ns))
	for i, n := range ns {
		if n != nil {
			out[i] = n
		}
	}
	return out
}

func mustRegister(e *Engine, label string, ns ...*testClass) InstanceID {
	id, err := e.Register(nodes(ns...), returns(label))
	if err != nil {
		panic(fmt.Sprintf("register %s: %v", label, err))
	}
	return id
}
