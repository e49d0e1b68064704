package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/chazu/multimethod/dispatch"
	"github.com/chazu/multimethod/hierarchy"
)

// The sea is the fish-and-shark scenario from Salzman and Aldrich,
// "Prototypes with multiple dispatch" (ECOOP 2005).
var seaClasses = [][2]string{
	{"Fish", ""},
	{"Shark", "Fish"},
	{"HealthyShark", "Shark"},
	{"DyingShark", "Shark"},
	{"Anchovy", "Fish"},
}

type sea struct {
	space     *hierarchy.Space
	encounter *dispatch.Engine
	out       io.Writer

	fish, shark, healthy, dying, anchovy *hierarchy.Class
	inhabitants                          map[string]*hierarchy.Object
}

// newSea declares the sea classes that the space does not already have,
// creates the inhabitants and registers every encounter instance.
func newSea(space *hierarchy.Space, encounter *dispatch.Engine, out io.Writer) (*sea, error) {
	for _, c := range seaClasses {
		if space.Class(c[0]) != nil {
			continue
		}
		if _, err := space.RegisterClass(c[0], c[1]); err != nil {
			return nil, err
		}
	}

	s := &sea{
		space:       space,
		encounter:   encounter,
		out:         out,
		fish:        space.MustClass("Fish"),
		shark:       space.MustClass("Shark"),
		healthy:     space.MustClass("HealthyShark"),
		dying:       space.MustClass("DyingShark"),
		anchovy:     space.MustClass("Anchovy"),
		inhabitants: make(map[string]*hierarchy.Object),
	}
	for _, name := range []string{"karl", "heinz", "fritz"} {
		s.inhabitants[name] = hierarchy.NewObject(s.healthy, name)
	}
	for _, name := range []string{"andy", "otto"} {
		s.inhabitants[name] = hierarchy.NewObject(s.anchovy, name)
	}

	if err := s.define(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *sea) get(name string) *hierarchy.Object {
	return s.inhabitants[name]
}

func (s *sea) say(format string, args ...any) (any, error) {
	_, err := fmt.Fprintf(s.out, format+"\n", args...)
	return nil, err
}

func (s *sea) swimAway(args ...any) (any, error) {
	return s.say("%v swims away from %v", args[0], args[1])
}

func (s *sea) define() error {
	number := s.space.MustClass(hierarchy.NumberClass)
	str := s.space.MustClass(hierarchy.StringClass)
	root := s.space.Root()

	defs := []struct {
		nodes []dispatch.Node
		impl  dispatch.Impl
	}{
		{[]dispatch.Node{s.fish, s.fish}, func(args ...any) (any, error) {
			return s.say("simple encounter between %v and %v", args[0], args[1])
		}},
		{[]dispatch.Node{s.fish, s.healthy}, s.swimAway},
		{[]dispatch.Node{s.healthy, s.fish}, func(args ...any) (any, error) {
			return s.say("%v the shark swallows %v. Sorry, %v", args[0], args[1], args[1])
		}},
		{[]dispatch.Node{s.healthy, s.shark}, func(args ...any) (any, error) {
			if victim, ok := args[1].(*hierarchy.Object); ok {
				victim.Become(s.dying)
			}
			return s.say("%v fights %v", args[0], args[1])
		}},
		{[]dispatch.Node{s.dying, s.fish}, s.swimAway},
		{[]dispatch.Node{s.shark, number}, func(args ...any) (any, error) {
			return s.say("%v the fish encountered the number %v and is now learning mathematics", args[0], args[1])
		}},
		{[]dispatch.Node{s.fish, number}, func(args ...any) (any, error) {
			return s.say("%v is too stupid to understand numbers", args[0])
		}},
		{[]dispatch.Node{s.fish, str}, func(args ...any) (any, error) {
			return s.say("%v encountered the phrase %q and is now learning how to read", args[0], args[1])
		}},
		{[]dispatch.Node{s.get("heinz"), s.get("karl")}, func(args ...any) (any, error) {
			return s.say("Karl is that you? Oh, hi Heinz!")
		}},
		{[]dispatch.Node{s.shark, s.shark, s.shark}, func(args ...any) (any, error) {
			return s.say("Shark attack!")
		}},
		{[]dispatch.Node{s.fish, s.fish, s.fish}, func(args ...any) (any, error) {
			return s.say("Three little fishes.")
		}},
		{[]dispatch.Node{s.get("andy"), root, root}, func(args ...any) (any, error) {
			return s.say("Andy and whatever.")
		}},
	}
	for _, d := range defs {
		if _, err := s.encounter.Register(d.nodes, d.impl); err != nil {
			return err
		}
	}
	return nil
}

// script is the sequence of encounters played by Run. Names refer to the
// sea's inhabitants; other values are passed through.
var script = [][]any{
	{"karl", "andy"},
	{"andy", "karl"},
	{"karl", "heinz"},
	{"heinz", "andy"},
	{"heinz", "karl"},
	{"fritz", "karl"},
	{"karl", "andy"},
	{"fritz", 42},
	{"andy", 42},
	{"otto", 42},
	{"otto", lit("hello")},
	{"karl", "karl", "karl"},
	{"otto", "andy", "andy"},
	{"andy", "andy", "andy"},
	{42, "andy"},
}

// lit marks a string argument that is not an inhabitant's name.
type lit string

// Run plays the script. Dispatch failures are reported and do not stop the
// run; errors writing the output do.
func (s *sea) Run() error {
	for _, step := range script {
		args := make([]any, len(step))
		for i, a := range step {
			switch v := a.(type) {
			case string:
				args[i] = s.get(v)
			case lit:
				args[i] = string(v)
			default:
				args[i] = v
			}
		}
		if _, err := s.encounter.Dispatch(args...); err != nil {
			var de *dispatch.DispatchError
			if !errors.As(err, &de) {
				return err
			}
			if _, werr := fmt.Fprintln(s.out, err); werr != nil {
				return werr
			}
		}
	}
	return nil
}
