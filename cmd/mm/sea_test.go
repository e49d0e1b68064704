package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chazu/multimethod/dispatch"
	"github.com/chazu/multimethod/hierarchy"
)

func playSea(t *testing.T, opts dispatch.Options) (string, *dispatch.Engine) {
	t.Helper()
	space := hierarchy.NewSpace()
	engine := dispatch.NewEngine(space, opts)
	var out bytes.Buffer
	s, err := newSea(space, engine, &out)
	if err != nil {
		t.Fatalf("newSea: %v", err)
	}
	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String(), engine
}

var wantSea = []string{
	"karl the shark swallows andy. Sorry, andy",
	"andy swims away from karl",
	"karl fights heinz",
	"heinz swims away from andy",
	"Karl is that you? Oh, hi Heinz!",
	"fritz fights karl",
	"karl swims away from andy",
	"fritz the fish encountered the number 42 and is now learning mathematics",
	"Andy and whatever.",
	"otto is too stupid to understand numbers",
	`otto encountered the phrase "hello" and is now learning how to read`,
	"Shark attack!",
	"Three little fishes.",
	"Andy and whatever.",
	"encounter: no instance for multimethod arguments (Number, andy)",
}

func TestSeaScript(t *testing.T) {
	out, engine := playSea(t, dispatch.Options{Name: "encounter"})
	got := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if len(got) != len(wantSea) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(wantSea), out)
	}
	for i := range wantSea {
		if got[i] != wantSea[i] {
			t.Errorf("line %d = %q, want %q", i+1, got[i], wantSea[i])
		}
	}
	if engine.Len() != 12 {
		t.Errorf("engine has %d instances, want 12", engine.Len())
	}
}

// The scenario plays out the same once every frame holds a large bitset.
func TestSeaScriptLarge(t *testing.T) {
	out, engine := playSea(t, dispatch.Options{Name: "encounter", SmallCapacity: 4})
	if !engine.IsLarge() {
		t.Fatal("engine should have switched to large bitsets")
	}
	if got := strings.Split(strings.TrimRight(out, "\n"), "\n"); strings.Join(got, "\n") != strings.Join(wantSea, "\n") {
		t.Errorf("large run differs:\n%s", out)
	}
}

func TestNewSeaReusesDeclaredClasses(t *testing.T) {
	space := hierarchy.NewSpace()
	fish, _ := space.RegisterClass("Fish", "")
	engine := dispatch.NewEngine(space, dispatch.Options{})

	s, err := newSea(space, engine, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if s.fish != fish {
		t.Error("newSea should reuse an existing Fish class")
	}
}

func TestPrintSnapshot(t *testing.T) {
	_, engine := playSea(t, dispatch.Options{Name: "encounter"})
	var out bytes.Buffer
	if err := printSnapshot(&out, engine.Snapshot()); err != nil {
		t.Fatal(err)
	}
	text := out.String()
	for _, want := range []string{
		"engine encounter",
		"12 instances, max arity 3, small bitsets",
		"(heinz, karl)",
		"(Shark, Number)",
		"rest",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}
