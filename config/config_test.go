package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/multimethod/dispatch"
)

const seaConfig = `
[engine]
name = "encounter"
small-capacity = 16

[log]
verbosity = 2

[store]
path = "sea.db"

[[class]]
name = "HealthyShark"
superclass = "Shark"

[[class]]
name = "Fish"

[[class]]
name = "Shark"
superclass = "Fish"
`

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(seaConfig), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if c.Engine.Name != "encounter" {
		t.Errorf("engine name = %q, want encounter", c.Engine.Name)
	}
	if c.Engine.SmallCapacity != 16 {
		t.Errorf("small-capacity = %d, want 16", c.Engine.SmallCapacity)
	}
	if c.Log.Verbosity != 2 {
		t.Errorf("log verbosity = %d, want 2", c.Log.Verbosity)
	}
	if len(c.Classes) != 3 {
		t.Errorf("classes count = %d, want 3", len(c.Classes))
	}
	abs, _ := filepath.Abs(dir)
	if c.Dir != abs {
		t.Errorf("Dir = %q, want %q", c.Dir, abs)
	}
	if got := c.StorePath(); got != filepath.Join(abs, "sea.db") {
		t.Errorf("StorePath() = %q", got)
	}
}

func TestDefaults(t *testing.T) {
	c, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c.Engine.SmallCapacity != dispatch.DefaultSmallCapacity {
		t.Errorf("small-capacity = %d, want %d", c.Engine.SmallCapacity, dispatch.DefaultSmallCapacity)
	}
	if c.Store.Path != "multimethod.db" {
		t.Errorf("store path = %q, want multimethod.db", c.Store.Path)
	}
	if c.StorePath() != "multimethod.db" {
		t.Errorf("StorePath() without Dir = %q", c.StorePath())
	}
	if d := Default(); d.Engine.SmallCapacity != dispatch.DefaultSmallCapacity {
		t.Errorf("Default() small-capacity = %d", d.Engine.SmallCapacity)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		toml string
	}{
		{"capacity too large", "[engine]\nsmall-capacity = 65\n"},
		{"capacity negative", "[engine]\nsmall-capacity = -1\n"},
		{"unknown superclass", "[[class]]\nname = \"Shark\"\nsuperclass = \"Fish\"\n"},
		{"duplicate", "[[class]]\nname = \"Fish\"\n[[class]]\nname = \"Fish\"\n"},
		{"builtin redeclared", "[[class]]\nname = \"Number\"\n"},
		{"cycle", "[[class]]\nname = \"A\"\nsuperclass = \"B\"\n[[class]]\nname = \"B\"\nsuperclass = \"A\"\n"},
		{"self", "[[class]]\nname = \"A\"\nsuperclass = \"A\"\n"},
		{"nameless", "[[class]]\nsuperclass = \"Object\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.toml)); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestParseError(t *testing.T) {
	if _, err := Parse([]byte("[engine\n")); err == nil {
		t.Error("expected a parse error")
	}
}

func TestBuildSpaceAnyOrder(t *testing.T) {
	c, err := Parse([]byte(seaConfig))
	if err != nil {
		t.Fatal(err)
	}
	s, err := c.BuildSpace()
	if err != nil {
		t.Fatalf("BuildSpace failed: %v", err)
	}

	healthy := s.Class("HealthyShark")
	if healthy == nil {
		t.Fatal("HealthyShark not registered")
	}
	if healthy.Superclass().Name() != "Shark" || healthy.Superclass().Superclass().Name() != "Fish" {
		t.Errorf("unexpected chain for HealthyShark")
	}
	if s.Class("Fish").Superclass() != s.Root() {
		t.Error("Fish should default to the root class")
	}
}

func TestEngineOptions(t *testing.T) {
	c, _ := Parse([]byte(seaConfig))

	opts := c.EngineOptions("")
	if opts.Name != "encounter" || opts.SmallCapacity != 16 {
		t.Errorf("EngineOptions(\"\") = %+v", opts)
	}
	if opts := c.EngineOptions("other"); opts.Name != "other" {
		t.Errorf("EngineOptions(other).Name = %q", opts.Name)
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, FileName), []byte(seaConfig), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if c == nil || c.Engine.Name != "encounter" {
		t.Fatalf("FindAndLoad = %+v", c)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("expected an error for a missing file")
	}
}
