// Package config handles multimethod.toml configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"

	"github.com/chazu/multimethod/dispatch"
	"github.com/chazu/multimethod/hierarchy"
)

// FileName is the name of the configuration file looked up by Load.
const FileName = "multimethod.toml"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config represents a multimethod.toml file.
type Config struct {
	Engine  Engine  `toml:"engine"`
	Log     Log     `toml:"log"`
	Store   Store   `toml:"store"`
	Classes []Class `toml:"class"`

	// Dir is the directory containing the file (set at load time).
	Dir string `toml:"-"`
}

// Engine configures dispatch engines created from this file.
type Engine struct {
	Name          string `toml:"name"`
	SmallCapacity int    `toml:"small-capacity"`
}

// Log configures commonlog.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	Path      string `toml:"path"`
}

// Store configures the snapshot database.
type Store struct {
	Path string `toml:"path"`
}

// Class declares one class of the host hierarchy.
type Class struct {
	Name       string `toml:"name"`
	Superclass string `toml:"superclass"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Parse decodes configuration data, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load parses the multimethod.toml file in dir.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	return c, nil
}

// FindAndLoad walks up from startDir to find a multimethod.toml file, then
// loads it. It returns nil if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

func (c *Config) applyDefaults() {
	if c.Engine.SmallCapacity == 0 {
		c.Engine.SmallCapacity = dispatch.DefaultSmallCapacity
	}
	if c.Store.Path == "" {
		c.Store.Path = "multimethod.db"
	}
}

// Validate checks the engine options and that the declared classes form a
// tree rooted at the builtin root class.
func (c *Config) Validate() error {
	if n := c.Engine.SmallCapacity; n < 1 || n > dispatch.WordBits {
		return fmt.Errorf("%w: small-capacity %d outside 1..%d", ErrInvalid, n, dispatch.WordBits)
	}

	supers := make(map[string]string, len(c.Classes))
	for _, cl := range c.Classes {
		if cl.Name == "" {
			return fmt.Errorf("%w: class without a name", ErrInvalid)
		}
		if _, ok := supers[cl.Name]; ok || isBuiltin(cl.Name) {
			return fmt.Errorf("%w: class %s declared twice", ErrInvalid, cl.Name)
		}
		supers[cl.Name] = cl.Superclass
	}
	for _, cl := range c.Classes {
		seen := map[string]bool{cl.Name: true}
		for s := cl.Superclass; s != "" && !isBuiltin(s); s = supers[s] {
			if _, ok := supers[s]; !ok {
				return fmt.Errorf("%w: class %s: unknown superclass %s", ErrInvalid, cl.Name, s)
			}
			if seen[s] {
				return fmt.Errorf("%w: class %s: superclass cycle through %s", ErrInvalid, cl.Name, s)
			}
			seen[s] = true
		}
	}
	return nil
}

func isBuiltin(name string) bool {
	switch name {
	case hierarchy.RootClass, hierarchy.NumberClass, hierarchy.StringClass, hierarchy.BooleanClass:
		return true
	}
	return false
}

// EngineOptions returns dispatch options for an engine. An empty name falls
// back to the configured engine name.
func (c *Config) EngineOptions(name string) dispatch.Options {
	if name == "" {
		name = c.Engine.Name
	}
	return dispatch.Options{
		Name:          name,
		SmallCapacity: c.Engine.SmallCapacity,
	}
}

// BuildSpace creates a hierarchy.Space holding the declared classes.
// Classes may be declared in any order.
func (c *Config) BuildSpace() (*hierarchy.Space, error) {
	s := hierarchy.NewSpace()
	pending := c.Classes
	for len(pending) > 0 {
		var next []Class
		for _, cl := range pending {
			if cl.Superclass != "" && s.Class(cl.Superclass) == nil {
				next = append(next, cl)
				continue
			}
			if _, err := s.RegisterClass(cl.Name, cl.Superclass); err != nil {
				return nil, fmt.Errorf("class %s: %w", cl.Name, err)
			}
		}
		if len(next) == len(pending) {
			return nil, fmt.Errorf("%w: class %s: unknown superclass %s",
				ErrInvalid, next[0].Name, next[0].Superclass)
		}
		pending = next
	}
	return s, nil
}

// StorePath returns the snapshot database path, resolved against Dir.
func (c *Config) StorePath() string {
	if filepath.IsAbs(c.Store.Path) || c.Dir == "" {
		return c.Store.Path
	}
	return filepath.Join(c.Dir, c.Store.Path)
}

// Configure applies the logging settings to commonlog. An empty path logs
// to stderr.
func (l Log) Configure() {
	var path *string
	if l.Path != "" {
		path = &l.Path
	}
	commonlog.Configure(l.Verbosity, path)
}
