// Package hierarchy is a small object model for hosting multimethods: named
// classes with a single superclass, and objects that act as their own
// singleton dispatch nodes.
package hierarchy

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/chazu/multimethod/dispatch"
)

// Names of the classes every Space starts with.
const (
	RootClass    = "Object"
	NumberClass  = "Number"
	StringClass  = "String"
	BooleanClass = "Boolean"
)

var (
	// ErrUnknownClass indicates a class name that was never registered.
	ErrUnknownClass = errors.New("unknown class")
	// ErrDuplicateClass indicates a second registration under the same name.
	ErrDuplicateClass = errors.New("class already registered")
)

// Space holds the classes of one program and maps Go values onto them.
// Class registration is safe for concurrent use.
type Space struct {
	classes map[string]*Class
	classMu sync.RWMutex

	root, number, str, boolean *Class
}

// NewSpace creates a space holding the root class and the builtin classes
// for Go numbers, strings and booleans.
func NewSpace() *Space {
	s := &Space{classes: make(map[string]*Class)}
	s.root = &Class{name: RootClass}
	s.classes[RootClass] = s.root
	s.number = s.mustRegister(NumberClass)
	s.str = s.mustRegister(StringClass)
	s.boolean = s.mustRegister(BooleanClass)
	return s
}

func (s *Space) mustRegister(name string) *Class {
	c, err := s.RegisterClass(name, RootClass)
	if err != nil {
		panic(err)
	}
	return c
}

// RegisterClass declares a class. An empty superclass means the root class.
// The superclass must already be registered, so the class graph is always a
// tree.
func (s *Space) RegisterClass(name, superclass string) (*Class, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownClass)
	}
	if superclass == "" {
		superclass = RootClass
	}

	s.classMu.Lock()
	defer s.classMu.Unlock()

	if _, ok := s.classes[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateClass, name)
	}
	super, ok := s.classes[superclass]
	if !ok {
		return nil, fmt.Errorf("%w: %s (superclass of %s)", ErrUnknownClass, superclass, name)
	}

	class := &Class{name: name, super: super}
	s.classes[name] = class
	return class, nil
}

// Class retrieves a registered class, or nil.
func (s *Space) Class(name string) *Class {
	s.classMu.RLock()
	defer s.classMu.RUnlock()
	return s.classes[name]
}

// MustClass is like Class but panics on an unknown name.
func (s *Space) MustClass(name string) *Class {
	c := s.Class(name)
	if c == nil {
		panic(fmt.Errorf("%w: %s", ErrUnknownClass, name))
	}
	return c
}

// Root returns the root class.
func (s *Space) Root() *Class {
	return s.root
}

// ClassNames returns all registered class names in sorted order.
func (s *Space) ClassNames() []string {
	s.classMu.RLock()
	defer s.classMu.RUnlock()

	names := make([]string, 0, len(s.classes))
	for name := range s.classes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ClassCount returns the number of registered classes.
func (s *Space) ClassCount() int {
	s.classMu.RLock()
	defer s.classMu.RUnlock()
	return len(s.classes)
}

// New creates an object of the named class.
func (s *Space) New(className, name string) (*Object, error) {
	class := s.Class(className)
	if class == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, className)
	}
	return NewObject(class, name), nil
}

// NodeOf maps a value to its dispatch node. Objects and classes are their
// own nodes, Go numbers, strings and booleans map to the builtin classes,
// and everything else has no node.
func (s *Space) NodeOf(v any) dispatch.Node {
	switch x := v.(type) {
	case *Object:
		if x == nil {
			return nil
		}
		return x
	case *Class:
		if x == nil {
			return nil
		}
		return x
	case dispatch.Node:
		return x
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		float32, float64:
		return s.number
	case string:
		return s.str
	case bool:
		return s.boolean
	}
	return nil
}

// GenerateID creates a new unique object ID for the given class name.
func GenerateID(className string) string {
	return strings.ToLower(className) + "_" + uuid.New().String()
}
