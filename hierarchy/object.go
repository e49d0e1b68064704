package hierarchy

import (
	"sync"
	"time"

	"github.com/chazu/multimethod/dispatch"
)

// Object is an instance of a class. It is a dispatch node in its own right,
// one level below its class, so instances can be registered against a
// single object.
type Object struct {
	ID        string
	Name      string
	CreatedAt time.Time

	class  *Class
	fields map[string]any
	mu     sync.RWMutex
}

// NewObject creates an object of class. An empty name defaults to the ID.
func NewObject(class *Class, name string) *Object {
	o := &Object{
		ID:        GenerateID(class.Name()),
		Name:      name,
		CreatedAt: time.Now(),
		class:     class,
		fields:    make(map[string]any),
	}
	if o.Name == "" {
		o.Name = o.ID
	}
	return o
}

// Class returns the object's current class.
func (o *Object) Class() *Class {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.class
}

// Become moves the object under a different class. Dispatches that start
// after the call see the new class.
func (o *Object) Become(class *Class) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.class = class
}

// Parent implements dispatch.Node.
func (o *Object) Parent() dispatch.Node {
	if c := o.Class(); c != nil {
		return c
	}
	return nil
}

// Is reports whether the object is an instance of class or a subclass.
func (o *Object) Is(class *Class) bool {
	return o.Class().IsSubclassOf(class)
}

// Get returns a field value, or nil.
func (o *Object) Get(field string) any {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.fields[field]
}

// Set assigns a field value.
func (o *Object) Set(field string, v any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fields[field] = v
}

func (o *Object) String() string {
	return o.Name
}
