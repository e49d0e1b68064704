package hierarchy

import "github.com/chazu/multimethod/dispatch"

// Class is a named node with at most one superclass.
type Class struct {
	name  string
	super *Class
}

// Name returns the class name.
func (c *Class) Name() string {
	return c.name
}

// Superclass returns the superclass, or nil for the root.
func (c *Class) Superclass() *Class {
	return c.super
}

// Parent implements dispatch.Node.
func (c *Class) Parent() dispatch.Node {
	if c.super == nil {
		return nil
	}
	return c.super
}

func (c *Class) String() string {
	return c.name
}

// IsSubclassOf returns true if c is other or inherits from it.
func (c *Class) IsSubclassOf(other *Class) bool {
	for cls := c; cls != nil; cls = cls.super {
		if cls == other {
			return true
		}
	}
	return false
}

// Depth returns the number of superclass links between c and the root.
func (c *Class) Depth() int {
	d := 0
	for cls := c.super; cls != nil; cls = cls.super {
		d++
	}
	return d
}
