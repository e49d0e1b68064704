package dispatch

import "fmt"

// Node is a position in a single-parent hierarchy, such as a class or an
// object that acts as its own singleton class. Nodes are compared by
// identity, so implementations should be pointer types.
//
// Parent returns nil at the root. Implementations must return an untyped
// nil there, not a nil pointer wrapped in the interface.
type Node interface {
	Parent() Node
}

// Hierarchy maps runtime values to the node used for dispatch lookups.
// NodeOf may return nil for values outside the hierarchy; such arguments
// only match wildcard positions.
type Hierarchy interface {
	NodeOf(value any) Node
}

// HierarchyFunc adapts a function to the Hierarchy interface.
type HierarchyFunc func(value any) Node

// NodeOf calls f(value).
func (f HierarchyFunc) NodeOf(value any) Node {
	return f(value)
}

// NodeName returns a printable name for n, used in snapshots and errors.
// Nodes that implement fmt.Stringer supply their own name; nil renders as "*".
func NodeName(n Node) string {
	if n == nil {
		return "*"
	}
	if s, ok := n.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T(%p)", n, n)
}
