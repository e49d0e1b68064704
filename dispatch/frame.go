package dispatch

import "strconv"

// Frame records, for one argument position, which instances apply when the
// argument resolves to exactly Node. Applicability through inheritance is not
// stored here; the resolver unions ancestor frames at dispatch time.
//
// A frame with a nil Node is the wildcard frame of its position. It holds the
// instances that accept any value there and sits above every other frame of
// that position. The wildcard frame shared by all positions past the longest
// registered signature reports Position -1.
type Frame struct {
	Node     Node
	Position int

	bits  Bitset
	table *Table
}

// Bits returns a copy of the frame's instance set.
func (f *Frame) Bits() Bitset {
	return f.bits.Clone()
}

// Parent returns the frame of the nearest ancestor of Node that has a frame
// at the same position, falling back to the position's wildcard frame.
// The chain is read from the node's current parent, not cached.
func (f *Frame) Parent() *Frame {
	return f.table.parentOf(f)
}

// IsWildcard reports whether this is a wildcard frame.
func (f *Frame) IsWildcard() bool {
	return f.Node == nil
}

// String returns "Node@position {ids}".
func (f *Frame) String() string {
	return NodeName(f.Node) + "@" + strconv.Itoa(f.Position) + " " + f.bits.String()
}

