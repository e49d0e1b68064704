package dispatch

import "slices"

// DefaultSmallCapacity is the instance count a table supports before every
// frame switches to the large bitset representation.
const DefaultSmallCapacity = 32

// Impl is the implementation of one instance. It receives the arguments
// the engine was invoked with.
type Impl func(args ...any) (any, error)

// Instance is a registered implementation together with the node it
// requires at each argument position. A nil node, or a position past the end
// of Nodes, accepts any value.
type Instance struct {
	ID    InstanceID
	Nodes []Node
	Impl  Impl
}

// Arity returns the number of positions the instance constrains.
func (in *Instance) Arity() int {
	return len(in.Nodes)
}

// Call invokes the implementation.
func (in *Instance) Call(args []any) (any, error) {
	return in.Impl(args...)
}

// Table holds the instances of one engine and the side table of frames keyed
// by (node, position).
//
// The table is append-only: instances and frames are never removed, and a
// frame's bitset only gains members.
type Table struct {
	instances []*Instance
	frames    []map[Node]*Frame // position -> node -> frame
	wild      []*Frame          // wildcard frame per position below maxArity
	trailing  *Frame            // wildcard frame for positions >= maxArity
	created   []*Frame          // every frame, in creation order
	longer    []Bitset          // n -> instances constraining a position >= n
	maxArity  int
	capacity  int
	large     bool
	strict    bool
}

// NewTable creates an empty table. capacity is the small bitset threshold;
// values outside 1..WordBits are clamped.
func NewTable(capacity int) *Table {
	switch {
	case capacity <= 0:
		capacity = DefaultSmallCapacity
	case capacity > WordBits:
		capacity = WordBits
	}
	t := &Table{capacity: capacity}
	t.trailing = t.newFrame(nil, -1)
	return t
}

// Register appends an instance and records it in the frame of every node it
// names. It returns ErrTooManyInstances once the ID space is exhausted.
func (t *Table) Register(nodes []Node, impl Impl) (*Instance, error) {
	if uint64(len(t.instances)) >= MaxInstances {
		return nil, ErrTooManyInstances
	}
	id := InstanceID(len(t.instances))
	inst := &Instance{ID: id, Nodes: slices.Clone(nodes), Impl: impl}
	t.instances = append(t.instances, inst)

	if !t.large && len(t.instances) > t.capacity {
		t.upgrade()
	}

	// Earlier instances are all shorter than any new position, so they
	// accept any value there.
	for p := t.maxArity; p < len(nodes); p++ {
		t.growTo(p)
		if !t.trailing.bits.IsEmpty() {
			t.wildcardAt(p).bits.UnionWith(t.trailing.bits)
		}
	}
	if len(nodes) > t.maxArity {
		t.maxArity = len(nodes)
	}

	for p, n := range nodes {
		if n == nil {
			t.wildcardAt(p).bits.Insert(id)
			continue
		}
		t.Frame(n, p).bits.Insert(id)
	}
	for p := len(nodes); p < t.maxArity; p++ {
		t.wildcardAt(p).bits.Insert(id)
	}
	t.trailing.bits.Insert(id)

	for n := 0; n < requiredArity(nodes); n++ {
		if n == len(t.longer) {
			var b Bitset
			if t.large {
				b = NewLargeBitset()
			}
			t.longer = append(t.longer, b)
		}
		t.longer[n].Insert(id)
	}
	return inst, nil
}

// requiredArity is one past the last non-wildcard position.
func requiredArity(nodes []Node) int {
	for i := len(nodes) - 1; i >= 0; i-- {
		if nodes[i] != nil {
			return i + 1
		}
	}
	return 0
}

// Frame returns the frame for (node, position), creating an empty one on
// first use. A nil node selects the position's wildcard frame.
func (t *Table) Frame(node Node, position int) *Frame {
	if node == nil {
		if position >= t.maxArity {
			return t.trailing
		}
		return t.wildcardAt(position)
	}
	t.growTo(position)
	if f, ok := t.frames[position][node]; ok {
		return f
	}
	f := t.newFrame(node, position)
	t.frames[position][node] = f
	return f
}

// Lookup returns the frame of the nearest node on the chain starting at node
// that has a frame at position, or the wildcard frame if none does. It
// returns nil when no instance can apply at position. Lookup never creates
// frames.
func (t *Table) Lookup(node Node, position int) *Frame {
	for n := node; n != nil; n = n.Parent() {
		if f := t.frameAt(n, position); f != nil {
			return f
		}
	}
	return t.wildcard(position)
}

// Instance returns the instance with the given ID, or nil.
func (t *Table) Instance(id InstanceID) *Instance {
	if !id.IsValid() || int(id) >= len(t.instances) {
		return nil
	}
	return t.instances[id]
}

// Len returns the number of registered instances.
func (t *Table) Len() int {
	return len(t.instances)
}

// All returns the set of every registered instance ID.
func (t *Table) All() Bitset {
	return t.trailing.bits.Clone()
}

// Frames returns every frame in creation order.
func (t *Table) Frames() []*Frame {
	return slices.Clone(t.created)
}

// IsLarge reports whether the table switched to large bitsets.
func (t *Table) IsLarge() bool {
	return t.large
}

// Capacity returns the small bitset threshold.
func (t *Table) Capacity() int {
	return t.capacity
}

// SetStrictArity controls whether a call may select an instance that
// constrains a position past its last argument. Off by default: only the
// supplied positions are checked.
func (t *Table) SetStrictArity(strict bool) {
	t.strict = strict
}

// MaxArity returns the length of the longest registered signature.
func (t *Table) MaxArity() int {
	return t.maxArity
}

func (t *Table) newFrame(node Node, position int) *Frame {
	f := &Frame{Node: node, Position: position, table: t}
	if t.large {
		f.bits = NewLargeBitset()
	}
	t.created = append(t.created, f)
	return f
}

// upgrade moves every existing frame to the large representation. Frames are
// updated in place, so references held elsewhere stay valid.
func (t *Table) upgrade() {
	t.large = true
	for _, f := range t.created {
		f.bits.Upgrade()
	}
	for i := range t.longer {
		t.longer[i].Upgrade()
	}
}

func (t *Table) growTo(position int) {
	for len(t.frames) <= position {
		t.frames = append(t.frames, make(map[Node]*Frame))
		t.wild = append(t.wild, nil)
	}
}

func (t *Table) frameAt(node Node, position int) *Frame {
	if position >= len(t.frames) {
		return nil
	}
	return t.frames[position][node]
}

// wildcardAt returns the wildcard frame for a position below maxArity,
// creating it if needed.
func (t *Table) wildcardAt(position int) *Frame {
	t.growTo(position)
	if t.wild[position] == nil {
		t.wild[position] = t.newFrame(nil, position)
	}
	return t.wild[position]
}

// wildcard returns the wildcard frame for position if it has members.
func (t *Table) wildcard(position int) *Frame {
	var f *Frame
	switch {
	case position >= t.maxArity:
		f = t.trailing
	case position < len(t.wild):
		f = t.wild[position]
	}
	if f == nil || f.bits.IsEmpty() {
		return nil
	}
	return f
}

func (t *Table) parentOf(f *Frame) *Frame {
	if f.Node == nil {
		return nil
	}
	for n := f.Node.Parent(); n != nil; n = n.Parent() {
		if g := t.frameAt(n, f.Position); g != nil {
			return g
		}
	}
	return t.wildcard(f.Position)
}
