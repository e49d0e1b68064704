package dispatch

// Resolution walks each argument's frame chain from the most specific node
// upward, accumulating the instances that apply at each depth, and stops at
// the shallowest depth where every position agrees on at least one instance.
// Remaining ties are broken by the leftmost argument that prefers one
// candidate over the others.

// resolve selects the instance for the given argument nodes.
func (t *Table) resolve(nodes []Node) (*Instance, Bitset, error) {
	if len(nodes) == 2 {
		return t.resolve2(nodes[0], nodes[1])
	}
	return t.resolveN(nodes)
}

// resolve2 is the two-argument path. Both chains are walked together; once
// one runs out, the other continues alone.
func (t *Table) resolve2(a, b Node) (*Instance, Bitset, error) {
	am := t.Lookup(a, 0)
	bm := t.Lookup(b, 1)
	if am == nil || bm == nil {
		return nil, Bitset{}, ErrNoInstance
	}

	var ab, bb, i Bitset
	for {
		ab.UnionWith(am.bits)
		bb.UnionWith(bm.bits)
		i = t.joint(ab, bb)
		am = am.Parent()
		bm = bm.Parent()
		if !i.IsEmpty() || am == nil || bm == nil {
			break
		}
	}

	for i.IsEmpty() && am != nil {
		ab.UnionWith(am.bits)
		am = am.Parent()
		i = t.joint(ab, bb)
	}
	for i.IsEmpty() && bm != nil {
		bb.UnionWith(bm.bits)
		bm = bm.Parent()
		i = t.joint(ab, bb)
	}

	return t.pick([]Node{a, b}, i)
}

func (t *Table) joint(ab, bb Bitset) Bitset {
	i := ab.Intersect(bb)
	t.mask(&i, 2)
	return i
}

// resolveN handles every arity other than two. A position whose chain is
// exhausted keeps its accumulated set and still takes part in the
// intersection.
func (t *Table) resolveN(nodes []Node) (*Instance, Bitset, error) {
	n := len(nodes)
	cursors := make([]*Frame, n)
	acc := make([]Bitset, n)
	live := 0

	for j, node := range nodes {
		f := t.Lookup(node, j)
		if f == nil {
			return nil, Bitset{}, ErrNoInstance
		}
		acc[j] = f.bits.Clone()
		if cursors[j] = f.Parent(); cursors[j] != nil {
			live++
		}
	}

	i := t.intersectAll(acc)
	for i.IsEmpty() && live > 0 {
		for j, f := range cursors {
			if f == nil {
				continue
			}
			acc[j].UnionWith(f.bits)
			if cursors[j] = f.Parent(); cursors[j] == nil {
				live--
			}
		}
		i = t.intersectAll(acc)
	}

	return t.pick(nodes, i)
}

// intersectAll intersects the accumulated sets. With no arguments at all,
// every instance applies.
func (t *Table) intersectAll(sets []Bitset) Bitset {
	var i Bitset
	if len(sets) == 0 {
		i = t.All()
	} else {
		i = sets[0].Clone()
		for _, s := range sets[1:] {
			i.IntersectWith(s)
		}
	}
	t.mask(&i, len(sets))
	return i
}

// mask drops instances that constrain a position past the end of an
// n-argument call when the table checks arity strictly.
func (t *Table) mask(i *Bitset, n int) {
	if t.strict && n < len(t.longer) {
		i.DifferenceWith(t.longer[n])
	}
}

// pick turns a candidate set into a single instance or an error. The
// returned Bitset is the set of surviving candidates.
func (t *Table) pick(nodes []Node, candidates Bitset) (*Instance, Bitset, error) {
	switch {
	case candidates.IsEmpty():
		return nil, candidates, ErrNoInstance
	case candidates.IsSingleton():
		return t.instances[candidates.Max()], candidates, nil
	}
	return t.tieBreak(nodes, candidates)
}

// tieBreak narrows candidates one position at a time, leftmost first. At
// each position it finds the nearest frame that still mentions a candidate.
// If that frame names exactly one instance, it wins outright; otherwise the
// candidates are narrowed to the frame's members.
func (t *Table) tieBreak(nodes []Node, candidates Bitset) (*Instance, Bitset, error) {
	candidates = candidates.Clone()
	for i, node := range nodes {
		m := t.Lookup(node, i)
		for m != nil && !m.bits.Intersects(candidates) {
			m = m.Parent()
		}
		if m == nil {
			continue
		}
		if m.bits.IsSingleton() {
			return t.instances[m.bits.Max()], m.bits.Clone(), nil
		}
		candidates.IntersectWith(m.bits)
		if candidates.IsSingleton() {
			return t.instances[candidates.Max()], candidates, nil
		}
	}
	return nil, candidates, ErrAmbiguousInstance
}
