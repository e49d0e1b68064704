package dispatch

import (
	"cmp"
	"slices"
	"time"
)

// Snapshot is a plain-data view of an engine's instance table, suitable for
// encoding and diagnostics. Nodes are recorded by name.
type Snapshot struct {
	EngineID  string           `cbor:"1,keyasint"`
	Name      string           `cbor:"2,keyasint"`
	TakenAt   time.Time        `cbor:"3,keyasint"`
	Capacity  int              `cbor:"4,keyasint"`
	Large     bool             `cbor:"5,keyasint"`
	Instances []InstanceRecord `cbor:"6,keyasint"`
	Frames    []FrameRecord    `cbor:"7,keyasint,omitempty"`
	MaxArity  int              `cbor:"8,keyasint"`
}

// InstanceRecord describes one registered instance.
type InstanceRecord struct {
	ID    InstanceID `cbor:"1,keyasint"`
	Nodes []string   `cbor:"2,keyasint,omitempty"` // "*" for wildcards
}

// FrameRecord describes one frame and the IDs it holds.
type FrameRecord struct {
	Node     string       `cbor:"1,keyasint"`
	Position int          `cbor:"2,keyasint"`
	Members  []InstanceID `cbor:"3,keyasint,omitempty"`
}

// Snapshot captures the engine's current table. Frames are ordered by
// position, then node name; the trailing wildcard frame comes first.
func (e *Engine) Snapshot() *Snapshot {
	s := &Snapshot{
		EngineID:  e.id.String(),
		Name:      e.name,
		TakenAt:   time.Now().UTC(),
		Capacity:  e.table.Capacity(),
		Large:     e.table.IsLarge(),
		MaxArity:  e.table.MaxArity(),
		Instances: make([]InstanceRecord, 0, e.table.Len()),
	}
	for _, inst := range e.table.instances {
		rec := InstanceRecord{ID: inst.ID}
		for _, n := range inst.Nodes {
			rec.Nodes = append(rec.Nodes, NodeName(n))
		}
		s.Instances = append(s.Instances, rec)
	}
	for _, f := range e.table.created {
		if f.bits.IsEmpty() {
			continue
		}
		s.Frames = append(s.Frames, FrameRecord{
			Node:     NodeName(f.Node),
			Position: f.Position,
			Members:  f.bits.Members(),
		})
	}
	slices.SortStableFunc(s.Frames, func(a, b FrameRecord) int {
		if c := cmp.Compare(a.Position, b.Position); c != 0 {
			return c
		}
		return cmp.Compare(a.Node, b.Node)
	})
	return s
}

// Frame returns the record for (node, position), or nil.
func (s *Snapshot) Frame(node string, position int) *FrameRecord {
	for i := range s.Frames {
		if s.Frames[i].Node == node && s.Frames[i].Position == position {
			return &s.Frames[i]
		}
	}
	return nil
}
