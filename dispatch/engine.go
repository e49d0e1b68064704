package dispatch

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
)

// Options configures an Engine.
type Options struct {
	// Name labels the engine in logs, errors and snapshots.
	Name string

	// SmallCapacity is the number of instances held in single-word bitsets
	// before the engine switches every frame to word arrays. Zero selects
	// DefaultSmallCapacity; the maximum is WordBits.
	SmallCapacity int

	// StrictArity excludes instances whose signature constrains a position
	// the call does not supply. By default only supplied positions are
	// checked, so a longer signature can still be selected.
	StrictArity bool

	// Logger overrides the default "multimethod.dispatch" logger.
	Logger commonlog.Logger
}

// Engine is a multimethod: a set of instances and the machinery to pick one
// for a tuple of arguments.
//
// An Engine is not safe for concurrent use. Hosts that register and dispatch
// from several goroutines must serialize registration against dispatch.
type Engine struct {
	id    uuid.UUID
	name  string
	host  Hierarchy
	table *Table
	log   commonlog.Logger
}

// NewEngine creates an engine that maps arguments to nodes through host.
func NewEngine(host Hierarchy, opts Options) *Engine {
	e := &Engine{
		id:    uuid.New(),
		name:  opts.Name,
		host:  host,
		table: NewTable(opts.SmallCapacity),
		log:   opts.Logger,
	}
	e.table.SetStrictArity(opts.StrictArity)
	if e.name == "" {
		e.name = "multimethod-" + e.id.String()[:8]
	}
	if e.log == nil {
		e.log = commonlog.GetLogger("multimethod.dispatch")
	}
	return e
}

// ID returns the engine's unique identity.
func (e *Engine) ID() uuid.UUID {
	return e.id
}

// Name returns the engine's label.
func (e *Engine) Name() string {
	return e.name
}

// Len returns the number of registered instances.
func (e *Engine) Len() int {
	return e.table.Len()
}

// IsLarge reports whether the engine switched to large bitsets.
func (e *Engine) IsLarge() bool {
	return e.table.IsLarge()
}

// Table exposes the underlying instance table for inspection.
func (e *Engine) Table() *Table {
	return e.table
}

// Instance returns the instance with the given ID, or nil.
func (e *Engine) Instance(id InstanceID) *Instance {
	return e.table.Instance(id)
}

// Register adds an instance requiring nodes[i] at position i. A nil node
// accepts any value at that position, as does every position past the end
// of nodes.
//
// Register fails if impl is nil, or with ErrTooManyInstances once the
// instance ID space is exhausted.
func (e *Engine) Register(nodes []Node, impl Impl) (InstanceID, error) {
	if impl == nil {
		return NoInstanceID, fmt.Errorf("%s: nil implementation", e.name)
	}
	wasLarge := e.table.IsLarge()
	inst, err := e.table.Register(nodes, impl)
	if err != nil {
		return NoInstanceID, fmt.Errorf("%s: %w", e.name, err)
	}
	if !wasLarge && e.table.IsLarge() {
		e.log.Info("switched to large bitsets",
			"engine", e.name, "instances", e.table.Len(), "frames", len(e.table.created))
	}
	e.log.Debug("registered instance",
		"engine", e.name, "id", inst.ID, "arity", inst.Arity(), "signature", signature(inst.Nodes))
	return inst.ID, nil
}

// Define registers impl for nodes and returns its ID. It panics if the
// engine cannot take another instance.
func (e *Engine) Define(impl Impl, nodes ...Node) InstanceID {
	id, err := e.Register(nodes, impl)
	if err != nil {
		panic(err)
	}
	return id
}

// Lookup resolves the instance that Dispatch would call for args.
func (e *Engine) Lookup(args ...any) (*Instance, error) {
	nodes := make([]Node, len(args))
	for i, arg := range args {
		nodes[i] = e.host.NodeOf(arg)
	}

	inst, candidates, err := e.table.resolve(nodes)
	if err == nil {
		return inst, nil
	}

	de := &DispatchError{
		Kind:   err,
		Method: e.name,
		Args:   args,
		Nodes:  nodes,
	}
	if errors.Is(err, ErrAmbiguousInstance) {
		de.Candidates = candidates.Members()
		e.log.Debug("ambiguity", "engine", e.name,
			"signature", signature(nodes), "candidates", candidates.String())
	} else {
		e.log.Debug("no instance", "engine", e.name, "signature", signature(nodes))
	}
	return nil, de
}

// Dispatch resolves the instance for args and calls it. Errors returned by
// the implementation are passed through unchanged.
func (e *Engine) Dispatch(args ...any) (any, error) {
	inst, err := e.Lookup(args...)
	if err != nil {
		return nil, err
	}
	return inst.Call(args)
}

// Func returns Dispatch as a plain function value.
func (e *Engine) Func() func(args ...any) (any, error) {
	return e.Dispatch
}

func signature(nodes []Node) string {
	s := "("
	for i, n := range nodes {
		if i > 0 {
			s += ", "
		}
		s += NodeName(n)
	}
	return s + ")"
}
