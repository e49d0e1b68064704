package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoInstance indicates that no registered instance applies to the
	// arguments at any ancestor depth.
	ErrNoInstance = errors.New("no instance for multimethod arguments")

	// ErrAmbiguousInstance indicates that several instances remain equally
	// specific after tie-breaking.
	ErrAmbiguousInstance = errors.New("ambiguous instance for multimethod arguments")

	// ErrTooManyInstances indicates that the instance ID space is exhausted.
	ErrTooManyInstances = errors.New("too many multimethod instances")
)

// DispatchError describes a failed dispatch. It unwraps to ErrNoInstance or
// ErrAmbiguousInstance.
type DispatchError struct {
	Kind       error
	Method     string
	Args       []any
	Nodes      []Node
	Candidates []InstanceID // surviving candidates, set for ambiguity
}

func (e *DispatchError) Error() string {
	var sb strings.Builder
	if e.Method != "" {
		sb.WriteString(e.Method)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Kind.Error())
	sb.WriteByte(' ')
	sb.WriteString(signature(e.Nodes))
	if len(e.Candidates) > 0 {
		fmt.Fprintf(&sb, " candidates %v", e.Candidates)
	}
	return sb.String()
}

func (e *DispatchError) Unwrap() error {
	return e.Kind
}
