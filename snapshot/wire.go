// Package snapshot encodes engine snapshots and keeps them in a SQLite
// database.
package snapshot

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/multimethod/dispatch"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("snapshot: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Marshal serializes a snapshot to canonical CBOR bytes.
func Marshal(s *dispatch.Snapshot) ([]byte, error) {
	data, err := cborEncMode.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("snapshot: marshal: %w", err)
	}
	return data, nil
}

// Unmarshal deserializes a snapshot from CBOR bytes.
func Unmarshal(data []byte) (*dispatch.Snapshot, error) {
	var s dispatch.Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("snapshot: unmarshal: %w", err)
	}
	return &s, nil
}
