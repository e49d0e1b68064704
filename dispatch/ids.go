package dispatch

import "math"

// InstanceID identifies a registered instance within one Engine. IDs are
// dense and zero-based, handed out in registration order.
type InstanceID uint32

// NoInstanceID is returned where an ID is required but none exists.
const NoInstanceID InstanceID = math.MaxUint32

// MaxInstances is the number of instances one table can hold.
const MaxInstances uint64 = 1<<32 - 1

// IsValid returns true unless id is NoInstanceID.
func (id InstanceID) IsValid() bool { return id != NoInstanceID }
