// Package dispatch implements N-argument multiple dispatch.
//
// This package contains:
//   - Bitset, a set of instance IDs backed by a single word until the
//     engine grows past its small capacity, then by a word array
//   - Frame, the per (node, argument position) record of which instances
//     apply exactly at that node
//   - Table, the instance list and the side table of frames
//   - the resolver: a joint ancestor walk for two arguments, a general
//     walk for any other arity, and leftmost-specific tie-breaking
//   - Engine, the facade used by host code to register and invoke instances
//
// Hierarchy nodes never carry dispatch state. The engine owns every frame
// and finds them by (node identity, position).
package dispatch
