//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2025 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

// Package idmap assigns dense internal node ids in [0, nodeCount) to
// arbitrary original ids. Assignment is safe for concurrent use; the Mapping
// produced by Build is read-only.
package idmap

import "fmt"

// Builder hands out internal ids. Assign is idempotent: repeated calls for
// the same original id return the same internal id and inserted is true for
// exactly one of them.
type Builder interface {
	Assign(originalID uint64) (internalID uint64, inserted bool, err error)
	// Size is the number of distinct ids assigned so far.
	Size() uint64
	// Build freezes the builder. No Assign may run concurrently with or
	// after Build.
	Build() *Mapping
}

// New returns the lock-free Bounded mapper if maxOriginalID is set and at
// most MaxBoundedOriginalID, and a Sharded mapper otherwise. A Sharded mapper
// picked for a larger maximum still rejects ids above it. maxNodeCount only
// applies to Sharded mappers.
func New(maxOriginalID *uint64, maxNodeCount uint64, shardCount int) Builder {
	if maxOriginalID != nil && *maxOriginalID <= MaxBoundedOriginalID {
		return NewBounded(*maxOriginalID)
	}

	s := NewSharded(maxNodeCount, shardCount)
	if maxOriginalID != nil {
		s.maxOriginalID = *maxOriginalID
	}
	return s
}

// OverheadBytes is the memory the mapper chosen by New allocates before the
// first id is assigned.
func OverheadBytes(maxOriginalID *uint64) uint64 {
	if maxOriginalID != nil && *maxOriginalID <= MaxBoundedOriginalID {
		return BoundedOverheadBytes(*maxOriginalID)
	}
	return 0
}

type forwardIndex interface {
	lookup(originalID uint64) (uint64, bool)
}

// Mapping is the frozen bijection between original and internal ids.
type Mapping struct {
	toOriginal []uint64
	forward    forwardIndex
	highest    uint64
}

func newMapping(toOriginal []uint64, forward forwardIndex) *Mapping {
	highest := uint64(0)
	for _, original := range toOriginal {
		if original > highest {
			highest = original
		}
	}
	return &Mapping{toOriginal: toOriginal, forward: forward, highest: highest}
}

func (m *Mapping) NodeCount() uint64 {
	return uint64(len(m.toOriginal))
}

// HighestOriginalID is 0 for an empty mapping.
func (m *Mapping) HighestOriginalID() uint64 {
	return m.highest
}

func (m *Mapping) ToInternal(originalID uint64) (uint64, bool) {
	return m.forward.lookup(originalID)
}

// ToOriginal panics for ids outside [0, NodeCount).
func (m *Mapping) ToOriginal(internalID uint64) uint64 {
	if internalID >= uint64(len(m.toOriginal)) {
		panic(fmt.Sprintf("internal id %d out of range [0, %d)", internalID, len(m.toOriginal)))
	}
	return m.toOriginal[internalID]
}

// ForEach visits internal ids in ascending order until fn returns false.
func (m *Mapping) ForEach(fn func(internalID, originalID uint64) bool) {
	for internal, original := range m.toOriginal {
		if !fn(uint64(internal), original) {
			return
		}
	}
}
