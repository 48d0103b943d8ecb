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

package idmap

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/weaviate/graphcore/adapters/repos/graph/common"
	enterrors "github.com/weaviate/graphcore/entities/errors"
)

const boundedPageSize = 1 << 14

// MaxBoundedOriginalID is the largest maximum a Bounded mapper accepts. Its
// tables allocate pages lazily but their page directories grow with the id
// space.
const MaxBoundedOriginalID = 1<<32 - 1

// Bounded is used when the highest original id is known up front. It needs no
// lock: a seen-bitset decides which caller inserts an id, the winner takes
// the next internal id from an atomic counter and publishes it in a forward
// table indexed by the original id.
type Bounded struct {
	maxOriginalID uint64
	seen          *common.AtomicBitset
	// original -> internal+1, 0 while unpublished
	forward *common.AtomicUint64Array
	inverse *common.AtomicUint64Array
	next    atomic.Uint64
}

// NewBounded panics if maxOriginalID exceeds MaxBoundedOriginalID. New picks
// a mapper for any maximum.
func NewBounded(maxOriginalID uint64) *Bounded {
	if maxOriginalID > MaxBoundedOriginalID {
		panic(fmt.Sprintf("bounded id mapper supports original ids up to %d, got %d",
			uint64(MaxBoundedOriginalID), maxOriginalID))
	}
	// at most maxOriginalID+1 distinct ids, so inverse needs as many slots
	return &Bounded{
		maxOriginalID: maxOriginalID,
		seen:          common.NewAtomicBitset(maxOriginalID + 1),
		forward:       common.NewAtomicUint64Array(maxOriginalID+1, boundedPageSize),
		inverse:       common.NewAtomicUint64Array(maxOriginalID+1, boundedPageSize),
	}
}

func (b *Bounded) Assign(originalID uint64) (uint64, bool, error) {
	if originalID > b.maxOriginalID {
		return 0, false, enterrors.NewCapacityExceeded(
			"original id %d exceeds the configured maximum %d", originalID, b.maxOriginalID)
	}

	if !b.seen.TestAndSet(originalID) {
		internal := b.next.Add(1) - 1
		b.inverse.Store(internal, originalID)
		b.forward.Store(originalID, internal+1)
		return internal, true, nil
	}

	for {
		if v := b.forward.Load(originalID); v != 0 {
			return v - 1, false, nil
		}
		// the inserting goroutine is between TestAndSet and Store
		runtime.Gosched()
	}
}

func (b *Bounded) Size() uint64 {
	return b.next.Load()
}

func (b *Bounded) Build() *Mapping {
	count := b.next.Load()
	toOriginal := make([]uint64, count)
	for i := range toOriginal {
		toOriginal[i] = b.inverse.Load(uint64(i))
	}
	return newMapping(toOriginal, boundedForward{b.forward, b.maxOriginalID})
}

type boundedForward struct {
	forward       *common.AtomicUint64Array
	maxOriginalID uint64
}

func (f boundedForward) lookup(originalID uint64) (uint64, bool) {
	if originalID > f.maxOriginalID {
		return 0, false
	}
	v := f.forward.Load(originalID)
	if v == 0 {
		return 0, false
	}
	return v - 1, true
}

// BoundedOverheadBytes is the memory a Bounded mapper for maxOriginalID
// allocates up front, before any id is assigned.
func BoundedOverheadBytes(maxOriginalID uint64) uint64 {
	const pointerBytes = 8
	size := min(maxOriginalID, MaxBoundedOriginalID) + 1
	tablePages := (size-1)/boundedPageSize + 1
	bitsetPages := ((size+63)/64-1)/common.BitsetWordsPerPage + 1
	return pointerBytes * (2*tablePages + bitsetPages)
}
