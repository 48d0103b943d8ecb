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
	"encoding/binary"
	"math"
	"math/bits"
	"sync"
	"sync/atomic"

	"github.com/spaolacci/murmur3"

	enterrors "github.com/weaviate/graphcore/entities/errors"
)

const DefaultShardCount = 64

type shard struct {
	sync.Mutex
	ids map[uint64]uint64
}

// Sharded is used when the id space is unknown. Original ids are routed to
// shards by hash; a shard lock covers the lookup and the allocation of the
// next internal id, so no id is ever handed out twice.
type Sharded struct {
	shards        []shard
	mask          uint64
	maxNodeCount  uint64
	maxOriginalID uint64
	next          atomic.Uint64
}

// NewSharded creates a mapper for at most maxNodeCount distinct ids (0 means
// unlimited). shardCount is rounded up to a power of two.
func NewSharded(maxNodeCount uint64, shardCount int) *Sharded {
	if shardCount < 1 {
		shardCount = DefaultShardCount
	}
	count := 1 << bits.Len(uint(shardCount-1))
	s := &Sharded{
		shards:        make([]shard, count),
		mask:          uint64(count - 1),
		maxNodeCount:  maxNodeCount,
		maxOriginalID: math.MaxUint64,
	}
	for i := range s.shards {
		s.shards[i].ids = map[uint64]uint64{}
	}
	return s
}

func shardIndex(originalID, mask uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], originalID)
	return murmur3.Sum64(buf[:]) & mask
}

func (s *Sharded) Assign(originalID uint64) (uint64, bool, error) {
	if originalID > s.maxOriginalID {
		return 0, false, enterrors.NewCapacityExceeded(
			"original id %d exceeds the configured maximum %d", originalID, s.maxOriginalID)
	}

	sh := &s.shards[shardIndex(originalID, s.mask)]
	sh.Lock()
	defer sh.Unlock()

	if internal, ok := sh.ids[originalID]; ok {
		return internal, false, nil
	}

	internal, err := s.allocate()
	if err != nil {
		return 0, false, err
	}
	sh.ids[originalID] = internal
	return internal, true, nil
}

func (s *Sharded) allocate() (uint64, error) {
	for {
		current := s.next.Load()
		if s.maxNodeCount > 0 && current >= s.maxNodeCount {
			return 0, enterrors.NewCapacityExceeded(
				"more than %d distinct node ids", s.maxNodeCount)
		}
		if s.next.CompareAndSwap(current, current+1) {
			return current, nil
		}
	}
}

func (s *Sharded) Size() uint64 {
	return s.next.Load()
}

func (s *Sharded) Build() *Mapping {
	toOriginal := make([]uint64, s.next.Load())
	for i := range s.shards {
		for original, internal := range s.shards[i].ids {
			toOriginal[internal] = original
		}
	}
	return newMapping(toOriginal, shardedForward{shards: s.shards, mask: s.mask})
}

type shardedForward struct {
	shards []shard
	mask   uint64
}

// lookup runs after Build, when the shard maps are no longer written, so it
// takes no lock.
func (f shardedForward) lookup(originalID uint64) (uint64, bool) {
	internal, ok := f.shards[shardIndex(originalID, f.mask)].ids[originalID]
	return internal, ok
}
