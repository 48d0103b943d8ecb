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

package common

import "sync"

const DefaultShardedLocksCount = 512

// ShardedRWLocks maps ids onto a fixed set of RWMutexes so that unrelated ids
// rarely contend while memory stays bounded.
type ShardedRWLocks struct {
	shards []sync.RWMutex
	count  uint64
}

func NewDefaultShardedRWLocks() *ShardedRWLocks {
	return NewShardedRWLocks(DefaultShardedLocksCount)
}

func NewShardedRWLocks(count int) *ShardedRWLocks {
	if count < 1 {
		count = 1
	}
	return &ShardedRWLocks{
		shards: make([]sync.RWMutex, count),
		count:  uint64(count),
	}
}

func (s *ShardedRWLocks) Lock(id uint64) {
	s.shards[id%s.count].Lock()
}

func (s *ShardedRWLocks) Unlock(id uint64) {
	s.shards[id%s.count].Unlock()
}

func (s *ShardedRWLocks) RLock(id uint64) {
	s.shards[id%s.count].RLock()
}

func (s *ShardedRWLocks) RUnlock(id uint64) {
	s.shards[id%s.count].RUnlock()
}

func (s *ShardedRWLocks) LockAll() {
	for i := range s.shards {
		s.shards[i].Lock()
	}
}

func (s *ShardedRWLocks) UnlockAll() {
	for i := len(s.shards) - 1; i >= 0; i-- {
		s.shards[i].Unlock()
	}
}
