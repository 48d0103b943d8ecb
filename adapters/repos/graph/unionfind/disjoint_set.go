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

// Package unionfind provides a lock-free disjoint-set forest for concurrent
// component computations over a built graph.
package unionfind

import (
	"github.com/weaviate/graphcore/adapters/repos/graph/common"
)

const parentsPerPage = 1 << 14

// DisjointSet stores parent pointers in an atomic paged array. Find uses path
// halving, Union links the root with the larger id below the root with the
// smaller id, so every set is represented by its minimum member.
type DisjointSet struct {
	parents *common.AtomicUint64Array
}

// New creates size singleton sets. Parents are stored as id+1 so that an
// untouched (zero) slot means "is its own root".
func New(size uint64) *DisjointSet {
	return &DisjointSet{parents: common.NewAtomicUint64Array(size, parentsPerPage)}
}

func (d *DisjointSet) Size() uint64 {
	return d.parents.Size()
}

func (d *DisjointSet) parent(id uint64) uint64 {
	p := d.parents.Load(id)
	if p == 0 {
		return id
	}
	return p - 1
}

// Find returns the representative of id's set.
func (d *DisjointSet) Find(id uint64) uint64 {
	for {
		p := d.parent(id)
		if p == id {
			return id
		}
		gp := d.parent(p)
		if gp != p {
			// path halving; losing the race only means less compression
			d.parents.CompareAndSwap(id, p+1, gp+1)
		}
		id = gp
	}
}

// Union merges the sets of a and b.
func (d *DisjointSet) Union(a, b uint64) {
	for {
		ra, rb := d.Find(a), d.Find(b)
		if ra == rb {
			return
		}
		if ra < rb {
			ra, rb = rb, ra
		}
		// roots always hold 0, so the swap fails if ra was linked meanwhile
		if d.parents.CompareAndSwap(ra, 0, rb+1) {
			return
		}
	}
}

func (d *DisjointSet) SameSet(a, b uint64) bool {
	for {
		ra, rb := d.Find(a), d.Find(b)
		if ra == rb {
			return true
		}
		// ra may have been linked between both finds
		if d.parent(ra) == ra {
			return false
		}
	}
}

// SetCount counts the distinct sets. Call it once all unions are done.
func (d *DisjointSet) SetCount() uint64 {
	count := uint64(0)
	for id := uint64(0); id < d.Size(); id++ {
		if d.parent(id) == id {
			count++
		}
	}
	return count
}
