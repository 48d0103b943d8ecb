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

// Package adjacency accumulates the raw relationships of one relationship
// type per source node and compresses every node's list into delta encoded
// bytes inside a page arena.
package adjacency

import (
	"cmp"
	"slices"
	"sync/atomic"

	"github.com/weaviate/graphcore/adapters/repos/graph/common"
	enterrors "github.com/weaviate/graphcore/entities/errors"
)

const (
	DefaultPageShift = 12
	maxPageShift     = 24
)

type nodeList struct {
	targets    []uint64
	properties [][]float64
}

// Buffer collects unsorted (target, properties) pairs per source node.
// Source nodes are grouped into pages of 1<<pageShift nodes and every page
// is guarded by one of a set of sharded locks, so writers adding to
// different pages rarely contend.
type Buffer struct {
	nodeCount     uint64
	propertyCount int
	pageShift     uint

	lists *common.PagedArray[nodeList]
	locks *common.ShardedRWLocks
	edges atomic.Uint64
}

// NewBuffer creates an accumulator for source ids in [0, nodeCount). A
// pageShift of 0 selects DefaultPageShift.
func NewBuffer(nodeCount uint64, propertyCount int, pageShift uint) (*Buffer, error) {
	if propertyCount < 0 {
		return nil, enterrors.NewConfigurationError("negative property count %d", propertyCount)
	}
	if pageShift == 0 {
		pageShift = DefaultPageShift
	}
	if pageShift > maxPageShift {
		return nil, enterrors.NewConfigurationError(
			"accumulator page shift %d exceeds %d", pageShift, maxPageShift)
	}

	return &Buffer{
		nodeCount:     nodeCount,
		propertyCount: propertyCount,
		pageShift:     pageShift,
		// the directory is sized up front, pages are only filled in under
		// their lock
		lists: common.NewPagedArrayFor[nodeList](nodeCount, 1<<pageShift),
		locks: common.NewDefaultShardedRWLocks(),
	}, nil
}

func (b *Buffer) NodeCount() uint64 {
	return b.nodeCount
}

func (b *Buffer) PropertyCount() int {
	return b.propertyCount
}

func (b *Buffer) PageCount() int {
	if b.nodeCount == 0 {
		return 0
	}
	return int((b.nodeCount-1)>>b.pageShift) + 1
}

// EdgeCount is the number of relationships added so far.
func (b *Buffer) EdgeCount() uint64 {
	return b.edges.Load()
}

func (b *Buffer) page(node uint64) uint64 {
	return node >> b.pageShift
}

func (b *Buffer) check(source uint64, properties []float64) error {
	if source >= b.nodeCount {
		return enterrors.NewNodeNotFound("source node %d is outside of [0, %d)", source, b.nodeCount)
	}
	if len(properties) != b.propertyCount {
		return enterrors.NewConfigurationError("relationship carries %d properties, expected %d",
			len(properties), b.propertyCount)
	}
	return nil
}

// append must be called with the page lock of source held.
func (b *Buffer) append(source, target uint64, properties []float64) {
	list := b.lists.Ref(source)
	list.targets = append(list.targets, target)
	if b.propertyCount == 0 {
		return
	}
	if list.properties == nil {
		list.properties = make([][]float64, b.propertyCount)
	}
	for i, value := range properties {
		list.properties[i] = append(list.properties[i], value)
	}
}

func (b *Buffer) Add(source, target uint64, properties []float64) error {
	if err := b.check(source, properties); err != nil {
		return err
	}

	page := b.page(source)
	b.locks.Lock(page)
	b.append(source, target, properties)
	b.locks.Unlock(page)

	b.edges.Add(1)
	return nil
}

// AddBatch adds sources[i]->targets[i] with properties[i] for every i and
// takes each page lock once. properties may be nil when the buffer carries
// no properties.
func (b *Buffer) AddBatch(sources, targets []uint64, properties [][]float64) error {
	if len(sources) != len(targets) {
		return enterrors.NewConfigurationError("%d sources but %d targets", len(sources), len(targets))
	}
	if properties != nil && len(properties) != len(sources) {
		return enterrors.NewConfigurationError("%d sources but %d property rows", len(sources), len(properties))
	}

	propsAt := func(i int) []float64 {
		if properties == nil {
			return nil
		}
		return properties[i]
	}

	for i, source := range sources {
		if err := b.check(source, propsAt(i)); err != nil {
			return err
		}
	}

	order := make([]int, len(sources))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(x, y int) int {
		return cmp.Compare(b.page(sources[x]), b.page(sources[y]))
	})

	for start := 0; start < len(order); {
		page := b.page(sources[order[start]])
		end := start
		b.locks.Lock(page)
		for end < len(order) && b.page(sources[order[end]]) == page {
			i := order[end]
			b.append(sources[i], targets[i], propsAt(i))
			end++
		}
		b.locks.Unlock(page)
		start = end
	}

	b.edges.Add(uint64(len(sources)))
	return nil
}

// DrainPage hands every non-empty node list of the page to fn in node order
// and releases the page afterwards. It must only be called after all writers
// are done. The slices passed to fn are only valid during the call.
func (b *Buffer) DrainPage(page int, fn func(node uint64, targets []uint64, properties [][]float64) error) error {
	first := uint64(page) << b.pageShift
	if first >= b.nodeCount {
		return nil
	}
	last := min(first+(1<<b.pageShift), b.nodeCount)

	b.locks.Lock(uint64(page))
	defer b.locks.Unlock(uint64(page))

	if !b.lists.HasPageFor(first) {
		return nil
	}

	lists := b.lists.Page(first)
	for node := first; node < last; node++ {
		list := &lists[node-first]
		if len(list.targets) == 0 {
			continue
		}
		if err := fn(node, list.targets, list.properties); err != nil {
			return err
		}
	}

	b.lists.Release(first)
	return nil
}
