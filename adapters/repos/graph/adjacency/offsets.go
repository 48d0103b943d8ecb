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

package adjacency

import (
	"github.com/weaviate/graphcore/adapters/repos/graph/common"
	"github.com/weaviate/graphcore/adapters/repos/graph/pages"
)

// Entry locates the compressed relationships of one node. The zero value
// describes a node without relationships.
type Entry struct {
	Degree uint32
	PageID uint32
	Offset uint32
	Length uint32
}

func (e Entry) Address() pages.Address {
	return pages.Address{PageID: e.PageID, Offset: e.Offset}
}

// Offsets is the degree/offset table of one relationship type. All pages
// are allocated up front so that compression workers may set entries of
// different nodes concurrently.
type Offsets struct {
	nodeCount uint64
	entries   *common.PagedArray[Entry]
}

func NewOffsets(nodeCount uint64, pageShift uint) *Offsets {
	if pageShift == 0 {
		pageShift = DefaultPageShift
	}
	entries := common.NewPagedArrayFor[Entry](nodeCount, 1<<pageShift)
	entries.AllocAll()
	return &Offsets{nodeCount: nodeCount, entries: entries}
}

func (o *Offsets) NodeCount() uint64 {
	return o.nodeCount
}

func (o *Offsets) Set(node uint64, entry Entry) {
	o.entries.Set(node, entry)
}

func (o *Offsets) Get(node uint64) Entry {
	return o.entries.Get(node)
}

func (o *Offsets) Degree(node uint64) uint32 {
	return o.entries.Get(node).Degree
}

// RelationshipCount sums the degrees of all nodes.
func (o *Offsets) RelationshipCount() uint64 {
	total := uint64(0)
	for node := uint64(0); node < o.nodeCount; node++ {
		total += uint64(o.entries.Get(node).Degree)
	}
	return total
}
