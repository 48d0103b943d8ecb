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

package csr

import (
	"github.com/weaviate/graphcore/adapters/repos/graph/adjacency"
	"github.com/weaviate/graphcore/adapters/repos/graph/pages"
	"github.com/weaviate/graphcore/entities/projection"
)

type TopologyConfig struct {
	Type         string
	Orientation  projection.Orientation
	Aggregation  projection.Aggregation
	PropertyKeys []string
}

// Topology holds the compressed relationships of one type. It is immutable
// and safe for concurrent readers.
type Topology struct {
	config            TopologyConfig
	offsets           *adjacency.Offsets
	pages             *pages.Pages
	relationshipCount uint64
}

func NewTopology(config TopologyConfig, offsets *adjacency.Offsets, pages *pages.Pages) *Topology {
	return &Topology{
		config:            config,
		offsets:           offsets,
		pages:             pages,
		relationshipCount: offsets.RelationshipCount(),
	}
}

func (t *Topology) Type() string {
	return t.config.Type
}

func (t *Topology) Orientation() projection.Orientation {
	return t.config.Orientation
}

func (t *Topology) Aggregation() projection.Aggregation {
	return t.config.Aggregation
}

func (t *Topology) PropertyKeys() []string {
	return append([]string(nil), t.config.PropertyKeys...)
}

// PropertyIndex is the column of key in the values passed to
// ForEachRelationship, or -1.
func (t *Topology) PropertyIndex(key string) int {
	for i, k := range t.config.PropertyKeys {
		if k == key {
			return i
		}
	}
	return -1
}

func (t *Topology) NodeCount() uint64 {
	return t.offsets.NodeCount()
}

// RelationshipCount is the number of relationships after aggregation.
func (t *Topology) RelationshipCount() uint64 {
	return t.relationshipCount
}

// SizeInBytes counts the arena pages of the topology.
func (t *Topology) SizeInBytes() int64 {
	return t.pages.SizeInBytes()
}

func (t *Topology) Degree(node uint64) uint32 {
	return t.offsets.Degree(node)
}

func (t *Topology) data(entry adjacency.Entry) []byte {
	if entry.Degree == 0 {
		return nil
	}
	return t.pages.Slice(entry.Address(), entry.Length)
}

// Cursor returns a fresh cursor over the relationships of node.
func (t *Topology) Cursor(node uint64) *adjacency.Cursor {
	entry := t.offsets.Get(node)
	return adjacency.NewCursor(t.data(entry), entry.Degree, len(t.config.PropertyKeys))
}

// ForEachRelationship calls fn for every relationship of node in target
// order until fn returns false. properties is reused between calls.
func (t *Topology) ForEachRelationship(node uint64, fn func(target uint64, properties []float64) bool) {
	entry := t.offsets.Get(node)
	if entry.Degree == 0 {
		return
	}

	var cursor adjacency.Cursor
	cursor.Init(t.data(entry), entry.Degree, len(t.config.PropertyKeys))
	properties := make([]float64, len(t.config.PropertyKeys))
	for cursor.Next() {
		for k := range properties {
			properties[k] = cursor.Property(k)
		}
		if !fn(cursor.Target(), properties) {
			return
		}
	}
}
