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

// Package csr composes id mapping, labels, node properties and the
// compressed topologies of a construction run into an immutable graph.
package csr

import (
	"maps"
	"slices"

	"github.com/weaviate/graphcore/adapters/repos/graph/idmap"
	"github.com/weaviate/graphcore/adapters/repos/graph/nodeprops"
	enterrors "github.com/weaviate/graphcore/entities/errors"
)

// Graph is immutable. WithTopology and WithNodeProperty return new values
// sharing everything they do not replace.
type Graph struct {
	mapping        *idmap.Mapping
	labels         *idmap.LabelIndex
	nodeProperties map[string]*nodeprops.Column
	topologies     map[string]*Topology
}

// Assemble composes the parts of a graph. It performs no per-relationship
// work, it only checks that all parts cover the same nodes.
func Assemble(mapping *idmap.Mapping, labels *idmap.LabelIndex,
	nodeProperties []*nodeprops.Column, topologies []*Topology,
) (*Graph, error) {
	if mapping == nil {
		return nil, enterrors.NewConfigurationError("a graph needs an id mapping")
	}

	g := &Graph{
		mapping:        mapping,
		labels:         labels,
		nodeProperties: make(map[string]*nodeprops.Column, len(nodeProperties)),
		topologies:     make(map[string]*Topology, len(topologies)),
	}

	for _, column := range nodeProperties {
		if err := g.checkColumn(column); err != nil {
			return nil, err
		}
		if _, ok := g.nodeProperties[column.Key()]; ok {
			return nil, enterrors.NewConfigurationError("node property %q assembled twice", column.Key())
		}
		g.nodeProperties[column.Key()] = column
	}

	for _, topology := range topologies {
		if err := g.checkTopology(topology); err != nil {
			return nil, err
		}
		if _, ok := g.topologies[topology.Type()]; ok {
			return nil, enterrors.NewConfigurationError("relationship type %q assembled twice", topology.Type())
		}
		g.topologies[topology.Type()] = topology
	}

	return g, nil
}

func (g *Graph) checkTopology(t *Topology) error {
	if t.NodeCount() != g.NodeCount() {
		return enterrors.NewConfigurationError("relationship type %q was built for %d nodes, graph has %d",
			t.Type(), t.NodeCount(), g.NodeCount())
	}
	return nil
}

func (g *Graph) checkColumn(c *nodeprops.Column) error {
	if c.NodeCount() != g.NodeCount() {
		return enterrors.NewConfigurationError("node property %q holds %d values, graph has %d nodes",
			c.Key(), c.NodeCount(), g.NodeCount())
	}
	return nil
}

func (g *Graph) NodeCount() uint64 {
	return g.mapping.NodeCount()
}

func (g *Graph) Mapping() *idmap.Mapping {
	return g.mapping
}

func (g *Graph) Labels() *idmap.LabelIndex {
	return g.labels
}

// RelationshipTypes lists the relationship types in lexical order.
func (g *Graph) RelationshipTypes() []string {
	return slices.Sorted(maps.Keys(g.topologies))
}

func (g *Graph) Topology(relType string) (*Topology, bool) {
	t, ok := g.topologies[relType]
	return t, ok
}

// AdjacencySizeInBytes sums the arena pages of all relationship types.
func (g *Graph) AdjacencySizeInBytes() int64 {
	total := int64(0)
	for _, t := range g.topologies {
		total += t.SizeInBytes()
	}
	return total
}

// RelationshipCount sums the relationships of all types.
func (g *Graph) RelationshipCount() uint64 {
	total := uint64(0)
	for _, t := range g.topologies {
		total += t.RelationshipCount()
	}
	return total
}

func (g *Graph) NodePropertyKeys() []string {
	return slices.Sorted(maps.Keys(g.nodeProperties))
}

func (g *Graph) NodeProperty(key string) (*nodeprops.Column, bool) {
	c, ok := g.nodeProperties[key]
	return c, ok
}

// WithTopology returns a graph with t added, or replacing the topology of
// the same type.
func (g *Graph) WithTopology(t *Topology) (*Graph, error) {
	if err := g.checkTopology(t); err != nil {
		return nil, err
	}

	topologies := maps.Clone(g.topologies)
	topologies[t.Type()] = t
	return &Graph{
		mapping:        g.mapping,
		labels:         g.labels,
		nodeProperties: g.nodeProperties,
		topologies:     topologies,
	}, nil
}

// WithNodeProperty returns a graph with c added, or replacing the column of
// the same key.
func (g *Graph) WithNodeProperty(c *nodeprops.Column) (*Graph, error) {
	if err := g.checkColumn(c); err != nil {
		return nil, err
	}

	nodeProperties := maps.Clone(g.nodeProperties)
	nodeProperties[c.Key()] = c
	return &Graph{
		mapping:        g.mapping,
		labels:         g.labels,
		nodeProperties: nodeProperties,
		topologies:     g.topologies,
	}, nil
}
