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

package graphload

import (
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/graphcore/adapters/repos/graph/csr"
	"github.com/weaviate/graphcore/adapters/repos/graph/idmap"
	"github.com/weaviate/graphcore/adapters/repos/graph/nodeprops"
	"github.com/weaviate/graphcore/entities/projection"
)

type NodesOptions struct {
	// ExpectedCount sizes the property columns and the memory estimate.
	ExpectedCount uint64
	// MaxOriginalID limits original ids to [0, *MaxOriginalID]. Up to
	// idmap.MaxBoundedOriginalID it selects the lock-free id mapper, above
	// it and for nil the sharded mapper.
	MaxOriginalID *uint64
	// MaxNodeCount limits the distinct ids of the sharded mapper, 0 means
	// unlimited.
	MaxNodeCount uint64
	Properties   []projection.PropertySchema
}

// NodesBuilder assigns internal ids to nodes. Add is safe for concurrent
// use, Build must run after all Adds returned.
type NodesBuilder struct {
	logger     logrus.FieldLogger
	loader     *Loader
	ids        idmap.Builder
	labels     *idmap.LabelIndexBuilder
	properties *nodeprops.Store

	added   atomic.Uint64
	built   atomic.Bool
	started time.Time
}

func (l *Loader) BeginNodes(opts NodesOptions) (*NodesBuilder, error) {
	properties, err := nodeprops.NewStore(opts.Properties, opts.ExpectedCount)
	if err != nil {
		return nil, err
	}

	if err := l.checkMemory(opts.ExpectedCount, 0, l.config.Concurrency,
		projection.Schemas{Node: opts.Properties}, idmap.OverheadBytes(opts.MaxOriginalID)); err != nil {
		return nil, err
	}

	ids := idmap.New(opts.MaxOriginalID, opts.MaxNodeCount, l.config.IDMapShards)

	return &NodesBuilder{
		logger:     l.logger.WithField("action", "graph_load_nodes"),
		loader:     l,
		ids:        ids,
		labels:     idmap.NewLabelIndexBuilder(projection.NewTokenRegistry()),
		properties: properties,
		started:    time.Now(),
	}, nil
}

// Add registers a node. Only the first Add of an original id records labels
// and properties, later ones are ignored.
func (b *NodesBuilder) Add(originalID uint64, labels []string, properties map[string]float64) error {
	if b.built.Load() {
		return errors.New("nodes builder is already built")
	}

	internal, inserted, err := b.ids.Assign(originalID)
	if err != nil {
		return err
	}
	b.added.Add(1)
	if !inserted {
		return nil
	}

	b.labels.Add(internal, labels)
	b.properties.Set(internal, properties)
	return nil
}

// Build freezes the id mapping. It fails with a MissingNodePropertyError if
// a node lacks a required property.
func (b *NodesBuilder) Build() (*Nodes, error) {
	if b.built.Swap(true) {
		return nil, errors.New("nodes builder is already built")
	}

	mapping := b.ids.Build()
	columns, err := b.properties.Build(mapping.NodeCount(), mapping)
	if err != nil {
		return nil, err
	}

	nodes := &Nodes{
		mapping:    mapping,
		labels:     b.labels.Build(),
		properties: columns,
	}

	b.loader.metrics.AddNodes(int(mapping.NodeCount()))
	b.loader.metrics.ObservePhase("nodes", b.started)
	b.logger.WithField("nodes", mapping.NodeCount()).
		WithField("records", b.added.Load()).
		WithField("labels", len(nodes.labels.Labels())).
		WithField("took", time.Since(b.started)).
		Debug("built node id mapping")

	return nodes, nil
}

// Nodes is the frozen outcome of a NodesBuilder.
type Nodes struct {
	mapping    *idmap.Mapping
	labels     *idmap.LabelIndex
	properties []*nodeprops.Column
}

func (n *Nodes) NodeCount() uint64 {
	return n.mapping.NodeCount()
}

func (n *Nodes) Mapping() *idmap.Mapping {
	return n.mapping
}

func (n *Nodes) Labels() *idmap.LabelIndex {
	return n.labels
}

func (n *Nodes) Properties() []*nodeprops.Column {
	return n.properties
}

// Graph assembles a graph without relationships.
func (n *Nodes) Graph() (*csr.Graph, error) {
	return csr.Assemble(n.mapping, n.labels, n.properties, nil)
}
