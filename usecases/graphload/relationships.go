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
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/graphcore/adapters/repos/graph/adjacency"
	"github.com/weaviate/graphcore/adapters/repos/graph/csr"
	"github.com/weaviate/graphcore/adapters/repos/graph/pages"
	enterrors "github.com/weaviate/graphcore/entities/errors"
	"github.com/weaviate/graphcore/entities/projection"
)

// InputIDs tells a RelationshipsBuilder how to read endpoint ids.
type InputIDs uint8

const (
	// OriginalIDs endpoints are resolved against the node mapping. Sources
	// are resolved on Add, targets while compressing.
	OriginalIDs InputIDs = iota
	// InternalIDs endpoints are already internal ids.
	InternalIDs
)

type RelationshipsOptions struct {
	Type        string
	Orientation projection.Orientation
	// Aggregation of parallel relationships. AggregationDefault uses the
	// configured default.
	Aggregation projection.Aggregation
	Properties  []projection.PropertySchema
	InputIDs    InputIDs
	// SkipDanglingRelationships drops relationships with an endpoint that
	// is not a node instead of failing. The configured value applies as
	// well.
	SkipDanglingRelationships bool
	// Termination is polled before and between compressed pages. Nil never
	// trips.
	Termination projection.TerminationFlag
}

// RelationshipsBuilder accumulates the relationships of one type. Add is
// safe for concurrent use, Build and BuildTopology must run after all Adds
// returned and only once.
type RelationshipsBuilder struct {
	logger  logrus.FieldLogger
	loader  *Loader
	nodes   *Nodes
	options RelationshipsOptions

	buffer   *adjacency.Buffer
	dangling atomic.Uint64
	built    atomic.Bool
	started  time.Time
}

func (l *Loader) BeginRelationships(nodes *Nodes, opts RelationshipsOptions) (*RelationshipsBuilder, error) {
	if nodes == nil {
		return nil, enterrors.NewConfigurationError("relationships need nodes")
	}
	if opts.Aggregation == projection.AggregationDefault {
		opts.Aggregation = l.config.DefaultAggregation
	}
	opts.SkipDanglingRelationships = opts.SkipDanglingRelationships || l.config.SkipDanglingRelationships
	if opts.InputIDs != OriginalIDs && opts.InputIDs != InternalIDs {
		return nil, enterrors.NewConfigurationError("unknown input id mode %d", opts.InputIDs)
	}

	if err := projection.ValidateRelationshipSchemas(opts.Aggregation, opts.Properties); err != nil {
		return nil, errors.Wrapf(err, "relationship type %q", opts.Type)
	}

	buffer, err := adjacency.NewBuffer(nodes.NodeCount(), len(opts.Properties), l.config.AccumulatorPageShift)
	if err != nil {
		return nil, err
	}

	return &RelationshipsBuilder{
		logger: l.logger.WithField("action", "graph_load_relationships").
			WithField("relationship_type", opts.Type),
		loader:  l,
		nodes:   nodes,
		options: opts,
		buffer:  buffer,
		started: time.Now(),
	}, nil
}

func (b *RelationshipsBuilder) Type() string {
	return b.options.Type
}

// Dangling counts the relationships dropped because of an unknown endpoint
// on Add.
func (b *RelationshipsBuilder) Dangling() uint64 {
	return b.dangling.Load()
}

// Add records a relationship according to the orientation of the builder.
// A required property missing from properties fails with a
// MissingPropertyError.
func (b *RelationshipsBuilder) Add(source, target uint64, properties map[string]float64) error {
	if b.built.Load() {
		return errors.New("relationships builder is already built")
	}

	values, err := b.propertyValues(source, target, properties)
	if err != nil {
		return err
	}

	switch b.options.Orientation {
	case projection.OrientationReverse:
		return b.add(target, source, values)
	case projection.OrientationUndirected:
		if err := b.add(source, target, values); err != nil {
			return err
		}
		return b.add(target, source, values)
	default:
		return b.add(source, target, values)
	}
}

func (b *RelationshipsBuilder) propertyValues(source, target uint64, properties map[string]float64) ([]float64, error) {
	if len(b.options.Properties) == 0 {
		return nil, nil
	}

	values := make([]float64, len(b.options.Properties))
	for i, schema := range b.options.Properties {
		value, ok := properties[schema.Key]
		if !ok {
			if schema.Required {
				return nil, &enterrors.MissingPropertyError{
					Property: schema.Key,
					Source:   source,
					Target:   target,
				}
			}
			value = schema.Default()
		}
		values[i] = value
	}
	return values, nil
}

func (b *RelationshipsBuilder) add(source, target uint64, values []float64) error {
	internal, ok := b.resolveSource(source)
	if !ok {
		return b.dangle(source, target)
	}
	if b.options.InputIDs == InternalIDs && target >= b.nodes.NodeCount() {
		return b.dangle(source, target)
	}

	return b.buffer.Add(internal, target, values)
}

func (b *RelationshipsBuilder) resolveSource(source uint64) (uint64, bool) {
	if b.options.InputIDs == InternalIDs {
		return source, source < b.nodes.NodeCount()
	}
	return b.nodes.mapping.ToInternal(source)
}

func (b *RelationshipsBuilder) dangle(source, target uint64) error {
	if b.options.SkipDanglingRelationships {
		b.dangling.Add(1)
		return nil
	}
	return enterrors.NewNodeNotFound("relationship (%d)->(%d) of type %q references an unknown node",
		source, target, b.options.Type)
}

func (b *RelationshipsBuilder) compressorConfig() adjacency.CompressorConfig {
	aggs := make([]projection.Aggregation, len(b.options.Properties))
	for i, schema := range b.options.Properties {
		aggs[i] = schema.Aggregation
	}

	cfg := adjacency.CompressorConfig{
		Aggregation:          b.options.Aggregation,
		PropertyAggregations: aggs,
		SkipDangling:         b.options.SkipDanglingRelationships,
	}
	if b.options.InputIDs == OriginalIDs {
		cfg.Mapping = b.nodes.mapping
	}
	return cfg
}

// BuildTopology compresses all accumulated relationships. Pages of source
// nodes are handed out to the configured number of workers, each with its
// own arena allocator. On failure or cancellation the arena is discarded
// and no topology is returned.
func (b *RelationshipsBuilder) BuildTopology(ctx context.Context) (*csr.Topology, error) {
	if b.built.Swap(true) {
		return nil, errors.New("relationships builder is already built")
	}
	if err := checkRunning(ctx, b.options.Termination); err != nil {
		return nil, err
	}

	b.loader.metrics.ObservePhase("relationships", b.started)
	started := time.Now()
	cfg := b.loader.config
	arena, err := pages.NewArena(cfg.PageSizeBytes, cfg.MaxPages, b.loader.metrics)
	if err != nil {
		return nil, err
	}
	offsets := adjacency.NewOffsets(b.nodes.NodeCount(), cfg.AccumulatorPageShift)
	compressorCfg := b.compressorConfig()

	workers := min(b.loader.concurrency(ctx), max(b.buffer.PageCount(), 1))
	var nextPage atomic.Int64
	var skipped atomic.Uint64

	eg, gctx := enterrors.NewErrorGroupWithContextWrapper(b.logger, ctx, "relationship_type", b.options.Type)
	for i := 0; i < workers; i++ {
		eg.Go(func() error {
			compressor, err := adjacency.NewCompressor(compressorCfg, arena.NewAllocator())
			if err != nil {
				return err
			}
			defer func() {
				skipped.Add(compressor.Skipped())
				compressor.Release()
			}()

			for {
				page := int(nextPage.Add(1) - 1)
				if page >= b.buffer.PageCount() {
					return nil
				}
				if err := checkRunning(gctx, b.options.Termination); err != nil {
					return err
				}

				err := b.buffer.DrainPage(page, func(node uint64, targets []uint64, properties [][]float64) error {
					entry, err := compressor.Compress(node, targets, properties)
					if err != nil {
						return err
					}
					offsets.Set(node, entry)
					return nil
				})
				if err != nil {
					return err
				}
			}
		}, "worker", i)
	}

	if err := eg.Wait(); err != nil {
		arena.Discard()
		if errors.Is(err, enterrors.ErrCancelled) {
			return nil, err
		}
		if ctx.Err() != nil && !errors.Is(err, enterrors.ErrCancelled) {
			return nil, enterrors.NewCancelled(ctx.Err())
		}
		return nil, err
	}

	keys := make([]string, len(b.options.Properties))
	for i, schema := range b.options.Properties {
		keys[i] = schema.Key
	}
	topology := csr.NewTopology(csr.TopologyConfig{
		Type:         b.options.Type,
		Orientation:  b.options.Orientation,
		Aggregation:  b.options.Aggregation,
		PropertyKeys: keys,
	}, offsets, arena.IntoPages())

	b.loader.metrics.AddRelationships(b.options.Type, int(b.buffer.EdgeCount()))
	b.loader.metrics.ObservePhase("compress", started)
	b.logger.WithField("action", "graph_compress").
		WithField("accumulated", b.buffer.EdgeCount()).
		WithField("relationships", topology.RelationshipCount()).
		WithField("dangling", b.dangling.Load()+skipped.Load()).
		WithField("bytes", topology.SizeInBytes()).
		WithField("workers", workers).
		WithField("took", time.Since(started)).
		Debug("compressed relationships")

	return topology, nil
}

// Build compresses the relationships and assembles them with the nodes into
// a graph.
func (b *RelationshipsBuilder) Build(ctx context.Context) (*csr.Graph, error) {
	topology, err := b.BuildTopology(ctx)
	if err != nil {
		return nil, err
	}

	return csr.Assemble(b.nodes.mapping, b.nodes.labels, b.nodes.properties, []*csr.Topology{topology})
}
