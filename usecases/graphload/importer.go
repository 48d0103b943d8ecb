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
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/graphcore/adapters/repos/graph/batch"
	"github.com/weaviate/graphcore/adapters/repos/graph/csr"
	"github.com/weaviate/graphcore/adapters/repos/graph/idmap"
	enterrors "github.com/weaviate/graphcore/entities/errors"
	"github.com/weaviate/graphcore/entities/projection"
)

type ImportOptions struct {
	Nodes NodesOptions
	// Relationships lists the imported relationship types. Records of other
	// types are ignored. If empty, every type is imported with the
	// configured defaults.
	Relationships []RelationshipsOptions
	// ExpectedRelationshipCount feeds the memory estimate.
	ExpectedRelationshipCount uint64
	// Termination is polled between batches and compressed pages next to
	// the context.
	Termination projection.TerminationFlag
}

type recordCursor[T any] interface {
	Next(ctx context.Context) (T, bool, error)
}

// Import scans all nodes, then all relationships of source and assembles
// them into a graph. Every cursor is drained by its own scanner goroutine
// into batches that a pool of importer goroutines adds to the builders.
func (l *Loader) Import(ctx context.Context, source projection.RecordSource, opts ImportOptions) (*csr.Graph, error) {
	started := time.Now()
	workers := l.concurrency(ctx)

	relSchemas := []projection.PropertySchema{}
	for _, rel := range opts.Relationships {
		relSchemas = append(relSchemas, rel.Properties...)
	}
	if err := l.checkMemory(opts.Nodes.ExpectedCount, opts.ExpectedRelationshipCount, workers,
		projection.Schemas{Node: opts.Nodes.Properties, Relationship: relSchemas},
		idmap.OverheadBytes(opts.Nodes.MaxOriginalID)); err != nil {
		return nil, err
	}

	nodes, err := l.importNodes(ctx, source, opts, workers)
	if err != nil {
		return nil, err
	}

	registry, err := l.newBuilderRegistry(nodes, opts.Relationships, opts.Termination)
	if err != nil {
		return nil, err
	}
	if err := l.importRelationships(ctx, source, opts, workers, registry); err != nil {
		return nil, err
	}

	builders := registry.all()
	topologies := make([]*csr.Topology, 0, len(builders))
	for _, builder := range builders {
		topology, err := builder.BuildTopology(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "relationship type %q", builder.Type())
		}
		topologies = append(topologies, topology)
	}

	graph, err := csr.Assemble(nodes.mapping, nodes.labels, nodes.properties, topologies)
	if err != nil {
		return nil, err
	}

	l.logger.WithField("action", "graph_load").
		WithField("nodes", graph.NodeCount()).
		WithField("relationships", graph.RelationshipCount()).
		WithField("relationship_types", graph.RelationshipTypes()).
		WithField("ignored_records", registry.ignored.Load()).
		WithField("took", time.Since(started)).
		Info("imported graph")

	return graph, nil
}

func (l *Loader) importNodes(ctx context.Context, source projection.RecordSource,
	opts ImportOptions, workers int,
) (*Nodes, error) {
	builder, err := l.BeginNodes(opts.Nodes)
	if err != nil {
		return nil, err
	}

	partitions, err := source.NodeCursors(workers)
	if err != nil {
		return nil, errors.Wrap(err, "open node cursors")
	}
	cursors := make([]recordCursor[projection.NodeRecord], len(partitions))
	for i, c := range partitions {
		cursors[i] = c
	}

	err = runPipeline(ctx, builder.logger, cursors, l.config.BatchSize, workers, opts.Termination,
		func(records []projection.NodeRecord) error {
			for _, rec := range records {
				if err := builder.Add(rec.OriginalID, rec.Labels, rec.Properties); err != nil {
					return err
				}
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	return builder.Build()
}

func (l *Loader) importRelationships(ctx context.Context, source projection.RecordSource,
	opts ImportOptions, workers int, registry *builderRegistry,
) error {
	partitions, err := source.RelationshipCursors(workers)
	if err != nil {
		return errors.Wrap(err, "open relationship cursors")
	}
	cursors := make([]recordCursor[projection.RelationshipRecord], len(partitions))
	for i, c := range partitions {
		cursors[i] = c
	}

	logger := l.logger.WithField("action", "graph_load_relationships")
	return runPipeline(ctx, logger, cursors, l.config.BatchSize, workers, opts.Termination,
		func(records []projection.RelationshipRecord) error {
			for _, rec := range records {
				builder, err := registry.get(rec.Type)
				if err != nil {
					return err
				}
				if builder == nil {
					continue
				}
				if err := builder.Add(rec.Source, rec.Target, rec.Properties); err != nil {
					return err
				}
			}
			return nil
		})
}

// runPipeline drains every cursor in its own scanner goroutine. Full batches
// go through a channel of capacity workers to the importer goroutines, so a
// scanner blocks once its batch is full and the channel is as well. The
// first error cancels all goroutines.
func runPipeline[T any](ctx context.Context, logger logrus.FieldLogger, cursors []recordCursor[T],
	batchSize, workers int, termination projection.TerminationFlag, apply func([]T) error,
) error {
	eg, gctx := enterrors.NewErrorGroupWithContextWrapper(logger, ctx)
	batches := make(chan []T, workers)

	scanners, sctx := enterrors.NewErrorGroupWithContextWrapper(logger, gctx)
	for i, cursor := range cursors {
		scanners.Go(func() error {
			return scan(sctx, cursor, batchSize, termination, batches)
		}, "partition", i)
	}
	eg.Go(func() error {
		defer close(batches)
		return scanners.Wait()
	})

	for i := 0; i < workers; i++ {
		eg.Go(func() error {
			for records := range batches {
				if err := checkRunning(gctx, termination); err != nil {
					return err
				}
				if err := apply(records); err != nil {
					return err
				}
			}
			return nil
		}, "importer", i)
	}

	err := eg.Wait()
	if err == nil {
		return nil
	}
	if errors.Is(err, enterrors.ErrCancelled) {
		return err
	}
	if cause := checkRunning(ctx, termination); cause != nil {
		return cause
	}
	return err
}

func scan[T any](ctx context.Context, cursor recordCursor[T], batchSize int,
	termination projection.TerminationFlag, out chan<- []T,
) error {
	buf, err := batch.New[T](batchSize)
	if err != nil {
		return err
	}

	flush := func() error {
		if err := checkRunning(ctx, termination); err != nil {
			return err
		}
		select {
		case out <- buf.Drain():
			return nil
		case <-ctx.Done():
			return enterrors.NewCancelled(ctx.Err())
		}
	}

	for {
		rec, ok, err := cursor.Next(ctx)
		if err != nil {
			return errors.Wrap(err, "read record")
		}
		if !ok {
			break
		}
		buf.Offer(rec)
		if buf.IsFull() {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	if buf.Len() > 0 {
		return flush()
	}
	return nil
}

// builderRegistry hands out one RelationshipsBuilder per relationship type.
type builderRegistry struct {
	loader *Loader
	nodes  *Nodes
	fixed  bool

	// termination is handed to builders that have no flag of their own.
	termination projection.TerminationFlag

	sync.RWMutex
	builders map[string]*RelationshipsBuilder
	ignored  atomic.Uint64
}

func (l *Loader) newBuilderRegistry(nodes *Nodes, relationships []RelationshipsOptions,
	termination projection.TerminationFlag,
) (*builderRegistry, error) {
	r := &builderRegistry{
		loader:      l,
		nodes:       nodes,
		fixed:       len(relationships) > 0,
		termination: termination,
		builders:    map[string]*RelationshipsBuilder{},
	}

	for _, opts := range relationships {
		if _, ok := r.builders[opts.Type]; ok {
			return nil, enterrors.NewConfigurationError("relationship type %q is listed twice", opts.Type)
		}
		if opts.Termination == nil {
			opts.Termination = termination
		}
		builder, err := l.BeginRelationships(nodes, opts)
		if err != nil {
			return nil, err
		}
		r.builders[opts.Type] = builder
	}
	return r, nil
}

// get returns nil for types that are not imported.
func (r *builderRegistry) get(relType string) (*RelationshipsBuilder, error) {
	r.RLock()
	builder, ok := r.builders[relType]
	r.RUnlock()
	if ok {
		return builder, nil
	}
	if r.fixed {
		r.ignored.Add(1)
		return nil, nil
	}

	r.Lock()
	defer r.Unlock()
	if builder, ok := r.builders[relType]; ok {
		return builder, nil
	}
	builder, err := r.loader.BeginRelationships(r.nodes, RelationshipsOptions{
		Type:        relType,
		Orientation: r.loader.config.DefaultOrientation,
		Termination: r.termination,
	})
	if err != nil {
		return nil, err
	}
	r.builders[relType] = builder
	return builder, nil
}

// all returns the builders ordered by type.
func (r *builderRegistry) all() []*RelationshipsBuilder {
	r.RLock()
	defer r.RUnlock()

	out := make([]*RelationshipsBuilder, 0, len(r.builders))
	for _, builder := range r.builders {
		out = append(out, builder)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Type() < out[j].Type()
	})
	return out
}
