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
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/graphcore/adapters/repos/graph/csr"
	"github.com/weaviate/graphcore/entities/projection"
	"github.com/weaviate/graphcore/usecases/config"
)

func newTestLoader(t *testing.T, concurrency int, mutate ...func(*config.Config)) *Loader {
	t.Helper()

	cfg := config.Default()
	cfg.Concurrency = concurrency
	cfg.BatchSize = 16
	cfg.PageSizeBytes = 1024
	cfg.AccumulatorPageShift = 3
	for _, m := range mutate {
		m(&cfg)
	}

	logger, _ := test.NewNullLogger()
	l, err := New(cfg, logger, nil)
	require.NoError(t, err)
	return l
}

type sliceCursor[T any] struct {
	records []T
	pos     int
}

func (c *sliceCursor[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if c.pos >= len(c.records) {
		return zero, false, nil
	}
	c.pos++
	return c.records[c.pos-1], true, nil
}

// sliceSource partitions records round robin.
type sliceSource struct {
	nodes         []projection.NodeRecord
	relationships []projection.RelationshipRecord
}

func partition[T any](records []T, n int) []*sliceCursor[T] {
	cursors := make([]*sliceCursor[T], n)
	for i := range cursors {
		cursors[i] = &sliceCursor[T]{}
	}
	for i, rec := range records {
		c := cursors[i%n]
		c.records = append(c.records, rec)
	}
	return cursors
}

func (s *sliceSource) NodeCursors(n int) ([]projection.NodeCursor, error) {
	var out []projection.NodeCursor
	for _, c := range partition(s.nodes, n) {
		out = append(out, c)
	}
	return out, nil
}

func (s *sliceSource) RelationshipCursors(n int) ([]projection.RelationshipCursor, error) {
	var out []projection.RelationshipCursor
	for _, c := range partition(s.relationships, n) {
		out = append(out, c)
	}
	return out, nil
}

// tripAfter stops running after the given number of polls.
type tripAfter struct {
	remaining atomic.Int64
}

func newTripAfter(n int64) *tripAfter {
	t := &tripAfter{}
	t.remaining.Store(n)
	return t
}

func (t *tripAfter) Running() bool {
	return t.remaining.Add(-1) >= 0
}

type countingFlag struct {
	polls atomic.Int64
}

func (c *countingFlag) Running() bool {
	c.polls.Add(1)
	return true
}

type originalEdge struct {
	Source, Target uint64
	Properties     []float64
}

// originalEdges lists the relationships of one type by original ids,
// independent of internal id assignment.
func originalEdges(t *testing.T, g *csr.Graph, relType string) []originalEdge {
	t.Helper()

	topology, ok := g.Topology(relType)
	require.True(t, ok)

	var edges []originalEdge
	for node := uint64(0); node < g.NodeCount(); node++ {
		topology.ForEachRelationship(node, func(target uint64, props []float64) bool {
			values := make([]float64, len(props))
			copy(values, props)
			edges = append(edges, originalEdge{
				Source:     g.Mapping().ToOriginal(node),
				Target:     g.Mapping().ToOriginal(target),
				Properties: values,
			})
			return true
		})
	}

	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		for k := range a.Properties {
			if a.Properties[k] != b.Properties[k] {
				return a.Properties[k] < b.Properties[k]
			}
		}
		return false
	})
	return edges
}

func ptr[T any](v T) *T {
	return &v
}
