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
	"cmp"
	"math"
	"slices"

	"github.com/weaviate/graphcore/adapters/repos/graph/pages"
	enterrors "github.com/weaviate/graphcore/entities/errors"
	"github.com/weaviate/graphcore/entities/projection"
	byteops "github.com/weaviate/graphcore/usecases/byte_operations"
)

const float64Len = 8

// IDMapping resolves targets that were accumulated as original ids.
type IDMapping interface {
	ToInternal(originalID uint64) (uint64, bool)
	ToOriginal(internalID uint64) uint64
}

type CompressorConfig struct {
	// Aggregation of the relationship type. Must not be AggregationDefault.
	Aggregation projection.Aggregation
	// PropertyAggregations holds one entry per property column,
	// AggregationDefault falls back to Aggregation.
	PropertyAggregations []projection.Aggregation
	// Mapping is set when targets are original ids. Sources are always
	// internal.
	Mapping IDMapping
	// SkipDangling drops relationships whose target is not part of Mapping
	// instead of failing.
	SkipDangling bool
}

// Compressor turns accumulated node lists into compressed entries. It owns
// one page allocator and is therefore bound to a single goroutine.
type Compressor struct {
	aggregation          projection.Aggregation
	propertyAggregations []projection.Aggregation
	mapping              IDMapping
	skipDangling         bool

	allocator *pages.Allocator
	skipped   uint64
}

func NewCompressor(cfg CompressorConfig, allocator *pages.Allocator) (*Compressor, error) {
	if cfg.Aggregation == projection.AggregationDefault {
		return nil, enterrors.NewConfigurationError("relationship aggregation must be set")
	}

	aggs := make([]projection.Aggregation, len(cfg.PropertyAggregations))
	for i, agg := range cfg.PropertyAggregations {
		aggs[i] = agg.Resolve(cfg.Aggregation)
		if aggs[i].Deduplicates() != cfg.Aggregation.Deduplicates() {
			return nil, enterrors.NewConfigurationError(
				"property aggregation %s conflicts with relationship aggregation %s",
				aggs[i], cfg.Aggregation)
		}
	}

	return &Compressor{
		aggregation:          cfg.Aggregation,
		propertyAggregations: aggs,
		mapping:              cfg.Mapping,
		skipDangling:         cfg.SkipDangling,
		allocator:            allocator,
	}, nil
}

// Skipped counts the dangling relationships dropped so far.
func (c *Compressor) Skipped() uint64 {
	return c.skipped
}

// Release gives the allocator back. The compressor cannot be used anymore.
func (c *Compressor) Release() {
	c.allocator.Release()
}

// Compress sorts, aggregates and encodes the relationships of node and
// writes them to the arena. properties holds one column per property, each
// aligned with targets.
func (c *Compressor) Compress(node uint64, targets []uint64, properties [][]float64) (Entry, error) {
	if len(properties) != len(c.propertyAggregations) {
		return Entry{}, enterrors.NewConfigurationError("got %d property columns, expected %d",
			len(properties), len(c.propertyAggregations))
	}

	s := scratches.borrow(len(properties))
	defer scratches.put(s)

	if err := c.resolve(s, node, targets); err != nil {
		return Entry{}, err
	}
	if len(s.resolved) == 0 {
		return Entry{}, nil
	}

	c.sort(s, properties)
	c.aggregate(s, properties)

	return c.write(s)
}

func (c *Compressor) resolve(s *scratch, node uint64, targets []uint64) error {
	for row, target := range targets {
		if c.mapping != nil {
			internal, ok := c.mapping.ToInternal(target)
			if !ok {
				if c.skipDangling {
					c.skipped++
					continue
				}
				return enterrors.NewNodeNotFound("relationship (%d)->(%d) references an unknown target",
					c.mapping.ToOriginal(node), target)
			}
			target = internal
		}
		s.order = append(s.order, len(s.resolved))
		s.resolved = append(s.resolved, target)
		s.rows = append(s.rows, row)
	}
	return nil
}

// sort orders by target. Ties keep arrival order for NONE and are ordered
// by property values otherwise, so the collapsed value does not depend on
// which goroutine added a relationship first.
func (c *Compressor) sort(s *scratch, properties [][]float64) {
	tieBreak := c.aggregation.Deduplicates()
	slices.SortStableFunc(s.order, func(x, y int) int {
		if res := cmp.Compare(s.resolved[x], s.resolved[y]); res != 0 || !tieBreak {
			return res
		}
		for _, column := range properties {
			if res := cmp.Compare(column[s.rows[x]], column[s.rows[y]]); res != 0 {
				return res
			}
		}
		return 0
	})
}

func (c *Compressor) aggregate(s *scratch, properties [][]float64) {
	dedupe := c.aggregation.Deduplicates()

	for i := 0; i < len(s.order); {
		target := s.resolved[s.order[i]]
		end := i + 1
		if dedupe {
			for end < len(s.order) && s.resolved[s.order[end]] == target {
				end++
			}
		}

		s.targets = append(s.targets, target)
		for k, column := range properties {
			agg := c.propertyAggregations[k]
			value := agg.Seed(column[s.rows[s.order[i]]])
			for r := i + 1; r < end; r++ {
				value = agg.Combine(value, column[s.rows[s.order[r]]])
			}
			s.columns[k] = append(s.columns[k], value)
		}

		i = end
	}
}

func (c *Compressor) write(s *scratch) (Entry, error) {
	size := 0
	prev := uint64(0)
	for _, target := range s.targets {
		size += byteops.UvarintLen(target - prev)
		prev = target
	}
	size += len(s.targets) * len(s.columns) * float64Len
	if uint64(size) > math.MaxUint32 {
		return Entry{}, enterrors.NewAllocationFailure("%d encoded bytes exceed a single range", size)
	}

	bo := byteops.ByteOperations{Buffer: s.encodedBuffer(size)}
	prev = 0
	for _, target := range s.targets {
		bo.WriteUvarint(target - prev)
		prev = target
	}
	for _, column := range s.columns {
		for _, value := range column {
			bo.WriteFloat64(value)
		}
	}

	addr, err := c.allocator.Write(bo.Buffer)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Degree: uint32(len(s.targets)),
		PageID: addr.PageID,
		Offset: addr.Offset,
		Length: uint32(size),
	}, nil
}
