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

package config

import (
	"github.com/weaviate/graphcore/adapters/repos/graph/adjacency"
	"github.com/weaviate/graphcore/adapters/repos/graph/idmap"
	"github.com/weaviate/graphcore/adapters/repos/graph/pages"
	"github.com/weaviate/graphcore/entities/concurrency"
	enterrors "github.com/weaviate/graphcore/entities/errors"
	"github.com/weaviate/graphcore/entities/errorcompounder"
	"github.com/weaviate/graphcore/entities/projection"
)

const (
	DefaultBatchSize = 10_000
	maxPageSizeBytes = 1 << 30
)

// Config holds the settings of graph construction runs.
type Config struct {
	// Concurrency is the number of scanning and compression goroutines.
	Concurrency int `json:"concurrency" yaml:"concurrency"`
	// BatchSize is the capacity of a single record batch.
	BatchSize int `json:"batch_size" yaml:"batch_size"`
	// PageSizeBytes is the size of an adjacency arena page.
	PageSizeBytes int `json:"page_size_bytes" yaml:"page_size_bytes"`
	// MaxPages limits the pages of a single arena, 0 means unlimited.
	MaxPages int `json:"max_pages" yaml:"max_pages"`
	// AccumulatorPageShift groups 1<<shift source nodes under one lock.
	AccumulatorPageShift uint `json:"accumulator_page_shift" yaml:"accumulator_page_shift"`
	// MemoryLimitBytes caps the estimated memory of a run. 0 uses the
	// physical memory of the host.
	MemoryLimitBytes uint64 `json:"memory_limit_bytes" yaml:"memory_limit_bytes"`
	// IDMapShards is the shard count of the id mapper if the highest
	// original id is unknown.
	IDMapShards int `json:"id_map_shards" yaml:"id_map_shards"`

	SkipDanglingRelationships bool                   `json:"skip_dangling_relationships" yaml:"skip_dangling_relationships"`
	DefaultAggregation        projection.Aggregation `json:"default_aggregation" yaml:"default_aggregation"`
	DefaultOrientation        projection.Orientation `json:"default_orientation" yaml:"default_orientation"`
}

// Default returns a config with every field at its default.
func Default() Config {
	var c Config
	c.SetDefaults()
	return c
}

func (c *Config) SetDefaults() {
	c.Concurrency = concurrency.NUMCPU
	c.BatchSize = DefaultBatchSize
	c.PageSizeBytes = pages.DefaultPageSize
	c.MaxPages = 0
	c.AccumulatorPageShift = adjacency.DefaultPageShift
	c.MemoryLimitBytes = 0
	c.IDMapShards = idmap.DefaultShardCount
	c.SkipDanglingRelationships = false
	c.DefaultAggregation = projection.AggregationNone
	c.DefaultOrientation = projection.OrientationNatural
}

// Validate reports every invalid field at once. The error wraps
// ErrConfiguration.
func (c *Config) Validate() error {
	ec := errorcompounder.New()

	if c.Concurrency < 1 {
		ec.Addf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.BatchSize < 1 {
		ec.Addf("batch_size must be at least 1, got %d", c.BatchSize)
	}
	if c.PageSizeBytes < 1 || c.PageSizeBytes > maxPageSizeBytes {
		ec.Addf("page_size_bytes must be within [1, %d], got %d", maxPageSizeBytes, c.PageSizeBytes)
	}
	if c.MaxPages < 0 {
		ec.Addf("max_pages must not be negative, got %d", c.MaxPages)
	}
	if c.AccumulatorPageShift < 1 || c.AccumulatorPageShift > 24 {
		ec.Addf("accumulator_page_shift must be within [1, 24], got %d", c.AccumulatorPageShift)
	}
	if c.IDMapShards < 1 {
		ec.Addf("id_map_shards must be at least 1, got %d", c.IDMapShards)
	}
	if c.DefaultAggregation == projection.AggregationDefault {
		ec.Addf("default_aggregation must name an aggregation")
	}

	if err := ec.ToError(); err != nil {
		return enterrors.NewConfigurationError("%s", err)
	}
	return nil
}
