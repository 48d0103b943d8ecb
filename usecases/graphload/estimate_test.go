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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weaviate/graphcore/entities/projection"
)

func TestEstimateMemoryIsMonotone(t *testing.T) {
	schemas := projection.Schemas{
		Node:         []projection.PropertySchema{{Key: "a"}},
		Relationship: []projection.PropertySchema{{Key: "w"}},
	}
	wider := projection.Schemas{
		Node:         []projection.PropertySchema{{Key: "a"}, {Key: "b"}},
		Relationship: []projection.PropertySchema{{Key: "w"}, {Key: "v"}},
	}

	base := EstimateMemory(1000, 10_000, 4, schemas)
	assert.LessOrEqual(t, base.Min, base.Max)

	for name, other := range map[string]MemoryRange{
		"nodes":         EstimateMemory(2000, 10_000, 4, schemas),
		"relationships": EstimateMemory(1000, 20_000, 4, schemas),
		"concurrency":   EstimateMemory(1000, 10_000, 8, schemas),
		"properties":    EstimateMemory(1000, 10_000, 4, wider),
	} {
		assert.LessOrEqual(t, base.Min, other.Min, name)
		assert.LessOrEqual(t, base.Max, other.Max, name)
	}
}

func TestEstimateMemoryBounds(t *testing.T) {
	empty := EstimateMemory(0, 0, 1, projection.Schemas{})
	assert.Equal(t, uint64(0), empty.Min)

	nodesOnly := EstimateMemory(100, 0, 1, projection.Schemas{})
	assert.Equal(t, uint64(100*(idMapMinBytes+offsetEntryBytes)), nodesOnly.Min)

	huge := EstimateMemory(math.MaxUint64, math.MaxUint64, 1024, projection.Schemas{})
	assert.Equal(t, uint64(math.MaxUint64), huge.Min)
	assert.Equal(t, uint64(math.MaxUint64), huge.Max)
}

func TestMemoryRangeString(t *testing.T) {
	r := MemoryRange{Min: 1024, Max: 3 * 1024 * 1024}
	assert.Equal(t, "[1.0 KiB ... 3.0 MiB]", r.String())
}
