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

package nodeprops

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	enterrors "github.com/weaviate/graphcore/entities/errors"
	"github.com/weaviate/graphcore/entities/projection"
)

type offsetIDs uint64

func (o offsetIDs) ToOriginal(internalID uint64) uint64 {
	return internalID + uint64(o)
}

func ptr(v float64) *float64 {
	return &v
}

func TestStoreValidatesSchemas(t *testing.T) {
	_, err := NewStore([]projection.PropertySchema{{Key: "a"}, {Key: "a"}}, 0)
	assert.True(t, errors.Is(err, enterrors.ErrConfiguration))
}

func TestStoreDefaults(t *testing.T) {
	s, err := NewStore([]projection.PropertySchema{
		{Key: "age", DefaultValue: ptr(18)},
		{Key: "score"},
	}, 4)
	require.NoError(t, err)

	s.Set(0, map[string]float64{"age": 30, "score": 1.5, "unknown": 3})
	s.Set(2, map[string]float64{"score": 0})
	s.Set(5000, map[string]float64{"age": 99})

	columns, err := s.Build(5001, offsetIDs(0))
	require.NoError(t, err)
	require.Len(t, columns, 2)

	age, score := columns[0], columns[1]
	assert.Equal(t, "age", age.Key())
	assert.Equal(t, uint64(5001), age.NodeCount())
	assert.Equal(t, 30.0, age.Get(0))
	assert.Equal(t, 18.0, age.Get(1))
	assert.Equal(t, 18.0, age.Get(2))
	assert.Equal(t, 99.0, age.Get(5000))

	assert.Equal(t, 1.5, score.Get(0))
	assert.True(t, math.IsNaN(score.Get(1)))
	assert.Equal(t, 0.0, score.Get(2))
	assert.True(t, math.IsNaN(score.DefaultValue()))

	assert.Panics(t, func() { age.Get(5001) })
}

func TestStoreRequiredProperty(t *testing.T) {
	s, err := NewStore([]projection.PropertySchema{{Key: "rank", Required: true}}, 0)
	require.NoError(t, err)

	s.Set(0, map[string]float64{"rank": 1})
	s.Set(1, map[string]float64{"other": 1})
	s.Set(2, map[string]float64{"rank": 3})

	columns, err := s.Build(3, offsetIDs(100))
	require.Error(t, err)
	assert.Nil(t, columns)

	var missing *enterrors.MissingNodePropertyError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "rank", missing.Property)
	assert.Equal(t, uint64(101), missing.NodeID)
}

func TestStoreConcurrentGrowth(t *testing.T) {
	s, err := NewStore([]projection.PropertySchema{{Key: "id"}}, 1)
	require.NoError(t, err)

	nodes := uint64(20_000)
	workers := uint64(8)
	var wg sync.WaitGroup
	for w := uint64(0); w < workers; w++ {
		wg.Add(1)
		go func(w uint64) {
			defer wg.Done()
			for node := w; node < nodes; node += workers {
				s.Set(node, map[string]float64{"id": float64(node)})
			}
		}(w)
	}
	wg.Wait()

	columns, err := s.Build(nodes, offsetIDs(0))
	require.NoError(t, err)
	for node := uint64(0); node < nodes; node++ {
		require.Equal(t, float64(node), columns[0].Get(node))
	}
}

func TestNewColumn(t *testing.T) {
	c := NewColumn("rank", []float64{0.1, 0.2, 0.7}, 0)
	assert.Equal(t, "rank", c.Key())
	assert.Equal(t, uint64(3), c.NodeCount())
	assert.Equal(t, 0.7, c.Get(2))
	assert.Equal(t, 0.0, c.DefaultValue())
}
