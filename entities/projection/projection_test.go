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

package projection

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	enterrors "github.com/weaviate/graphcore/entities/errors"
)

func TestAggregation(t *testing.T) {
	t.Run("parse round trip", func(t *testing.T) {
		for _, a := range []Aggregation{
			AggregationNone, AggregationSingle, AggregationSum,
			AggregationMin, AggregationMax, AggregationCount,
		} {
			parsed, err := ParseAggregation(a.String())
			require.Nil(t, err)
			assert.Equal(t, a, parsed)
		}
		_, err := ParseAggregation("median")
		assert.Error(t, err)
	})

	t.Run("combine", func(t *testing.T) {
		type test struct {
			agg      Aggregation
			values   []float64
			expected float64
		}
		tests := []test{
			{AggregationSum, []float64{2, 1, 4}, 7},
			{AggregationMin, []float64{2, 1, 4}, 1},
			{AggregationMax, []float64{2, 1, 4}, 4},
			{AggregationCount, []float64{2, 1, 4}, 3},
			{AggregationSingle, []float64{2, 1, 4}, 2},
		}
		for _, test := range tests {
			t.Run(test.agg.String(), func(t *testing.T) {
				acc := test.agg.Seed(test.values[0])
				for _, v := range test.values[1:] {
					acc = test.agg.Combine(acc, v)
				}
				assert.Equal(t, test.expected, acc)
			})
		}
	})

	t.Run("resolve and dedupe", func(t *testing.T) {
		assert.Equal(t, AggregationSum, AggregationDefault.Resolve(AggregationSum))
		assert.Equal(t, AggregationMax, AggregationMax.Resolve(AggregationSum))
		assert.False(t, AggregationNone.Deduplicates())
		assert.True(t, AggregationSingle.Deduplicates())
	})

	t.Run("yaml", func(t *testing.T) {
		var s PropertySchema
		require.Nil(t, yaml.Unmarshal([]byte("key: weight\naggregation: max\nrequired: true\n"), &s))
		assert.Equal(t, "weight", s.Key)
		assert.Equal(t, AggregationMax, s.Aggregation)
		assert.True(t, s.Required)
		assert.True(t, math.IsNaN(s.Default()))
	})
}

func TestOrientation(t *testing.T) {
	o, err := ParseOrientation("undirected")
	require.Nil(t, err)
	assert.Equal(t, OrientationUndirected, o)

	o, err = ParseOrientation("")
	require.Nil(t, err)
	assert.Equal(t, OrientationNatural, o)

	_, err = ParseOrientation("sideways")
	assert.Error(t, err)
}

func TestValidateSchemas(t *testing.T) {
	t.Run("node duplicates", func(t *testing.T) {
		err := ValidateNodeSchemas([]PropertySchema{{Key: "age"}, {Key: "age"}, {}})
		require.Error(t, err)
		assert.ErrorIs(t, err, enterrors.ErrConfiguration)
	})

	t.Run("relationship conflicts", func(t *testing.T) {
		err := ValidateRelationshipSchemas(AggregationSum, []PropertySchema{
			{Key: "w"},
			{Key: "all", Aggregation: AggregationNone},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, enterrors.ErrConfiguration)
		assert.Contains(t, err.Error(), `"all"`)
	})

	t.Run("valid", func(t *testing.T) {
		assert.Nil(t, ValidateRelationshipSchemas(AggregationNone, []PropertySchema{{Key: "w"}}))
		assert.Nil(t, ValidateRelationshipSchemas(AggregationSum, []PropertySchema{
			{Key: "w"}, {Key: "n", Aggregation: AggregationCount},
		}))
	})
}

func TestTokenRegistry(t *testing.T) {
	r := NewTokenRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, name := range []string{"Person", "City", "Person", "Country"} {
				r.Resolve(name)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, r.Len())
	seen := map[int32]bool{}
	for _, name := range []string{"Person", "City", "Country"} {
		id, ok := r.Lookup(name)
		require.True(t, ok)
		assert.Equal(t, name, r.Name(id))
		seen[id] = true
	}
	assert.Len(t, seen, 3)
	assert.Equal(t, "", r.Name(17))
}

func TestTerminationFlags(t *testing.T) {
	assert.True(t, AlwaysRunning{}.Running())

	ctx, cancel := context.WithCancel(context.Background())
	flag := ContextFlag{Ctx: ctx}
	assert.True(t, flag.Running())
	cancel()
	assert.False(t, flag.Running())
}
