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

package monitoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphMetrics(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m, err := NewPrometheusMetrics(reg)
	require.NoError(t, err)

	t.Run("nodes", func(t *testing.T) {
		m.AddNodes(3)
		m.AddNodes(2)
		assert.Equal(t, float64(5), testutil.ToFloat64(m.NodesImported))
	})

	t.Run("relationships per type", func(t *testing.T) {
		m.AddRelationships("KNOWS", 4)
		m.AddRelationships("LIKES", 1)
		m.AddRelationships("KNOWS", 1)

		assert.Equal(t, float64(5), testutil.ToFloat64(m.RelationshipsImported.WithLabelValues("KNOWS")))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.RelationshipsImported.WithLabelValues("LIKES")))
	})

	t.Run("arena", func(t *testing.T) {
		m.ArenaPageAllocated(1024)
		m.ArenaPageAllocated(4096)
		m.ArenaReleased(1024)

		assert.Equal(t, float64(2), testutil.ToFloat64(m.ArenaPagesAllocated))
		assert.Equal(t, float64(4096), testutil.ToFloat64(m.ArenaBytes))
	})

	t.Run("phase durations", func(t *testing.T) {
		m.ObservePhase("compress", time.Now())
		assert.Equal(t, 1, testutil.CollectAndCount(m.PhaseDurations))
	})

	t.Run("catalog", func(t *testing.T) {
		m.SetCatalogGraphs(7)
		assert.Equal(t, float64(7), testutil.ToFloat64(m.CatalogGraphs))
	})

	t.Run("registering twice fails", func(t *testing.T) {
		_, err := NewPrometheusMetrics(reg)
		require.Error(t, err)
	})
}

func TestNilMetrics(t *testing.T) {
	var m *PrometheusMetrics

	assert.NotPanics(t, func() {
		m.AddNodes(1)
		m.AddRelationships("KNOWS", 1)
		m.ObservePhase("compress", time.Now())
		m.ArenaPageAllocated(10)
		m.ArenaReleased(10)
		m.SetCatalogGraphs(1)
	})
}

func TestNoopRegisterer(t *testing.T) {
	a, err := NewPrometheusMetrics(&NoopRegisterer{})
	require.NoError(t, err)
	b, err := NewPrometheusMetrics(nil)
	require.NoError(t, err)

	a.AddNodes(1)
	assert.Equal(t, float64(1), testutil.ToFloat64(a.NodesImported))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.NodesImported))
}
