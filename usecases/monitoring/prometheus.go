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

import "github.com/prometheus/client_golang/prometheus"

type PrometheusMetrics struct {
	NodesImported         prometheus.Counter
	RelationshipsImported *prometheus.CounterVec
	PhaseDurations        *prometheus.HistogramVec
	ArenaPagesAllocated   prometheus.Counter
	ArenaBytes            prometheus.Gauge
	CatalogGraphs         prometheus.Gauge
}

// NewPrometheusMetrics creates the graph construction metrics and registers
// them with reg. Pass NoopRegisterer to keep them out of any registry.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	if reg == nil {
		reg = noop
	}

	pm := &PrometheusMetrics{
		NodesImported: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "graph_load_nodes_imported_total",
			Help: "Number of node records added to node builders",
		}),
		RelationshipsImported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "graph_load_relationships_imported_total",
			Help: "Number of relationship records added to relationship builders",
		}, []string{"relationship_type"}),
		PhaseDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "graph_load_phase_duration_seconds",
			Help:    "Duration of a graph construction phase",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"phase"}),
		ArenaPagesAllocated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "graph_load_arena_pages_allocated_total",
			Help: "Number of pages appended to adjacency arenas",
		}),
		ArenaBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "graph_load_arena_bytes",
			Help: "Bytes held by adjacency arena pages",
		}),
		CatalogGraphs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "graph_catalog_graphs",
			Help: "Number of graphs registered in the catalog",
		}),
	}

	for _, c := range []prometheus.Collector{
		pm.NodesImported, pm.RelationshipsImported, pm.PhaseDurations,
		pm.ArenaPagesAllocated, pm.ArenaBytes, pm.CatalogGraphs,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return pm, nil
}
