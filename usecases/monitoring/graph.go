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
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func (pm *PrometheusMetrics) AddNodes(count int) {
	if pm == nil {
		return
	}

	pm.NodesImported.Add(float64(count))
}

func (pm *PrometheusMetrics) AddRelationships(relType string, count int) {
	if pm == nil {
		return
	}

	pm.RelationshipsImported.With(prometheus.Labels{
		"relationship_type": relType,
	}).Add(float64(count))
}

// ObservePhase records the time elapsed since start for the named phase.
func (pm *PrometheusMetrics) ObservePhase(phase string, start time.Time) {
	if pm == nil {
		return
	}

	pm.PhaseDurations.With(prometheus.Labels{
		"phase": phase,
	}).Observe(time.Since(start).Seconds())
}

func (pm *PrometheusMetrics) ArenaPageAllocated(size int) {
	if pm == nil {
		return
	}

	pm.ArenaPagesAllocated.Inc()
	pm.ArenaBytes.Add(float64(size))
}

// ArenaReleased subtracts the bytes of a dropped arena.
func (pm *PrometheusMetrics) ArenaReleased(size int64) {
	if pm == nil {
		return
	}

	pm.ArenaBytes.Sub(float64(size))
}

func (pm *PrometheusMetrics) SetCatalogGraphs(count int) {
	if pm == nil {
		return
	}

	pm.CatalogGraphs.Set(float64(count))
}
