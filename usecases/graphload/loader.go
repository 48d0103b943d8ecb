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

// Package graphload builds immutable graphs from node and relationship
// records, either through builders fed by the caller or by importing a
// partitioned record source.
package graphload

import (
	"context"

	"github.com/pbnjay/memory"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/graphcore/entities/concurrency"
	enterrors "github.com/weaviate/graphcore/entities/errors"
	"github.com/weaviate/graphcore/entities/projection"
	"github.com/weaviate/graphcore/usecases/config"
	"github.com/weaviate/graphcore/usecases/monitoring"
)

// Loader starts construction runs. It holds no state between runs and may
// be shared.
type Loader struct {
	config  config.Config
	logger  logrus.FieldLogger
	metrics *monitoring.PrometheusMetrics

	totalMemory func() uint64
}

// New validates cfg and returns a Loader. metrics may be nil.
func New(cfg config.Config, logger logrus.FieldLogger, metrics *monitoring.PrometheusMetrics) (*Loader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Loader{
		config:      cfg,
		logger:      logger,
		metrics:     metrics,
		totalMemory: memory.TotalMemory,
	}, nil
}

func (l *Loader) Config() config.Config {
	return l.config
}

func (l *Loader) concurrency(ctx context.Context) int {
	return concurrency.Effective(ctx, l.config.Concurrency)
}

func (l *Loader) memoryLimit() uint64 {
	if l.config.MemoryLimitBytes > 0 {
		return l.config.MemoryLimitBytes
	}
	return l.totalMemory()
}

// checkMemory fails early if even the lower bound of the estimate plus
// upfrontBytes exceeds the memory limit. An unknown limit never fails.
func (l *Loader) checkMemory(nodeCount, relationshipCount uint64, workers int,
	schemas projection.Schemas, upfrontBytes uint64,
) error {
	limit := l.memoryLimit()
	if limit == 0 {
		return nil
	}

	estimate := EstimateMemory(nodeCount, relationshipCount, workers, schemas).
		add(MemoryRange{Min: upfrontBytes, Max: upfrontBytes})
	l.logger.WithField("action", "graph_load_estimate").
		WithField("nodes", nodeCount).
		WithField("relationships", relationshipCount).
		WithField("estimate", estimate.String()).
		Debug("estimated memory of graph construction")

	if estimate.Min > limit {
		return enterrors.NewAllocationFailure("estimated memory %s exceeds limit of %d bytes",
			estimate, limit)
	}
	return nil
}

// checkRunning is polled between batches and pages.
func checkRunning(ctx context.Context, termination projection.TerminationFlag) error {
	if err := ctx.Err(); err != nil {
		return enterrors.NewCancelled(err)
	}
	if termination != nil && !termination.Running() {
		return enterrors.NewCancelled(nil)
	}
	return nil
}
