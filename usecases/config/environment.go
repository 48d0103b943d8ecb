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
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/weaviate/graphcore/entities/projection"
	"github.com/weaviate/graphcore/usecases/configbase"
)

// FromEnv takes a *Config as it will respect initial config that has been
// provided by other means (e.g. a config file) and will only extend those that
// are set
func FromEnv(config *Config) error {
	if err := parseInt("GRAPH_LOAD_CONCURRENCY", &config.Concurrency); err != nil {
		return err
	}

	if err := parseInt("GRAPH_LOAD_BATCH_SIZE", &config.BatchSize); err != nil {
		return err
	}

	if err := parseInt("GRAPH_LOAD_PAGE_SIZE_BYTES", &config.PageSizeBytes); err != nil {
		return err
	}

	if err := parseInt("GRAPH_LOAD_MAX_PAGES", &config.MaxPages); err != nil {
		return err
	}

	if err := parseInt("GRAPH_LOAD_ID_MAP_SHARDS", &config.IDMapShards); err != nil {
		return err
	}

	if v := os.Getenv("GRAPH_LOAD_ACCUMULATOR_PAGE_SHIFT"); v != "" {
		asUint, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return errors.Wrapf(err, "parse GRAPH_LOAD_ACCUMULATOR_PAGE_SHIFT as uint")
		}
		config.AccumulatorPageShift = uint(asUint)
	}

	if v := os.Getenv("GRAPH_LOAD_MEMORY_LIMIT_BYTES"); v != "" {
		asUint, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "parse GRAPH_LOAD_MEMORY_LIMIT_BYTES as uint")
		}
		config.MemoryLimitBytes = asUint
	}

	if v := os.Getenv("GRAPH_LOAD_SKIP_DANGLING_RELATIONSHIPS"); v != "" {
		config.SkipDanglingRelationships = configbase.Enabled(v)
	}

	if v := os.Getenv("GRAPH_LOAD_DEFAULT_AGGREGATION"); v != "" {
		agg, err := projection.ParseAggregation(v)
		if err != nil {
			return errors.Wrap(err, "parse GRAPH_LOAD_DEFAULT_AGGREGATION")
		}
		config.DefaultAggregation = agg
	}

	if v := os.Getenv("GRAPH_LOAD_DEFAULT_ORIENTATION"); v != "" {
		orientation, err := projection.ParseOrientation(v)
		if err != nil {
			return errors.Wrap(err, "parse GRAPH_LOAD_DEFAULT_ORIENTATION")
		}
		config.DefaultOrientation = orientation
	}

	return nil
}

func parseInt(envName string, target *int) error {
	v := os.Getenv(envName)
	if v == "" {
		return nil
	}

	asInt, err := strconv.Atoi(v)
	if err != nil {
		return errors.Wrapf(err, "parse %s as int", envName)
	}
	*target = asInt
	return nil
}
