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
	"math"

	"github.com/hashicorp/go-multierror"

	enterrors "github.com/weaviate/graphcore/entities/errors"
)

// PropertySchema describes one numeric property of a node or relationship
// projection.
type PropertySchema struct {
	Key string `json:"key" yaml:"key"`
	// DefaultValue is used when the property is absent and not Required.
	// nil means NaN.
	DefaultValue *float64 `json:"default_value,omitempty" yaml:"default_value,omitempty"`
	// Aggregation reduces values of parallel relationships. Ignored for
	// node properties.
	Aggregation Aggregation `json:"aggregation" yaml:"aggregation"`
	Required    bool        `json:"required" yaml:"required"`
}

func (s PropertySchema) Default() float64 {
	if s.DefaultValue == nil {
		return math.NaN()
	}
	return *s.DefaultValue
}

// Schemas groups the property schemas of one projection.
type Schemas struct {
	Node         []PropertySchema
	Relationship []PropertySchema
}

// ValidateNodeSchemas checks for empty and duplicate keys.
func ValidateNodeSchemas(schemas []PropertySchema) error {
	var result *multierror.Error
	seen := map[string]struct{}{}
	for i, s := range schemas {
		if s.Key == "" {
			result = multierror.Append(result,
				enterrors.NewConfigurationError("node property #%d has an empty key", i))
			continue
		}
		if _, ok := seen[s.Key]; ok {
			result = multierror.Append(result,
				enterrors.NewConfigurationError("node property %q is declared twice", s.Key))
		}
		seen[s.Key] = struct{}{}
	}
	return result.ErrorOrNil()
}

// ValidateRelationshipSchemas checks keys and that every property
// aggregation is compatible with the aggregation of the relationship type:
// a deduplicating type cannot keep all values of one of its properties and
// vice versa.
func ValidateRelationshipSchemas(typeAggregation Aggregation, schemas []PropertySchema) error {
	var result *multierror.Error
	if typeAggregation == AggregationDefault {
		result = multierror.Append(result,
			enterrors.NewConfigurationError("relationship aggregation must not be DEFAULT"))
	}

	seen := map[string]struct{}{}
	for i, s := range schemas {
		if s.Key == "" {
			result = multierror.Append(result,
				enterrors.NewConfigurationError("relationship property #%d has an empty key", i))
			continue
		}
		if _, ok := seen[s.Key]; ok {
			result = multierror.Append(result,
				enterrors.NewConfigurationError("relationship property %q is declared twice", s.Key))
		}
		seen[s.Key] = struct{}{}

		agg := s.Aggregation.Resolve(typeAggregation)
		if agg.Deduplicates() != typeAggregation.Deduplicates() {
			result = multierror.Append(result, enterrors.NewConfigurationError(
				"property %q aggregation %s conflicts with relationship aggregation %s",
				s.Key, agg, typeAggregation))
		}
	}
	return result.ErrorOrNil()
}
