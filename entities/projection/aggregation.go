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
	"fmt"
	"math"
	"strings"
)

// Aggregation decides how parallel relationships between the same ordered
// pair of nodes are combined. It is a closed set; every value has exactly
// one combine function.
type Aggregation uint8

const (
	// AggregationDefault is only valid on a property schema, where it means
	// "use the aggregation of the relationship type".
	AggregationDefault Aggregation = iota
	// AggregationNone keeps every parallel relationship.
	AggregationNone
	// AggregationSingle keeps one relationship per pair: the one with the
	// smallest property values, compared column by column. Arrival order
	// plays no part, so concurrent loads agree on the survivor.
	AggregationSingle
	AggregationSum
	AggregationMin
	AggregationMax
	AggregationCount
)

var aggregationNames = map[Aggregation]string{
	AggregationDefault: "DEFAULT",
	AggregationNone:    "NONE",
	AggregationSingle:  "SINGLE",
	AggregationSum:     "SUM",
	AggregationMin:     "MIN",
	AggregationMax:     "MAX",
	AggregationCount:   "COUNT",
}

func (a Aggregation) String() string {
	if name, ok := aggregationNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Aggregation(%d)", uint8(a))
}

func ParseAggregation(in string) (Aggregation, error) {
	want := strings.ToUpper(strings.TrimSpace(in))
	for a, name := range aggregationNames {
		if name == want {
			return a, nil
		}
	}
	return AggregationDefault, fmt.Errorf("unknown aggregation %q", in)
}

// Deduplicates reports whether runs of equal targets collapse into one.
func (a Aggregation) Deduplicates() bool {
	return a != AggregationNone && a != AggregationDefault
}

// Resolve returns a, or fallback if a is AggregationDefault.
func (a Aggregation) Resolve(fallback Aggregation) Aggregation {
	if a == AggregationDefault {
		return fallback
	}
	return a
}

// Seed is the accumulator for a run whose first value is first.
func (a Aggregation) Seed(first float64) float64 {
	if a == AggregationCount {
		return 1
	}
	return first
}

// Combine folds next into acc. SUM, MIN, MAX and COUNT are commutative and
// associative so the result does not depend on arrival order. SINGLE keeps
// acc.
func (a Aggregation) Combine(acc, next float64) float64 {
	switch a {
	case AggregationSum:
		return acc + next
	case AggregationMin:
		return math.Min(acc, next)
	case AggregationMax:
		return math.Max(acc, next)
	case AggregationCount:
		return acc + 1
	default:
		return acc
	}
}

func (a Aggregation) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Aggregation) UnmarshalText(text []byte) error {
	parsed, err := ParseAggregation(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
