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
	"github.com/weaviate/graphcore/adapters/repos/graph/common"
)

// Column is an immutable node property column.
type Column struct {
	key          string
	values       *common.PagedArray[float64]
	nodeCount    uint64
	defaultValue float64
}

// NewColumn wraps values, one per internal node id, as a column.
func NewColumn(key string, values []float64, defaultValue float64) *Column {
	paged := common.NewPagedArrayFor[float64](uint64(len(values)), defaultPageSize)
	for node, value := range values {
		paged.Set(uint64(node), value)
	}
	return &Column{
		key:          key,
		values:       paged,
		nodeCount:    uint64(len(values)),
		defaultValue: defaultValue,
	}
}

func (c *Column) Key() string {
	return c.key
}

func (c *Column) NodeCount() uint64 {
	return c.nodeCount
}

func (c *Column) DefaultValue() float64 {
	return c.defaultValue
}

func (c *Column) Get(node uint64) float64 {
	if node >= c.nodeCount {
		panic("nodeprops: node id out of range")
	}
	return c.values.Get(node)
}
