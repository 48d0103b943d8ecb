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

// Package nodeprops holds the numeric node properties of a graph as one
// column per property key.
package nodeprops

import (
	"sync"

	"github.com/weaviate/graphcore/adapters/repos/graph/common"
	enterrors "github.com/weaviate/graphcore/entities/errors"
	"github.com/weaviate/graphcore/entities/projection"
)

const (
	growthRate      = 1.25
	defaultPageSize = 1 << 12
	minimumCapacity = 1024
)

// OriginalIDs translates internal node ids for error messages.
type OriginalIDs interface {
	ToOriginal(internalID uint64) uint64
}

// Store collects node properties while nodes are added concurrently. Values
// are kept per schema key, a presence bit per (node, key) tells explicit
// values apart from defaults.
type Store struct {
	schemas []projection.PropertySchema
	index   map[string]int

	sync.RWMutex                         // protects capacity, columns and present
	locks        *common.ShardedRWLocks // protects individual nodes
	capacity     uint64
	columns      []*common.PagedArray[float64]
	present      *common.AtomicBitset
}

func NewStore(schemas []projection.PropertySchema, initialCapacity uint64) (*Store, error) {
	if err := projection.ValidateNodeSchemas(schemas); err != nil {
		return nil, err
	}

	initialCapacity = max(initialCapacity, minimumCapacity)
	s := &Store{
		schemas: schemas,
		index:   make(map[string]int, len(schemas)),
		locks:   common.NewDefaultShardedRWLocks(),
		columns: make([]*common.PagedArray[float64], len(schemas)),
	}
	for i, schema := range schemas {
		s.index[schema.Key] = i
		s.columns[i] = common.NewPagedArray[float64](0, defaultPageSize)
	}
	s.present = common.NewAtomicBitset(0)
	s.resize(initialCapacity)
	return s, nil
}

func (s *Store) Schemas() []projection.PropertySchema {
	return s.schemas
}

// resize must be called with the write lock held or before the store is
// shared.
func (s *Store) resize(capacity uint64) {
	for _, column := range s.columns {
		column.Grow(capacity)
		column.AllocAll()
	}
	s.present = s.present.Resized(capacity * uint64(len(s.schemas)))
	s.capacity = capacity
}

func (s *Store) grow(node uint64) {
	s.Lock()
	defer s.Unlock()

	if node < s.capacity {
		return
	}
	s.resize(max(node+1, uint64(float64(s.capacity)*growthRate)))
}

// Set records the values of node. Keys outside the schema are ignored.
func (s *Store) Set(node uint64, properties map[string]float64) {
	if len(s.schemas) == 0 || len(properties) == 0 {
		return
	}

	s.RLock()
	if node >= s.capacity {
		s.RUnlock()
		s.grow(node)
		s.RLock()
	}
	defer s.RUnlock()

	s.locks.Lock(node)
	defer s.locks.Unlock(node)

	width := uint64(len(s.schemas))
	for key, value := range properties {
		k, ok := s.index[key]
		if !ok {
			continue
		}
		s.columns[k].Set(node, value)
		s.present.Set(node*width + uint64(k))
	}
}

// Build freezes the first nodeCount nodes into columns. Nodes without a
// value get the default of the property, or fail with a
// MissingNodePropertyError if the property is required.
func (s *Store) Build(nodeCount uint64, ids OriginalIDs) ([]*Column, error) {
	s.Lock()
	defer s.Unlock()

	if nodeCount > s.capacity {
		s.resize(nodeCount)
	}

	width := uint64(len(s.schemas))
	out := make([]*Column, len(s.schemas))
	for k, schema := range s.schemas {
		values := s.columns[k]
		fallback := schema.Default()
		for node := uint64(0); node < nodeCount; node++ {
			if s.present.Get(node*width + uint64(k)) {
				continue
			}
			if schema.Required {
				return nil, &enterrors.MissingNodePropertyError{
					Property: schema.Key,
					NodeID:   ids.ToOriginal(node),
				}
			}
			values.Set(node, fallback)
		}
		out[k] = &Column{
			key:          schema.Key,
			values:       values,
			nodeCount:    nodeCount,
			defaultValue: fallback,
		}
	}
	return out, nil
}
