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

package adjacency

import "sync"

type scratch struct {
	resolved []uint64
	rows     []int
	order    []int
	targets  []uint64
	columns  [][]float64
	encoded  []byte
}

func (s *scratch) reset(propertyCount int) {
	s.resolved = s.resolved[:0]
	s.rows = s.rows[:0]
	s.order = s.order[:0]
	s.targets = s.targets[:0]
	if cap(s.columns) < propertyCount {
		s.columns = make([][]float64, propertyCount)
	}
	s.columns = s.columns[:propertyCount]
	for i := range s.columns {
		s.columns[i] = s.columns[i][:0]
	}
}

func (s *scratch) encodedBuffer(size int) []byte {
	if cap(s.encoded) < size {
		s.encoded = make([]byte, size)
	}
	s.encoded = s.encoded[:size]
	return s.encoded
}

type scratchPool struct {
	pool *sync.Pool
}

func newScratchPool() *scratchPool {
	return &scratchPool{
		pool: &sync.Pool{
			New: func() interface{} {
				return &scratch{}
			},
		},
	}
}

func (p *scratchPool) borrow(propertyCount int) *scratch {
	s := p.pool.Get().(*scratch)
	s.reset(propertyCount)
	return s
}

func (p *scratchPool) put(s *scratch) {
	p.pool.Put(s)
}

var scratches = newScratchPool()
