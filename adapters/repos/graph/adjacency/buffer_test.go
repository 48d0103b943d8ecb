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

import (
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	enterrors "github.com/weaviate/graphcore/entities/errors"
)

type drained struct {
	targets    []uint64
	properties [][]float64
}

func drainAll(t *testing.T, b *Buffer) map[uint64]drained {
	t.Helper()

	out := map[uint64]drained{}
	for page := 0; page < b.PageCount(); page++ {
		err := b.DrainPage(page, func(node uint64, targets []uint64, properties [][]float64) error {
			d := drained{targets: append([]uint64(nil), targets...)}
			for _, column := range properties {
				d.properties = append(d.properties, append([]float64(nil), column...))
			}
			out[node] = d
			return nil
		})
		require.NoError(t, err)
	}
	return out
}

func TestBufferConfiguration(t *testing.T) {
	_, err := NewBuffer(10, -1, 0)
	assert.True(t, errors.Is(err, enterrors.ErrConfiguration))

	_, err = NewBuffer(10, 0, maxPageShift+1)
	assert.True(t, errors.Is(err, enterrors.ErrConfiguration))

	b, err := NewBuffer(10, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, b.PageCount())

	empty, err := NewBuffer(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.PageCount())
}

func TestBufferAdd(t *testing.T) {
	b, err := NewBuffer(20, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, b.PageCount())

	require.NoError(t, b.Add(0, 1, []float64{2}))
	require.NoError(t, b.Add(0, 1, []float64{1}))
	require.NoError(t, b.Add(19, 3, []float64{7}))

	err = b.Add(20, 1, []float64{1})
	assert.True(t, errors.Is(err, enterrors.ErrNodeNotFound))
	err = b.Add(1, 1, nil)
	assert.True(t, errors.Is(err, enterrors.ErrConfiguration))

	assert.Equal(t, uint64(3), b.EdgeCount())

	lists := drainAll(t, b)
	require.Len(t, lists, 2)
	assert.Equal(t, []uint64{1, 1}, lists[0].targets)
	assert.Equal(t, [][]float64{{2, 1}}, lists[0].properties)
	assert.Equal(t, []uint64{3}, lists[19].targets)
	assert.Equal(t, [][]float64{{7}}, lists[19].properties)

	t.Run("drained pages are released", func(t *testing.T) {
		assert.Empty(t, drainAll(t, b))
	})
}

func TestBufferAddBatch(t *testing.T) {
	b, err := NewBuffer(64, 0, 3)
	require.NoError(t, err)

	sources := []uint64{63, 0, 9, 0, 63, 17}
	targets := []uint64{1, 2, 3, 4, 5, 6}
	require.NoError(t, b.AddBatch(sources, targets, nil))
	assert.Equal(t, uint64(6), b.EdgeCount())

	lists := drainAll(t, b)
	assert.Equal(t, []uint64{2, 4}, lists[0].targets)
	assert.Equal(t, []uint64{3}, lists[9].targets)
	assert.Equal(t, []uint64{6}, lists[17].targets)
	assert.Equal(t, []uint64{1, 5}, lists[63].targets)

	t.Run("mismatched lengths", func(t *testing.T) {
		err := b.AddBatch([]uint64{1}, []uint64{1, 2}, nil)
		assert.True(t, errors.Is(err, enterrors.ErrConfiguration))
	})

	t.Run("invalid source rejects the whole batch", func(t *testing.T) {
		err := b.AddBatch([]uint64{1, 99}, []uint64{1, 2}, nil)
		assert.True(t, errors.Is(err, enterrors.ErrNodeNotFound))
		assert.Equal(t, uint64(6), b.EdgeCount())
	})
}

func TestBufferConcurrentWriters(t *testing.T) {
	nodeCount := uint64(1000)
	b, err := NewBuffer(nodeCount, 1, 4)
	require.NoError(t, err)

	workers := 8
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			var sources, targets []uint64
			var props [][]float64
			for source := uint64(0); source < nodeCount; source++ {
				if source%2 == 0 {
					if err := b.Add(source, uint64(w), []float64{float64(w)}); err != nil {
						panic(err)
					}
					continue
				}
				sources = append(sources, source)
				targets = append(targets, uint64(w))
				props = append(props, []float64{float64(w)})
			}
			if err := b.AddBatch(sources, targets, props); err != nil {
				panic(err)
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, nodeCount*uint64(workers), b.EdgeCount())

	lists := drainAll(t, b)
	require.Len(t, lists, int(nodeCount))
	for node, list := range lists {
		got := append([]uint64(nil), list.targets...)
		sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
		assert.Equal(t, []uint64{0, 1, 2, 3, 4, 5, 6, 7}, got, "node %d", node)
		for i, target := range list.targets {
			assert.Equal(t, float64(target), list.properties[0][i])
		}
	}
}
