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

package idmap

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	enterrors "github.com/weaviate/graphcore/entities/errors"
	"github.com/weaviate/graphcore/entities/projection"
)

func builders(maxID uint64) map[string]func() Builder {
	return map[string]func() Builder{
		"bounded": func() Builder { return NewBounded(maxID) },
		"sharded": func() Builder { return NewSharded(0, 16) },
	}
}

// assertBijection checks that the mapping covers exactly [0, nodeCount) and
// that both directions agree.
func assertBijection(t *testing.T, m *Mapping, originals map[uint64]struct{}) {
	t.Helper()

	require.Equal(t, uint64(len(originals)), m.NodeCount())
	seen := make(map[uint64]struct{}, len(originals))
	for original := range originals {
		internal, ok := m.ToInternal(original)
		require.True(t, ok, "original id %d not mapped", original)
		require.Less(t, internal, m.NodeCount())
		require.Equal(t, original, m.ToOriginal(internal))
		_, dup := seen[internal]
		require.False(t, dup, "internal id %d handed out twice", internal)
		seen[internal] = struct{}{}
	}
}

func TestBuildersSequential(t *testing.T) {
	for name, newBuilder := range builders(100) {
		t.Run(name, func(t *testing.T) {
			b := newBuilder()

			first, inserted, err := b.Assign(42)
			require.Nil(t, err)
			assert.True(t, inserted)
			assert.Equal(t, uint64(0), first)

			again, inserted, err := b.Assign(42)
			require.Nil(t, err)
			assert.False(t, inserted)
			assert.Equal(t, first, again)

			second, _, err := b.Assign(7)
			require.Nil(t, err)
			assert.Equal(t, uint64(1), second)
			assert.Equal(t, uint64(2), b.Size())

			m := b.Build()
			assertBijection(t, m, map[uint64]struct{}{42: {}, 7: {}})
			assert.Equal(t, uint64(42), m.HighestOriginalID())

			_, ok := m.ToInternal(8)
			assert.False(t, ok)
			assert.Panics(t, func() { m.ToOriginal(2) })

			var visited []uint64
			m.ForEach(func(internal, original uint64) bool {
				visited = append(visited, original)
				return true
			})
			assert.Equal(t, []uint64{42, 7}, visited)
		})
	}
}

func TestBuildersConcurrent(t *testing.T) {
	const maxID = 50_000

	originals := map[uint64]struct{}{}
	ids := make([]uint64, 0, 20_000)
	for len(ids) < 20_000 {
		id := uint64(rand.Int63n(maxID + 1))
		originals[id] = struct{}{}
		ids = append(ids, id)
	}

	for name, newBuilder := range builders(maxID) {
		t.Run(name, func(t *testing.T) {
			b := newBuilder()

			var inserts sync.Map
			var wg sync.WaitGroup
			for w := 0; w < 8; w++ {
				wg.Add(1)
				go func(w int) {
					defer wg.Done()
					// every worker assigns every id, in its own order
					order := rand.New(rand.NewSource(int64(w))).Perm(len(ids))
					for _, pos := range order {
						internal, inserted, err := b.Assign(ids[pos])
						if err != nil {
							t.Error(err)
							return
						}
						if inserted {
							if _, loaded := inserts.LoadOrStore(ids[pos], internal); loaded {
								t.Errorf("id %d inserted twice", ids[pos])
							}
						}
					}
				}(w)
			}
			wg.Wait()

			assertBijection(t, b.Build(), originals)
		})
	}
}

func TestCapacityExceeded(t *testing.T) {
	t.Run("bounded rejects ids above the maximum", func(t *testing.T) {
		b := NewBounded(9)
		_, _, err := b.Assign(9)
		require.Nil(t, err)

		_, _, err = b.Assign(20)
		assert.ErrorIs(t, err, enterrors.ErrCapacityExceeded)

		m := b.Build()
		_, ok := m.ToInternal(20)
		assert.False(t, ok)
	})

	t.Run("sharded rejects too many distinct ids", func(t *testing.T) {
		b := NewSharded(3, 4)
		for _, id := range []uint64{100, 200, 300, 100} {
			_, _, err := b.Assign(id)
			require.Nil(t, err)
		}
		_, _, err := b.Assign(400)
		assert.ErrorIs(t, err, enterrors.ErrCapacityExceeded)
		assert.Equal(t, uint64(3), b.Size())

		assertBijection(t, b.Build(), map[uint64]struct{}{100: {}, 200: {}, 300: {}})
	})
}

func TestNewPicksMapper(t *testing.T) {
	small := uint64(9)
	largest := uint64(MaxBoundedOriginalID)
	tooLarge := uint64(MaxBoundedOriginalID) + 1
	top := uint64(math.MaxUint64)

	assert.IsType(t, &Sharded{}, New(nil, 0, 4))
	assert.IsType(t, &Bounded{}, New(&small, 0, 4))
	assert.IsType(t, &Bounded{}, New(&largest, 0, 4))
	assert.IsType(t, &Sharded{}, New(&tooLarge, 0, 4))
	assert.IsType(t, &Sharded{}, New(&top, 0, 4))

	assert.Panics(t, func() { NewBounded(tooLarge) })
}

func TestLargeMaxOriginalID(t *testing.T) {
	t.Run("full id space", func(t *testing.T) {
		top := uint64(math.MaxUint64)
		b := New(&top, 0, 4)
		for _, id := range []uint64{5, math.MaxUint64, 1 << 40} {
			_, inserted, err := b.Assign(id)
			require.NoError(t, err)
			assert.True(t, inserted)
		}
		assertBijection(t, b.Build(), map[uint64]struct{}{5: {}, math.MaxUint64: {}, 1 << 40: {}})
	})

	t.Run("maximum above the bounded range", func(t *testing.T) {
		maxID := uint64(1 << 40)
		b := New(&maxID, 0, 4)
		_, _, err := b.Assign(maxID)
		require.NoError(t, err)

		_, _, err = b.Assign(maxID + 1)
		assert.ErrorIs(t, err, enterrors.ErrCapacityExceeded)
		assert.Equal(t, uint64(1), b.Size())
	})
}

func TestOverheadBytes(t *testing.T) {
	small := uint64(9)
	largest := uint64(MaxBoundedOriginalID)
	top := uint64(math.MaxUint64)

	assert.Equal(t, uint64(0), OverheadBytes(nil))
	assert.Equal(t, uint64(0), OverheadBytes(&top))
	// one page pointer each for forward, inverse and the seen bitset
	assert.Equal(t, uint64(24), OverheadBytes(&small))
	// 2^18 table pages twice plus 2^14 bitset pages
	assert.Equal(t, uint64(8*(2<<18+1<<14)), OverheadBytes(&largest))
}

func TestLabelIndex(t *testing.T) {
	tokens := projection.NewTokenRegistry()
	b := NewLabelIndexBuilder(tokens)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := uint64(w); i < 1000; i += 4 {
				labels := []string{"Node"}
				if i%2 == 0 {
					labels = append(labels, "Even")
				}
				b.Add(i, labels)
			}
		}(w)
	}
	wg.Wait()

	idx := b.Build()
	assert.Equal(t, []string{"Even", "Node"}, idx.Labels())
	assert.Equal(t, 1000, idx.Count("Node"))
	assert.Equal(t, 500, idx.Count("Even"))
	assert.True(t, idx.HasLabel(4, "Even"))
	assert.False(t, idx.HasLabel(5, "Even"))
	assert.False(t, idx.HasLabel(5, "Missing"))
	assert.Equal(t, 0, idx.Count("Missing"))
	assert.Nil(t, idx.Nodes("Missing"))

	even := idx.Nodes("Even")
	require.Len(t, even, 500)
	assert.Equal(t, uint64(0), even[0])
	assert.Equal(t, uint64(998), even[499])
}
