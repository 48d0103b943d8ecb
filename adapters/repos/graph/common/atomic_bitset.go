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

package common

import "math/bits"

// AtomicBitset is a fixed-size bitset over an AtomicUint64Array. Every
// operation is safe for concurrent use.
type AtomicBitset struct {
	words *AtomicUint64Array
	size  uint64
}

// BitsetWordsPerPage is the page size of an AtomicBitset in 64 bit words.
const BitsetWordsPerPage = 1 << 12

func NewAtomicBitset(size uint64) *AtomicBitset {
	return &AtomicBitset{
		words: NewAtomicUint64Array((size+63)>>6, BitsetWordsPerPage),
		size:  size,
	}
}

func (b *AtomicBitset) Size() uint64 {
	return b.size
}

func (b *AtomicBitset) Get(i uint64) bool {
	return b.words.Load(i>>6)&(1<<(i&63)) != 0
}

// TestAndSet sets bit i and reports whether it was set before.
func (b *AtomicBitset) TestAndSet(i uint64) bool {
	w := i >> 6
	mask := uint64(1) << (i & 63)
	for {
		old := b.words.Load(w)
		if old&mask != 0 {
			return true
		}
		if b.words.CompareAndSwap(w, old, old|mask) {
			return false
		}
	}
}

func (b *AtomicBitset) Set(i uint64) {
	b.TestAndSet(i)
}

func (b *AtomicBitset) Clear(i uint64) {
	w := i >> 6
	mask := ^(uint64(1) << (i & 63))
	for {
		old := b.words.Load(w)
		if b.words.CompareAndSwap(w, old, old&mask) {
			return
		}
	}
}

// Resized returns a copy of the bitset holding size bits. Bits beyond the
// smaller of both sizes are clear. Concurrent writers must be excluded while
// copying.
func (b *AtomicBitset) Resized(size uint64) *AtomicBitset {
	out := NewAtomicBitset(size)
	words := min(b.words.Size(), out.words.Size())
	for w := uint64(0); w < words; w++ {
		if word := b.words.Load(w); word != 0 {
			out.words.Store(w, word)
		}
	}
	if size < b.size && size&63 != 0 && words > 0 {
		last := words - 1
		out.words.Store(last, out.words.Load(last)&(uint64(1)<<(size&63)-1))
	}
	return out
}

// Cardinality counts set bits. Not linearizable with concurrent writers.
func (b *AtomicBitset) Cardinality() uint64 {
	count := uint64(0)
	for w := uint64(0); w < b.words.Size(); w++ {
		count += uint64(bits.OnesCount64(b.words.Load(w)))
	}
	return count
}
