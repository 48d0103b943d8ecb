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

import (
	"math/bits"
	"sync/atomic"
)

// AtomicUint64Array is a fixed-capacity array of uint64 whose elements are
// only accessed atomically. Pages are allocated lazily; the first writer to a
// page installs it with a compare-and-swap and losers adopt the winner's page.
type AtomicUint64Array struct {
	pages     []atomic.Pointer[[]uint64]
	pageShift uint
	pageMask  uint64
	size      uint64
}

func NewAtomicUint64Array(size uint64, pageSize int) *AtomicUint64Array {
	if pageSize < 1 {
		pageSize = 1
	}
	shift := uint(bits.Len64(uint64(pageSize - 1)))
	pageCount := uint64(0)
	if size > 0 {
		pageCount = ((size - 1) >> shift) + 1
	}
	return &AtomicUint64Array{
		pages:     make([]atomic.Pointer[[]uint64], pageCount),
		pageShift: shift,
		pageMask:  (uint64(1) << shift) - 1,
		size:      size,
	}
}

func (a *AtomicUint64Array) Size() uint64 {
	return a.size
}

func (a *AtomicUint64Array) slot(id uint64) *uint64 {
	if id >= a.size {
		panic("atomic array index out of range")
	}
	ref := &a.pages[id>>a.pageShift]
	page := ref.Load()
	if page == nil {
		fresh := make([]uint64, 1<<a.pageShift)
		if ref.CompareAndSwap(nil, &fresh) {
			page = &fresh
		} else {
			page = ref.Load()
		}
	}
	return &(*page)[id&a.pageMask]
}

// Load returns 0 for elements on pages nobody has written to yet.
func (a *AtomicUint64Array) Load(id uint64) uint64 {
	if id >= a.size {
		panic("atomic array index out of range")
	}
	page := a.pages[id>>a.pageShift].Load()
	if page == nil {
		return 0
	}
	return atomic.LoadUint64(&(*page)[id&a.pageMask])
}

func (a *AtomicUint64Array) Store(id, value uint64) {
	atomic.StoreUint64(a.slot(id), value)
}

func (a *AtomicUint64Array) CompareAndSwap(id, old, value uint64) bool {
	return atomic.CompareAndSwapUint64(a.slot(id), old, value)
}

func (a *AtomicUint64Array) Add(id, delta uint64) uint64 {
	return atomic.AddUint64(a.slot(id), delta)
}
