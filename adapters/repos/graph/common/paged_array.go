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

// PagedArray is a sparse array split into fixed-size pages that are only
// allocated when an index within them is written. It is not synchronized;
// callers coordinate access, typically with ShardedRWLocks or by giving each
// goroutine a disjoint index range.
type PagedArray[T any] struct {
	pages     [][]T
	pageShift uint
	pageMask  uint64
}

// NewPagedArray creates an array with room for pages pages in its directory.
// pageSize is rounded up to the next power of two.
func NewPagedArray[T any](pages, pageSize int) *PagedArray[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	shift := uint(bits.Len64(uint64(pageSize - 1)))
	return &PagedArray[T]{
		pages:     make([][]T, pages),
		pageShift: shift,
		pageMask:  (uint64(1) << shift) - 1,
	}
}

// NewPagedArrayFor creates an array whose directory can address size
// elements without growing.
func NewPagedArrayFor[T any](size uint64, pageSize int) *PagedArray[T] {
	arr := NewPagedArray[T](0, pageSize)
	arr.Grow(size)
	return arr
}

func (p *PagedArray[T]) PageSize() int {
	return 1 << p.pageShift
}

// Cap is the number of elements backed by allocated pages.
func (p *PagedArray[T]) Cap() int {
	allocated := 0
	for _, page := range p.pages {
		if page != nil {
			allocated++
		}
	}
	return allocated << p.pageShift
}

func (p *PagedArray[T]) pageFor(id uint64) (int, int) {
	return int(id >> p.pageShift), int(id & p.pageMask)
}

// Grow extends the directory so that index size-1 is addressable.
func (p *PagedArray[T]) Grow(size uint64) {
	if size == 0 {
		return
	}
	needed := int((size-1)>>p.pageShift) + 1
	if needed <= len(p.pages) {
		return
	}
	grown := make([][]T, needed)
	copy(grown, p.pages)
	p.pages = grown
}

// HasPageFor reports whether the page holding id is allocated.
func (p *PagedArray[T]) HasPageFor(id uint64) bool {
	page, _ := p.pageFor(id)
	return page < len(p.pages) && p.pages[page] != nil
}

// AllocPageFor makes sure the page holding id exists.
func (p *PagedArray[T]) AllocPageFor(id uint64) {
	page, _ := p.pageFor(id)
	if page >= len(p.pages) {
		p.Grow(id + 1)
	}
	if p.pages[page] == nil {
		p.pages[page] = make([]T, 1<<p.pageShift)
	}
}

// AllocAll allocates every page in the directory.
func (p *PagedArray[T]) AllocAll() {
	for i := range p.pages {
		if p.pages[i] == nil {
			p.pages[i] = make([]T, 1<<p.pageShift)
		}
	}
}

// Get returns the zero value for indexes on unallocated pages.
func (p *PagedArray[T]) Get(id uint64) T {
	page, slot := p.pageFor(id)
	if page >= len(p.pages) || p.pages[page] == nil {
		var zero T
		return zero
	}
	return p.pages[page][slot]
}

// Set allocates the page of id if required.
func (p *PagedArray[T]) Set(id uint64, value T) {
	page, slot := p.pageFor(id)
	if page >= len(p.pages) || p.pages[page] == nil {
		p.AllocPageFor(id)
	}
	p.pages[page][slot] = value
}

// Ref returns a pointer to the slot of id, allocating its page if needed.
// The directory must already cover id when callers share the array.
func (p *PagedArray[T]) Ref(id uint64) *T {
	page, slot := p.pageFor(id)
	if page >= len(p.pages) || p.pages[page] == nil {
		p.AllocPageFor(id)
	}
	return &p.pages[page][slot]
}

// Release drops the page holding id.
func (p *PagedArray[T]) Release(id uint64) {
	page, _ := p.pageFor(id)
	if page < len(p.pages) {
		p.pages[page] = nil
	}
}

// Reset zeroes all allocated pages but keeps them.
func (p *PagedArray[T]) Reset() {
	var zero T
	for _, page := range p.pages {
		for i := range page {
			page[i] = zero
		}
	}
}

// Page exposes the page holding id, or nil.
func (p *PagedArray[T]) Page(id uint64) []T {
	page, _ := p.pageFor(id)
	if page >= len(p.pages) {
		return nil
	}
	return p.pages[page]
}
