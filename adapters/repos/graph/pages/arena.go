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

// Package pages hands out byte ranges from fixed-size pages. Every writing
// goroutine owns an Allocator that bumps a cursor through its current page;
// only fetching a fresh page touches the shared directory.
package pages

import (
	"sync"
	"sync/atomic"

	enterrors "github.com/weaviate/graphcore/entities/errors"
	"github.com/weaviate/graphcore/usecases/monitoring"
)

const DefaultPageSize = 256 * 1024

// Address locates a byte range inside a frozen arena.
type Address struct {
	PageID uint32
	Offset uint32
}

type Arena struct {
	pageSize int
	maxPages int
	metrics  *monitoring.PrometheusMetrics

	sync.Mutex // protects directory
	directory  [][]byte

	frozen    atomic.Bool
	allocated atomic.Int64
}

// NewArena creates an arena of pageSize byte pages. maxPages limits the
// directory, 0 means unlimited. metrics may be nil.
func NewArena(pageSize, maxPages int, metrics *monitoring.PrometheusMetrics) (*Arena, error) {
	if pageSize < 1 {
		return nil, enterrors.NewConfigurationError("page size must be positive, got %d", pageSize)
	}
	if maxPages < 0 {
		return nil, enterrors.NewConfigurationError("max pages must not be negative, got %d", maxPages)
	}
	return &Arena{
		pageSize: pageSize,
		maxPages: maxPages,
		metrics:  metrics,
	}, nil
}

func (a *Arena) PageSize() int {
	return a.pageSize
}

// NewAllocator returns an allocator for exclusive use by one goroutine.
func (a *Arena) NewAllocator() *Allocator {
	return &Allocator{arena: a}
}

// newPage appends a page of size bytes to the directory.
func (a *Arena) newPage(size int) (uint32, []byte, error) {
	if a.frozen.Load() {
		panic("pages: write to a frozen arena")
	}

	page := make([]byte, size)

	a.Lock()
	if a.maxPages > 0 && len(a.directory) >= a.maxPages {
		a.Unlock()
		return 0, nil, enterrors.NewAllocationFailure(
			"page directory is limited to %d pages", a.maxPages)
	}
	id := uint32(len(a.directory))
	a.directory = append(a.directory, page)
	a.Unlock()

	a.allocated.Add(int64(size))
	a.metrics.ArenaPageAllocated(size)
	return id, page, nil
}

// AllocatedBytes counts the bytes of all pages, used or not.
func (a *Arena) AllocatedBytes() int64 {
	return a.allocated.Load()
}

// IntoPages freezes the arena. It must only be called once every allocator
// has finished writing; any later write panics.
func (a *Arena) IntoPages() *Pages {
	if a.frozen.Swap(true) {
		panic("pages: arena frozen twice")
	}

	a.Lock()
	defer a.Unlock()
	directory := a.directory
	a.directory = nil
	return &Pages{pages: directory, pageSize: a.pageSize}
}

// Discard drops every page of an arena whose output is no longer wanted,
// for instance after a cancelled build. The arena counts as frozen.
func (a *Arena) Discard() {
	a.frozen.Store(true)

	a.Lock()
	a.directory = nil
	a.Unlock()

	a.metrics.ArenaReleased(a.allocated.Swap(0))
}

// Allocator is a bump allocator over pages of one arena. It is not safe for
// concurrent use.
type Allocator struct {
	arena    *Arena
	pageID   uint32
	page     []byte
	cursor   int
	released bool
}

// Write copies b into the arena and returns where it was placed. Requests
// larger than a page get a dedicated page of exactly their size.
func (al *Allocator) Write(b []byte) (Address, error) {
	if al.released {
		panic("pages: write through a released allocator")
	}

	if len(b) > al.arena.pageSize {
		id, page, err := al.arena.newPage(len(b))
		if err != nil {
			return Address{}, err
		}
		copy(page, b)
		return Address{PageID: id}, nil
	}

	if al.page == nil || al.cursor+len(b) > len(al.page) {
		id, page, err := al.arena.newPage(al.arena.pageSize)
		if err != nil {
			return Address{}, err
		}
		al.pageID, al.page, al.cursor = id, page, 0
	}

	if al.arena.frozen.Load() {
		panic("pages: write to a frozen arena")
	}

	addr := Address{PageID: al.pageID, Offset: uint32(al.cursor)}
	al.cursor += copy(al.page[al.cursor:], b)
	return addr, nil
}

// Release gives up the current page. The unused tail of it stays wasted.
func (al *Allocator) Release() {
	al.released = true
	al.page = nil
}

// Pages is a frozen, read-only arena. It is safe for concurrent readers.
type Pages struct {
	pages    [][]byte
	pageSize int
}

func (p *Pages) Len() int {
	return len(p.pages)
}

func (p *Pages) PageSize() int {
	return p.pageSize
}

// Slice returns length bytes at addr. The result must not be modified.
func (p *Pages) Slice(addr Address, length uint32) []byte {
	page := p.pages[addr.PageID]
	return page[addr.Offset : addr.Offset+length : addr.Offset+length]
}

// SizeInBytes counts all page bytes, including unused tails.
func (p *Pages) SizeInBytes() int64 {
	total := int64(0)
	for _, page := range p.pages {
		total += int64(len(page))
	}
	return total
}
