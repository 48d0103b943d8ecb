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

// Package batch stages raw records pulled from a record source before they
// are handed to an importer. A Buffer is owned by one goroutine.
package batch

import (
	enterrors "github.com/weaviate/graphcore/entities/errors"
)

type Buffer[T any] struct {
	records  []T
	capacity int
}

// New creates a buffer holding at most capacity records.
func New[T any](capacity int) (*Buffer[T], error) {
	if capacity < 1 {
		return nil, enterrors.NewConfigurationError("batch capacity must be positive, got %d", capacity)
	}
	return &Buffer[T]{
		records:  make([]T, 0, capacity),
		capacity: capacity,
	}, nil
}

// Offer stages record and reports whether there was room for it.
func (b *Buffer[T]) Offer(record T) bool {
	if len(b.records) >= b.capacity {
		return false
	}
	b.records = append(b.records, record)
	return true
}

func (b *Buffer[T]) IsFull() bool {
	return len(b.records) >= b.capacity
}

func (b *Buffer[T]) Len() int {
	return len(b.records)
}

func (b *Buffer[T]) Capacity() int {
	return b.capacity
}

// Drain hands the staged records to the caller and starts a fresh batch.
// The returned slice is not touched by the buffer afterwards.
func (b *Buffer[T]) Drain() []T {
	out := b.records
	b.records = make([]T, 0, b.capacity)
	return out
}

// Reset drops all staged records.
func (b *Buffer[T]) Reset() {
	clear(b.records)
	b.records = b.records[:0]
}
