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

// Package byte_operations provides a cursor to (un-) marshal adjacency
// values from or into a pre-sized buffer
package byte_operations

import (
	"encoding/binary"
	"math"
)

const (
	uint32Len  = 4
	uint64Len  = 8
	float64Len = 8
)

type ByteOperations struct {
	Position uint64
	Buffer   []byte
}

// UvarintLen is the number of bytes WriteUvarint uses for value.
func UvarintLen(value uint64) int {
	n := 1
	for value >= 0x80 {
		value >>= 7
		n++
	}
	return n
}

func (bo *ByteOperations) Remaining() int {
	return len(bo.Buffer) - int(bo.Position)
}

func (bo *ByteOperations) WriteUvarint(value uint64) {
	bo.Position += uint64(binary.PutUvarint(bo.Buffer[bo.Position:], value))
}

// ReadUvarint panics on a truncated or overlong value, the buffer is always
// produced by WriteUvarint.
func (bo *ByteOperations) ReadUvarint() uint64 {
	value, n := binary.Uvarint(bo.Buffer[bo.Position:])
	if n <= 0 {
		panic("byte_operations: malformed uvarint")
	}
	bo.Position += uint64(n)
	return value
}

func (bo *ByteOperations) WriteFloat64(value float64) {
	bo.WriteUint64(math.Float64bits(value))
}

func (bo *ByteOperations) ReadFloat64() float64 {
	return math.Float64frombits(bo.ReadUint64())
}

func (bo *ByteOperations) ReadUint64() uint64 {
	bo.Position += uint64Len
	return binary.LittleEndian.Uint64(bo.Buffer[bo.Position-uint64Len : bo.Position])
}

func (bo *ByteOperations) ReadUint32() uint32 {
	bo.Position += uint32Len
	return binary.LittleEndian.Uint32(bo.Buffer[bo.Position-uint32Len : bo.Position])
}

func (bo *ByteOperations) WriteUint64(value uint64) {
	bo.Position += uint64Len
	binary.LittleEndian.PutUint64(bo.Buffer[bo.Position-uint64Len:bo.Position], value)
}

func (bo *ByteOperations) WriteUint32(value uint32) {
	bo.Position += uint32Len
	binary.LittleEndian.PutUint32(bo.Buffer[bo.Position-uint32Len:bo.Position], value)
}

func (bo *ByteOperations) MoveBufferPositionForward(length uint64) {
	bo.Position += length
}

func (bo *ByteOperations) MoveBufferToAbsolutePosition(pos uint64) {
	bo.Position = pos
}
