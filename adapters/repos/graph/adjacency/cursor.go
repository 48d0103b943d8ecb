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
	byteops "github.com/weaviate/graphcore/usecases/byte_operations"
)

// Cursor decodes the relationships of one node. It only reads the
// underlying bytes, any number of cursors may share them.
type Cursor struct {
	bo            byteops.ByteOperations
	degree        uint32
	propertyCount int
	propertyBase  uint64

	index  uint32
	target uint64
}

func NewCursor(data []byte, degree uint32, propertyCount int) *Cursor {
	c := &Cursor{}
	c.Init(data, degree, propertyCount)
	return c
}

// Init points the cursor at another node's bytes.
func (c *Cursor) Init(data []byte, degree uint32, propertyCount int) {
	c.bo = byteops.ByteOperations{Buffer: data}
	c.degree = degree
	c.propertyCount = propertyCount
	c.propertyBase = uint64(len(data)) - uint64(degree)*uint64(propertyCount)*float64Len
	c.Reset()
}

// Reset restarts decoding at the first relationship.
func (c *Cursor) Reset() {
	c.bo.MoveBufferToAbsolutePosition(0)
	c.index = 0
	c.target = 0
}

func (c *Cursor) Degree() uint32 {
	return c.degree
}

func (c *Cursor) Remaining() uint32 {
	return c.degree - c.index
}

// Next advances to the following relationship and reports whether there
// was one.
func (c *Cursor) Next() bool {
	if c.index >= c.degree {
		return false
	}
	c.target += c.bo.ReadUvarint()
	c.index++
	return true
}

// Target is the target of the current relationship.
func (c *Cursor) Target() uint64 {
	return c.target
}

// Property returns column k of the current relationship.
func (c *Cursor) Property(k int) float64 {
	pos := c.propertyBase + (uint64(k)*uint64(c.degree)+uint64(c.index-1))*float64Len
	reader := byteops.ByteOperations{Buffer: c.bo.Buffer, Position: pos}
	return reader.ReadFloat64()
}

// Decode materializes all relationships of one node.
func Decode(data []byte, degree uint32, propertyCount int) ([]uint64, [][]float64) {
	c := NewCursor(data, degree, propertyCount)
	targets := make([]uint64, 0, degree)
	properties := make([][]float64, propertyCount)
	for k := range properties {
		properties[k] = make([]float64, 0, degree)
	}
	for c.Next() {
		targets = append(targets, c.Target())
		for k := range properties {
			properties[k] = append(properties[k], c.Property(k))
		}
	}
	return targets, properties
}
