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

package projection

import "context"

// NodeRecord is a raw node as delivered by a record source. It is consumed
// once and not retained.
type NodeRecord struct {
	OriginalID uint64
	Labels     []string
	Properties map[string]float64
}

// RelationshipRecord is a raw relationship as delivered by a record source.
// Source and Target are original node ids.
type RelationshipRecord struct {
	Type       string
	Source     uint64
	Target     uint64
	Properties map[string]float64
}

// NodeCursor yields node records of one partition. Next returns false once
// the partition is exhausted.
type NodeCursor interface {
	Next(ctx context.Context) (NodeRecord, bool, error)
}

type RelationshipCursor interface {
	Next(ctx context.Context) (RelationshipRecord, bool, error)
}

// RecordSource is the external collaborator the importer pulls from. A
// source may return fewer partitions than requested.
type RecordSource interface {
	NodeCursors(partitions int) ([]NodeCursor, error)
	RelationshipCursors(partitions int) ([]RelationshipCursor, error)
}

// TerminationFlag is polled between batches.
type TerminationFlag interface {
	Running() bool
}

// AlwaysRunning never trips.
type AlwaysRunning struct{}

func (AlwaysRunning) Running() bool { return true }

// ContextFlag trips once the context is done.
type ContextFlag struct {
	Ctx context.Context
}

func (f ContextFlag) Running() bool {
	return f.Ctx.Err() == nil
}
