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

package graphload

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/dustin/go-humanize"

	"github.com/weaviate/graphcore/adapters/repos/graph/pages"
	"github.com/weaviate/graphcore/entities/projection"
	"github.com/weaviate/graphcore/usecases/config"
)

// MemoryRange is a lower and upper bound in bytes.
type MemoryRange struct {
	Min uint64
	Max uint64
}

func (r MemoryRange) String() string {
	return fmt.Sprintf("[%s ... %s]", humanize.IBytes(r.Min), humanize.IBytes(r.Max))
}

func (r MemoryRange) add(o MemoryRange) MemoryRange {
	return MemoryRange{Min: addSat(r.Min, o.Min), Max: addSat(r.Max, o.Max)}
}

func addSat(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

func mulSat(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

const (
	// per node: inverse id table plus forward table or shard map entry
	idMapMinBytes = 16
	idMapMaxBytes = 48
	// per node and type: degree/offset table entry
	offsetEntryBytes = 16
	// per accumulated relationship: target id, appended slices grow by
	// up to a factor of two
	accumulatedTargetBytes = 8
	// compressed target: one to ten uvarint bytes
	compressedTargetMinBytes = 1
	compressedTargetMaxBytes = 10
	propertyBytes            = 8
	// rough size of one staged record in a batch
	stagedRecordBytes = 64
)

// EstimateMemory bounds the memory needed to build a graph of nodeCount
// nodes and relationshipCount relationships with the given concurrency. It
// is non-decreasing in every argument.
func EstimateMemory(nodeCount, relationshipCount uint64, concurrency int, schemas projection.Schemas) MemoryRange {
	workers := uint64(max(concurrency, 1))
	nodeProps := uint64(len(schemas.Node))
	relProps := uint64(len(schemas.Relationship))

	var total MemoryRange

	total = total.add(MemoryRange{
		Min: mulSat(nodeCount, idMapMinBytes),
		Max: mulSat(nodeCount, idMapMaxBytes),
	})

	// property columns plus one presence bit per value
	columns := addSat(mulSat(mulSat(nodeCount, nodeProps), propertyBytes), mulSat(nodeCount, nodeProps)/8)
	total = total.add(MemoryRange{Min: columns, Max: columns})

	offsets := mulSat(nodeCount, offsetEntryBytes)
	total = total.add(MemoryRange{Min: offsets, Max: offsets})

	perRelationship := addSat(accumulatedTargetBytes, mulSat(relProps, propertyBytes))
	accumulated := mulSat(relationshipCount, perRelationship)
	total = total.add(MemoryRange{Min: accumulated, Max: mulSat(accumulated, 2)})

	encodedProps := mulSat(relProps, propertyBytes)
	total = total.add(MemoryRange{
		Min: mulSat(relationshipCount, addSat(compressedTargetMinBytes, encodedProps)),
		Max: mulSat(relationshipCount, addSat(compressedTargetMaxBytes, encodedProps)),
	})

	// every worker keeps one open arena page and up to two staged batches
	perWorker := addSat(pages.DefaultPageSize, mulSat(2*config.DefaultBatchSize, stagedRecordBytes))
	total = total.add(MemoryRange{Min: 0, Max: mulSat(workers, perWorker)})
	if relationshipCount > 0 {
		total = total.add(MemoryRange{Min: pages.DefaultPageSize})
	}

	return total
}
