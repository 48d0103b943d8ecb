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

package main

import (
	"github.com/sirupsen/logrus"

	"github.com/weaviate/graphcore/adapters/repos/graph/csr"
	"github.com/weaviate/graphcore/adapters/repos/graph/unionfind"
	enterrors "github.com/weaviate/graphcore/entities/errors"
)

// WeaklyConnectedComponents counts the components of g, ignoring the
// direction and the type of relationships. Each of workers goroutines
// unions the relationships of one contiguous range of source nodes.
func WeaklyConnectedComponents(logger logrus.FieldLogger, g *csr.Graph, workers int) (uint64, error) {
	nodeCount := g.NodeCount()
	sets := unionfind.New(nodeCount)
	if nodeCount == 0 {
		return 0, nil
	}

	workers = int(min(uint64(max(workers, 1)), nodeCount))
	chunk := (nodeCount + uint64(workers) - 1) / uint64(workers)
	relTypes := g.RelationshipTypes()

	eg := enterrors.NewErrorGroupWrapper(logger, "action", "graph_components")
	for start := uint64(0); start < nodeCount; start += chunk {
		end := min(start+chunk, nodeCount)
		eg.Go(func() error {
			for _, relType := range relTypes {
				topology, _ := g.Topology(relType)
				for node := start; node < end; node++ {
					topology.ForEachRelationship(node, func(target uint64, _ []float64) bool {
						sets.Union(node, target)
						return true
					})
				}
			}
			return nil
		}, "start", start, "end", end)
	}
	if err := eg.Wait(); err != nil {
		return 0, err
	}
	return sets.SetCount(), nil
}
