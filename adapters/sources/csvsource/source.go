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

// Package csvsource reads node and relationship records from CSV files.
//
// The node file starts with the header "id,labels" followed by one column per
// numeric property. Labels are separated by ';'. The relationship file starts
// with "source,target,type" followed by one column per numeric property. An
// empty property cell leaves the property absent.
package csvsource

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/weaviate/graphcore/entities/projection"
)

var (
	nodeHeader         = []string{"id", "labels"}
	relationshipHeader = []string{"source", "target", "type"}
)

// Source holds the parsed records in memory and hands them out in
// contiguous partitions.
type Source struct {
	nodePropertyKeys         []string
	relationshipPropertyKeys []string
	relationshipTypes        []string

	nodes         []projection.NodeRecord
	relationships []projection.RelationshipRecord
}

// Open parses both files. relationshipsPath may be empty.
func Open(nodesPath, relationshipsPath string) (*Source, error) {
	s := &Source{}

	if err := readFile(nodesPath, func(r io.Reader) error { return s.readNodes(r) }); err != nil {
		return nil, errors.Wrapf(err, "read nodes from %s", nodesPath)
	}
	if relationshipsPath == "" {
		return s, nil
	}
	if err := readFile(relationshipsPath, func(r io.Reader) error { return s.readRelationships(r) }); err != nil {
		return nil, errors.Wrapf(err, "read relationships from %s", relationshipsPath)
	}
	return s, nil
}

func readFile(path string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(f)
}

// NewSource parses nodes and relationships from readers. relationships may
// be nil.
func NewSource(nodes, relationships io.Reader) (*Source, error) {
	s := &Source{}
	if err := s.readNodes(nodes); err != nil {
		return nil, errors.Wrap(err, "read nodes")
	}
	if relationships != nil {
		if err := s.readRelationships(relationships); err != nil {
			return nil, errors.Wrap(err, "read relationships")
		}
	}
	return s, nil
}

func (s *Source) NodePropertyKeys() []string {
	return s.nodePropertyKeys
}

func (s *Source) RelationshipPropertyKeys() []string {
	return s.relationshipPropertyKeys
}

// RelationshipTypes returns the distinct types in the file, sorted.
func (s *Source) RelationshipTypes() []string {
	return s.relationshipTypes
}

func (s *Source) NodeCount() int {
	return len(s.nodes)
}

func (s *Source) RelationshipCount() int {
	return len(s.relationships)
}

func readHeader(r *csv.Reader, fixed []string) ([]string, error) {
	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New("missing header")
		}
		return nil, err
	}
	if len(header) < len(fixed) {
		return nil, errors.Errorf("header must start with %s", strings.Join(fixed, ","))
	}
	for i, name := range fixed {
		if strings.TrimSpace(header[i]) != name {
			return nil, errors.Errorf("header column %d must be %q, got %q", i+1, name, header[i])
		}
	}

	keys := make([]string, 0, len(header)-len(fixed))
	for _, key := range header[len(fixed):] {
		keys = append(keys, strings.TrimSpace(key))
	}
	return keys, nil
}

func parseProperties(keys, cells []string, line int) (map[string]float64, error) {
	var props map[string]float64
	for i, cell := range cells {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: property %q", line, keys[i])
		}
		if props == nil {
			props = make(map[string]float64, len(keys))
		}
		props[keys[i]] = v
	}
	return props, nil
}

func parseID(cell string, line int, column string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(cell), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "line %d: %s", line, column)
	}
	return id, nil
}

func (s *Source) readNodes(in io.Reader) error {
	r := csv.NewReader(in)
	keys, err := readHeader(r, nodeHeader)
	if err != nil {
		return err
	}
	s.nodePropertyKeys = keys

	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		id, err := parseID(row[0], line, "id")
		if err != nil {
			return err
		}
		var labels []string
		for _, label := range strings.Split(row[1], ";") {
			if label = strings.TrimSpace(label); label != "" {
				labels = append(labels, label)
			}
		}
		props, err := parseProperties(keys, row[len(nodeHeader):], line)
		if err != nil {
			return err
		}

		s.nodes = append(s.nodes, projection.NodeRecord{
			OriginalID: id,
			Labels:     labels,
			Properties: props,
		})
	}
}

func (s *Source) readRelationships(in io.Reader) error {
	r := csv.NewReader(in)
	keys, err := readHeader(r, relationshipHeader)
	if err != nil {
		return err
	}
	s.relationshipPropertyKeys = keys

	types := map[string]struct{}{}
	defer func() {
		s.relationshipTypes = make([]string, 0, len(types))
		for t := range types {
			s.relationshipTypes = append(s.relationshipTypes, t)
		}
		sort.Strings(s.relationshipTypes)
	}()

	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		source, err := parseID(row[0], line, "source")
		if err != nil {
			return err
		}
		target, err := parseID(row[1], line, "target")
		if err != nil {
			return err
		}
		relType := strings.TrimSpace(row[2])
		if relType == "" {
			return errors.Errorf("line %d: empty relationship type", line)
		}
		props, err := parseProperties(keys, row[len(relationshipHeader):], line)
		if err != nil {
			return err
		}

		types[relType] = struct{}{}
		s.relationships = append(s.relationships, projection.RelationshipRecord{
			Type:       relType,
			Source:     source,
			Target:     target,
			Properties: props,
		})
	}
}

func (s *Source) NodeCursors(n int) ([]projection.NodeCursor, error) {
	chunks := split(s.nodes, n)
	out := make([]projection.NodeCursor, len(chunks))
	for i, chunk := range chunks {
		out[i] = &cursor[projection.NodeRecord]{records: chunk}
	}
	return out, nil
}

func (s *Source) RelationshipCursors(n int) ([]projection.RelationshipCursor, error) {
	chunks := split(s.relationships, n)
	out := make([]projection.RelationshipCursor, len(chunks))
	for i, chunk := range chunks {
		out[i] = &cursor[projection.RelationshipRecord]{records: chunk}
	}
	return out, nil
}

// split cuts records into at most n contiguous, non-empty chunks. It
// returns no chunk for no records.
func split[T any](records []T, n int) [][]T {
	n = max(min(n, len(records)), 0)
	out := make([][]T, 0, n)
	for i := 0; i < n; i++ {
		from := i * len(records) / n
		to := (i + 1) * len(records) / n
		out = append(out, records[from:to])
	}
	return out
}

type cursor[T any] struct {
	records []T
	pos     int
}

func (c *cursor[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if c.pos >= len(c.records) {
		return zero, false, nil
	}
	c.pos++
	return c.records[c.pos-1], true, nil
}
