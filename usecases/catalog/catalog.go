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

// Package catalog keeps built graphs addressable by user and name.
package catalog

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/graphcore/adapters/repos/graph/csr"
	enterrors "github.com/weaviate/graphcore/entities/errors"
	"github.com/weaviate/graphcore/usecases/monitoring"
)

var (
	ErrGraphExists   = errors.New("graph already exists")
	ErrGraphNotFound = errors.New("graph not found")
)

type key struct {
	user string
	name string
}

// Entry is a registered graph. Entries are never mutated.
type Entry struct {
	ID        uuid.UUID
	User      string
	Name      string
	Graph     *csr.Graph
	CreatedAt time.Time
}

// Catalog is safe for concurrent use.
type Catalog struct {
	logger  logrus.FieldLogger
	metrics *monitoring.PrometheusMetrics

	sync.RWMutex
	entries map[key]*Entry
}

// New creates an empty catalog. metrics may be nil.
func New(logger logrus.FieldLogger, metrics *monitoring.PrometheusMetrics) *Catalog {
	return &Catalog{
		logger:  logger.WithField("action", "graph_catalog"),
		metrics: metrics,
		entries: map[key]*Entry{},
	}
}

func (c *Catalog) Create(user, name string, graph *csr.Graph) (*Entry, error) {
	if name == "" {
		return nil, enterrors.NewConfigurationError("graph name must not be empty")
	}
	if graph == nil {
		return nil, enterrors.NewConfigurationError("graph %q is nil", name)
	}

	c.Lock()
	defer c.Unlock()

	k := key{user: user, name: name}
	if _, ok := c.entries[k]; ok {
		return nil, errors.Wrapf(ErrGraphExists, "user %q, graph %q", user, name)
	}

	entry := &Entry{
		ID:        uuid.New(),
		User:      user,
		Name:      name,
		Graph:     graph,
		CreatedAt: time.Now(),
	}
	c.entries[k] = entry
	c.metrics.SetCatalogGraphs(len(c.entries))

	c.logger.WithField("user", user).
		WithField("graph", name).
		WithField("id", entry.ID.String()).
		WithField("nodes", graph.NodeCount()).
		WithField("relationships", graph.RelationshipCount()).
		Debug("registered graph")
	return entry, nil
}

func (c *Catalog) Get(user, name string) (*Entry, error) {
	c.RLock()
	defer c.RUnlock()

	entry, ok := c.entries[key{user: user, name: name}]
	if !ok {
		return nil, errors.Wrapf(ErrGraphNotFound, "user %q, graph %q", user, name)
	}
	return entry, nil
}

// Remove unregisters a graph and returns its entry. Its arena bytes count
// as released.
func (c *Catalog) Remove(user, name string) (*Entry, error) {
	c.Lock()
	defer c.Unlock()

	k := key{user: user, name: name}
	entry, ok := c.entries[k]
	if !ok {
		return nil, errors.Wrapf(ErrGraphNotFound, "user %q, graph %q", user, name)
	}
	delete(c.entries, k)
	c.metrics.SetCatalogGraphs(len(c.entries))
	c.metrics.ArenaReleased(entry.Graph.AdjacencySizeInBytes())

	c.logger.WithField("user", user).
		WithField("graph", name).
		WithField("id", entry.ID.String()).
		Debug("removed graph")
	return entry, nil
}

// List returns the entries of user ordered by name.
func (c *Catalog) List(user string) []*Entry {
	c.RLock()
	defer c.RUnlock()

	var out []*Entry
	for k, entry := range c.entries {
		if k.user == user {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Drop removes every entry and returns how many there were.
func (c *Catalog) Drop() int {
	c.Lock()
	defer c.Unlock()

	dropped := len(c.entries)
	for _, entry := range c.entries {
		c.metrics.ArenaReleased(entry.Graph.AdjacencySizeInBytes())
	}
	clear(c.entries)
	c.metrics.SetCatalogGraphs(0)

	c.logger.WithField("graphs", dropped).Debug("dropped catalog")
	return dropped
}

func (c *Catalog) Len() int {
	c.RLock()
	defer c.RUnlock()
	return len(c.entries)
}
