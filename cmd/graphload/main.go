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
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/graphcore/adapters/sources/csvsource"
	enterrors "github.com/weaviate/graphcore/entities/errors"
	"github.com/weaviate/graphcore/entities/projection"
	"github.com/weaviate/graphcore/usecases/catalog"
	"github.com/weaviate/graphcore/usecases/config"
	"github.com/weaviate/graphcore/usecases/graphload"
	"github.com/weaviate/graphcore/usecases/monitoring"
)

// Options represents command line options
type Options struct {
	Config        string `long:"config" description:"path to a .yaml or .json config file"`
	Nodes         string `long:"nodes" description:"CSV file with the header id,labels[,property...]" required:"true"`
	Relationships string `long:"relationships" description:"CSV file with the header source,target,type[,property...]"`
	Concurrency   int    `long:"concurrency" description:"number of scanning and compression goroutines, overrides the config"`
	Aggregation   string `long:"aggregation" description:"aggregation of parallel relationships: NONE, SINGLE, SUM, MIN, MAX or COUNT"`
	Orientation   string `long:"orientation" description:"NATURAL, REVERSE or UNDIRECTED"`
	User          string `long:"user" description:"catalog user" default:"default"`
	Name          string `long:"name" description:"catalog graph name" default:"graph"`
	LogLevel      string `long:"log-level" description:"trace, debug, info, warn or error" default:"info"`
	LogFormat     string `long:"log-format" description:"json or text" default:"json"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	logger := newLogger(opts.LogLevel, opts.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	enterrors.GoWrapper(func() {
		select {
		case <-ctx.Done():
			logger.WithField("action", "graph_load").Warn("interrupted, cancelling graph load")
		case <-done:
		}
	}, logger)

	err := run(ctx, opts, logger)
	close(done)
	if err != nil {
		logger.WithError(err).Error("graph load failed")
		stop()
		os.Exit(1)
	}
}

// newLogger defaults to level info and json format
func newLogger(level, format string) *logrus.Logger {
	logger := logrus.New()
	if format != "text" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

// loadConfig resolves defaults, file and environment, then applies flags.
func loadConfig(opts Options, logger logrus.FieldLogger) (config.Config, error) {
	cfg, err := config.Load(opts.Config, logger)
	if err != nil {
		return cfg, err
	}

	if opts.Concurrency > 0 {
		cfg.Concurrency = opts.Concurrency
	}
	if opts.Aggregation != "" {
		agg, err := projection.ParseAggregation(opts.Aggregation)
		if err != nil {
			return cfg, err
		}
		cfg.DefaultAggregation = agg
	}
	if opts.Orientation != "" {
		orientation, err := projection.ParseOrientation(opts.Orientation)
		if err != nil {
			return cfg, err
		}
		cfg.DefaultOrientation = orientation
	}

	return cfg, cfg.Validate()
}

// importOptions lists every relationship type of the source with the
// configured defaults and the property columns of the file.
func importOptions(src *csvsource.Source, cfg config.Config) graphload.ImportOptions {
	nodeProps := make([]projection.PropertySchema, 0, len(src.NodePropertyKeys()))
	for _, key := range src.NodePropertyKeys() {
		nodeProps = append(nodeProps, projection.PropertySchema{Key: key})
	}
	relProps := make([]projection.PropertySchema, 0, len(src.RelationshipPropertyKeys()))
	for _, key := range src.RelationshipPropertyKeys() {
		relProps = append(relProps, projection.PropertySchema{Key: key})
	}

	opts := graphload.ImportOptions{
		Nodes: graphload.NodesOptions{
			ExpectedCount: uint64(src.NodeCount()),
			Properties:    nodeProps,
		},
		ExpectedRelationshipCount: uint64(src.RelationshipCount()),
	}
	for _, relType := range src.RelationshipTypes() {
		opts.Relationships = append(opts.Relationships, graphload.RelationshipsOptions{
			Type:        relType,
			Orientation: cfg.DefaultOrientation,
			Aggregation: cfg.DefaultAggregation,
			Properties:  relProps,
		})
	}
	return opts
}

func run(ctx context.Context, opts Options, logger logrus.FieldLogger) error {
	cfg, err := loadConfig(opts, logger)
	if err != nil {
		return err
	}

	metrics, err := monitoring.NewPrometheusMetrics(prometheus.NewRegistry())
	if err != nil {
		return err
	}
	loader, err := graphload.New(cfg, logger, metrics)
	if err != nil {
		return err
	}

	src, err := csvsource.Open(opts.Nodes, opts.Relationships)
	if err != nil {
		return err
	}
	importOpts := importOptions(src, cfg)

	started := time.Now()
	g, err := loader.Import(ctx, src, importOpts)
	if err != nil {
		return err
	}

	entry, err := catalog.New(logger, metrics).Create(opts.User, opts.Name, g)
	if err != nil {
		return err
	}

	components, err := WeaklyConnectedComponents(logger, g, cfg.Concurrency)
	if err != nil {
		return err
	}

	estimate := graphload.EstimateMemory(g.NodeCount(), g.RelationshipCount(), cfg.Concurrency,
		projection.Schemas{Node: importOpts.Nodes.Properties, Relationship: relationshipSchemas(importOpts)})
	fields := logrus.Fields{
		"action":             "graph_load",
		"graph":              entry.Name,
		"id":                 entry.ID.String(),
		"nodes":              humanize.Comma(int64(g.NodeCount())),
		"relationships":      humanize.Comma(int64(g.RelationshipCount())),
		"relationship_types": g.RelationshipTypes(),
		"components":         components,
		"adjacency_bytes":    humanize.IBytes(uint64(g.AdjacencySizeInBytes())),
		"estimate":           estimate.String(),
		"took":               time.Since(started),
	}
	logger.WithFields(fields).Info("graph loaded")
	return nil
}

func relationshipSchemas(opts graphload.ImportOptions) []projection.PropertySchema {
	if len(opts.Relationships) == 0 {
		return nil
	}
	return opts.Relationships[0].Properties
}
