// Package cli wires the dieselhub maintenance commands: index management,
// data seeding, health checks and version reporting.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/dieselhub/dieselhub/pkg/catalog"
	"github.com/dieselhub/dieselhub/pkg/config"
	"github.com/dieselhub/dieselhub/pkg/content"
	"github.com/dieselhub/dieselhub/pkg/health"
	"github.com/dieselhub/dieselhub/pkg/observability/logger"
	"github.com/dieselhub/dieselhub/pkg/store/mongodb"
	"github.com/dieselhub/dieselhub/pkg/store/s3"
	"github.com/dieselhub/dieselhub/pkg/version"
)

// UniqueIndexes are the authoritative uniqueness guards behind the
// repositories' advisory pre-write checks.
var UniqueIndexes = []mongodb.IndexSpec{
	{Collection: catalog.CollectionManufacturers, Keys: bson.D{{Key: "slug", Value: 1}}, Unique: true, Name: "uniq_slug"},
	{Collection: catalog.CollectionInjectors, Keys: bson.D{{Key: "slug", Value: 1}}, Unique: true, Name: "uniq_slug"},
	{Collection: catalog.CollectionInjectors, Keys: bson.D{{Key: "partNumber", Value: 1}}, Unique: true, Name: "uniq_part_number"},
	{Collection: content.CollectionPosts, Keys: bson.D{{Key: "slug", Value: 1}}, Unique: true, Name: "uniq_slug"},
}

// QueryIndexes back the repositories' hot read paths: the active-catalog
// listings and the published-content scans.
var QueryIndexes = []mongodb.IndexSpec{
	{Collection: catalog.CollectionManufacturers, Keys: bson.D{{Key: "active", Value: 1}, {Key: "sortOrder", Value: 1}}, Name: "active_sort_order"},
	{Collection: catalog.CollectionInjectors, Keys: bson.D{{Key: "manufacturerId", Value: 1}, {Key: "active", Value: 1}}, Name: "manufacturer_active"},
	{Collection: catalog.CollectionInjectors, Keys: bson.D{{Key: "active", Value: 1}, {Key: "name", Value: 1}}, Name: "active_name"},
	{Collection: content.CollectionPosts, Keys: bson.D{{Key: "status", Value: 1}, {Key: "publishedAt", Value: -1}}, Name: "status_published_at"},
	{Collection: content.CollectionWorks, Keys: bson.D{{Key: "status", Value: 1}, {Key: "publishedAt", Value: -1}}, Name: "status_published_at"},
	{Collection: content.CollectionWorks, Keys: bson.D{{Key: "technicianId", Value: 1}, {Key: "workDate", Value: -1}}, Name: "technician_work_date"},
}

// AllIndexes is what the indexes command creates.
func AllIndexes() []mongodb.IndexSpec {
	return append(append([]mongodb.IndexSpec{}, UniqueIndexes...), QueryIndexes...)
}

// NewRootCommand builds the dieselhub command tree.
func NewRootCommand() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "dieselhub",
		Short:         "DieselHub data layer tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config-file", "c", "", "config file path")

	load := func() (*config.Config, logger.Logger, error) {
		cfg, err := config.NewViperLoader(cfgPath, config.EnvPrefix).Load()
		if err != nil {
			return nil, nil, err
		}
		log, err := logger.NewZapLogger(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
		if err != nil {
			return nil, nil, err
		}
		return cfg, log, nil
	}

	root.AddCommand(
		newVersionCommand(),
		newHealthCommand(load),
		newIndexesCommand(load),
		newSeedCommand(load),
	)
	return root
}

// Execute runs the CLI with signal-aware cancellation.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type configLoader func() (*config.Config, logger.Logger, error)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build metadata",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Current("dieselhub").String())
		},
	}
}

func newHealthCommand(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the configured storage backends are reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			adapter, err := connectMongo(cfg, log)
			if err != nil {
				return err
			}
			defer adapter.Close()

			registry := health.NewRegistry(cfg.Mongo.OperationTimeout)
			registry.Register("mongo", adapter)
			if cfg.S3.Bucket != "" {
				blobs, err := s3.NewAdapter(s3.Config{
					Bucket:           cfg.S3.Bucket,
					Region:           cfg.S3.Region,
					Endpoint:         cfg.S3.Endpoint,
					AccessKeyID:      cfg.S3.AccessKeyID,
					SecretAccessKey:  cfg.S3.SecretAccessKey,
					UsePathStyle:     cfg.S3.UsePathStyle,
					PublicBaseURL:    cfg.S3.PublicBaseURL,
					OperationTimeout: cfg.S3.OperationTimeout,
				}, log)
				if err != nil {
					return err
				}
				registry.Register("s3", blobs)
			}

			results, healthy := registry.CheckAll(cmd.Context())
			for _, result := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s", result.Name, result.Status)
				if result.Error != "" {
					fmt.Fprintf(cmd.OutOrStdout(), " (%s)", result.Error)
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}
			if !healthy {
				return errors.New("one or more backends are unhealthy")
			}
			return nil
		},
	}
}

func newIndexesCommand(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the unique indexes the repositories rely on",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			adapter, err := connectMongo(cfg, log)
			if err != nil {
				return err
			}
			defer adapter.Close()

			specs := AllIndexes()
			if err := adapter.EnsureIndexes(cmd.Context(), specs); err != nil {
				return err
			}
			log.Info("indexes ensured", "count", len(specs))
			return nil
		},
	}
}

func connectMongo(cfg *config.Config, log logger.Logger) (*mongodb.Adapter, error) {
	return mongodb.NewAdapter(mongodb.Config{
		URI:              cfg.Mongo.URI,
		Database:         cfg.Mongo.Database,
		ConnectTimeout:   cfg.Mongo.ConnectTimeout,
		OperationTimeout: cfg.Mongo.OperationTimeout,
	}, log)
}
