package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campusevent/campusevent-api/internal/infrastructure/db/mongo"
	"github.com/campusevent/campusevent-api/internal/pkg/config"
)

// NewIndexesCmd creates the indexes subcommand.
func NewIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes",
		Long: `Create the unique email and api_key indexes on users and the lookup
indexes on events. The server also does this on first connect; the command
exists for deployments that manage schema separately.`,
		RunE: runIndexes,
	}
}

func runIndexes(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	cmd.Println("Connecting to database...")
	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.ConnectTimeout,
	})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	cmd.Println("Creating indexes...")
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	cmd.Printf("Indexes ready on %s\n", db.Name())
	return nil
}
