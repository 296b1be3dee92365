package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/aerial/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the config template to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	r.logger.Info("creating config file from template", "path", configPath)
	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	lines := []string{
		fmt.Sprintf("✓ Config file written to %s", configPath),
		"Next steps:",
		"1. Set credentials.spotify.client_id and client_secret (or AERIAL_SPOTIFY_CLIENT_ID / AERIAL_SPOTIFY_CLIENT_SECRET)",
		fmt.Sprintf("2. Register http://localhost:%d/callback as a redirect URI for the app", r.config.Server.Port),
		"3. Run 'aerial music auth'",
	}
	for _, line := range lines {
		if err := r.writePlainln("%s", line); err != nil {
			return err
		}
	}
	return nil
}

// SetupDatabase initializes the sqlite token cache and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := shared.ExpandHome(r.config.Cache.Path)
	if r.config.Cache.Backend != "sqlite" {
		r.logger.Warn("cache backend is not sqlite, the database will not be used", "backend", r.config.Cache.Backend)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	r.logger.Info("initializing database", "path", path)
	db, err := shared.OpenMigrated(path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", path)
	return r.success("✓ Token database ready at %s", path)
}
