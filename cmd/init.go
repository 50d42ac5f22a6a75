package cmd

import (
	"context"
	"log/slog"

	"github.com/zombiz/blitz/internal/config"
	"github.com/zombiz/blitz/internal/datastore"
)

func (c *InitCmd) Run() error {
	ctx := context.Background()

	store := datastore.NewSQLiteStore(config.DatabaseFile)
	if err := store.Connect(ctx); err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.CreateTables(ctx); err != nil {
		return err
	}
	slog.Info("Database initialized", "dbfile", config.DatabaseFile)

	if c.Fixtures {
		if err := datastore.NewService(store).LoadFixtures(ctx); err != nil {
			return err
		}
		slog.Info("Fixture data loaded")
	}
	return nil
}
