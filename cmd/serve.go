package cmd

import (
	"context"
	"log/slog"

	"github.com/zombiz/blitz/internal/config"
	"github.com/zombiz/blitz/internal/datastore"
	"github.com/zombiz/blitz/internal/server"
)

func (c *ServeCmd) Run() error {
	ctx := context.Background()

	// serving always works on the local database
	store := datastore.NewSQLiteStore(config.DatabaseFile)
	if err := store.Connect(ctx); err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.CreateTables(ctx); err != nil {
		return err
	}

	listen := c.Listen
	if listen == "" {
		listen = config.ServerListen
	}

	e := server.Build(store, server.Options{Token: config.ServerToken})
	slog.Info("Serving database", "dbfile", config.DatabaseFile, "listen", listen)
	return e.Start(listen)
}
