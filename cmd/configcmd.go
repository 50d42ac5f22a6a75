package cmd

import (
	"context"
	"fmt"

	"github.com/zombiz/blitz/internal/datastore"
)

func (c *ConfigGetCmd) Run() error {
	ctx := context.Background()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	value, ok, err := datastore.NewService(store).GetConfig(ctx, c.Key)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no configuration value for key %q", c.Key)
	}

	fmt.Println(value)
	return nil
}

func (c *ConfigSetCmd) Run() error {
	ctx := context.Background()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return datastore.NewService(store).SetConfig(ctx, c.Key, c.Value)
}
