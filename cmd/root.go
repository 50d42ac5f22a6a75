package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/zombiz/blitz/internal/config"
	"github.com/zombiz/blitz/internal/datastore"
)

// CLI represents the complete command structure for the blitz application
type CLI struct {
	// Global flags
	DBFile string `name:"dbfile" help:"Path to the SQLite database file" default:"./blitz.db"`
	Server string `help:"Base URL of a remote data server; when set, commands run against it instead of the local database"`
	Token  string `help:"Bearer token for the remote data server"`

	Init     InitCmd     `cmd:"" help:"Create the database and its tables"`
	Serve    ServeCmd    `cmd:"" help:"Serve the local database over HTTP"`
	Sessions SessionsCmd `cmd:"" help:"List logging sessions"`
	Export   ExportCmd   `cmd:"" help:"Export a session's readings to JSON"`
	Config   ConfigCmd   `cmd:"" help:"Read and write persisted configuration values"`
}

// InitCmd represents the init command
type InitCmd struct {
	Fixtures bool `help:"Seed the new database with fixture data"`
}

// ServeCmd represents the serve command
type ServeCmd struct {
	Listen string `short:"l" help:"Address to listen on (defaults to ServerListen from config)"`
}

// SessionsCmd represents the sessions command
type SessionsCmd struct{}

// ExportCmd represents the export command
type ExportCmd struct {
	Session   int64  `short:"s" help:"Session id to export" required:""`
	Chain     string `short:"c" help:"Path to a YAML transform chain applied before export"`
	Output    string `short:"o" help:"Output directory for the JSON file" default:"./exports"`
	Overwrite bool   `help:"Overwrite an existing export file"`
}

// ConfigCmd represents the config command and its subcommands
type ConfigCmd struct {
	Get ConfigGetCmd `cmd:"" help:"Print one persisted configuration value"`
	Set ConfigSetCmd `cmd:"" help:"Persist a configuration value"`
}

// ConfigGetCmd prints a persisted configuration value
type ConfigGetCmd struct {
	Key string `arg:"" help:"Configuration key"`
}

// ConfigSetCmd persists a configuration value
type ConfigSetCmd struct {
	Key   string `arg:"" help:"Configuration key"`
	Value string `arg:"" help:"Configuration value"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("blitz"),
		kong.Description("Data layer and toolbox for the blitz data logger."),
		kong.UsageOnError(),
	)

	updateGlobalConfig(&cli)

	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetDefault("DatabaseFile", "./blitz.db")
	viper.SetDefault("ServerListen", ":8989")
	viper.SetDefault("RateLimit", 0)

	// Enable environment variable support
	viper.AutomaticEnv()
	if err := viper.BindEnv("ServerToken", "BLITZ_SERVER_TOKEN"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	// Initialize global config
	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	if cli.DBFile != "" {
		config.SetDatabaseFile(cli.DBFile)
	}
	if cli.Server != "" {
		config.SetServer(cli.Server, cli.Token)
	}
}

// openStore picks the store the global flags point at: the local
// SQLite database by default, a remote data server when one is
// configured
func openStore(ctx context.Context) (datastore.Store, error) {
	if config.Remote() {
		var store *datastore.RemoteStore
		if config.RateLimit > 0 {
			store = datastore.NewRemoteStoreWithLimit(config.ServerURL, config.ServerToken, config.RateLimit)
		} else {
			store = datastore.NewRemoteStore(config.ServerURL, config.ServerToken)
		}
		if err := store.Connect(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}

	store := datastore.NewSQLiteStore(config.DatabaseFile)
	if err := store.Connect(ctx); err != nil {
		return nil, err
	}
	// the DDL is idempotent, so a fresh database just works
	if err := store.CreateTables(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func initLogging() {
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: slog.LevelInfo,
	})

	slog.SetDefault(slog.New(handler))
}
