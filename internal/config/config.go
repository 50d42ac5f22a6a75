package config

import (
	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// DatabaseFile is the path of the embedded SQLite database
	DatabaseFile string
	// ServerURL is the base URL of a remote data server; empty means
	// work against the local database
	ServerURL string
	// ServerToken is the bearer token for the remote data server
	ServerToken string
	// ServerListen is the listen address used when serving the database
	ServerListen string
	// RateLimit caps remote requests per second; 0 disables throttling
	RateLimit int
)

// InitConfig initializes the global configuration
func InitConfig() {
	// Set default values
	viper.SetDefault("DatabaseFile", "./blitz.db")
	viper.SetDefault("ServerListen", ":8989")
	viper.SetDefault("RateLimit", 0)

	// Get values from viper
	DatabaseFile = viper.GetString("DatabaseFile")
	ServerURL = viper.GetString("ServerURL")
	ServerToken = viper.GetString("ServerToken")
	ServerListen = viper.GetString("ServerListen")
	RateLimit = viper.GetInt("RateLimit")
}

// SetDatabaseFile overrides the database path, typically from a CLI flag
func SetDatabaseFile(path string) {
	DatabaseFile = path
}

// SetServer overrides the remote server settings, typically from CLI flags
func SetServer(url, token string) {
	ServerURL = url
	ServerToken = token
}

// Remote reports whether the configuration points at a remote data
// server instead of the local database
func Remote() bool {
	return ServerURL != ""
}
