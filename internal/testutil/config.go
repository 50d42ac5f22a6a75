package testutil

import (
	"testing"

	"github.com/spf13/viper"

	"github.com/zombiz/blitz/internal/config"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	DatabaseFile string
	ServerURL    string
	ServerToken  string
	ServerListen string
	RateLimit    int
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		DatabaseFile: config.DatabaseFile,
		ServerURL:    config.ServerURL,
		ServerToken:  config.ServerToken,
		ServerListen: config.ServerListen,
		RateLimit:    config.RateLimit,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.DatabaseFile = state.DatabaseFile
	config.ServerURL = state.ServerURL
	config.ServerToken = state.ServerToken
	config.ServerListen = state.ServerListen
	config.RateLimit = state.RateLimit
}

// ResetConfig saves the current config state and schedules restoration
// when the test completes. It also resets viper.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetTestConfig points the configuration at a throwaway database in
// the given test environment and restores everything on cleanup.
func SetTestConfig(t *testing.T, env *TestEnv) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	config.DatabaseFile = env.Path("blitz-test.db")
	config.ServerURL = ""
	config.ServerToken = ""
	config.ServerListen = "127.0.0.1:0"
	config.RateLimit = 0

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetViperValue sets a viper configuration value and schedules cleanup.
func SetViperValue(t *testing.T, key string, value any) {
	t.Helper()

	oldValue := viper.Get(key)
	hadValue := viper.IsSet(key)

	viper.Set(key, value)

	t.Cleanup(func() {
		if hadValue {
			viper.Set(key, oldValue)
		}
		// viper has no Unset, so a previously unset key stays set
	})
}
