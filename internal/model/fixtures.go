package model

// Fixture data for bootstrapping a fresh database and for tests.
// Timestamps are fixed so fixture-backed tests stay deterministic.

const fixtureEpoch int64 = 1373803527000

// SessionFixtures holds the seed logging sessions
var SessionFixtures = []Session{
	{Id: 1, TimeStarted: fixtureEpoch, TimeStopped: fixtureEpoch + 60_000, NumberOfReadings: 4, Available: true},
	{Id: 2, TimeStarted: fixtureEpoch + 120_000, TimeStopped: fixtureEpoch + 180_000, NumberOfReadings: 2, Available: false},
}

// CategoryFixtures holds the seed variable categories
var CategoryFixtures = []Category{
	{Id: 1, VariableName: "Accelerator"},
	{Id: 2, VariableName: "Brake"},
}

// ReadingFixtures holds the seed readings, all for session 1
var ReadingFixtures = []Reading{
	{Id: 1, SessionId: 1, TimeLogged: fixtureEpoch + 1_000, CategoryId: 1, Value: 0.5},
	{Id: 2, SessionId: 1, TimeLogged: fixtureEpoch + 2_000, CategoryId: 1, Value: 0.8},
	{Id: 3, SessionId: 1, TimeLogged: fixtureEpoch + 1_000, CategoryId: 2, Value: 0.1},
	{Id: 4, SessionId: 1, TimeLogged: fixtureEpoch + 2_000, CategoryId: 2, Value: 0.0},
}

// CachedValueFixtures holds the seed live-cache entries
var CachedValueFixtures = []CachedValue{
	{Id: 1, TimeLogged: fixtureEpoch + 1_000, CategoryId: 1, Value: 0.5},
	{Id: 2, TimeLogged: fixtureEpoch + 2_000, CategoryId: 1, Value: 0.8},
	{Id: 3, TimeLogged: fixtureEpoch + 2_000, CategoryId: 2, Value: 0.1},
	{Id: 4, TimeLogged: fixtureEpoch + 3_000, CategoryId: 2, Value: 0.2},
}

// ConfigFixtures holds the seed configuration entries
var ConfigFixtures = []Config{
	{Id: 1, Key: "loggerPort", Value: "8989"},
	{Id: 2, Key: "sampleRate", Value: "50"},
}
