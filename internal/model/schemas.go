package model

// SQL schemas for the logger tables.
// Column names mirror the wire representation so client and server
// agree on shape without duplicating definitions.

// SessionDDL defines the schema for logging sessions
const SessionDDL = `
CREATE TABLE IF NOT EXISTS session (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timeStarted INTEGER NOT NULL,
	timeStopped INTEGER,
	numberOfReadings INTEGER NOT NULL DEFAULT 0,
	available INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_session_time_started ON session(timeStarted);
`

// CategoryDDL defines the schema for logged variable categories
const CategoryDDL = `
CREATE TABLE IF NOT EXISTS category (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	variableName TEXT NOT NULL UNIQUE
);
`

// ReadingDDL defines the schema for session readings
const ReadingDDL = `
CREATE TABLE IF NOT EXISTS reading (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	sessionId INTEGER NOT NULL,
	timeLogged INTEGER NOT NULL,
	categoryId INTEGER NOT NULL,
	value REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reading_session ON reading(sessionId);
CREATE INDEX IF NOT EXISTS idx_reading_time_logged ON reading(timeLogged);
`

// CachedValueDDL defines the schema for the live variable cache
const CachedValueDDL = `
CREATE TABLE IF NOT EXISTS cache (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timeLogged INTEGER NOT NULL,
	categoryId INTEGER NOT NULL,
	value REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cache_time_logged ON cache(timeLogged);
`

// ConfigDDL defines the schema for persisted configuration entries
const ConfigDDL = `
CREATE TABLE IF NOT EXISTS config (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	key TEXT NOT NULL UNIQUE,
	value TEXT NOT NULL
);
`

// SessionSchema describes one data logging session
var SessionSchema = Schema{
	Name:  "Session",
	Table: "session",
	DDL:   SessionDDL,
	Fields: []Field{
		{Name: "id", Type: TypeInteger, Identity: true},
		{Name: "timeStarted", Type: TypeTimestamp, Required: true},
		{Name: "timeStopped", Type: TypeTimestamp},
		{Name: "numberOfReadings", Type: TypeInteger, Required: true},
		{Name: "available", Type: TypeBool, Required: true},
	},
}

// CategorySchema describes one logged variable
var CategorySchema = Schema{
	Name:  "Category",
	Table: "category",
	DDL:   CategoryDDL,
	Fields: []Field{
		{Name: "id", Type: TypeInteger, Identity: true},
		{Name: "variableName", Type: TypeText, Required: true},
	},
}

// ReadingSchema describes one reading taken during a session
var ReadingSchema = Schema{
	Name:  "Reading",
	Table: "reading",
	DDL:   ReadingDDL,
	Fields: []Field{
		{Name: "id", Type: TypeInteger, Identity: true},
		{Name: "sessionId", Type: TypeInteger, Required: true},
		{Name: "timeLogged", Type: TypeTimestamp, Required: true},
		{Name: "categoryId", Type: TypeInteger, Required: true},
		{Name: "value", Type: TypeFloat, Required: true},
	},
}

// CachedValueSchema describes one entry in the live variable cache
var CachedValueSchema = Schema{
	Name:  "CachedValue",
	Table: "cache",
	DDL:   CachedValueDDL,
	Fields: []Field{
		{Name: "id", Type: TypeInteger, Identity: true},
		{Name: "timeLogged", Type: TypeTimestamp, Required: true},
		{Name: "categoryId", Type: TypeInteger, Required: true},
		{Name: "value", Type: TypeFloat, Required: true},
	},
}

// ConfigSchema describes one persisted configuration entry
var ConfigSchema = Schema{
	Name:  "Config",
	Table: "config",
	DDL:   ConfigDDL,
	Fields: []Field{
		{Name: "id", Type: TypeInteger, Identity: true},
		{Name: "key", Type: TypeText, Required: true},
		{Name: "value", Type: TypeText, Required: true},
	},
}

// AllSchemas contains every schema for easy store initialization
var AllSchemas = []Schema{
	SessionSchema,
	CategorySchema,
	ReadingSchema,
	CachedValueSchema,
	ConfigSchema,
}

// ValidTableNames is the whitelist of allowed table names.
// Used to prevent SQL injection when interpolating table names.
var ValidTableNames = map[string]bool{
	"session":  true,
	"category": true,
	"reading":  true,
	"cache":    true,
	"config":   true,
}

// SchemaByName returns the schema with the given model name, or false
// if no such model exists.
func SchemaByName(name string) (Schema, bool) {
	for _, s := range AllSchemas {
		if s.Name == name {
			return s, true
		}
	}
	return Schema{}, false
}
