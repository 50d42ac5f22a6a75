package model

// Typed variants of the blitz records. One struct per schema; new
// record classes are added by extending this set.

// Session represents one data logging session
type Session struct {
	Id               int64
	TimeStarted      int64
	TimeStopped      int64
	NumberOfReadings int64
	Available        bool
}

// ToRecord converts the session to its wire record form.
// A zero Id is omitted so the store assigns one.
func (s Session) ToRecord() Record {
	rec := StructToRecord(s, RecordOptions{})
	if s.Id == 0 {
		delete(rec, "id")
	}
	if s.TimeStopped == 0 {
		delete(rec, "timeStopped")
	}
	return rec
}

// SessionFromRecord builds a Session from a normalized record
func SessionFromRecord(rec Record) Session {
	return Session{
		Id:               intField(rec, "id"),
		TimeStarted:      intField(rec, "timeStarted"),
		TimeStopped:      intField(rec, "timeStopped"),
		NumberOfReadings: intField(rec, "numberOfReadings"),
		Available:        boolField(rec, "available"),
	}
}

// Category represents one logged variable
type Category struct {
	Id           int64
	VariableName string
}

func (c Category) ToRecord() Record {
	rec := StructToRecord(c, RecordOptions{})
	if c.Id == 0 {
		delete(rec, "id")
	}
	return rec
}

// CategoryFromRecord builds a Category from a normalized record
func CategoryFromRecord(rec Record) Category {
	return Category{
		Id:           intField(rec, "id"),
		VariableName: textField(rec, "variableName"),
	}
}

// Reading represents one reading taken during a session
type Reading struct {
	Id         int64
	SessionId  int64
	TimeLogged int64
	CategoryId int64
	Value      float64
}

func (r Reading) ToRecord() Record {
	rec := StructToRecord(r, RecordOptions{})
	if r.Id == 0 {
		delete(rec, "id")
	}
	return rec
}

// ReadingFromRecord builds a Reading from a normalized record
func ReadingFromRecord(rec Record) Reading {
	return Reading{
		Id:         intField(rec, "id"),
		SessionId:  intField(rec, "sessionId"),
		TimeLogged: intField(rec, "timeLogged"),
		CategoryId: intField(rec, "categoryId"),
		Value:      floatField(rec, "value"),
	}
}

// CachedValue represents one entry in the live variable cache
type CachedValue struct {
	Id         int64
	TimeLogged int64
	CategoryId int64
	Value      float64
}

func (c CachedValue) ToRecord() Record {
	rec := StructToRecord(c, RecordOptions{})
	if c.Id == 0 {
		delete(rec, "id")
	}
	return rec
}

// CachedValueFromRecord builds a CachedValue from a normalized record
func CachedValueFromRecord(rec Record) CachedValue {
	return CachedValue{
		Id:         intField(rec, "id"),
		TimeLogged: intField(rec, "timeLogged"),
		CategoryId: intField(rec, "categoryId"),
		Value:      floatField(rec, "value"),
	}
}

// Config represents one persisted configuration entry
type Config struct {
	Id    int64
	Key   string
	Value string
}

func (c Config) ToRecord() Record {
	rec := StructToRecord(c, RecordOptions{})
	if c.Id == 0 {
		delete(rec, "id")
	}
	return rec
}

// ConfigFromRecord builds a Config from a normalized record
func ConfigFromRecord(rec Record) Config {
	return Config{
		Id:    intField(rec, "id"),
		Key:   textField(rec, "key"),
		Value: textField(rec, "value"),
	}
}

func intField(rec Record, name string) int64 {
	if n, ok := asInteger(rec[name]); ok {
		return n
	}
	return 0
}

func floatField(rec Record, name string) float64 {
	if n, ok := asFloat(rec[name]); ok {
		return n
	}
	return 0
}

func textField(rec Record, name string) string {
	if s, ok := rec[name].(string); ok {
		return s
	}
	return ""
}

func boolField(rec Record, name string) bool {
	if b, ok := asBool(rec[name]); ok {
		return b
	}
	return false
}
