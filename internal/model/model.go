// Package model declares the typed schemas shared by the client- and
// server-side representations of logged data.
package model

import (
	"fmt"
	"math"

	"github.com/zombiz/blitz/internal/errors"
)

// FieldType is the semantic type of a schema field. The set is closed:
// new types are added here, not injected at runtime.
type FieldType string

const (
	TypeInteger FieldType = "integer"
	TypeFloat   FieldType = "float"
	TypeText    FieldType = "text"
	TypeBool    FieldType = "bool"
	// TypeTimestamp is stored as integer milliseconds since the Unix epoch.
	TypeTimestamp FieldType = "timestamp"
)

// Field describes one column of a persisted record
type Field struct {
	Name     string
	Type     FieldType
	Required bool
	Identity bool
}

// Schema describes one class of persisted record. Schemas are defined
// statically and never mutated after load.
type Schema struct {
	Name   string
	Table  string
	Fields []Field
	DDL    string
}

// Record is one row of data keyed by field name
type Record map[string]any

// Field returns the field with the given name, or false if the schema
// does not define it.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Identity returns the schema's identity field. Every blitz schema has
// exactly one.
func (s Schema) Identity() Field {
	for _, f := range s.Fields {
		if f.Identity {
			return f
		}
	}
	return Field{}
}

// Columns returns the field names in declaration order
func (s Schema) Columns() []string {
	cols := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		cols[i] = f.Name
	}
	return cols
}

// Validate checks a record against the schema and collects every
// violation into a single ValidationError. A nil return means the
// record is structurally valid.
func (s Schema) Validate(rec Record) error {
	var violations []string

	for _, f := range s.Fields {
		value, present := rec[f.Name]
		if !present || value == nil {
			if f.Required {
				violations = append(violations, fmt.Sprintf("%s is required", f.Name))
			}
			continue
		}
		if reason, ok := checkType(f, value); !ok {
			violations = append(violations, reason)
		}
	}

	for name := range rec {
		if _, ok := s.Field(name); !ok {
			violations = append(violations, fmt.Sprintf("unknown field %q", name))
		}
	}

	if len(violations) > 0 {
		return errors.NewValidationError(s.Name, violations)
	}
	return nil
}

func checkType(f Field, value any) (string, bool) {
	switch f.Type {
	case TypeInteger, TypeTimestamp:
		if n, ok := asInteger(value); !ok {
			return fmt.Sprintf("%s must be an integer, got %T", f.Name, value), false
		} else if f.Type == TypeTimestamp && n < 0 {
			return fmt.Sprintf("%s must be a non-negative timestamp", f.Name), false
		}
	case TypeFloat:
		if _, ok := asFloat(value); !ok {
			return fmt.Sprintf("%s must be numeric, got %T", f.Name, value), false
		}
	case TypeText:
		if _, ok := value.(string); !ok {
			return fmt.Sprintf("%s must be text, got %T", f.Name, value), false
		}
	case TypeBool:
		if _, ok := asBool(value); !ok {
			return fmt.Sprintf("%s must be a bool, got %T", f.Name, value), false
		}
	}
	return "", true
}

// Normalize coerces a record's values to their canonical Go types
// (int64, float64, string, bool) so records scanned from SQLite and
// records decoded from JSON compare equal. The record must already be
// valid for the schema.
func (s Schema) Normalize(rec Record) Record {
	out := make(Record, len(rec))
	for name, value := range rec {
		f, ok := s.Field(name)
		if !ok || value == nil {
			out[name] = value
			continue
		}
		switch f.Type {
		case TypeInteger, TypeTimestamp:
			if n, ok := asInteger(value); ok {
				out[name] = n
				continue
			}
		case TypeFloat:
			if n, ok := asFloat(value); ok {
				out[name] = n
				continue
			}
		case TypeBool:
			if b, ok := asBool(value); ok {
				out[name] = b
				continue
			}
		}
		out[name] = value
	}
	return out
}

func asInteger(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		// JSON decodes all numbers as float64
		if v == math.Trunc(v) {
			return int64(v), true
		}
	}
	return 0, false
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func asBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case int64:
		// SQLite stores booleans as integers
		return v != 0, true
	case int:
		return v != 0, true
	}
	return false, false
}
