package model

import (
	"reflect"
	"time"
	"unicode"
)

// RecordOptions configures StructToRecord behavior.
type RecordOptions struct {
	OmitFields   map[string]bool
	KeyOverrides map[string]string
}

// StructToRecord converts a typed record struct into a Record keyed by
// lowerCamel field names, matching the wire column names. It supports
// optional field omission and key overrides.
func StructToRecord[T any](value T, opts RecordOptions) Record {
	result := make(Record)
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return result
		}
		v = v.Elem()
	}

	appendStructFields(v, result, opts)
	return result
}

func appendStructFields(v reflect.Value, result Record, opts RecordOptions) {
	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		if opts.OmitFields != nil && opts.OmitFields[field.Name] {
			continue
		}

		value := v.Field(i)
		if field.Anonymous && value.Kind() == reflect.Struct {
			appendStructFields(value, result, opts)
			continue
		}

		key := toLowerCamel(field.Name)
		if override, ok := opts.KeyOverrides[field.Name]; ok {
			key = override
		}

		result[key] = normalizeStructValue(value)
	}
}

func normalizeStructValue(value reflect.Value) any {
	if !value.IsValid() {
		return nil
	}

	if value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}

	if value.Type() == reflect.TypeOf(time.Time{}) {
		// timestamps travel as epoch milliseconds
		return value.Interface().(time.Time).UnixMilli()
	}

	return value.Interface()
}

func toLowerCamel(input string) string {
	if input == "" {
		return ""
	}

	runes := []rune(input)
	// lowercase the leading run of capitals: "Id" -> "id", "TimeStarted" -> "timeStarted"
	for i, r := range runes {
		if !unicode.IsUpper(r) {
			break
		}
		// keep the last capital of an acronym when a lowercase letter follows
		if i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			break
		}
		runes[i] = unicode.ToLower(r)
	}

	return string(runes)
}
