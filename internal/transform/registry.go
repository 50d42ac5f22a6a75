package transform

import (
	"fmt"
	"math"
	"sort"
)

// Factory builds a configured transform from its declared parameters.
// Parameter errors are reported at build time, before any data flows.
type Factory func(params map[string]any) (Transform, error)

var registry = map[string]Factory{
	"field_filter": func(params map[string]any) (Transform, error) {
		fields, err := stringsParam(params, "fields")
		if err != nil {
			return nil, err
		}
		return &FieldFilter{Fields: fields}, nil
	},
	"rename": func(params map[string]any) (Transform, error) {
		from, err := stringParam(params, "from")
		if err != nil {
			return nil, err
		}
		to, err := stringParam(params, "to")
		if err != nil {
			return nil, err
		}
		return &Rename{From: from, To: to}, nil
	},
	"scale": func(params map[string]any) (Transform, error) {
		field, err := stringParam(params, "field")
		if err != nil {
			return nil, err
		}
		factor, err := floatParam(params, "factor")
		if err != nil {
			return nil, err
		}
		return &Scale{Field: field, Factor: factor}, nil
	},
	"offset": func(params map[string]any) (Transform, error) {
		field, err := stringParam(params, "field")
		if err != nil {
			return nil, err
		}
		delta, err := floatParam(params, "delta")
		if err != nil {
			return nil, err
		}
		return &Offset{Field: field, Delta: delta}, nil
	},
	"moving_average": func(params map[string]any) (Transform, error) {
		field, err := stringParam(params, "field")
		if err != nil {
			return nil, err
		}
		window, err := intParam(params, "window")
		if err != nil {
			return nil, err
		}
		return &MovingAverage{Field: field, Window: int(window)}, nil
	},
	"match_filter": func(params map[string]any) (Transform, error) {
		field, err := stringParam(params, "field")
		if err != nil {
			return nil, err
		}
		value, ok := params["value"]
		if !ok {
			return nil, fmt.Errorf("match_filter: parameter %q is required", "value")
		}
		return &MatchFilter{Field: field, Value: value}, nil
	},
	"since": func(params map[string]any) (Transform, error) {
		field, err := stringParam(params, "field")
		if err != nil {
			return nil, err
		}
		floor, err := intParam(params, "floor")
		if err != nil {
			return nil, err
		}
		return &Since{Field: field, Floor: floor}, nil
	},
}

// New builds a transform by registry name
func New(name string, params map[string]any) (Transform, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown transform %q (known: %v)", name, Known())
	}
	return factory(params)
}

// Known returns the registered transform names, sorted
func Known() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func stringParam(params map[string]any, key string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", fmt.Errorf("parameter %q is required", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

func stringsParam(params map[string]any, key string) ([]string, error) {
	v, ok := params[key]
	if !ok {
		return nil, fmt.Errorf("parameter %q is required", key)
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("parameter %q must be a list of strings", key)
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("parameter %q must be a list of strings", key)
}

func floatParam(params map[string]any, key string) (float64, error) {
	v, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("parameter %q is required", key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("parameter %q must be numeric", key)
}

func intParam(params map[string]any, key string) (int64, error) {
	v, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("parameter %q is required", key)
	}
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n == math.Trunc(n) {
			return int64(n), nil
		}
	}
	return 0, fmt.Errorf("parameter %q must be an integer", key)
}
