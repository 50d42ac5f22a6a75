package transform

import (
	"fmt"

	"github.com/zombiz/blitz/internal/container"
	"github.com/zombiz/blitz/internal/errors"
	"github.com/zombiz/blitz/internal/model"
)

// The built-in transform catalog. The set is closed: new transforms are
// added as variants here and registered in registry.go.

// FieldFilter projects each record down to the listed fields
type FieldFilter struct {
	Fields []string
}

func (t *FieldFilter) Name() string { return "field_filter" }

func (t *FieldFilter) Apply(in *container.Container) (*container.Container, error) {
	if len(t.Fields) == 0 {
		return nil, errors.NewTransformError(t.Name(), "at least one field must be listed")
	}
	for _, f := range t.Fields {
		if err := requireField(t.Name(), in, f); err != nil {
			return nil, err
		}
	}

	records := make([]model.Record, 0, in.Len())
	for _, rec := range in.Records() {
		out := make(model.Record, len(t.Fields))
		for _, f := range t.Fields {
			out[f] = rec[f]
		}
		records = append(records, out)
	}

	meta := deriveMeta(in, t.Name(), true)
	if meta.Units != nil {
		kept := make(map[string]string)
		for _, f := range t.Fields {
			if u, ok := meta.Units[f]; ok {
				kept[f] = u
			}
		}
		meta.Units = kept
	}
	return in.Derive(records, meta), nil
}

// Rename renames one field in every record
type Rename struct {
	From string
	To   string
}

func (t *Rename) Name() string { return "rename" }

func (t *Rename) Apply(in *container.Container) (*container.Container, error) {
	if t.From == "" || t.To == "" {
		return nil, errors.NewTransformError(t.Name(), "both from and to must be set")
	}
	if err := requireField(t.Name(), in, t.From); err != nil {
		return nil, err
	}
	for i := 0; i < in.Len(); i++ {
		if _, ok := in.Record(i)[t.To]; ok {
			return nil, errors.NewTransformError(t.Name(), fmt.Sprintf("record %d already has field %q", i, t.To))
		}
	}

	records := in.Records()
	for _, rec := range records {
		rec[t.To] = rec[t.From]
		delete(rec, t.From)
	}

	meta := deriveMeta(in, t.Name(), true)
	if u, ok := meta.Units[t.From]; ok {
		delete(meta.Units, t.From)
		meta.Units[t.To] = u
	}
	return in.Derive(records, meta), nil
}

// Scale multiplies a numeric field by a constant factor
type Scale struct {
	Field  string
	Factor float64
}

func (t *Scale) Name() string { return "scale" }

func (t *Scale) Apply(in *container.Container) (*container.Container, error) {
	if err := requireNumericField(t.Name(), in, t.Field); err != nil {
		return nil, err
	}

	records := in.Records()
	for _, rec := range records {
		v, _ := numeric(rec[t.Field])
		rec[t.Field] = v * t.Factor
	}
	return in.Derive(records, deriveMeta(in, t.Name(), false)), nil
}

// Offset translates a numeric field by a constant delta
type Offset struct {
	Field string
	Delta float64
}

func (t *Offset) Name() string { return "offset" }

func (t *Offset) Apply(in *container.Container) (*container.Container, error) {
	if err := requireNumericField(t.Name(), in, t.Field); err != nil {
		return nil, err
	}

	records := in.Records()
	for _, rec := range records {
		v, _ := numeric(rec[t.Field])
		rec[t.Field] = v + t.Delta
	}
	return in.Derive(records, deriveMeta(in, t.Name(), false)), nil
}

// MovingAverage replaces a numeric field with its trailing windowed
// mean. The window is clipped at the start of the dataset, so the
// record count is unchanged.
type MovingAverage struct {
	Field  string
	Window int
}

func (t *MovingAverage) Name() string { return "moving_average" }

func (t *MovingAverage) Apply(in *container.Container) (*container.Container, error) {
	if t.Window < 1 {
		return nil, errors.NewTransformError(t.Name(), "window must be at least 1")
	}
	if err := requireNumericField(t.Name(), in, t.Field); err != nil {
		return nil, err
	}

	records := in.Records()
	values := make([]float64, len(records))
	for i, rec := range records {
		values[i], _ = numeric(rec[t.Field])
	}
	for i, rec := range records {
		start := i - t.Window + 1
		if start < 0 {
			start = 0
		}
		var sum float64
		for _, v := range values[start : i+1] {
			sum += v
		}
		rec[t.Field] = sum / float64(i+1-start)
	}
	return in.Derive(records, deriveMeta(in, t.Name(), false)), nil
}

// MatchFilter keeps only records whose field equals the given value
type MatchFilter struct {
	Field string
	Value any
}

func (t *MatchFilter) Name() string { return "match_filter" }

func (t *MatchFilter) Apply(in *container.Container) (*container.Container, error) {
	if err := requireField(t.Name(), in, t.Field); err != nil {
		return nil, err
	}

	var records []model.Record
	for _, rec := range in.Records() {
		if equalValue(rec[t.Field], t.Value) {
			records = append(records, rec)
		}
	}
	return in.Derive(records, deriveMeta(in, t.Name(), false)), nil
}

// Since keeps only records whose timestamp field is at or after the
// given floor (epoch milliseconds)
type Since struct {
	Field string
	Floor int64
}

func (t *Since) Name() string { return "since" }

func (t *Since) Apply(in *container.Container) (*container.Container, error) {
	if err := requireNumericField(t.Name(), in, t.Field); err != nil {
		return nil, err
	}

	var records []model.Record
	for _, rec := range in.Records() {
		v, _ := numeric(rec[t.Field])
		if v >= float64(t.Floor) {
			records = append(records, rec)
		}
	}
	return in.Derive(records, deriveMeta(in, t.Name(), false)), nil
}
