// Package transform implements the deterministic reshaping units that
// sit between the datastore and the UI. A transform consumes one
// container and produces a new one; chains run in declared order with
// no implicit reordering.
package transform

import (
	"fmt"

	"github.com/zombiz/blitz/internal/container"
	"github.com/zombiz/blitz/internal/errors"
)

// Transform is one named, parameterized reshaping operation. Apply must
// be deterministic for a fixed configuration and must never mutate its
// input; out-of-domain input fails with a TransformError naming the
// violated precondition.
type Transform interface {
	Name() string
	Apply(in *container.Container) (*container.Container, error)
}

// Chain applies transforms in declared sequence, feeding each output
// into the next input. Evaluation is fail-fast.
type Chain struct {
	steps []Transform
}

// NewChain creates a chain from the given steps
func NewChain(steps ...Transform) *Chain {
	return &Chain{steps: steps}
}

// Steps returns the declared sequence
func (c *Chain) Steps() []Transform {
	out := make([]Transform, len(c.steps))
	copy(out, c.steps)
	return out
}

func (c *Chain) Name() string {
	return "chain"
}

func (c *Chain) Apply(in *container.Container) (*container.Container, error) {
	out := in
	for _, step := range c.steps {
		var err error
		out, err = step.Apply(out)
		if err != nil {
			return nil, fmt.Errorf("chain step %s: %w", step.Name(), err)
		}
	}
	return out, nil
}

// requireField checks that every record carries the named field
func requireField(name string, in *container.Container, field string) error {
	for i := 0; i < in.Len(); i++ {
		if _, ok := in.Record(i)[field]; !ok {
			return errors.NewTransformError(name, fmt.Sprintf("record %d is missing required field %q", i, field))
		}
	}
	return nil
}

// requireNumericField checks that every record carries the named field
// with a numeric value
func requireNumericField(name string, in *container.Container, field string) error {
	for i := 0; i < in.Len(); i++ {
		v, ok := in.Record(i)[field]
		if !ok {
			return errors.NewTransformError(name, fmt.Sprintf("record %d is missing required field %q", i, field))
		}
		if _, ok := numeric(v); !ok {
			return errors.NewTransformError(name, fmt.Sprintf("record %d: field %q is not numeric", i, field))
		}
	}
	return nil
}

// deriveMeta stamps the transform's name onto the source lineage.
// CreatedAt is preserved so repeated applications stay equal.
func deriveMeta(in *container.Container, name string, clearModel bool) container.Metadata {
	meta := in.Meta()
	if meta.Source != "" {
		meta.Source = meta.Source + "|" + name
	} else {
		meta.Source = name
	}
	if clearModel {
		meta.Model = ""
	}
	return meta
}

func numeric(value any) (float64, bool) {
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

// equalValue compares two record values, treating all numeric types as
// one domain so YAML-sourced parameters match scanned values.
func equalValue(a, b any) bool {
	na, aok := numeric(a)
	nb, bok := numeric(b)
	if aok && bok {
		return na == nb
	}
	return a == b
}
