// Package container holds retrieved or computed datasets on their way
// between the datastore, the transform pipeline, and the UI. A Container
// is immutable after construction: producers build new containers,
// consumers only read.
package container

import (
	"time"

	"github.com/zombiz/blitz/internal/model"
)

// Metadata describes where a dataset came from and how to read it
type Metadata struct {
	// Source identifies the producer, e.g. "sqlite:./blitz.db" or a
	// transform chain like "sqlite:./blitz.db|scale".
	Source string
	// Model is the schema name of the wrapped records, empty once a
	// transform has reshaped them away from any declared schema.
	Model string
	// Units maps field names to display units
	Units map[string]string
	// CreatedAt is when the dataset was first produced. Transforms
	// preserve it so derived containers stay comparable.
	CreatedAt time.Time
}

func (m Metadata) clone() Metadata {
	out := m
	if m.Units != nil {
		out.Units = make(map[string]string, len(m.Units))
		for k, v := range m.Units {
			out.Units[k] = v
		}
	}
	return out
}

// Container is an immutable bundle of records plus metadata
type Container struct {
	records []model.Record
	meta    Metadata
}

// New creates a container from records and metadata. Both are copied so
// later mutation by the caller cannot reach the container.
func New(records []model.Record, meta Metadata) *Container {
	return &Container{
		records: copyRecords(records),
		meta:    meta.clone(),
	}
}

// Len returns the number of records
func (c *Container) Len() int {
	return len(c.records)
}

// Meta returns a copy of the container's metadata
func (c *Container) Meta() Metadata {
	return c.meta.clone()
}

// Records returns a copy of all records
func (c *Container) Records() []model.Record {
	return copyRecords(c.records)
}

// Record returns a copy of the record at index i
func (c *Container) Record(i int) model.Record {
	return copyRecord(c.records[i])
}

// Derive returns a new container carrying the given records and
// metadata. The receiver is untouched; this is the only way to produce
// a "modified" dataset.
func (c *Container) Derive(records []model.Record, meta Metadata) *Container {
	return New(records, meta)
}

// Equal reports whether two containers hold the same records and
// metadata. Used by determinism checks.
func (c *Container) Equal(other *Container) bool {
	if c.Len() != other.Len() {
		return false
	}
	if c.meta.Source != other.meta.Source || c.meta.Model != other.meta.Model {
		return false
	}
	if !c.meta.CreatedAt.Equal(other.meta.CreatedAt) {
		return false
	}
	if len(c.meta.Units) != len(other.meta.Units) {
		return false
	}
	for k, v := range c.meta.Units {
		if other.meta.Units[k] != v {
			return false
		}
	}
	for i, rec := range c.records {
		o := other.records[i]
		if len(rec) != len(o) {
			return false
		}
		for k, v := range rec {
			if o[k] != v {
				return false
			}
		}
	}
	return true
}

func copyRecords(records []model.Record) []model.Record {
	out := make([]model.Record, len(records))
	for i, rec := range records {
		out[i] = copyRecord(rec)
	}
	return out
}

func copyRecord(rec model.Record) model.Record {
	out := make(model.Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
