// Package datastore abstracts CRUD and query operations over the local
// and remote logger stores behind one interface, so the UI and the
// transform pipeline stay storage-agnostic.
package datastore

import (
	"context"
	"fmt"

	"github.com/zombiz/blitz/internal/container"
	"github.com/zombiz/blitz/internal/errors"
	"github.com/zombiz/blitz/internal/model"
)

// Filter narrows a query to records whose fields equal the given
// values. An empty filter matches every record.
type Filter map[string]any

// Store defines the interface both the embedded and the remote store
// implement. A Store is not safe for concurrent use; callers needing
// concurrency open one store per worker or serialize access.
type Store interface {
	// Connect establishes a session with the backend
	Connect(ctx context.Context) error

	// Query returns a container wrapping every record of the schema
	// matching the filter. A filter naming an unknown field fails with
	// a QueryError, never a partial result.
	Query(ctx context.Context, schema model.Schema, filter Filter) (*container.Container, error)

	// Upsert persists a record, inserting or updating by identity.
	// Records failing the schema fail with a ValidationError before
	// any I/O happens.
	Upsert(ctx context.Context, schema model.Schema, rec model.Record) error

	// Close releases the session; idempotent
	Close() error
}

// validateFilter rejects filters referencing fields the schema does not
// declare. Shared by both store implementations and the data server.
func validateFilter(schema model.Schema, filter Filter) error {
	for name, value := range filter {
		f, ok := schema.Field(name)
		if !ok {
			return errors.NewQueryError(schema.Name, fmt.Sprintf("unknown field %q", name))
		}
		if value == nil {
			return errors.NewQueryError(schema.Name, fmt.Sprintf("filter value for %q must not be null", name))
		}
		if reason, ok := filterValueMatches(f, value); !ok {
			return errors.NewQueryError(schema.Name, reason)
		}
	}
	return nil
}

// ValidateFilter is the exported form used by the data server to reject
// malformed filters before they reach a store.
func ValidateFilter(schema model.Schema, filter Filter) error {
	return validateFilter(schema, filter)
}

func filterValueMatches(f model.Field, value any) (string, bool) {
	probe := model.Record{f.Name: value}
	schema := model.Schema{Name: "filter", Fields: []model.Field{f}}
	if err := schema.Validate(probe); err != nil {
		return fmt.Sprintf("filter value for %q does not match field type %s", f.Name, f.Type), false
	}
	return "", true
}
