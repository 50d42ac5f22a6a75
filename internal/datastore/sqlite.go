package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/zombiz/blitz/internal/container"
	"github.com/zombiz/blitz/internal/errors"
	"github.com/zombiz/blitz/internal/model"
)

// SQLiteStore implements Store over an embedded SQLite database. This
// is the client-side store the desktop UI runs against.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLiteStore instance
func NewSQLiteStore(dbPath string) *SQLiteStore {
	return &SQLiteStore{
		dbPath: dbPath,
	}
}

// Connect opens a connection to the SQLite database
func (s *SQLiteStore) Connect(ctx context.Context) error {
	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return errors.NewConnectionError("connect", s.source(), err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return errors.NewConnectionError("connect", s.source(), err)
	}
	s.db = db
	return nil
}

// CreateTables creates every model table that doesn't exist yet
func (s *SQLiteStore) CreateTables(ctx context.Context) error {
	for _, schema := range model.AllSchemas {
		if _, err := s.db.ExecContext(ctx, schema.DDL); err != nil {
			return fmt.Errorf("failed to create table %s: %w", schema.Table, err)
		}
	}
	return nil
}

// Query returns a container of records matching the filter, ordered by
// identity for stable results
func (s *SQLiteStore) Query(ctx context.Context, schema model.Schema, filter Filter) (*container.Container, error) {
	if !model.ValidTableNames[schema.Table] {
		return nil, errors.NewQueryError(schema.Name, fmt.Sprintf("unknown table %q", schema.Table))
	}
	if err := validateFilter(schema, filter); err != nil {
		return nil, err
	}

	columns := schema.Columns()
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(columns, ", "), schema.Table)

	where, args := buildWhere(schema, filter)
	if where != "" {
		query += " WHERE " + where
	}
	query += fmt.Sprintf(" ORDER BY %s", schema.Identity().Name)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.WrapQueryError(schema.Name, "query execution failed", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.Record
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.WrapQueryError(schema.Name, "row scan failed", err)
		}

		rec := make(model.Record, len(columns))
		for i, col := range columns {
			rec[col] = scanValue(values[i])
		}
		records = append(records, schema.Normalize(rec))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapQueryError(schema.Name, "row iteration failed", err)
	}

	return container.New(records, container.Metadata{
		Source:    s.source(),
		Model:     schema.Name,
		CreatedAt: time.Now().UTC(),
	}), nil
}

// Upsert inserts a record, or updates it when a record with the same
// identity already exists
func (s *SQLiteStore) Upsert(ctx context.Context, schema model.Schema, rec model.Record) error {
	if !model.ValidTableNames[schema.Table] {
		return errors.NewQueryError(schema.Name, fmt.Sprintf("unknown table %q", schema.Table))
	}
	if err := schema.Validate(rec); err != nil {
		return err
	}
	rec = schema.Normalize(rec)

	identity := schema.Identity().Name
	var columns []string
	var args []any
	for _, col := range schema.Columns() {
		if value, ok := rec[col]; ok {
			columns = append(columns, col)
			args = append(args, value)
		}
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		schema.Table,
		strings.Join(columns, ", "),
		placeholders(len(columns)),
	)

	if _, ok := rec[identity]; ok {
		var updates []string
		for _, col := range columns {
			if col == identity {
				continue
			}
			updates = append(updates, fmt.Sprintf("%s = excluded.%s", col, col))
		}
		query += fmt.Sprintf(" ON CONFLICT(%s) DO UPDATE SET %s", identity, strings.Join(updates, ", "))
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.NewConnectionError("upsert", s.source(), err)
	}
	return nil
}

// BatchUpsert persists multiple records of the same schema in a single
// transaction. All records are validated before any I/O happens.
func (s *SQLiteStore) BatchUpsert(ctx context.Context, schema model.Schema, records []model.Record) error {
	if len(records) == 0 {
		return nil
	}
	for _, rec := range records {
		if err := schema.Validate(rec); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewConnectionError("upsert", s.source(), err)
	}
	defer func() {
		// rollback errors are expected once the transaction committed
		_ = tx.Rollback()
	}()

	for _, rec := range records {
		rec = schema.Normalize(rec)
		var columns []string
		var args []any
		for _, col := range schema.Columns() {
			if value, ok := rec[col]; ok {
				columns = append(columns, col)
				args = append(args, value)
			}
		}
		query := fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s)",
			schema.Table,
			strings.Join(columns, ", "),
			placeholders(len(columns)),
		)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.NewConnectionError("upsert", s.source(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewConnectionError("upsert", s.source(), err)
	}
	return nil
}

// Close closes the database connection. Safe to call more than once.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *SQLiteStore) source() string {
	return "sqlite:" + s.dbPath
}

// buildWhere produces a deterministic WHERE clause from a filter.
// Field names are sorted so identical filters produce identical SQL.
func buildWhere(schema model.Schema, filter Filter) (string, []any) {
	if len(filter) == 0 {
		return "", nil
	}

	names := make([]string, 0, len(filter))
	for name := range filter {
		names = append(names, name)
	}
	sort.Strings(names)

	normalized := schema.Normalize(model.Record(filter))
	clauses := make([]string, 0, len(names))
	args := make([]any, 0, len(names))
	for _, name := range names {
		clauses = append(clauses, fmt.Sprintf("%s = ?", name))
		args = append(args, normalized[name])
	}
	return strings.Join(clauses, " AND "), args
}

func placeholders(n int) string {
	marks := make([]string, n)
	for i := range marks {
		marks[i] = "?"
	}
	return strings.Join(marks, ", ")
}

// scanValue converts driver values to plain Go values before schema
// normalization
func scanValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
