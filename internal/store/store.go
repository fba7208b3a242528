// Package store reconciles the output table's schema against the
// configured registers and writes decoded cycles into it.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/fieldgrid/mbpoll/internal/codec"
	"github.com/fieldgrid/mbpoll/internal/config"
	"github.com/fieldgrid/mbpoll/internal/engine"
)

// Store wraps the output database connection and the target table name.
type Store struct {
	db    *sql.DB
	table string
}

// Open connects to dsn and returns a Store targeting table. It does not
// reconcile the schema; call Reconcile once at startup for that.
func Open(dsn, table string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, table: table}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

type column struct {
	name    string
	sqlType string
}

// expectedColumns walks every active register of every device in root,
// in the scheduler's deterministic order, and derives its column name
// and SQL type.
func expectedColumns(root *config.Root) []column {
	var cols []column
	for _, dev := range root.Devices {
		if !dev.Active {
			continue
		}
		for _, group := range [][]*config.Register{dev.Coils, dev.DiscreteInputs, dev.HoldingRegisters, dev.InputRegisters} {
			for _, reg := range group {
				if !reg.Active {
					continue
				}
				cols = append(cols, column{name: config.ColumnName(dev, reg), sqlType: reg.SQLType})
			}
		}
	}
	return cols
}

// Reconcile ensures the target table exists with a column for every
// active register, creating the table or adding missing columns as
// needed. Existing columns not named by the configuration are left
// untouched, and an existing column matching a configured name
// (case-insensitively) is never altered or recreated.
func (s *Store) Reconcile(ctx context.Context, root *config.Root) error {
	cols := expectedColumns(root)

	exists, err := s.tableExists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return s.createTable(ctx, cols)
	}

	existing, err := s.existingColumns(ctx)
	if err != nil {
		return err
	}
	for _, c := range cols {
		if existing[strings.ToLower(c.name)] {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", pq.QuoteIdentifier(s.table), pq.QuoteIdentifier(c.name), c.sqlType)
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: add column %q: %w", c.name, err)
		}
	}
	return nil
}

func (s *Store) tableExists(ctx context.Context) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE lower(table_name) = lower($1))`
	var ok bool
	err := s.db.QueryRowContext(ctx, q, s.table).Scan(&ok)
	return ok, err
}

func (s *Store) existingColumns(ctx context.Context) (map[string]bool, error) {
	const q = `SELECT column_name FROM information_schema.columns WHERE lower(table_name) = lower($1)`
	rows, err := s.db.QueryContext(ctx, q, s.table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		existing[strings.ToLower(name)] = true
	}
	return existing, rows.Err()
}

func (s *Store) createTable(ctx context.Context, cols []column) error {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (id SERIAL PRIMARY KEY, datetime TIMESTAMPTZ DEFAULT NOW()", pq.QuoteIdentifier(s.table))
	for _, c := range cols {
		fmt.Fprintf(&b, ", %s %s", pq.QuoteIdentifier(c.name), c.sqlType)
	}
	b.WriteString(")")

	_, err := s.db.ExecContext(ctx, b.String())
	return err
}

// Write inserts one cycle's rows as a single row in the output table.
// Null values pass through as SQL NULL. Satisfies engine.Writer.
func (s *Store) Write(ctx context.Context, rows []engine.Row) error {
	if len(rows) == 0 {
		return nil
	}

	cols := make([]string, len(rows))
	placeholders := make([]string, len(rows))
	args := make([]interface{}, len(rows))
	for i, r := range rows {
		cols[i] = pq.QuoteIdentifier(r.Column)
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = rowValue(r)
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pq.QuoteIdentifier(s.table), strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	_, err := s.db.ExecContext(ctx, stmt, args...)
	return err
}

func rowValue(r engine.Row) interface{} {
	switch r.Value.Kind {
	case codec.KindInt:
		return r.Value.Int
	case codec.KindFloat:
		return r.Value.Float
	case codec.KindString:
		return r.Value.Str
	default:
		return nil
	}
}
