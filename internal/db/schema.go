package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

var ErrSchemaMismatch = errors.New("dataset schema mismatch")

// RequiredColumns lists, per table, the columns the climate queries read.
var RequiredColumns = map[string][]string{
	"station":     {"station", "name", "latitude", "longitude", "elevation"},
	"measurement": {"station", "date", "prcp", "tobs"},
}

// VerifySchema checks once at startup that every required table and column
// exists, so a wrong dataset file fails fast instead of on the first request.
func VerifySchema(ctx context.Context, db *sql.DB) error {
	tables := make([]string, 0, len(RequiredColumns))
	for table := range RequiredColumns {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	var problems []string
	for _, table := range tables {
		cols, err := tableColumns(ctx, db, table)
		if err != nil {
			return fmt.Errorf("inspect table %s: %w", table, err)
		}
		if len(cols) == 0 {
			problems = append(problems, fmt.Sprintf("table %q not found", table))
			continue
		}
		var missing []string
		for _, col := range RequiredColumns[table] {
			if !cols[col] {
				missing = append(missing, col)
			}
		}
		if len(missing) > 0 {
			problems = append(problems, fmt.Sprintf("table %q missing columns %s", table, strings.Join(missing, ", ")))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrSchemaMismatch, strings.Join(problems, "; "))
	}
	slog.Debug("dataset schema verified", "tables", tables)
	return nil
}

func tableColumns(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close table info rows", "table", table, "error", err)
		}
	}()
	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[strings.ToLower(name)] = true
	}
	return out, rows.Err()
}
