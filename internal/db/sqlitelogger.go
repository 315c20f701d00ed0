package db

import (
	"context"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// stmtLogConnector opens go-sqlite3 connections whose statements are logged
// at debug level. Use it with sql.OpenDB.
type stmtLogConnector struct {
	dsn    string
	driver *sqlite3.SQLiteDriver
	logger *slog.Logger
}

type stmtLogConn struct {
	driver.Conn
	logger *slog.Logger
}

type stmtLogStmt struct {
	driver.Stmt
	query  string
	logger *slog.Logger
}

// NewLoggingConnector returns a driver.Connector over go-sqlite3 that logs
// each executed statement with its arguments and duration. A nil logger
// falls back to slog.Default().
func NewLoggingConnector(dsn string, logger *slog.Logger) (driver.Connector, error) {
	if dsn == "" {
		return nil, fmt.Errorf("sqlite log connector: empty dsn")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &stmtLogConnector{dsn: dsn, driver: &sqlite3.SQLiteDriver{}, logger: logger}, nil
}

func (c *stmtLogConnector) Driver() driver.Driver {
	return c.driver
}

func (c *stmtLogConnector) Connect(ctx context.Context) (driver.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conn, err := c.driver.Open(c.dsn)
	if err != nil {
		return nil, err
	}
	return &stmtLogConn{Conn: conn, logger: c.logger}, nil
}

func (c *stmtLogConn) Prepare(query string) (driver.Stmt, error) {
	return c.PrepareContext(context.Background(), query)
}

func (c *stmtLogConn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	var (
		stmt driver.Stmt
		err  error
	)
	if prep, ok := c.Conn.(driver.ConnPrepareContext); ok {
		stmt, err = prep.PrepareContext(ctx, query)
	} else {
		stmt, err = c.Conn.Prepare(query)
	}
	if err != nil {
		c.logger.Debug("sql prepare failed", "sql", query, "error", err)
		return nil, err
	}
	return &stmtLogStmt{Stmt: stmt, query: query, logger: c.logger}, nil
}

func (c *stmtLogConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if beginTx, ok := c.Conn.(driver.ConnBeginTx); ok {
		return beginTx.BeginTx(ctx, opts)
	}
	//nolint:staticcheck // SA1019 – fallback when underlying conn does not implement ConnBeginTx
	return c.Conn.Begin()
}

func (s *stmtLogStmt) Exec(args []driver.Value) (driver.Result, error) {
	defer s.log("exec", valuesToArgs(args), time.Now())
	//nolint:staticcheck // SA1019 – required when called through the legacy interface
	return s.Stmt.Exec(args)
}

func (s *stmtLogStmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	defer s.log("exec", namedToArgs(args), time.Now())
	if execCtx, ok := s.Stmt.(driver.StmtExecContext); ok {
		return execCtx.ExecContext(ctx, args)
	}
	//nolint:staticcheck // SA1019 – fallback when underlying stmt does not implement StmtExecContext
	return s.Stmt.Exec(namedToValues(args))
}

func (s *stmtLogStmt) Query(args []driver.Value) (driver.Rows, error) {
	defer s.log("query", valuesToArgs(args), time.Now())
	//nolint:staticcheck // SA1019 – required when called through the legacy interface
	return s.Stmt.Query(args)
}

func (s *stmtLogStmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	defer s.log("query", namedToArgs(args), time.Now())
	if queryCtx, ok := s.Stmt.(driver.StmtQueryContext); ok {
		return queryCtx.QueryContext(ctx, args)
	}
	//nolint:staticcheck // SA1019 – fallback when underlying stmt does not implement StmtQueryContext
	return s.Stmt.Query(namedToValues(args))
}

func (s *stmtLogStmt) log(op string, args []string, start time.Time) {
	s.logger.Debug("sql",
		"op", op,
		"sql", s.query,
		"args", args,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func valuesToArgs(vals []driver.Value) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = formatArg(v)
	}
	return out
}

func namedToArgs(args []driver.NamedValue) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if a.Name != "" {
			out[i] = a.Name + "=" + formatArg(a.Value)
			continue
		}
		out[i] = formatArg(a.Value)
	}
	return out
}

func namedToValues(args []driver.NamedValue) []driver.Value {
	out := make([]driver.Value, len(args))
	for i := range args {
		out[i] = args[i].Value
	}
	return out
}

func formatArg(v any) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}
