// Package storage is the durable table behind the expense repository.
//
// A Gateway exposes only two data operations, Execute and QueryAll, plus
// schema setup. It owns no business rules: validation, ordering and the
// shape of an Expense live in the services and core packages.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"spendlog/internal/core"
)

// Row is one result row keyed by column name.
type Row map[string]any

// Gateway is the persistence boundary of the application.
// Queries use '?' placeholders regardless of the backing database.
type Gateway interface {
	// Execute runs a DDL or DML statement and returns the affected row count.
	Execute(ctx context.Context, query string, args ...any) (int64, error)
	// QueryAll runs a query and materialises every row.
	QueryAll(ctx context.Context, query string, args ...any) ([]Row, error)
	// EnsureSchema creates the expenses table if needed. Safe to call on every start.
	EnsureSchema(ctx context.Context) error
	Close() error
}

// sqlGateway implements Execute and QueryAll over database/sql.
type sqlGateway struct {
	db     *sql.DB
	rebind func(string) string
}

func (g *sqlGateway) Execute(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := g.db.ExecContext(ctx, g.bind(query), args...)
	if err != nil {
		return 0, unavailable("execute", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, unavailable("rows affected", err)
	}
	return n, nil
}

func (g *sqlGateway) QueryAll(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := g.db.QueryContext(ctx, g.bind(query), args...)
	if err != nil {
		return nil, unavailable("query", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, unavailable("read columns", err)
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, unavailable("scan row", err)
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			if b, ok := values[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate rows", err)
	}
	return out, nil
}

func (g *sqlGateway) Close() error {
	if g.db != nil {
		return g.db.Close()
	}
	return nil
}

func (g *sqlGateway) bind(query string) string {
	if g.rebind == nil {
		return query
	}
	return g.rebind(query)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", core.ErrStorageUnavailable, op, err)
}

// rebindDollar rewrites '?' placeholders to Postgres-style $1, $2, ...
// Question marks inside single-quoted literals are left alone.
func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
