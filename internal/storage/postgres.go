package storage

import (
	"context"
	"database/sql"
	"log/slog"

	_ "github.com/lib/pq"
)

// PostgresGateway stores expenses in a PostgreSQL database.
type PostgresGateway struct {
	sqlGateway
	dsn string
}

func NewPostgresGateway(dsn string) (*PostgresGateway, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, unavailable("open postgres database", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, unavailable("ping database", err)
	}

	return &PostgresGateway{
		sqlGateway: sqlGateway{db: db, rebind: rebindDollar},
		dsn:        dsn,
	}, nil
}

// EnsureSchema runs the embedded PostgreSQL migrations.
func (g *PostgresGateway) EnsureSchema(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := RunPostgresMigrations(g.dsn); err != nil {
		return unavailable("ensure schema", err)
	}
	slog.DebugContext(ctx, "PostgreSQL schema ready")
	return nil
}

func (g *PostgresGateway) String() string {
	return "postgres"
}
