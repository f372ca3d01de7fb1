package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteGateway stores expenses in a local SQLite file.
type SQLiteGateway struct {
	sqlGateway
	path string
}

func NewSQLiteGateway(dbPath string) (*SQLiteGateway, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, unavailable("create db directory", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, unavailable("open sqlite database", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, unavailable("ping database", err)
	}

	// One writer at a time keeps SQLite away from SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	return &SQLiteGateway{
		sqlGateway: sqlGateway{db: db},
		path:       dbPath,
	}, nil
}

// EnsureSchema runs the embedded SQLite migrations.
func (g *SQLiteGateway) EnsureSchema(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := RunSQLiteMigrations(g.path); err != nil {
		return unavailable("ensure schema", err)
	}
	slog.DebugContext(ctx, "SQLite schema ready", "path", g.path)
	return nil
}

// Path returns the database file location.
func (g *SQLiteGateway) Path() string {
	return g.path
}

func (g *SQLiteGateway) String() string {
	return fmt.Sprintf("sqlite(%s)", g.path)
}
