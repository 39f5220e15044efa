package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)"

// SQLiteDB holds a single-connection writer and a small reader pool over the same file.
// One writer avoids "database is locked" errors under concurrent requests.
type SQLiteDB struct {
	Writer *sql.DB
	Reader *sql.DB
}

// OpenSQLite opens the database file at path in WAL mode.
func OpenSQLite(path string) (*SQLiteDB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&%s", path, sqlitePragmas)
	return openSQLite(dsn)
}

// OpenSQLiteMemory opens a named shared-cache in-memory database. Handles opened
// with the same name see the same data until the last one is closed.
func OpenSQLiteMemory(name string) (*SQLiteDB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&%s", url.PathEscape(name), sqlitePragmas)
	return openSQLite(dsn)
}

func openSQLite(dsn string) (*SQLiteDB, error) {
	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}
	writer.SetMaxOpenConns(1)
	if err := writer.Ping(); err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("ping writer: %w", err)
	}

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}
	reader.SetMaxOpenConns(4)
	if err := reader.Ping(); err != nil {
		_ = reader.Close()
		_ = writer.Close()
		return nil, fmt.Errorf("ping reader: %w", err)
	}

	return &SQLiteDB{Writer: writer, Reader: reader}, nil
}

func (db *SQLiteDB) Ping(ctx context.Context) error {
	return db.Writer.PingContext(ctx)
}

// Close closes both handles and returns the first error.
func (db *SQLiteDB) Close() error {
	var firstErr error
	if err := db.Reader.Close(); err != nil {
		firstErr = fmt.Errorf("close reader: %w", err)
	}
	if err := db.Writer.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close writer: %w", err)
	}
	return firstErr
}

// RunSQLiteMigrations applies the embedded sqlite migrations through the writer handle.
func RunSQLiteMigrations(db *SQLiteDB, logger *slog.Logger) error {
	logger.Info("Running sqlite migrations...")

	sourceDriver, err := iofs.New(migrationFS, "migrations/sqlite")
	if err != nil {
		return fmt.Errorf("failed to create migration source driver: %w", err)
	}

	dbDriver, err := migratesqlite.WithInstance(db.Writer, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("failed to initialize migrate instance: %w", err)
	}

	// m.Close would close db.Writer, which the repositories keep using.
	return applyMigrations(m, logger)
}
