// Package database manages the SQLite connection: URI construction, PRAGMA
// application, embedded migrations and a transaction helper.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	_ "modernc.org/sqlite" // register the sqlite driver

	"github.com/raspored-app/raspored/internal/logging"
)

//go:embed migrations
var migrationsFS embed.FS

// DB manages the database connection
type DB struct {
	conn     *sql.DB
	logger   zerolog.Logger
	dbPath   string
	migrated atomic.Bool
}

// New creates a new database connection using the provided options. Mode and
// cache settings travel in the URI; the remaining options are applied as
// PRAGMA commands once the connection is established.
func New(opts SQLiteOptions) (*DB, error) {
	connStr := opts.buildConnectionString()
	logger := logging.GetLogger("database").With().Str("db_path", opts.Path).Logger()
	logger.Info().Str("connection_string", connStr).Msg("Opening database connection")

	conn, err := sql.Open("sqlite", connStr)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open database")
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = applyPragmas(conn, opts, logger); err != nil {
		conn.Close()
		return nil, err
	}

	if err = conn.Ping(); err != nil {
		logger.Error().Err(err).Msg("Failed to ping database after open and applying PRAGMAs")
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info().Msg("Database connection opened and configured successfully")

	return &DB{conn: conn, logger: logger, dbPath: opts.Path}, nil
}

// applyPragmas executes PRAGMA commands based on SQLiteOptions after the
// connection is opened. A failing PRAGMA aborts the open.
func applyPragmas(conn *sql.DB, opts SQLiteOptions, logger zerolog.Logger) error {
	pragmas := make(map[string]string)

	if opts.Journal != "" {
		pragmas["journal_mode"] = string(opts.Journal)
	}
	if opts.BusyTimeout > 0 {
		pragmas["busy_timeout"] = fmt.Sprintf("%d", opts.BusyTimeout)
	}
	if opts.ForeignKeys {
		pragmas["foreign_keys"] = "1"
	}
	if opts.CacheSize != 0 {
		pragmas["cache_size"] = fmt.Sprintf("%d", opts.CacheSize)
	}
	if opts.Synchronous != "" {
		pragmas["synchronous"] = string(opts.Synchronous)
	}

	for name, value := range pragmas {
		query := fmt.Sprintf("PRAGMA %s = %s;", name, value)
		logger.Debug().Str("pragma", name).Str("value", value).Msg("Applying PRAGMA")
		if _, err := conn.Exec(query); err != nil {
			logger.Error().Err(err).Str("pragma", name).Str("value", value).Msg("Failed to apply PRAGMA")
			return fmt.Errorf("failed to apply PRAGMA %s=%s: %w", name, value, err)
		}
	}
	return nil
}

// Conn returns the underlying database connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// IsMigrated reports whether MigrateDatabase completed successfully.
func (db *DB) IsMigrated() bool {
	return db.migrated.Load()
}

// WithTransaction executes a function within a database transaction. If the
// function returns an error the transaction is rolled back, otherwise it is
// committed.
func (db *DB) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	db.logger.Debug().Msg("Starting database transaction")
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		db.logger.Error().Err(err).Msg("Failed to start database transaction")
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			db.logger.Error().Interface("panic", p).Msg("Panic occurred during transaction, rolling back")
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				db.logger.Error().Err(rollbackErr).Msg("Failed to rollback transaction during panic recovery")
			}
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		db.logger.Debug().Err(err).Msg("Transaction function returned error, rolling back")
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			db.logger.Error().Err(rollbackErr).Msg("Failed to rollback transaction")
			return fmt.Errorf("transaction failed: %w, rollback failed: %v", err, rollbackErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		db.logger.Error().Err(err).Msg("Failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	db.logger.Debug().Msg("Transaction committed successfully")
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	db.logger.Info().Msg("Closing database connection")
	if err := db.conn.Close(); err != nil {
		db.logger.Error().Err(err).Msg("Failed to close database connection")
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	db.logger.Info().Msg("Database connection closed successfully")
	return nil
}

// MigrateDatabase applies the embedded migrations
func (db *DB) MigrateDatabase() error {
	db.logger.Info().Msg("Starting database migration")

	driver, err := migratesqlite.WithInstance(db.conn, &migratesqlite.Config{})
	if err != nil {
		db.logger.Error().Err(err).Msg("Failed to create database driver for migration")
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	subFS, err := fs.Sub(migrationsFS, "migrations/sqlite")
	if err != nil {
		db.logger.Error().Err(err).Msg("Failed to create sub-filesystem for migrations")
		return fmt.Errorf("failed to create sub-filesystem: %w", err)
	}

	sourceInstance, err := iofs.New(subFS, ".")
	if err != nil {
		db.logger.Error().Err(err).Msg("Failed to create embedded file source for migration")
		return fmt.Errorf("failed to create embedded file source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceInstance, "sqlite", driver)
	if err != nil {
		db.logger.Error().Err(err).Msg("Failed to create migrator instance")
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	currentVersion, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		db.logger.Error().Err(err).Msg("Failed to get current migration version")
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	db.logger.Info().Uint("current_version", currentVersion).Bool("dirty", dirty).Msg("Current database migration version")

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		db.logger.Error().Err(err).Msg("Failed to apply migrations")
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	newVersion, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		db.logger.Error().Err(err).Msg("Failed to get migration version after applying migrations")
	}

	if err == migrate.ErrNoChange {
		db.logger.Info().Msg("No new migrations to apply")
	} else {
		db.logger.Info().Uint("previous_version", currentVersion).Uint("new_version", newVersion).Bool("dirty", dirty).Msg("Migrations applied successfully")
	}

	db.migrated.Store(true)
	return nil
}
