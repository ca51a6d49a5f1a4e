package store

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"time"

	"log/slog"

	"github.com/go-sql-driver/mysql"
	"github.com/jekabolt/privshop-seller/internal/dependency"
	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Config defines configurations to connect database
type Config struct {
	Driver             string `mapstructure:"driver"`
	DSN                string `mapstructure:"dsn"`
	Automigrate        bool   `mapstructure:"automigrate"`
	MaxOpenConnections int    `mapstructure:"max_open_connections"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections"`
	TLSCAPath          string `mapstructure:"tls_ca_path"`
}

func (c Config) driver() string {
	if c.Driver == "" {
		return DriverPostgres
	}
	return c.Driver
}

// SQLStore implements the record store over a SQL database.
type SQLStore struct {
	// db is used for executing queries
	db    dependency.DB
	txDB  txDB
	ts    time.Time
	close context.CancelFunc
}

// registerTLSConfig registers a custom TLS configuration with the MySQL driver
// when a CA certificate is configured. The DSN must reference it with tls=custom.
func registerTLSConfig(cfg Config) error {
	if cfg.driver() != DriverMySQL || cfg.TLSCAPath == "" {
		return nil
	}
	caCert, err := os.ReadFile(cfg.TLSCAPath)
	if err != nil {
		return fmt.Errorf("failed to read CA certificate from %s: %w", cfg.TLSCAPath, err)
	}
	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return fmt.Errorf("failed to parse CA certificate")
	}
	return mysql.RegisterTLSConfig("custom", &tls.Config{RootCAs: caCertPool})
}

// Open connects to the database and optionally applies migrations.
func Open(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	if err := registerTLSConfig(cfg); err != nil {
		return nil, fmt.Errorf("failed to register TLS config: %w", err)
	}

	d, err := sqlx.Open(cfg.driver(), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("couldn't open database : %v", err)
	}

	if cfg.MaxOpenConnections > 0 {
		d.SetMaxOpenConns(cfg.MaxOpenConnections)
	}
	if cfg.MaxIdleConnections > 0 {
		d.SetMaxIdleConns(cfg.MaxIdleConnections)
	}
	if cfg.driver() != DriverSQLite {
		d.SetConnMaxLifetime(2 * time.Minute)
		d.SetConnMaxIdleTime(30 * time.Second)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	defer pingCancel()
	if err := d.PingContext(pingCtx); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.Automigrate {
		slog.Default().InfoContext(ctx, "applying migrations")
		migrateCtx, migrateCancel := context.WithTimeout(ctx, 5*time.Minute)
		defer migrateCancel()
		if _, err := MigrateWithContext(migrateCtx, d.DB, cfg.driver()); err != nil {
			d.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}
	return d, nil
}

// New connects to the database, applies migrations and returns a new SQLStore object.
func New(ctx context.Context, cfg Config) (*SQLStore, error) {
	d, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	ctx, c := context.WithCancel(ctx)
	ss := &SQLStore{
		db:    d,
		close: c,
	}

	go func() {
		<-ctx.Done()
		d.Close()
	}()

	return ss, nil
}

//go:embed sql
var fs embed.FS

// MigrateWithContext applies pending up migrations for the driver's dialect.
func MigrateWithContext(ctx context.Context, db *sql.DB, driver string) (int, error) {
	m := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: fs,
		Root:       "sql/" + driver,
	}

	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		n, err := migrate.Exec(db, driver, m, migrate.Up)
		done <- result{n: n, err: err}
	}()

	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("migration timeout: %w", ctx.Err())
	case res := <-done:
		if res.err != nil {
			return 0, fmt.Errorf("db migrations have failed: %w", res.err)
		}
		slog.Default().InfoContext(ctx, "applied migrations",
			slog.Int("count", res.n),
		)
		return res.n, nil
	}
}

func (ms *SQLStore) Close() {
	ms.close()
}

// Ping checks database connectivity by executing a simple query
func (ms *SQLStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result int
	err := ms.db.QueryRowxContext(ctx, "SELECT 1").Scan(&result)
	if err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
