package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strings"
	"time"

	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite"

	dbmodels "github.com/citizenhero/raindrop/database/models"
)

const (
	defaultConnTimeout   = 5 * time.Second
	defaultMaxRetries    = 3
	defaultRetryInterval = time.Second
)

type DBConfig struct {
	Driver       string `toml:"driver"` // "postgres" (default) or "sqlite"
	URL          string `toml:"url"`
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Database     string `toml:"database"`
	PoolSize     int    `toml:"pool_size"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	MaxLifetime  int    `toml:"max_lifetime"`
	Path         string `toml:"path"` // sqlite file path; empty means in-memory
}

type DB struct {
	pool  *pgxpool.Pool // nil for sqlite
	bunDB *bun.DB
}

// New connects to the configured database. The sqlite driver is intended for
// local development and tests; postgres is the production path.
func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	if cfg.Driver == "sqlite" {
		return newSQLite(cfg)
	}
	return newPostgres(ctx, cfg)
}

func newPostgres(ctx context.Context, cfg DBConfig) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(buildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	// Verify the server is reachable before handing the DSN to the pool,
	// retrying a few times to ride out container startup races. The address
	// comes from the parsed config so a DATABASE_URL-only setup dials the
	// URL's host, not the field defaults. Unix-socket hosts skip the check.
	if host := poolConfig.ConnConfig.Host; !strings.HasPrefix(host, "/") {
		addr := net.JoinHostPort(host, fmt.Sprintf("%d", poolConfig.ConnConfig.Port))

		var conn net.Conn
		for i := 0; i < defaultMaxRetries; i++ {
			conn, err = net.DialTimeout("tcp", addr, defaultConnTimeout)
			if err == nil {
				break
			}
			slog.Warn("Database server not reachable, retrying",
				slog.String("addr", addr),
				slog.Int("attempt", i+1))
			time.Sleep(defaultRetryInterval)
		}
		if err != nil {
			return nil, fmt.Errorf("database server unreachable after %d attempts: %w", defaultMaxRetries, err)
		}
		conn.Close()
	}

	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = time.Duration(cfg.MaxLifetime) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(buildConnString(cfg))))
	bunDB := bun.NewDB(sqldb, pgdialect.New())

	return &DB{pool: pool, bunDB: bunDB}, nil
}

func newSQLite(cfg DBConfig) (*DB, error) {
	dsn := cfg.Path
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}

	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// modernc sqlite does not tolerate concurrent writers on one file.
	sqldb.SetMaxOpenConns(1)

	return &DB{bunDB: bun.NewDB(sqldb, sqlitedialect.New())}, nil
}

// buildConnString builds the postgres connection string, preferring an
// explicit URL (DATABASE_URL) over the individual fields.
func buildConnString(cfg DBConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable&connect_timeout=5",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
	)
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

func (db *DB) Ping(ctx context.Context) error {
	if db.pool != nil {
		return db.pool.Ping(ctx)
	}
	return db.bunDB.PingContext(ctx)
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
	if db.bunDB != nil {
		db.bunDB.Close()
	}
}

// InitSchema creates the quests table when it does not exist yet.
func (db *DB) InitSchema(ctx context.Context) error {
	_, err := db.bunDB.NewCreateTable().
		Model((*dbmodels.QuestRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create quests table: %w", err)
	}

	slog.Info("Database schema ready", slog.String("type", "db"))
	return nil
}

// ResetQuestTables wipes the quests table for a fresh start. On postgres the
// identity sequence is restarted too; on sqlite rows are simply deleted.
func (db *DB) ResetQuestTables(ctx context.Context) error {
	if db.pool != nil {
		start := time.Now()
		_, err := db.pool.Exec(ctx, `TRUNCATE TABLE "quests" RESTART IDENTITY;`)
		if err != nil {
			return fmt.Errorf("failed to truncate quests table: %w", err)
		}
		slog.Info("Quest tables truncated",
			slog.String("type", "db"),
			slog.Duration("took", time.Since(start)))
		return nil
	}

	_, err := db.bunDB.NewDelete().
		Model((*dbmodels.QuestRecord)(nil)).
		Where("1 = 1").
		Exec(ctx)
	return err
}
