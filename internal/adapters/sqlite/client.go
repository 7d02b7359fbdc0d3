package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"stockwatch/internal/adapters/config"
	"stockwatch/pkg/errors"
)

// Client wraps sqlx.DB for the local SQLite store
type Client struct {
	db *sqlx.DB
}

// NewClient opens the database and applies the schema
func NewClient(cfg config.DatabaseConfig) (*Client, error) {
	db, err := sqlx.Connect("sqlite", cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite database")
	}

	// SQLite serializes writers; a single connection avoids SQLITE_BUSY
	// under concurrent mutations and keeps :memory: databases coherent
	// across the pool.
	db.SetMaxOpenConns(1)

	client := &Client{db: db}
	if err := client.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to migrate schema")
	}

	return client, nil
}

// DB returns the underlying sqlx.DB instance
func (c *Client) DB() *sqlx.DB {
	return c.db
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// Health checks database connectivity
func (c *Client) Health(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

const schema = `
CREATE TABLE IF NOT EXISTS stocks (
	symbol         TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	price          TEXT NOT NULL DEFAULT '',
	change         TEXT NOT NULL DEFAULT '',
	change_percent TEXT NOT NULL DEFAULT '',
	volume         TEXT NOT NULL DEFAULT '',
	in_watchlist   INTEGER NOT NULL DEFAULT 0,
	last_updated   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS watchlists (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	stock_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS watchlist_stocks (
	watchlist_id INTEGER NOT NULL REFERENCES watchlists(id) ON DELETE CASCADE,
	stock_symbol TEXT NOT NULL,
	UNIQUE (watchlist_id, stock_symbol)
);

CREATE INDEX IF NOT EXISTS idx_watchlist_stocks_symbol ON watchlist_stocks (stock_symbol);
CREATE INDEX IF NOT EXISTS idx_stocks_last_updated ON stocks (last_updated);
`

func (c *Client) migrate(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, schema)
	return err
}
