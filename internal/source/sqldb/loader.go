// Package sqldb loads a dataset from a MySQL or SQLite table.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/alexanderjulianmartinez/drift-gate/internal/config"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type Loader struct {
	db      *sql.DB
	driver  string
	table   string
	timeout time.Duration
}

// New opens the database named by cfg.Type ("mysql" or "sqlite") and pings it.
func New(cfg config.SourceConfig) (*Loader, error) {
	if !identifier.MatchString(cfg.Collection) {
		return nil, fmt.Errorf("invalid table name %q", cfg.Collection)
	}
	dsn := cfg.URI
	if cfg.Type == "sqlite" && dsn == "" {
		dsn = cfg.Path
	}
	db, err := sql.Open(cfg.Type, dsn)
	if err != nil {
		return nil, err
	}
	return newLoader(db, cfg)
}

func newLoader(db *sql.DB, cfg config.SourceConfig) (*Loader, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s ping failed: %w", cfg.Type, err)
	}

	return &Loader{
		db:      db,
		driver:  cfg.Type,
		table:   cfg.Collection,
		timeout: timeout,
	}, nil
}

func (l *Loader) Name() string {
	return l.driver + ":" + l.table
}

func (l *Loader) Close() error {
	return l.db.Close()
}

func (l *Loader) FetchRowCount(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	var count int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM `%s`", l.table)
	err := l.db.QueryRowContext(ctx, query).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
