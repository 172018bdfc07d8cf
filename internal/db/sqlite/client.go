package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/musicislife08/TelegramGroupsAdmin-sub007/internal/db"
	"github.com/musicislife08/TelegramGroupsAdmin-sub007/resources"
)

type sqliteClient struct {
	db    *sqlx.DB
	mutex sync.RWMutex
}

var _ db.Client = (*sqliteClient)(nil)

// NewSQLiteClient opens (or creates) the database file under dir and applies
// every pending migration, in timestamp order, before returning. Foreign keys
// are enforced on every pooled connection via the DSN pragma; several delete
// policies (message cascade, review set-null, reviewer restrict) depend on
// that.
func NewSQLiteClient(ctx context.Context, dir, name string) (*sqliteClient, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)", filepath.Join(dir, name))
	dbx, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	dbx.SetMaxOpenConns(1)

	migrationsSource := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: resources.FS,
		Root:       "migrations",
	}
	if _, _, err = migrate.PlanMigration(dbx.DB, "sqlite3", migrationsSource, migrate.Up, 0); err != nil {
		return nil, fmt.Errorf("plan migrations: %w", err)
	}
	n, err := migrate.Exec(dbx.DB, "sqlite3", migrationsSource, migrate.Up)
	if err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	if n > 0 {
		log.Infof("applied %d migrations", n)
	}

	client := &sqliteClient{db: dbx}
	if err := client.ensureGlobalConfig(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

func (c *sqliteClient) Close() error {
	return c.db.Close()
}

// ensureGlobalConfig restores the sentinel row when it is missing. The
// migration sequence seeds it; its absence means somebody deleted it by hand,
// and the resolver treats a missing global row as a hard error.
func (c *sqliteClient) ensureGlobalConfig(ctx context.Context) error {
	var count int
	if err := c.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM chat_configs WHERE chat_id = 0`); err != nil {
		return fmt.Errorf("check global config row: %w", err)
	}
	if count > 0 {
		return nil
	}
	log.Warnln("global config row is missing, restoring defaults")
	if err := c.UpsertConfigRow(ctx, db.DefaultGlobalConfig()); err != nil {
		return fmt.Errorf("restore global config row: %w", err)
	}
	return nil
}
