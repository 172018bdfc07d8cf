package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iamwavecut/tool"

	"github.com/musicislife08/TelegramGroupsAdmin-sub007/internal/db"
)

func (c *sqliteClient) GetConfigRow(ctx context.Context, chatID int64) (*db.ConfigRow, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var row db.ConfigRow
	err := c.db.GetContext(ctx, &row, `
		SELECT chat_id, moderation, spam_detection, welcome, notifications, background_jobs, updated_at
		FROM chat_configs
		WHERE chat_id = ?
	`, chatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("get config row for chat %d: %w", chatID, err)
	}
	return &row, nil
}

func (c *sqliteClient) UpsertConfigRow(ctx context.Context, row *db.ConfigRow) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	row.UpdatedAt = time.Now().UTC()

	// The uniqueness of chat_id lives in two partial indexes (one filtered
	// on chat scopes, one on the global sentinel), so ON CONFLICT has no
	// single target to name. Update-then-insert under the write lock
	// instead.
	res, err := c.db.NamedExecContext(ctx, `
		UPDATE chat_configs SET
			moderation = :moderation,
			spam_detection = :spam_detection,
			welcome = :welcome,
			notifications = :notifications,
			background_jobs = :background_jobs,
			updated_at = :updated_at
		WHERE chat_id = :chat_id
	`, row)
	if err != nil {
		return fmt.Errorf("update config row for chat %d: %w", row.ChatID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	return tool.Err(c.db.NamedExecContext(ctx, `
		INSERT INTO chat_configs (chat_id, moderation, spam_detection, welcome, notifications, background_jobs, updated_at)
		VALUES (:chat_id, :moderation, :spam_detection, :welcome, :notifications, :background_jobs, :updated_at)
	`, row))
}
