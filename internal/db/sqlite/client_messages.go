package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/musicislife08/TelegramGroupsAdmin-sub007/internal/db"
)

func (c *sqliteClient) InsertWebUser(ctx context.Context, user *db.WebUser) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO web_users (id, username, created_at) VALUES (?, ?, ?)
	`, user.ID, user.UserName, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert web user %s: %w", user.ID, err)
	}
	return nil
}

func (c *sqliteClient) IsWebUser(ctx context.Context, id string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var count int
	if err := c.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM web_users WHERE id = ?`, id); err != nil {
		return false, fmt.Errorf("check web user %s: %w", id, err)
	}
	return count > 0, nil
}

func (c *sqliteClient) DeleteWebUser(ctx context.Context, id string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	// Audit rows keep their (now dangling) attribution; a reviewer with
	// open reviews blocks deletion via the RESTRICT policy.
	if _, err := c.db.ExecContext(ctx, `DELETE FROM web_users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete web user %s: %w", id, err)
	}
	return nil
}

func (c *sqliteClient) upsertChat(ctx context.Context, chatID int64) error {
	_, err := c.db.ExecContext(ctx, `INSERT OR IGNORE INTO chats (id) VALUES (?)`, chatID)
	return err
}

func (c *sqliteClient) InsertMessage(ctx context.Context, m *db.Message) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if err := c.upsertChat(ctx, m.ChatID); err != nil {
		return fmt.Errorf("ensure chat %d: %w", m.ChatID, err)
	}
	res, err := c.db.ExecContext(ctx, `
		INSERT INTO messages (chat_id, user_id, text, created_at) VALUES (?, ?, ?, ?)
	`, m.ChatID, m.UserID, m.Text, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		m.ID = id
	}
	return nil
}

func (c *sqliteClient) InsertMessageEdit(ctx context.Context, e *db.MessageEdit) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if e.EditedAt.IsZero() {
		e.EditedAt = time.Now().UTC()
	}
	if _, err := c.getMessage(ctx, e.MessageID); err != nil {
		return err
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO message_edits (message_id, edit_version, text, edited_at) VALUES (?, ?, ?, ?)
	`, e.MessageID, e.EditVersion, e.Text, e.EditedAt)
	if err != nil {
		return fmt.Errorf("insert edit %d of message %d: %w", e.EditVersion, e.MessageID, err)
	}
	return nil
}

// DeleteMessage removes the message and, through the cascade policies,
// everything the message owns: edits, translations, detection history and
// its training label. Reviews only lose their message link (SET NULL).
func (c *sqliteClient) DeleteMessage(ctx context.Context, messageID int64) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	res, err := c.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, messageID)
	if err != nil {
		return fmt.Errorf("delete message %d: %w", messageID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (c *sqliteClient) getMessage(ctx context.Context, messageID int64) (*db.Message, error) {
	var m db.Message
	err := c.db.GetContext(ctx, &m, `SELECT id, chat_id, user_id, text, created_at FROM messages WHERE id = ?`, messageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}
