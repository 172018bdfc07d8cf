package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/musicislife08/TelegramGroupsAdmin-sub007/internal/db"
)

// UpsertTrainingLabel replaces the authoritative label of a message. The
// optional labeling actor triple is validated before it reaches the CHECK
// constraint, so callers get actor.ErrMalformedActor rather than a raw
// constraint failure.
func (c *sqliteClient) UpsertTrainingLabel(ctx context.Context, l *db.TrainingLabel) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, err := l.LabeledBy(); err != nil {
		return err
	}
	now := time.Now().UTC()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	l.UpdatedAt = now

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO training_labels (message_id, label, web_user_id, telegram_user_id, system_id, audit_event_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(message_id) DO UPDATE SET
		label = excluded.label,
		web_user_id = excluded.web_user_id,
		telegram_user_id = excluded.telegram_user_id,
		system_id = excluded.system_id,
		audit_event_id = excluded.audit_event_id,
		updated_at = excluded.updated_at
	`,
		l.MessageID,
		l.Label,
		l.WebUserID,
		l.TelegramUserID,
		l.SystemID,
		l.AuditEventID,
		l.CreatedAt,
		l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert training label for message %d: %w", l.MessageID, err)
	}
	return nil
}

func (c *sqliteClient) GetTrainingLabel(ctx context.Context, messageID int64) (*db.TrainingLabel, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var l db.TrainingLabel
	err := c.db.GetContext(ctx, &l, `
		SELECT message_id, label, web_user_id, telegram_user_id, system_id, audit_event_id, created_at, updated_at
		FROM training_labels
		WHERE message_id = ?
	`, messageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("get training label for message %d: %w", messageID, err)
	}
	return &l, nil
}

func (c *sqliteClient) GetTrainingSample(ctx context.Context, text string) (*db.TrainingSample, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var s db.TrainingSample
	err := c.db.GetContext(ctx, &s, `SELECT text, count, chat_ids FROM training_samples WHERE text = ?`, text)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("get training sample: %w", err)
	}
	return &s, nil
}
