package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/musicislife08/TelegramGroupsAdmin-sub007/internal/db"
)

func (c *sqliteClient) CreateReview(ctx context.Context, r *db.Review) (*db.Review, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if r.Type == "" {
		r.Type = db.ReviewTypeReport
	}
	if r.Status == "" {
		r.Status = db.ReviewStatusPending
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	res, err := c.db.ExecContext(ctx, `
		INSERT INTO reviews (type, chat_id, message_id, status, context, reviewer_web_user_id, created_at, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.Type,
		r.ChatID,
		r.MessageID,
		r.Status,
		r.Context,
		r.ReviewerWebUserID,
		r.CreatedAt,
		r.ResolvedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create %s review: %w", r.Type, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("review id: %w", err)
	}
	r.ID = id
	return r, nil
}

func (c *sqliteClient) GetPendingReview(ctx context.Context, messageID int64) (*db.Review, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var r db.Review
	err := c.db.GetContext(ctx, &r, `
		SELECT id, type, chat_id, message_id, status, context, reviewer_web_user_id, created_at, resolved_at
		FROM reviews
		WHERE message_id = ? AND status = 'pending'
	`, messageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("get pending review for message %d: %w", messageID, err)
	}
	return &r, nil
}

func (c *sqliteClient) ResolveReview(ctx context.Context, id int64, status db.ReviewStatus, reviewerWebUserID string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	res, err := c.db.ExecContext(ctx, `
		UPDATE reviews
		SET status = ?, reviewer_web_user_id = ?, resolved_at = ?
		WHERE id = ? AND status = 'pending'
	`, status, reviewerWebUserID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("resolve review %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return db.ErrNotFound
	}
	return nil
}
