package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/musicislife08/TelegramGroupsAdmin-sub007/internal/db"
	"github.com/musicislife08/TelegramGroupsAdmin-sub007/internal/detection"
)

// InsertDetectionResult persists one classification pass. NetConfidence and
// IsSpam are recomputed from CheckResults here, whatever the caller put in
// those fields; the pair is derived, never settable.
func (c *sqliteClient) InsertDetectionResult(ctx context.Context, r *db.DetectionResult) (*db.DetectionResult, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, err := r.Actor(); err != nil {
		return nil, err
	}
	r.NetConfidence, r.IsSpam = detection.Aggregate(r.CheckResults)
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	res, err := c.db.ExecContext(ctx, `
		INSERT INTO detection_results (message_id, edit_version, net_confidence, is_spam, check_results, used_for_training, created_at, web_user_id, telegram_user_id, system_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.MessageID,
		r.EditVersion,
		r.NetConfidence,
		r.IsSpam,
		r.CheckResults,
		r.UsedForTraining,
		r.CreatedAt,
		r.WebUserID,
		r.TelegramUserID,
		r.SystemID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert detection result for message %d: %w", r.MessageID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("detection result id: %w", err)
	}
	r.ID = id
	return r, nil
}

func (c *sqliteClient) GetDetectionResults(ctx context.Context, messageID int64) ([]db.DetectionResult, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var results []db.DetectionResult
	err := c.db.SelectContext(ctx, &results, `
		SELECT id, message_id, edit_version, net_confidence, is_spam, check_results, used_for_training, created_at, web_user_id, telegram_user_id, system_id
		FROM detection_results
		WHERE message_id = ?
		ORDER BY edit_version, created_at
	`, messageID)
	if err != nil {
		return nil, fmt.Errorf("get detection results for message %d: %w", messageID, err)
	}
	return results, nil
}
