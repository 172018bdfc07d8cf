package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/pborman/uuid"

	"github.com/musicislife08/TelegramGroupsAdmin-sub007/internal/db"
)

// InsertAuditEvent appends to the log. The actor triple is validated on the
// way in (exactly one identity, at most one target identity); rows are never
// updated or deleted afterwards.
func (c *sqliteClient) InsertAuditEvent(ctx context.Context, e *db.AuditEvent) (*db.AuditEvent, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, err := e.Actor(); err != nil {
		return nil, err
	}
	if _, err := e.Target(); err != nil {
		return nil, err
	}
	if e.ID == "" {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, event_type, value, created_at, web_user_id, telegram_user_id, system_id, target_web_user_id, target_telegram_user_id, target_system_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.ID,
		e.EventType,
		e.Value,
		e.CreatedAt,
		e.WebUserID,
		e.TelegramUserID,
		e.SystemID,
		e.TargetWebUserID,
		e.TargetTelegramUserID,
		e.TargetSystemID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert audit event %s: %w", e.EventType, err)
	}
	return e, nil
}

func (c *sqliteClient) GetAuditEvents(ctx context.Context, limit int) ([]db.AuditEvent, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var events []db.AuditEvent
	err := c.db.SelectContext(ctx, &events, `
		SELECT id, event_type, value, created_at, web_user_id, telegram_user_id, system_id, target_web_user_id, target_telegram_user_id, target_system_id
		FROM audit_log
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("get audit events: %w", err)
	}
	return events, nil
}
