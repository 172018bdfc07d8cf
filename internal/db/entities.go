package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/musicislife08/TelegramGroupsAdmin-sub007/internal/actor"
	"github.com/musicislife08/TelegramGroupsAdmin-sub007/internal/detection"
)

type (
	// Document is an opaque JSON settings/payload column. Nil means the
	// column is NULL, which for config categories means "disabled".
	Document map[string]any

	// CheckResultList is the ordered per-check outcome column on a
	// detection result.
	CheckResultList []detection.CheckResult

	// ChatIDList is a JSON array column of chat ids, kept sorted.
	ChatIDList []int64

	Chat struct {
		ID       int64  `db:"id"`
		Title    string `db:"title"`
		Language string `db:"language"`
		Type     string `db:"type"`
	}

	WebUser struct {
		ID        string    `db:"id"`
		UserName  string    `db:"username"`
		CreatedAt time.Time `db:"created_at"`
	}

	Message struct {
		ID        int64     `db:"id"`
		ChatID    int64     `db:"chat_id"`
		UserID    int64     `db:"user_id"`
		Text      string    `db:"text"`
		CreatedAt time.Time `db:"created_at"`
	}

	MessageEdit struct {
		MessageID   int64     `db:"message_id"`
		EditVersion int       `db:"edit_version"`
		Text        string    `db:"text"`
		EditedAt    time.Time `db:"edited_at"`
	}

	// DetectionResult is one classification pass over a message (or a
	// specific edit of it). NetConfidence and IsSpam are derived from
	// CheckResults at write time and never settable independently.
	DetectionResult struct {
		ID              int64           `db:"id"`
		MessageID       int64           `db:"message_id"`
		EditVersion     int             `db:"edit_version"`
		NetConfidence   int             `db:"net_confidence"`
		IsSpam          bool            `db:"is_spam"`
		CheckResults    CheckResultList `db:"check_results"`
		WebUserID       *string         `db:"web_user_id"`
		TelegramUserID  *int64          `db:"telegram_user_id"`
		SystemID        *string         `db:"system_id"`
		UsedForTraining bool            `db:"used_for_training"`
		CreatedAt       time.Time       `db:"created_at"`
	}

	// Review is the unified polymorphic moderation-queue row: the former
	// reports and impersonation_alerts tables discriminated by Type, with
	// type-specific payload in Context.
	Review struct {
		ID                int64        `db:"id"`
		Type              ReviewType   `db:"type"`
		ChatID            int64        `db:"chat_id"`
		MessageID         *int64       `db:"message_id"`
		Status            ReviewStatus `db:"status"`
		Context           Document     `db:"context"`
		ReviewerWebUserID *string      `db:"reviewer_web_user_id"`
		CreatedAt         time.Time    `db:"created_at"`
		ResolvedAt        *time.Time   `db:"resolved_at"`
	}

	// TrainingLabel is the authoritative ground truth for one message, as
	// opposed to the append-only detection history.
	TrainingLabel struct {
		MessageID      int64     `db:"message_id"`
		Label          Label     `db:"label"`
		WebUserID      *string   `db:"web_user_id"`
		TelegramUserID *int64    `db:"telegram_user_id"`
		SystemID       *string   `db:"system_id"`
		AuditEventID   *string   `db:"audit_event_id"`
		CreatedAt      time.Time `db:"created_at"`
		UpdatedAt      time.Time `db:"updated_at"`
	}

	// TrainingSample is an aggregated spam corpus row keyed by exact text.
	TrainingSample struct {
		Text    string     `db:"text"`
		Count   int64      `db:"count"`
		ChatIDs ChatIDList `db:"chat_ids"`
	}

	// AuditEvent is append-only: created once, never mutated, never
	// cascade-deleted with its actor.
	AuditEvent struct {
		ID                   string         `db:"id"`
		EventType            AuditEventType `db:"event_type"`
		WebUserID            *string        `db:"web_user_id"`
		TelegramUserID       *int64         `db:"telegram_user_id"`
		SystemID             *string        `db:"system_id"`
		TargetWebUserID      *string        `db:"target_web_user_id"`
		TargetTelegramUserID *int64         `db:"target_telegram_user_id"`
		TargetSystemID       *string        `db:"target_system_id"`
		Value                *string        `db:"value"`
		CreatedAt            time.Time      `db:"created_at"`
	}

	// ConfigRow is one configuration scope: a chat, or the global default
	// under the sentinel chat id 0. Each category column is independently
	// nullable; NULL disables the category for the scope.
	ConfigRow struct {
		ChatID         int64     `db:"chat_id"`
		Moderation     *Document `db:"moderation"`
		SpamDetection  *Document `db:"spam_detection"`
		Welcome        *Document `db:"welcome"`
		Notifications  *Document `db:"notifications"`
		BackgroundJobs *Document `db:"background_jobs"`
		UpdatedAt      time.Time `db:"updated_at"`
	}
)

type ReviewType string

const (
	ReviewTypeReport        ReviewType = "report"
	ReviewTypeImpersonation ReviewType = "impersonation"
)

type ReviewStatus string

const (
	ReviewStatusPending   ReviewStatus = "pending"
	ReviewStatusResolved  ReviewStatus = "resolved"
	ReviewStatusDismissed ReviewStatus = "dismissed"
)

type Label int

const (
	LabelHam  Label = 0
	LabelSpam Label = 1
)

// AuditEventType is the closed enumeration of auditable actions. Codes are
// the post-renumbering values; the 2023 migration remapped the legacy
// scattered codes onto these.
type AuditEventType int

const (
	AuditEventConfigChange   AuditEventType = 0
	AuditEventBan            AuditEventType = 1
	AuditEventUnban          AuditEventType = 2
	AuditEventWarn           AuditEventType = 3
	AuditEventDeleteMessage  AuditEventType = 4
	AuditEventStopWordUpdate AuditEventType = 5
	AuditEventStopWordRemove AuditEventType = 6
	AuditEventTrainingLabel  AuditEventType = 7
	AuditEventReviewResolve  AuditEventType = 8
)

var auditEventNames = map[AuditEventType]string{
	AuditEventConfigChange:   "config_change",
	AuditEventBan:            "ban",
	AuditEventUnban:          "unban",
	AuditEventWarn:           "warn",
	AuditEventDeleteMessage:  "delete_message",
	AuditEventStopWordUpdate: "stop_word_update",
	AuditEventStopWordRemove: "stop_word_remove",
	AuditEventTrainingLabel:  "training_label",
	AuditEventReviewResolve:  "review_resolve",
}

func (t AuditEventType) String() string {
	if name, ok := auditEventNames[t]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(t))
}

func (d Document) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

func (d *Document) Scan(v any) error {
	return scanJSON(v, d)
}

func (l CheckResultList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]detection.CheckResult{})
	}
	return json.Marshal(l)
}

func (l *CheckResultList) Scan(v any) error {
	return scanJSON(v, l)
}

func (l ChatIDList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]int64{})
	}
	return json.Marshal(l)
}

func (l *ChatIDList) Scan(v any) error {
	return scanJSON(v, l)
}

func scanJSON(v, dst any) error {
	if v == nil {
		return nil
	}
	switch data := v.(type) {
	case string:
		return json.Unmarshal([]byte(data), dst)
	case []byte:
		return json.Unmarshal(data, dst)
	default:
		return fmt.Errorf("cannot scan type %T into JSON column", v)
	}
}

// Actor decodes the required actor triple of a detection result.
func (r *DetectionResult) Actor() (actor.Ref, error) {
	return actor.Decode(actor.Columns{
		WebUserID:      r.WebUserID,
		TelegramUserID: r.TelegramUserID,
		SystemID:       r.SystemID,
	})
}

func (r *DetectionResult) SetActor(ref actor.Ref) {
	cols := actor.Encode(ref)
	r.WebUserID, r.TelegramUserID, r.SystemID = cols.WebUserID, cols.TelegramUserID, cols.SystemID
}

// Actor decodes the required actor triple of an audit event.
func (e *AuditEvent) Actor() (actor.Ref, error) {
	return actor.Decode(actor.Columns{
		WebUserID:      e.WebUserID,
		TelegramUserID: e.TelegramUserID,
		SystemID:       e.SystemID,
	})
}

func (e *AuditEvent) SetActor(ref actor.Ref) {
	cols := actor.Encode(ref)
	e.WebUserID, e.TelegramUserID, e.SystemID = cols.WebUserID, cols.TelegramUserID, cols.SystemID
}

// Target decodes the optional target triple; nil when the event has no target.
func (e *AuditEvent) Target() (*actor.Ref, error) {
	return actor.DecodeOptional(actor.Columns{
		WebUserID:      e.TargetWebUserID,
		TelegramUserID: e.TargetTelegramUserID,
		SystemID:       e.TargetSystemID,
	})
}

func (e *AuditEvent) SetTarget(ref *actor.Ref) {
	if ref == nil {
		e.TargetWebUserID, e.TargetTelegramUserID, e.TargetSystemID = nil, nil, nil
		return
	}
	cols := actor.Encode(*ref)
	e.TargetWebUserID, e.TargetTelegramUserID, e.TargetSystemID = cols.WebUserID, cols.TelegramUserID, cols.SystemID
}

// LabeledBy decodes the optional labeling actor of a training label.
func (l *TrainingLabel) LabeledBy() (*actor.Ref, error) {
	return actor.DecodeOptional(actor.Columns{
		WebUserID:      l.WebUserID,
		TelegramUserID: l.TelegramUserID,
		SystemID:       l.SystemID,
	})
}

func (l *TrainingLabel) SetLabeledBy(ref *actor.Ref) {
	if ref == nil {
		l.WebUserID, l.TelegramUserID, l.SystemID = nil, nil, nil
		return
	}
	cols := actor.Encode(*ref)
	l.WebUserID, l.TelegramUserID, l.SystemID = cols.WebUserID, cols.TelegramUserID, cols.SystemID
}

// Category returns the named category document of a config row. The second
// return reports whether the category name is part of the closed set at all;
// a known category with a NULL column returns (nil, true).
func (c *ConfigRow) Category(name string) (*Document, bool) {
	if c == nil {
		return nil, false
	}
	switch name {
	case "moderation":
		return c.Moderation, true
	case "spam_detection":
		return c.SpamDetection, true
	case "welcome":
		return c.Welcome, true
	case "notifications":
		return c.Notifications, true
	case "background_jobs":
		return c.BackgroundJobs, true
	default:
		return nil, false
	}
}

// SetCategory replaces (never merges) the named category document.
func (c *ConfigRow) SetCategory(name string, doc *Document) error {
	if c == nil {
		return errors.New("nil config row")
	}
	switch name {
	case "moderation":
		c.Moderation = doc
	case "spam_detection":
		c.SpamDetection = doc
	case "welcome":
		c.Welcome = doc
	case "notifications":
		c.Notifications = doc
	case "background_jobs":
		c.BackgroundJobs = doc
	default:
		return errors.Errorf("unknown config category %q", name)
	}
	return nil
}
