package db

import "context"

type Client interface {
	Close() error

	GetConfigRow(ctx context.Context, chatID int64) (*ConfigRow, error)
	UpsertConfigRow(ctx context.Context, row *ConfigRow) error

	InsertWebUser(ctx context.Context, user *WebUser) error
	IsWebUser(ctx context.Context, id string) (bool, error)
	DeleteWebUser(ctx context.Context, id string) error

	InsertMessage(ctx context.Context, m *Message) error
	InsertMessageEdit(ctx context.Context, e *MessageEdit) error
	DeleteMessage(ctx context.Context, messageID int64) error

	InsertDetectionResult(ctx context.Context, r *DetectionResult) (*DetectionResult, error)
	GetDetectionResults(ctx context.Context, messageID int64) ([]DetectionResult, error)

	CreateReview(ctx context.Context, r *Review) (*Review, error)
	GetPendingReview(ctx context.Context, messageID int64) (*Review, error)
	ResolveReview(ctx context.Context, id int64, status ReviewStatus, reviewerWebUserID string) error

	UpsertTrainingLabel(ctx context.Context, l *TrainingLabel) error
	GetTrainingLabel(ctx context.Context, messageID int64) (*TrainingLabel, error)
	GetTrainingSample(ctx context.Context, text string) (*TrainingSample, error)

	InsertAuditEvent(ctx context.Context, e *AuditEvent) (*AuditEvent, error)
	GetAuditEvents(ctx context.Context, limit int) ([]AuditEvent, error)
}
