package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/musicislife08/TelegramGroupsAdmin-sub007/internal/actor"
	"github.com/musicislife08/TelegramGroupsAdmin-sub007/internal/db"
)

func TestUpsertTrainingLabelKeepsOnePerMessage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)
	m := insertTestMessage(t, client, 30)

	spam := &db.TrainingLabel{MessageID: m.ID, Label: db.LabelSpam}
	by := actor.Web("labeler-1")
	spam.SetLabeledBy(&by)
	if err := client.UpsertTrainingLabel(ctx, spam); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	ham := &db.TrainingLabel{MessageID: m.ID, Label: db.LabelHam}
	system := actor.System("retrain-job")
	ham.SetLabeledBy(&system)
	if err := client.UpsertTrainingLabel(ctx, ham); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := client.GetTrainingLabel(ctx, m.ID)
	if err != nil {
		t.Fatalf("get training label: %v", err)
	}
	if got.Label != db.LabelHam {
		t.Fatalf("label not replaced: %v", got.Label)
	}
	labeledBy, err := got.LabeledBy()
	if err != nil {
		t.Fatalf("decode labeling actor: %v", err)
	}
	if labeledBy == nil || labeledBy.Kind() != actor.KindSystem {
		t.Fatalf("labeling actor not replaced: %v", labeledBy)
	}

	var count int
	if err := client.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM training_labels WHERE message_id = ?`, m.ID); err != nil {
		t.Fatalf("count labels: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one label row, got %d", count)
	}
}

func TestTrainingLabelAllowsAnonymousActor(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)
	m := insertTestMessage(t, client, 31)

	// The labeling attribution is optional: all three columns NULL is valid.
	l := &db.TrainingLabel{MessageID: m.ID, Label: db.LabelSpam}
	if err := client.UpsertTrainingLabel(ctx, l); err != nil {
		t.Fatalf("upsert anonymous label: %v", err)
	}

	got, err := client.GetTrainingLabel(ctx, m.ID)
	if err != nil {
		t.Fatalf("get training label: %v", err)
	}
	labeledBy, err := got.LabeledBy()
	if err != nil {
		t.Fatalf("decode labeling actor: %v", err)
	}
	if labeledBy != nil {
		t.Fatalf("expected no labeling actor, got %v", labeledBy)
	}
}

func TestTrainingLabelCascadesWithMessageButKeepsAuditLink(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)
	m := insertTestMessage(t, client, 32)

	e := &db.AuditEvent{EventType: db.AuditEventTrainingLabel}
	e.SetActor(actor.System("labeler"))
	stored, err := client.InsertAuditEvent(ctx, e)
	if err != nil {
		t.Fatalf("insert audit event: %v", err)
	}

	l := &db.TrainingLabel{MessageID: m.ID, Label: db.LabelSpam, AuditEventID: &stored.ID}
	if err := client.UpsertTrainingLabel(ctx, l); err != nil {
		t.Fatalf("upsert label: %v", err)
	}

	if err := client.DeleteMessage(ctx, m.ID); err != nil {
		t.Fatalf("delete message: %v", err)
	}
	if _, err := client.GetTrainingLabel(ctx, m.ID); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("label should cascade with its message, got %v", err)
	}

	// The audit event itself is untouched by the cascade.
	events, err := client.GetAuditEvents(ctx, 10)
	if err != nil {
		t.Fatalf("get audit events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("audit event lost with the message: %d rows", len(events))
	}
}

func TestGetTrainingSampleAfterConsolidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)

	if _, err := client.db.ExecContext(ctx, `
		INSERT INTO training_samples (text, count, chat_ids) VALUES ('buy crypto now', 8, '[1,2]')
	`); err != nil {
		t.Fatalf("seed sample: %v", err)
	}

	s, err := client.GetTrainingSample(ctx, "buy crypto now")
	if err != nil {
		t.Fatalf("get training sample: %v", err)
	}
	if s.Count != 8 || len(s.ChatIDs) != 2 || s.ChatIDs[0] != 1 || s.ChatIDs[1] != 2 {
		t.Fatalf("sample did not round-trip: %#v", s)
	}

	if _, err := client.GetTrainingSample(ctx, "missing"); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
