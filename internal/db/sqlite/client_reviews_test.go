package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/musicislife08/TelegramGroupsAdmin-sub007/internal/db"
)

func TestSecondPendingReviewForMessageRejected(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)
	m := insertTestMessage(t, client, 20)

	first := &db.Review{ChatID: 20, MessageID: &m.ID, Context: db.Document{"reason": "spam"}}
	if _, err := client.CreateReview(ctx, first); err != nil {
		t.Fatalf("create first review: %v", err)
	}

	second := &db.Review{ChatID: 20, MessageID: &m.ID, Context: db.Document{"reason": "again"}}
	if _, err := client.CreateReview(ctx, second); err == nil {
		t.Fatal("second pending review for the same message was not rejected")
	}

	if err := client.InsertWebUser(ctx, &db.WebUser{ID: "reviewer-1", UserName: "rev-one"}); err != nil {
		t.Fatalf("insert reviewer: %v", err)
	}
	if err := client.ResolveReview(ctx, first.ID, db.ReviewStatusResolved, "reviewer-1"); err != nil {
		t.Fatalf("resolve first review: %v", err)
	}

	// With the first one resolved the partial index no longer applies.
	if _, err := client.CreateReview(ctx, second); err != nil {
		t.Fatalf("create review after resolution: %v", err)
	}
}

func TestResolveReviewIsSingleShot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)
	m := insertTestMessage(t, client, 21)

	if err := client.InsertWebUser(ctx, &db.WebUser{ID: "reviewer-2", UserName: "rev-two"}); err != nil {
		t.Fatalf("insert reviewer: %v", err)
	}
	r, err := client.CreateReview(ctx, &db.Review{ChatID: 21, MessageID: &m.ID})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}

	if err := client.ResolveReview(ctx, r.ID, db.ReviewStatusDismissed, "reviewer-2"); err != nil {
		t.Fatalf("resolve review: %v", err)
	}
	if err := client.ResolveReview(ctx, r.ID, db.ReviewStatusResolved, "reviewer-2"); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound resolving a non-pending review, got %v", err)
	}

	if _, err := client.GetPendingReview(ctx, m.ID); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected no pending review left, got %v", err)
	}
}

func TestReviewKeepsRowWhenMessageDeleted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)
	m := insertTestMessage(t, client, 22)

	r, err := client.CreateReview(ctx, &db.Review{
		Type:      db.ReviewTypeImpersonation,
		ChatID:    22,
		MessageID: &m.ID,
		Context:   db.Document{"suspect_user_id": float64(900), "impersonated_admin": "boss"},
	})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}

	if err := client.DeleteMessage(ctx, m.ID); err != nil {
		t.Fatalf("delete message: %v", err)
	}

	var got db.Review
	if err := client.db.GetContext(ctx, &got, `SELECT id, type, chat_id, message_id, status, context FROM reviews WHERE id = ?`, r.ID); err != nil {
		t.Fatalf("reload review: %v", err)
	}
	if got.MessageID != nil {
		t.Fatalf("message link should be SET NULL, got %v", *got.MessageID)
	}
	if got.Type != db.ReviewTypeImpersonation || got.Context["impersonated_admin"] != "boss" {
		t.Fatalf("review payload lost: %#v", got)
	}
}

func TestReviewerWithResolvedReviewsCannotBeDeleted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)
	m := insertTestMessage(t, client, 23)

	if err := client.InsertWebUser(ctx, &db.WebUser{ID: "reviewer-3", UserName: "rev-three"}); err != nil {
		t.Fatalf("insert reviewer: %v", err)
	}
	r, err := client.CreateReview(ctx, &db.Review{ChatID: 23, MessageID: &m.ID})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	if err := client.ResolveReview(ctx, r.ID, db.ReviewStatusResolved, "reviewer-3"); err != nil {
		t.Fatalf("resolve review: %v", err)
	}

	if err := client.DeleteWebUser(ctx, "reviewer-3"); err == nil {
		t.Fatal("deleting a reviewer with recorded resolutions must be blocked")
	}
}
