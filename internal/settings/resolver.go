// Package settings resolves effective per-chat configuration from the
// two-level store: a chat-specific row when one exists, else the global
// default row under the sentinel scope. Fallback is row-level per category; a
// chat either supplies a whole category document or it falls back to the
// global one. Individual keys are never merged across scopes.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/musicislife08/TelegramGroupsAdmin-sub007/internal/db"
)

var (
	// ErrUnknownCategory means the caller asked for a category outside the
	// closed set. Caller bug, not data.
	ErrUnknownCategory = errors.New("unknown config category")

	// ErrMissingGlobalDefault means no global config row exists. That row
	// is an operational invariant; resolution fails fast instead of
	// pretending everything is disabled.
	ErrMissingGlobalDefault = errors.New("missing global default config row")
)

// Category is one independently-nullable config document on a scope row.
type Category string

const (
	CategoryModeration     Category = "moderation"
	CategorySpamDetection  Category = "spam_detection"
	CategoryWelcome        Category = "welcome"
	CategoryNotifications  Category = "notifications"
	CategoryBackgroundJobs Category = "background_jobs"
)

var categories = map[Category]struct{}{
	CategoryModeration:     {},
	CategorySpamDetection:  {},
	CategoryWelcome:        {},
	CategoryNotifications:  {},
	CategoryBackgroundJobs: {},
}

func (c Category) Known() bool {
	_, ok := categories[c]
	return ok
}

// Scope names a config row: either one chat or the global default. Modeled as
// a named case rather than a bare chat id so an accidental real chat id 0 can
// never be confused with the sentinel.
type Scope struct {
	chatID int64
	global bool
}

func GlobalDefault() Scope {
	return Scope{global: true}
}

func ChatScope(chatID int64) Scope {
	if chatID == db.GlobalChatID {
		return GlobalDefault()
	}
	return Scope{chatID: chatID}
}

func (s Scope) IsGlobal() bool { return s.global }

// ChatID returns the chat and false for the global scope.
func (s Scope) ChatID() (int64, bool) {
	if s.global {
		return 0, false
	}
	return s.chatID, true
}

// StorageID is the chat_id column value backing the scope.
func (s Scope) StorageID() int64 {
	if s.global {
		return db.GlobalChatID
	}
	return s.chatID
}

func (s Scope) String() string {
	if s.global {
		return "global"
	}
	return "chat:" + strconv.FormatInt(s.chatID, 10)
}

// Store is the slice of db.Client the resolver needs.
type Store interface {
	GetConfigRow(ctx context.Context, chatID int64) (*db.ConfigRow, error)
}

type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolved is the outcome of a lookup: which scope's row supplied the
// document, and the document itself. A nil document means the category is
// disabled for that scope; there is no further fallback within a row.
type Resolved struct {
	Scope    Scope
	Document db.Document
}

func (r Resolved) Enabled() bool { return r.Document != nil }

// Resolve returns the effective document of one category for one chat.
func (r *Resolver) Resolve(ctx context.Context, category Category, chatID int64) (Resolved, error) {
	if !category.Known() {
		return Resolved{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	scope := ChatScope(chatID)
	row, err := r.store.GetConfigRow(ctx, scope.StorageID())
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return Resolved{}, fmt.Errorf("get config row for %s: %w", scope, err)
	}
	if row == nil && !scope.IsGlobal() {
		scope = GlobalDefault()
		row, err = r.store.GetConfigRow(ctx, scope.StorageID())
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			return Resolved{}, fmt.Errorf("get global config row: %w", err)
		}
	}
	if row == nil {
		return Resolved{}, ErrMissingGlobalDefault
	}

	doc, ok := row.Category(string(category))
	if !ok {
		return Resolved{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	if doc == nil {
		log.WithField("category", category).WithField("scope", scope.String()).Traceln("category disabled")
		return Resolved{Scope: scope}, nil
	}
	return Resolved{Scope: scope, Document: *doc}, nil
}
