package db

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// GlobalChatID is the sentinel scope id of the platform-wide default config
// row. Real Telegram chat ids are never 0.
const GlobalChatID int64 = 0

// DefaultGlobalConfig is the config row seeded at install time. The resolver
// treats its absence as an operational misconfiguration, so every deployment
// must hold one row with this shape before serving chats.
func DefaultGlobalConfig() *ConfigRow {
	return &ConfigRow{
		ChatID: GlobalChatID,
		Moderation: &Document{
			"warn_threshold": 3,
			"ban_on_spam":    true,
			"delete_on_spam": true,
			"mute_minutes":   60,
			"appeal_enabled": true,
		},
		SpamDetection: &Document{
			"enabled": true,
			"checks": map[string]any{
				"bayes":         map[string]any{"enabled": true, "alwaysRun": false},
				"known_spammer": map[string]any{"enabled": true, "alwaysRun": true},
				"stop_words":    map[string]any{"enabled": true, "alwaysRun": false},
				"url_filtering": map[string]any{"enabled": true, "alwaysRun": true},
			},
		},
		Welcome: &Document{
			"enabled":        false,
			"message":        "",
			"delete_after_s": 120,
		},
		Notifications: &Document{
			"enabled":    true,
			"events":     map[string]any{"spam": true, "ban": true, "review": true, "join": false},
			"recipients": []any{},
		},
		BackgroundJobs: &Document{
			"history_retention_days": 90,
			"retrain_cron":           "0 4 * * *",
		},
		UpdatedAt: time.Now().UTC(),
	}
}
