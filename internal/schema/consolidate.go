package schema

import (
	"sort"
)

// LegacyNotificationColumns is the pre-consolidation shape: one boolean
// column per event type plus a per-event recipient each for the two events
// that ever mailed anyone.
type LegacyNotificationColumns struct {
	NotifySpam   bool
	NotifyBan    bool
	NotifyReview bool
	NotifyJoin   bool

	SpamRecipient string
	BanRecipient  string
}

// NotificationSettings is the consolidated document that replaced the column
// spread. Event flags survive a round trip; recipients do not, see
// NotificationLossyFields.
type NotificationSettings struct {
	Enabled    bool            `json:"enabled"`
	Events     map[string]bool `json:"events"`
	Recipients []string        `json:"recipients"`
}

// ConsolidateNotifications is the pure forward transform. Lossless for the
// event flags; recipients collapse into a single deduplicated set.
func ConsolidateNotifications(legacy LegacyNotificationColumns) NotificationSettings {
	events := map[string]bool{
		"spam":   legacy.NotifySpam,
		"ban":    legacy.NotifyBan,
		"review": legacy.NotifyReview,
		"join":   legacy.NotifyJoin,
	}

	recipients := make([]string, 0, 2)
	seen := map[string]struct{}{}
	for _, r := range []string{legacy.SpamRecipient, legacy.BanRecipient} {
		if r == "" {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		recipients = append(recipients, r)
	}
	sort.Strings(recipients)

	return NotificationSettings{
		Enabled:    legacy.NotifySpam || legacy.NotifyBan || legacy.NotifyReview || legacy.NotifyJoin,
		Events:     events,
		Recipients: recipients,
	}
}

// ExpandNotifications is the best-effort inverse for the down migration. The
// recipient set cannot be split back per event, so every recipient-bearing
// legacy column receives the whole joined set. Operators see this via
// NotificationLossyFields before walking down.
func ExpandNotifications(s NotificationSettings) LegacyNotificationColumns {
	joined := ""
	for i, r := range s.Recipients {
		if i > 0 {
			joined += ","
		}
		joined += r
	}

	legacy := LegacyNotificationColumns{
		NotifySpam:   s.Events["spam"],
		NotifyBan:    s.Events["ban"],
		NotifyReview: s.Events["review"],
		NotifyJoin:   s.Events["join"],
	}
	if legacy.NotifySpam {
		legacy.SpamRecipient = joined
	}
	if legacy.NotifyBan {
		legacy.BanRecipient = joined
	}
	return legacy
}

// NotificationLossyFields enumerates what the inverse cannot reconstruct.
func NotificationLossyFields() []string {
	return []string{"spam_recipient", "ban_recipient"}
}

// SampleRow is one pre-consolidation training corpus row: the same text could
// appear once per chat it was collected in.
type SampleRow struct {
	Text   string
	ChatID int64
	Count  int64
}

// ConsolidatedSample is the post-consolidation row, keyed by exact text with
// summed counts and the union of source chats.
type ConsolidatedSample struct {
	Text    string
	Count   int64
	ChatIDs []int64
}

// ConsolidateSamples folds duplicate-text rows into one row per distinct
// text. Output is ordered by text and chat id unions are sorted, so the
// transform is deterministic and re-runnable.
func ConsolidateSamples(rows []SampleRow) []ConsolidatedSample {
	type agg struct {
		count int64
		chats map[int64]struct{}
	}
	byText := map[string]*agg{}
	for _, row := range rows {
		a, ok := byText[row.Text]
		if !ok {
			a = &agg{chats: map[int64]struct{}{}}
			byText[row.Text] = a
		}
		a.count += row.Count
		a.chats[row.ChatID] = struct{}{}
	}

	texts := make([]string, 0, len(byText))
	for text := range byText {
		texts = append(texts, text)
	}
	sort.Strings(texts)

	out := make([]ConsolidatedSample, 0, len(texts))
	for _, text := range texts {
		a := byText[text]
		chats := make([]int64, 0, len(a.chats))
		for id := range a.chats {
			chats = append(chats, id)
		}
		sort.Slice(chats, func(i, j int) bool { return chats[i] < chats[j] })
		out = append(out, ConsolidatedSample{Text: text, Count: a.count, ChatIDs: chats})
	}
	return out
}
