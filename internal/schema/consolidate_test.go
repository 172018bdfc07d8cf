package schema

import (
	"reflect"
	"testing"
)

func TestNotificationRoundTripOnRoundTrippableFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		legacy LegacyNotificationColumns
	}{
		{
			name: "all flags set, shared recipient",
			legacy: LegacyNotificationColumns{
				NotifySpam: true, NotifyBan: true, NotifyReview: true, NotifyJoin: true,
				SpamRecipient: "ops@example.org", BanRecipient: "ops@example.org",
			},
		},
		{
			name:   "everything off",
			legacy: LegacyNotificationColumns{},
		},
		{
			name:   "review only, no recipients",
			legacy: LegacyNotificationColumns{NotifyReview: true},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			back := ExpandNotifications(ConsolidateNotifications(tt.legacy))
			if back.NotifySpam != tt.legacy.NotifySpam ||
				back.NotifyBan != tt.legacy.NotifyBan ||
				back.NotifyReview != tt.legacy.NotifyReview ||
				back.NotifyJoin != tt.legacy.NotifyJoin {
				t.Fatalf("event flags did not survive round trip: got %+v, want %+v", back, tt.legacy)
			}
		})
	}
}

func TestNotificationDowngradeIsLossyOnRecipients(t *testing.T) {
	t.Parallel()

	// Two distinct legacy inputs that consolidate to the same document: the
	// inverse cannot tell them apart, which is exactly what the lossy-field
	// list documents.
	first := LegacyNotificationColumns{
		NotifySpam: true, NotifyBan: true,
		SpamRecipient: "spam@example.org", BanRecipient: "bans@example.org",
	}
	second := LegacyNotificationColumns{
		NotifySpam: true, NotifyBan: true,
		SpamRecipient: "bans@example.org", BanRecipient: "spam@example.org",
	}

	consolidatedFirst := ConsolidateNotifications(first)
	consolidatedSecond := ConsolidateNotifications(second)
	if !reflect.DeepEqual(consolidatedFirst, consolidatedSecond) {
		t.Fatalf("expected identical consolidated documents, got %+v and %+v", consolidatedFirst, consolidatedSecond)
	}

	back := ExpandNotifications(consolidatedFirst)
	if back.SpamRecipient == first.SpamRecipient && back.BanRecipient == first.BanRecipient {
		t.Fatal("inverse reproduced per-event recipients; the downgrade is documented as lossy")
	}
	if back.SpamRecipient != back.BanRecipient {
		t.Fatalf("inverse should hand every event the joined set, got spam=%q ban=%q", back.SpamRecipient, back.BanRecipient)
	}

	lossy := NotificationLossyFields()
	want := []string{"spam_recipient", "ban_recipient"}
	if !reflect.DeepEqual(lossy, want) {
		t.Fatalf("lossy fields = %v, want %v", lossy, want)
	}
}

func TestConsolidateSamplesMergesByText(t *testing.T) {
	t.Parallel()

	rows := []SampleRow{
		{Text: "buy crypto now", ChatID: 1, Count: 3},
		{Text: "buy crypto now", ChatID: 2, Count: 5},
		{Text: "cheap watches", ChatID: 2, Count: 1},
	}

	got := ConsolidateSamples(rows)
	want := []ConsolidatedSample{
		{Text: "buy crypto now", Count: 8, ChatIDs: []int64{1, 2}},
		{Text: "cheap watches", Count: 1, ChatIDs: []int64{2}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("consolidate = %+v, want %+v", got, want)
	}
}

func TestConsolidateSamplesDeduplicatesChats(t *testing.T) {
	t.Parallel()

	rows := []SampleRow{
		{Text: "free airdrop", ChatID: 9, Count: 2},
		{Text: "free airdrop", ChatID: 9, Count: 4},
	}

	got := ConsolidateSamples(rows)
	want := []ConsolidatedSample{{Text: "free airdrop", Count: 6, ChatIDs: []int64{9}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("consolidate = %+v, want %+v", got, want)
	}
}
