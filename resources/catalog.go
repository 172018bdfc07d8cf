package resources

import (
	"github.com/musicislife08/TelegramGroupsAdmin-sub007/internal/schema"
)

// MigrationMeta documents what the runner cannot read out of the SQL itself:
// which down steps lose data, and what exactly they lose.
type MigrationMeta struct {
	ID          string
	LossyDown   bool
	LossyFields []string
}

// Catalog lists the embedded sequence in application order. Keep it in sync
// with the migrations directory; the runner warns before executing any down
// step flagged lossy here.
var Catalog = []MigrationMeta{
	{ID: "20210214120000-initial.sql"},
	{ID: "20210630083000-config-scopes.sql"},
	{ID: "20211105143000-impersonation-alerts.sql"},
	{ID: "20220318101500-actor-attribution.sql"},
	{ID: "20220402091000-actor-exclusive-arc.sql"},
	{
		ID:        "20230107120000-audit-event-renumbering.sql",
		LossyDown: true,
		LossyFields: []string{
			"stop_word_edit/stop_word_add distinction",
			"training_label (7) and review_resolve (8) keep their new codes; 7 collides with legacy stop_word_edit",
		},
	},
	{
		ID:          "20230610153000-notification-consolidation.sql",
		LossyDown:   true,
		LossyFields: []string{"spam_recipient", "ban_recipient"},
	},
	{
		ID:          "20240122110000-reviews-unification.sql",
		LossyDown:   true,
		LossyFields: []string{"reviewer_web_user_id", "context keys beyond recreated columns"},
	},
	{
		ID:          "20240819140000-training-consolidation.sql",
		LossyDown:   true,
		LossyFields: []string{"per-chat sample counts", "sample insertion timestamps"},
	},
	{ID: "20250702091500-detection-indexes.sql"},
}

// History builds the directed version graph of the sequence: an up edge per
// migration and a down edge carrying the documented loss. "base" is the
// empty database.
func History() *schema.Graph {
	g := schema.NewGraph()
	prev := "base"
	for _, m := range Catalog {
		g.AddEdge(schema.Edge{From: prev, To: m.ID})
		g.AddEdge(schema.Edge{From: m.ID, To: prev, Lossy: m.LossyDown, LossyFields: m.LossyFields})
		prev = m.ID
	}
	return g
}

// Meta returns the catalog entry of a migration id.
func Meta(id string) (MigrationMeta, bool) {
	for _, m := range Catalog {
		if m.ID == id {
			return m, true
		}
	}
	return MigrationMeta{}, false
}
