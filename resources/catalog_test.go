package resources

import (
	"strings"
	"testing"

	"github.com/musicislife08/TelegramGroupsAdmin-sub007/internal/schema"
)

func TestCatalogMatchesEmbeddedMigrations(t *testing.T) {
	t.Parallel()

	entries, err := FS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) != len(Catalog) {
		t.Fatalf("catalog lists %d migrations, embed has %d", len(Catalog), len(entries))
	}
	// ReadDir sorts by name, which is application order for timestamped files.
	for i, entry := range entries {
		if entry.Name() != Catalog[i].ID {
			t.Errorf("position %d: catalog has %q, embed has %q", i, Catalog[i].ID, entry.Name())
		}
	}
}

func TestHistoryReportsLossOnFullDownWalk(t *testing.T) {
	t.Parallel()

	last := Catalog[len(Catalog)-1].ID
	path, err := History().Path(last, "base")
	if err != nil {
		t.Fatalf("plan full rollback: %v", err)
	}
	if len(path) != len(Catalog) {
		t.Fatalf("expected %d down steps, got %d", len(Catalog), len(path))
	}

	lossy := schema.LossyEdges(path)
	if len(lossy) != 4 {
		t.Fatalf("expected 4 lossy down steps, got %d", len(lossy))
	}

	var renumbering *schema.Edge
	for i := range lossy {
		if lossy[i].From == "20230107120000-audit-event-renumbering.sql" {
			renumbering = &lossy[i]
		}
	}
	if renumbering == nil {
		t.Fatal("renumbering down step is not flagged lossy")
	}
	found := false
	for _, field := range renumbering.LossyFields {
		if strings.Contains(field, "stop_word_edit") && strings.Contains(field, "training_label") {
			found = true
		}
	}
	if !found {
		t.Errorf("renumbering loss does not name the code collision: %v", renumbering.LossyFields)
	}
}
