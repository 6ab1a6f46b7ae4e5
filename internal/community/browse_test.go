// ABOUTME: Tests for the resource browsing flow
// ABOUTME: Tests category drill-down, search scoping, and snapshot updates
package community

import (
	"testing"
	"time"
)

func browseFixture() []Resource {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []Resource{
		{ID: "1", Category: "Math", Title: "Linear Algebra Notes", Description: "vector spaces", CreatedAt: base},
		{ID: "2", Category: "Math", Title: "Calculus Cheatsheet", Description: "derivatives and integrals", CreatedAt: base.Add(time.Hour)},
		{ID: "3", Category: "Physics", Title: "Mechanics Problems", Description: "newtonian practice", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "4", Category: "Physics", Title: "Waves Summary", Description: "standing waves", CreatedAt: base.Add(3 * time.Hour)},
	}
}

func TestBrowserCategories(t *testing.T) {
	b := NewBrowser(browseFixture())

	got := b.Categories()
	want := []string{"Math", "Physics"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("category %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestBrowserDrillDown(t *testing.T) {
	b := NewBrowser(browseFixture())

	if b.Level() != LevelCategories {
		t.Fatal("expected to start at category list")
	}

	b.Enter("Math")
	if b.Level() != LevelResources || b.Category() != "Math" {
		t.Fatalf("expected Math scope, got level=%v category=%q", b.Level(), b.Category())
	}

	items := b.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 Math resources, got %d", len(items))
	}
	// Newest first.
	if items[0].ID != "2" || items[1].ID != "1" {
		t.Errorf("expected order [2 1], got [%s %s]", items[0].ID, items[1].ID)
	}

	b.Back()
	if b.Level() != LevelCategories || b.Category() != "" {
		t.Error("expected to return to category list")
	}
}

func TestBrowserSearch(t *testing.T) {
	b := NewBrowser(browseFixture())

	// Search across all categories.
	b.Search("waves")
	items := b.Items()
	if len(items) != 1 || items[0].ID != "4" {
		t.Fatalf("expected only waves resource, got %v", items)
	}

	// Search is scoped to the entered category.
	b.Enter("Math")
	b.Search("WAVES")
	if len(b.Items()) != 0 {
		t.Error("expected no waves match inside Math")
	}

	b.Search("cheatsheet")
	items = b.Items()
	if len(items) != 1 || items[0].ID != "2" {
		t.Errorf("expected calculus cheatsheet, got %v", items)
	}

	// Entering a category clears the query.
	b.Back()
	b.Search("calculus")
	b.Enter("Physics")
	if b.Query() != "" {
		t.Error("expected query cleared on Enter")
	}
}

func TestBrowserSnapshotUpdate(t *testing.T) {
	b := NewBrowser(browseFixture())
	b.Enter("Physics")

	// A category that disappears drops the browser back to the list.
	b.SetResources([]Resource{
		{ID: "9", Category: "Math", Title: "New Notes", CreatedAt: time.Now()},
	})
	if b.Level() != LevelCategories {
		t.Error("expected fall back to category list when scope vanished")
	}
}
