// ABOUTME: Resource library browsing flow
// ABOUTME: Category drill-down with text search over the active scope
package community

import (
	"sort"
	"strings"
)

// BrowseLevel identifies the current step of the resource flow.
type BrowseLevel int

const (
	// LevelCategories shows the category list.
	LevelCategories BrowseLevel = iota
	// LevelResources shows resources of the selected category.
	LevelResources
)

// Browser is the multi-step resource browsing state: category list,
// resources of the selected category, and a text search over the
// active scope. It operates on an in-memory snapshot kept fresh by
// live updates.
type Browser struct {
	resources []Resource
	level     BrowseLevel
	category  string
	query     string
}

// NewBrowser creates a browser over an initial resource snapshot.
func NewBrowser(resources []Resource) *Browser {
	b := &Browser{}
	b.SetResources(resources)
	return b
}

// SetResources replaces the snapshot, preserving the navigation state.
// If the selected category no longer exists the browser falls back to
// the category list.
func (b *Browser) SetResources(resources []Resource) {
	b.resources = append([]Resource(nil), resources...)
	if b.level == LevelResources && !b.hasCategory(b.category) {
		b.Back()
	}
}

// Level returns the current browsing step.
func (b *Browser) Level() BrowseLevel {
	return b.level
}

// Category returns the selected category, empty at the category list.
func (b *Browser) Category() string {
	if b.level == LevelCategories {
		return ""
	}
	return b.category
}

// Query returns the active search query.
func (b *Browser) Query() string {
	return b.query
}

// Categories returns the distinct category names, sorted.
func (b *Browser) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range b.resources {
		if !seen[r.Category] {
			seen[r.Category] = true
			out = append(out, r.Category)
		}
	}
	sort.Strings(out)
	return out
}

// Enter drills into a category and clears any search query.
func (b *Browser) Enter(category string) {
	b.level = LevelResources
	b.category = category
	b.query = ""
}

// Back returns to the category list and clears the query.
func (b *Browser) Back() {
	b.level = LevelCategories
	b.category = ""
	b.query = ""
}

// Search sets the query filtering the active scope. An empty query
// clears the filter.
func (b *Browser) Search(query string) {
	b.query = strings.TrimSpace(query)
}

// Items returns the resources visible at the current step, filtered by
// the query (case-insensitive substring over title and description)
// and sorted newest first.
func (b *Browser) Items() []Resource {
	var out []Resource
	q := strings.ToLower(b.query)
	for _, r := range b.resources {
		if b.level == LevelResources && r.Category != b.category {
			continue
		}
		if q != "" && !matches(r, q) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (b *Browser) hasCategory(category string) bool {
	for _, r := range b.resources {
		if r.Category == category {
			return true
		}
	}
	return false
}

func matches(r Resource, query string) bool {
	return strings.Contains(strings.ToLower(r.Title), query) ||
		strings.Contains(strings.ToLower(r.Description), query)
}
