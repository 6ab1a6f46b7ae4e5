// ABOUTME: Community data model
// ABOUTME: Defines announcements, forum posts, resources, and chat turns
package community

import "time"

// Announcement is a broadcast notice shown to all members.
type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Author    string    `json:"author"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"created_at"`
}

// Post is a forum discussion thread.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Author    string    `json:"author"`
	Replies   []Reply   `json:"replies,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Reply is a response within a forum thread.
type Reply struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Body      string    `json:"body"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// Resource is an entry in the categorized resource library.
type Resource struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	AddedBy     string    `json:"added_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChatTurn is one message of an AI tutor conversation transcript.
type ChatTurn struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SpeechText returns the text read aloud for an announcement.
func (a Announcement) SpeechText() string {
	return a.Title + ". " + a.Body
}

// SpeechText returns the text read aloud for a resource entry.
func (r Resource) SpeechText() string {
	if r.Description == "" {
		return r.Title
	}
	return r.Title + ". " + r.Description
}
