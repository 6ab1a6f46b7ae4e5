// ABOUTME: HTTP client for the hosted community document store
// ABOUTME: CRUD over announcements, posts, resources, and chat transcripts
package community

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Client talks to the hosted document store's REST surface. Document
// semantics (live queries, auth) belong to the service; this client
// only moves JSON.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a store client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// ListAnnouncements fetches all announcements, pinned first.
func (c *Client) ListAnnouncements(ctx context.Context) ([]Announcement, error) {
	var out []Announcement
	if err := c.get(ctx, "/api/announcements", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPosts fetches all forum threads with their replies.
func (c *Client) ListPosts(ctx context.Context) ([]Post, error) {
	var out []Post
	if err := c.get(ctx, "/api/posts", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePost publishes a new forum thread and returns it with its
// assigned identifier.
func (c *Client) CreatePost(ctx context.Context, title, body, author string) (Post, error) {
	post := Post{
		ID:        uuid.New().String(),
		Title:     title,
		Body:      body,
		Author:    author,
		CreatedAt: time.Now().UTC(),
	}
	var out Post
	if err := c.post(ctx, "/api/posts", post, &out); err != nil {
		return Post{}, err
	}
	return out, nil
}

// AddReply appends a reply to an existing thread.
func (c *Client) AddReply(ctx context.Context, postID, body, author string) (Reply, error) {
	reply := Reply{
		ID:        uuid.New().String(),
		PostID:    postID,
		Body:      body,
		Author:    author,
		CreatedAt: time.Now().UTC(),
	}
	var out Reply
	if err := c.post(ctx, "/api/posts/"+url.PathEscape(postID)+"/replies", reply, &out); err != nil {
		return Reply{}, err
	}
	return out, nil
}

// ListCategories fetches the resource library's category names.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.get(ctx, "/api/categories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListResources fetches library entries, optionally scoped to one
// category.
func (c *Client) ListResources(ctx context.Context, category string) ([]Resource, error) {
	path := "/api/resources"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var out []Resource
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddResource publishes a new library entry.
func (c *Client) AddResource(ctx context.Context, r Resource) (Resource, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	var out Resource
	if err := c.post(ctx, "/api/resources", r, &out); err != nil {
		return Resource{}, err
	}
	return out, nil
}

// AppendChatTurn records one tutor conversation message.
func (c *Client) AppendChatTurn(ctx context.Context, role, content string) (ChatTurn, error) {
	turn := ChatTurn{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	var out ChatTurn
	if err := c.post(ctx, "/api/chat", turn, &out); err != nil {
		return ChatTurn{}, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("store request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("store returned HTTP %d for %s", resp.StatusCode, req.URL.Path)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding store response: %w", err)
	}
	return nil
}
