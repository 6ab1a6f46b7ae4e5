// ABOUTME: WebSocket client for live community updates
// ABOUTME: Handles connection, handshake, and message routing into typed channels
package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pascollanm-ctrl/studyhall-go/internal/community"
)

// Config holds feed client configuration.
type Config struct {
	URL  string // ws:// or wss:// endpoint
	Name string // display name sent in the hello
}

// Client subscribes to the community live feed and routes events into
// typed channels. Mutation happens server-side; the feed only tells
// the client what changed.
type Client struct {
	config Config
	conn   *websocket.Conn
	mu     sync.RWMutex

	// Event channels
	Announcements chan community.Announcement
	Posts         chan community.Post
	Replies       chan community.Reply
	Resources     chan community.Resource

	connected bool
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewClient creates a live feed client.
func NewClient(config Config) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		config:        config,
		Announcements: make(chan community.Announcement, 16),
		Posts:         make(chan community.Post, 16),
		Replies:       make(chan community.Reply, 16),
		Resources:     make(chan community.Resource, 16),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Connect establishes the feed connection and performs the handshake.
func (c *Client) Connect() error {
	log.Printf("Connecting to live feed %s", c.config.URL)

	conn, _, err := websocket.DefaultDialer.Dial(c.config.URL, nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	if err := c.handshake(); err != nil {
		c.Close()
		return fmt.Errorf("handshake failed: %w", err)
	}

	go c.readMessages()

	return nil
}

// handshake sends the hello and waits for the server's welcome.
func (c *Client) handshake() error {
	hello := Hello{
		ClientID: uuid.New().String(),
		Name:     c.config.Name,
	}
	payload, err := json.Marshal(hello)
	if err != nil {
		return fmt.Errorf("failed to encode hello: %w", err)
	}
	if err := c.sendJSON(Envelope{Type: TypeHello, Payload: payload}); err != nil {
		return fmt.Errorf("failed to send hello: %w", err)
	}

	c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("failed to read welcome: %w", err)
	}
	c.conn.SetReadDeadline(time.Time{})

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("failed to parse welcome: %w", err)
	}
	if env.Type != TypeWelcome {
		return fmt.Errorf("expected %s, got %s", TypeWelcome, env.Type)
	}

	log.Printf("Live feed handshake complete")

	return nil
}

// sendJSON sends a JSON envelope.
func (c *Client) sendJSON(env Envelope) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.connected {
		return fmt.Errorf("not connected")
	}

	return c.conn.WriteJSON(env)
}

// readMessages reads and routes incoming feed events.
func (c *Client) readMessages() {
	defer c.Close()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		_, data, err := c.conn.ReadMessage()
		if err != nil {
			log.Printf("Feed read error: %v", err)
			return
		}

		c.handleMessage(data)
	}
}

// handleMessage routes one feed event into its typed channel.
func (c *Client) handleMessage(data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Printf("Failed to parse feed message: %v", err)
		return
	}

	switch env.Type {
	case TypeAnnouncementCreated:
		var a community.Announcement
		if err := json.Unmarshal(env.Payload, &a); err != nil {
			log.Printf("Bad announcement payload: %v", err)
			return
		}
		select {
		case c.Announcements <- a:
		case <-c.ctx.Done():
		}

	case TypePostCreated:
		var p community.Post
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			log.Printf("Bad post payload: %v", err)
			return
		}
		select {
		case c.Posts <- p:
		case <-c.ctx.Done():
		}

	case TypeReplyCreated:
		var r community.Reply
		if err := json.Unmarshal(env.Payload, &r); err != nil {
			log.Printf("Bad reply payload: %v", err)
			return
		}
		select {
		case c.Replies <- r:
		case <-c.ctx.Done():
		}

	case TypeResourceAdded:
		var r community.Resource
		if err := json.Unmarshal(env.Payload, &r); err != nil {
			log.Printf("Bad resource payload: %v", err)
			return
		}
		select {
		case c.Resources <- r:
		case <-c.ctx.Done():
		}

	default:
		log.Printf("Unknown feed message type: %s", env.Type)
	}
}

// Connected reports whether the feed session is up.
func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Close tears the feed session down.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.cancel()

		c.mu.Lock()
		if c.conn != nil {
			c.conn.Close()
		}
		c.connected = false
		c.mu.Unlock()
	})
}
