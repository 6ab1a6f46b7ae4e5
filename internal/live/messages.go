// ABOUTME: Live feed message type definitions
// ABOUTME: Defines the JSON envelope and event types on the update stream
package live

import "encoding/json"

// Event type names on the live feed.
const (
	TypeHello               = "client/hello"
	TypeWelcome             = "server/welcome"
	TypeAnnouncementCreated = "announcement/created"
	TypePostCreated         = "post/created"
	TypeReplyCreated        = "reply/created"
	TypeResourceAdded       = "resource/added"
)

// Envelope is the top-level wrapper for all feed messages.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hello is sent by clients when a feed session opens.
type Hello struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
}

// Welcome is the server's response to a hello.
type Welcome struct {
	ServerID string `json:"server_id"`
}
