// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program and the action channels the app consumes
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pascollanm-ctrl/studyhall-go/internal/community"
)

// ReadRequest asks for an item to be read aloud (or stopped if it is
// already playing).
type ReadRequest struct {
	ID   string
	Text string
}

// PostRequest publishes a new forum thread.
type PostRequest struct {
	Title string
	Body  string
}

// ReplyRequest appends a reply to a thread.
type ReplyRequest struct {
	PostID string
	Body   string
}

// ResourceRequest adds an entry to the resource library.
type ResourceRequest struct {
	Category    string
	Title       string
	URL         string
	Description string
}

// VolumeChange adjusts playback volume or toggles mute.
type VolumeChange struct {
	Delta      int
	ToggleMute bool
}

// Actions holds the channels the TUI emits user intents on. The app
// layer consumes them; the model never blocks on a full channel.
type Actions struct {
	Read      chan ReadRequest
	Ask       chan string
	Posts     chan PostRequest
	Replies   chan ReplyRequest
	Adds      chan ResourceRequest
	Downloads chan community.Resource
	Volume    chan VolumeChange
	Quit      chan struct{}
}

// NewActions creates the action channel set.
func NewActions() *Actions {
	return &Actions{
		Read:      make(chan ReadRequest, 10),
		Ask:       make(chan string, 10),
		Posts:     make(chan PostRequest, 10),
		Replies:   make(chan ReplyRequest, 10),
		Adds:      make(chan ResourceRequest, 10),
		Downloads: make(chan community.Resource, 10),
		Volume:    make(chan VolumeChange, 10),
		Quit:      make(chan struct{}, 1),
	}
}

// Run starts the TUI program.
func Run(actions *Actions) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(actions), tea.WithAltScreen())
	return p, nil
}
