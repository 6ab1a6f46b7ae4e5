// ABOUTME: Bubbletea message types the app layer sends into the TUI
// ABOUTME: Carries store snapshots, tutor replies, and playback status
package ui

import (
	"github.com/pascollanm-ctrl/studyhall-go/internal/community"
	"github.com/pascollanm-ctrl/studyhall-go/internal/speech"
)

// AnnouncementsMsg replaces the announcement list.
type AnnouncementsMsg []community.Announcement

// PostsMsg replaces the forum thread list.
type PostsMsg []community.Post

// ResourcesMsg replaces the resource library contents.
type ResourcesMsg []community.Resource

// TutorReplyMsg delivers the tutor's answer to the last question.
type TutorReplyMsg struct {
	Question string
	Answer   string
	Err      error
}

// PlaybackMsg reports the read-aloud state machine's current status.
type PlaybackMsg speech.Status

// VolumeMsg reports the player's volume state.
type VolumeMsg struct {
	Volume int
	Muted  bool
}

// FlashMsg shows a transient message on the status line.
type FlashMsg string
