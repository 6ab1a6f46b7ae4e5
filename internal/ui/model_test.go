// ABOUTME: Tests for TUI model and state management
// ABOUTME: Tests tab switching, list navigation, prompts, and actions
package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pascollanm-ctrl/studyhall-go/internal/community"
	"github.com/pascollanm-ctrl/studyhall-go/internal/speech"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func typeString(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		if r == ' ' {
			m = update(t, m, key(" "))
		} else {
			m = update(t, m, key(string(r)))
		}
	}
	return m
}

func sampleResources() ResourcesMsg {
	now := time.Now()
	return ResourcesMsg{
		{ID: "r1", Category: "Math", Title: "Calculus Notes", CreatedAt: now},
		{ID: "r2", Category: "Physics", Title: "Mechanics Primer", CreatedAt: now.Add(time.Minute)},
	}
}

func TestNewModel(t *testing.T) {
	m := NewModel(nil)

	if m.tab != tabForum {
		t.Errorf("expected initial tab Forum, got %v", m.tab)
	}
	if m.volume != 100 {
		t.Errorf("expected default volume 100, got %d", m.volume)
	}
	if m.prompt != nil {
		t.Error("expected no prompt initially")
	}
}

func TestTabCycling(t *testing.T) {
	m := NewModel(nil)

	m = update(t, m, key("tab"))
	if m.tab != tabAnnouncements {
		t.Errorf("expected Announcements after tab, got %v", m.tab)
	}

	m = update(t, m, key("tab"), key("tab"), key("tab"))
	if m.tab != tabForum {
		t.Errorf("expected wrap back to Forum, got %v", m.tab)
	}

	m = update(t, m, key("shift+tab"))
	if m.tab != tabTutor {
		t.Errorf("expected Tutor after shift+tab from Forum, got %v", m.tab)
	}

	m = update(t, m, key("3"))
	if m.tab != tabResources {
		t.Errorf("expected Resources after '3', got %v", m.tab)
	}
}

func TestCursorClampsToList(t *testing.T) {
	m := NewModel(nil)
	m = update(t, m, PostsMsg{
		{ID: "p1", Title: "One"},
		{ID: "p2", Title: "Two"},
	})

	m = update(t, m, key("up"))
	if m.postCursor != 0 {
		t.Errorf("cursor went above top: %d", m.postCursor)
	}

	m = update(t, m, key("down"), key("down"), key("down"))
	if m.postCursor != 1 {
		t.Errorf("cursor went past end: %d", m.postCursor)
	}

	// Shrinking the list pulls the cursor back in range.
	m = update(t, m, PostsMsg{{ID: "p1", Title: "One"}})
	if m.postCursor != 0 {
		t.Errorf("cursor not clamped after list shrank: %d", m.postCursor)
	}
}

func TestReadAloudAnnouncement(t *testing.T) {
	actions := NewActions()
	m := NewModel(actions)
	m = update(t, m,
		AnnouncementsMsg{{ID: "a1", Title: "Exam week", Body: "Good luck"}},
		key("2"),
		key("enter"),
	)

	select {
	case req := <-actions.Read:
		if req.ID != "announcement:a1" {
			t.Errorf("unexpected read id: %q", req.ID)
		}
		if req.Text != "Exam week. Good luck" {
			t.Errorf("unexpected speech text: %q", req.Text)
		}
	default:
		t.Fatal("no read request emitted")
	}
}

func TestResourceBrowseFlow(t *testing.T) {
	actions := NewActions()
	m := NewModel(actions)
	m = update(t, m, sampleResources(), key("3"))

	// Category level first: Math, Physics (sorted).
	if m.browser.Level() != community.LevelCategories {
		t.Fatal("expected category level initially")
	}

	// Enter Math.
	m = update(t, m, key("enter"))
	if m.browser.Level() != community.LevelResources {
		t.Fatal("expected resource level after enter")
	}
	if m.browser.Category() != "Math" {
		t.Errorf("expected Math category, got %q", m.browser.Category())
	}

	// Read the selected resource aloud.
	m = update(t, m, key("enter"))
	select {
	case req := <-actions.Read:
		if req.ID != "resource:r1" {
			t.Errorf("unexpected read id: %q", req.ID)
		}
	default:
		t.Fatal("no read request emitted")
	}

	// Back to categories.
	m = update(t, m, key("esc"))
	if m.browser.Level() != community.LevelCategories {
		t.Error("expected category level after esc")
	}
}

func TestDownloadResource(t *testing.T) {
	actions := NewActions()
	m := NewModel(actions)
	m = update(t, m, sampleResources(), key("3"), key("enter"), key("d"))

	select {
	case r := <-actions.Downloads:
		if r.ID != "r1" {
			t.Errorf("unexpected download resource: %q", r.ID)
		}
	default:
		t.Fatal("no download request emitted")
	}
}

func TestDownloadIgnoredAtCategoryLevel(t *testing.T) {
	actions := NewActions()
	m := NewModel(actions)
	update(t, m, sampleResources(), key("3"), key("d"))

	select {
	case <-actions.Downloads:
		t.Error("download should not fire at the category level")
	default:
	}
}

func TestSearchPrompt(t *testing.T) {
	m := NewModel(nil)
	m = update(t, m, sampleResources(), key("3"), key("/"))

	if m.prompt == nil {
		t.Fatal("expected search prompt")
	}

	m = typeString(t, m, "mech")
	m = update(t, m, key("enter"))

	if m.prompt != nil {
		t.Error("prompt should close after enter")
	}
	if m.browser.Query() != "mech" {
		t.Errorf("query not applied: %q", m.browser.Query())
	}
	items := m.browser.Items()
	if len(items) != 1 || items[0].ID != "r2" {
		t.Errorf("unexpected search results: %+v", items)
	}
}

func TestNewPostPrompt(t *testing.T) {
	actions := NewActions()
	m := NewModel(actions)
	m = update(t, m, key("n"))

	if m.prompt == nil {
		t.Fatal("expected post prompt")
	}

	m = typeString(t, m, "Study group")
	m = update(t, m, key("enter"))
	if m.prompt == nil {
		t.Fatal("prompt should still collect the body")
	}
	m = typeString(t, m, "Thursday at 6")
	m = update(t, m, key("enter"))

	select {
	case req := <-actions.Posts:
		if req.Title != "Study group" || req.Body != "Thursday at 6" {
			t.Errorf("unexpected post request: %+v", req)
		}
	default:
		t.Fatal("no post request emitted")
	}
}

func TestReplyPrompt(t *testing.T) {
	actions := NewActions()
	m := NewModel(actions)
	m = update(t, m,
		PostsMsg{{ID: "p1", Title: "One"}},
		key("r"),
	)

	m = typeString(t, m, "me too")
	m = update(t, m, key("enter"))

	select {
	case req := <-actions.Replies:
		if req.PostID != "p1" || req.Body != "me too" {
			t.Errorf("unexpected reply request: %+v", req)
		}
	default:
		t.Fatal("no reply request emitted")
	}
}

func TestPromptEscCancels(t *testing.T) {
	actions := NewActions()
	m := NewModel(actions)
	m = update(t, m, key("n"))
	m = typeString(t, m, "abandoned")
	m = update(t, m, key("esc"))

	if m.prompt != nil {
		t.Error("prompt should be gone after esc")
	}
	select {
	case <-actions.Posts:
		t.Error("cancelled prompt should not emit an action")
	default:
	}
}

func TestPromptBackspace(t *testing.T) {
	m := NewModel(nil)
	m = update(t, m, key("3"), key("/"))
	m = typeString(t, m, "abc")
	m = update(t, m, key("backspace"))

	if m.prompt.buffer != "ab" {
		t.Errorf("expected buffer 'ab', got %q", m.prompt.buffer)
	}
}

func TestAskTutor(t *testing.T) {
	actions := NewActions()
	m := NewModel(actions)
	m = update(t, m, key("4"), key("enter"))

	m = typeString(t, m, "what is a limit")
	m = update(t, m, key("enter"))

	select {
	case q := <-actions.Ask:
		if q != "what is a limit" {
			t.Errorf("unexpected question: %q", q)
		}
	default:
		t.Fatal("no ask emitted")
	}

	if !m.tutorBusy {
		t.Error("expected tutorBusy after asking")
	}
	if len(m.tutor) != 1 || m.tutor[0].role != "user" {
		t.Errorf("question not recorded in transcript: %+v", m.tutor)
	}

	// The reply arrives and clears the busy flag.
	m = update(t, m, TutorReplyMsg{Question: "what is a limit", Answer: "The value a function approaches."})
	if m.tutorBusy {
		t.Error("expected tutorBusy cleared after reply")
	}
	if len(m.tutor) != 2 || m.tutor[1].role != "assistant" {
		t.Errorf("answer not recorded: %+v", m.tutor)
	}
}

func TestTutorErrorFlashes(t *testing.T) {
	m := NewModel(nil)
	m = update(t, m, TutorReplyMsg{Err: errTest})
	if m.flash == "" {
		t.Error("expected flash message on tutor error")
	}
	if m.tutorBusy {
		t.Error("expected tutorBusy cleared on error")
	}
}

func TestPlaybackStatusLine(t *testing.T) {
	m := NewModel(nil)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m = update(t, m, PlaybackMsg{State: speech.StateGenerating, ID: "announcement:a1"})
	if m.playback.State != speech.StateGenerating {
		t.Errorf("playback state not applied: %v", m.playback.State)
	}

	m = update(t, m, PlaybackMsg{State: speech.StatePlaying, ID: "announcement:a1"})
	view := m.View()
	if !strings.Contains(view, "playing") {
		t.Error("view does not show playing state")
	}
}

func TestVolumeKeys(t *testing.T) {
	actions := NewActions()
	m := NewModel(actions)
	m = update(t, m, key("2"), key("+"), key("m"))

	select {
	case v := <-actions.Volume:
		if v.Delta != 5 {
			t.Errorf("unexpected volume delta: %d", v.Delta)
		}
	default:
		t.Fatal("no volume change emitted")
	}
	select {
	case v := <-actions.Volume:
		if !v.ToggleMute {
			t.Error("expected mute toggle")
		}
	default:
		t.Fatal("no mute toggle emitted")
	}
}

func TestQuitEmitsAction(t *testing.T) {
	actions := NewActions()
	m := NewModel(actions)
	_, cmd := m.Update(key("q"))

	select {
	case <-actions.Quit:
	default:
		t.Error("no quit signal emitted")
	}
	if cmd == nil {
		t.Error("expected tea.Quit command")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"this is longer than allowed", 10, "this is..."},
		{"", 10, ""},
		{"abcd", 4, "abcd"},
		{"abcde", 4, "a..."},
		{"héllo wörld çafé time", 10, "héllo w..."},
		{"日本語のテキスト", 5, "日本..."},
	}

	for _, tt := range tests {
		result := truncate(tt.input, tt.maxLen)
		if result != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, expected %q",
				tt.input, tt.maxLen, result, tt.expected)
		}
	}
}

var errTest = errors.New("boom")
