// ABOUTME: Bubbletea model for the community TUI
// ABOUTME: Defines tab state, list navigation, prompts, and update logic
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pascollanm-ctrl/studyhall-go/internal/community"
	"github.com/pascollanm-ctrl/studyhall-go/internal/speech"
)

// tab identifies one of the top-level screens.
type tab int

const (
	tabForum tab = iota
	tabAnnouncements
	tabResources
	tabTutor
	tabCount
)

func (t tab) String() string {
	switch t {
	case tabForum:
		return "Forum"
	case tabAnnouncements:
		return "Announcements"
	case tabResources:
		return "Resources"
	case tabTutor:
		return "Tutor"
	}
	return "?"
}

type promptKind int

const (
	promptAsk promptKind = iota
	promptPost
	promptReply
	promptResource
	promptSearch
)

// prompt collects one or more input fields, one per enter press.
type prompt struct {
	kind   promptKind
	labels []string
	values []string
	buffer string

	// Context for dispatch.
	postID   string
	category string
}

// tutorTurn is one line of the on-screen tutor transcript.
type tutorTurn struct {
	role    string
	content string
}

// Model represents the TUI state.
type Model struct {
	actions *Actions

	tab    tab
	width  int
	height int

	announcements []community.Announcement
	posts         []community.Post
	browser       *community.Browser
	tutor         []tutorTurn
	tutorBusy     bool

	annCursor  int
	postCursor int
	resCursor  int
	expanded   map[string]bool

	playback speech.Status
	volume   int
	muted    bool
	flash    string

	prompt *prompt
}

// NewModel creates the initial TUI model.
func NewModel(actions *Actions) Model {
	return Model{
		actions:  actions,
		browser:  community.NewBrowser(nil),
		expanded: make(map[string]bool),
		volume:   100,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.prompt != nil {
			return m.handlePromptKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case AnnouncementsMsg:
		m.announcements = msg
		m.annCursor = clamp(m.annCursor, len(m.announcements))

	case PostsMsg:
		m.posts = msg
		m.postCursor = clamp(m.postCursor, len(m.posts))

	case ResourcesMsg:
		m.browser.SetResources(msg)
		m.resCursor = clamp(m.resCursor, m.resourceCount())

	case TutorReplyMsg:
		m.tutorBusy = false
		if msg.Err != nil {
			m.flash = fmt.Sprintf("tutor error: %v", msg.Err)
		} else {
			m.tutor = append(m.tutor, tutorTurn{role: "assistant", content: msg.Answer})
		}

	case PlaybackMsg:
		m.playback = speech.Status(msg)

	case VolumeMsg:
		m.volume = msg.Volume
		m.muted = msg.Muted

	case FlashMsg:
		m.flash = string(msg)
	}

	return m, nil
}

// handleKey handles keyboard input outside of a prompt.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.send(func() {
			select {
			case m.actions.Quit <- struct{}{}:
			default:
			}
		})
		return m, tea.Quit

	case "tab":
		m.tab = (m.tab + 1) % tabCount
		m.flash = ""
	case "shift+tab":
		m.tab = (m.tab + tabCount - 1) % tabCount
		m.flash = ""
	case "1":
		m.tab = tabForum
	case "2":
		m.tab = tabAnnouncements
	case "3":
		m.tab = tabResources
	case "4":
		m.tab = tabTutor

	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)

	case "enter":
		return m.handleEnter()

	case "esc", "backspace":
		if m.tab == tabResources && m.browser.Level() == community.LevelResources {
			m.browser.Back()
			m.resCursor = 0
		}

	case "/":
		if m.tab == tabResources {
			m.prompt = &prompt{kind: promptSearch, labels: []string{"Search"}, buffer: m.browser.Query()}
		}

	case "n":
		switch m.tab {
		case tabForum:
			m.prompt = &prompt{kind: promptPost, labels: []string{"Title", "Body"}}
		case tabResources:
			if m.browser.Level() == community.LevelResources {
				m.prompt = &prompt{
					kind:     promptResource,
					labels:   []string{"Title", "URL", "Description"},
					category: m.browser.Category(),
				}
			}
		}

	case "d":
		if m.tab == tabResources && m.browser.Level() == community.LevelResources {
			items := m.browser.Items()
			if m.resCursor < len(items) {
				r := items[m.resCursor]
				m.send(func() { m.actions.Downloads <- r })
			}
		}

	case "r":
		if m.tab == tabForum && m.postCursor < len(m.posts) {
			m.prompt = &prompt{
				kind:   promptReply,
				labels: []string{"Reply"},
				postID: m.posts[m.postCursor].ID,
			}
		}

	case "+", "=":
		m.send(func() { m.actions.Volume <- VolumeChange{Delta: 5} })
	case "-":
		m.send(func() { m.actions.Volume <- VolumeChange{Delta: -5} })
	case "m":
		m.send(func() { m.actions.Volume <- VolumeChange{ToggleMute: true} })
	}

	return m, nil
}

// handleEnter acts on the selected item of the current tab.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	switch m.tab {
	case tabForum:
		if m.postCursor < len(m.posts) {
			id := m.posts[m.postCursor].ID
			m.expanded[id] = !m.expanded[id]
		}

	case tabAnnouncements:
		if m.annCursor < len(m.announcements) {
			a := m.announcements[m.annCursor]
			m.send(func() {
				m.actions.Read <- ReadRequest{ID: "announcement:" + a.ID, Text: a.SpeechText()}
			})
		}

	case tabResources:
		if m.browser.Level() == community.LevelCategories {
			cats := m.browser.Categories()
			if m.resCursor < len(cats) {
				m.browser.Enter(cats[m.resCursor])
				m.resCursor = 0
			}
		} else {
			items := m.browser.Items()
			if m.resCursor < len(items) {
				r := items[m.resCursor]
				m.send(func() {
					m.actions.Read <- ReadRequest{ID: "resource:" + r.ID, Text: r.SpeechText()}
				})
			}
		}

	case tabTutor:
		if !m.tutorBusy {
			m.prompt = &prompt{kind: promptAsk, labels: []string{"Ask"}}
		}
	}
	return m, nil
}

// handlePromptKey handles keyboard input while composing.
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.prompt
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.prompt = nil

	case tea.KeyBackspace:
		if len(p.buffer) > 0 {
			runes := []rune(p.buffer)
			p.buffer = string(runes[:len(runes)-1])
		}

	case tea.KeySpace:
		p.buffer += " "

	case tea.KeyRunes:
		p.buffer += string(msg.Runes)

	case tea.KeyEnter:
		p.values = append(p.values, strings.TrimSpace(p.buffer))
		p.buffer = ""
		if len(p.values) == len(p.labels) {
			m.prompt = nil
			return m.dispatchPrompt(p)
		}
	}
	return m, nil
}

// dispatchPrompt converts a completed prompt into an action.
func (m Model) dispatchPrompt(p *prompt) (tea.Model, tea.Cmd) {
	switch p.kind {
	case promptAsk:
		question := p.values[0]
		if question == "" {
			return m, nil
		}
		m.tutor = append(m.tutor, tutorTurn{role: "user", content: question})
		m.tutorBusy = true
		m.send(func() { m.actions.Ask <- question })

	case promptPost:
		if p.values[0] == "" {
			m.flash = "post title must not be empty"
			return m, nil
		}
		m.send(func() { m.actions.Posts <- PostRequest{Title: p.values[0], Body: p.values[1]} })

	case promptReply:
		if p.values[0] == "" {
			return m, nil
		}
		postID := p.postID
		m.send(func() { m.actions.Replies <- ReplyRequest{PostID: postID, Body: p.values[0]} })

	case promptResource:
		if p.values[0] == "" {
			m.flash = "resource title must not be empty"
			return m, nil
		}
		req := ResourceRequest{
			Category:    p.category,
			Title:       p.values[0],
			URL:         p.values[1],
			Description: p.values[2],
		}
		m.send(func() { m.actions.Adds <- req })

	case promptSearch:
		m.browser.Search(p.values[0])
		m.resCursor = 0
	}
	return m, nil
}

// send runs fn unless the model was built without action channels
// (tests exercise navigation that way).
func (m Model) send(fn func()) {
	if m.actions == nil {
		return
	}
	fn()
}

func (m *Model) moveCursor(delta int) {
	switch m.tab {
	case tabForum:
		m.postCursor = clampMove(m.postCursor, delta, len(m.posts))
	case tabAnnouncements:
		m.annCursor = clampMove(m.annCursor, delta, len(m.announcements))
	case tabResources:
		m.resCursor = clampMove(m.resCursor, delta, m.resourceCount())
	}
}

func (m Model) resourceCount() int {
	if m.browser.Level() == community.LevelCategories {
		return len(m.browser.Categories())
	}
	return len(m.browser.Items())
}

func clamp(cursor, length int) int {
	if length == 0 {
		return 0
	}
	if cursor >= length {
		return length - 1
	}
	return cursor
}

func clampMove(cursor, delta, length int) int {
	cursor += delta
	if cursor < 0 {
		return 0
	}
	return clamp(cursor, length)
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Padding(0, 1)
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))
	faintStyle = lipgloss.NewStyle().Faint(true)
)

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.prompt != nil {
		b.WriteString(m.renderPrompt())
	} else {
		switch m.tab {
		case tabForum:
			b.WriteString(m.renderForum())
		case tabAnnouncements:
			b.WriteString(m.renderAnnouncements())
		case tabResources:
			b.WriteString(m.renderResources())
		case tabTutor:
			b.WriteString(m.renderTutor())
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(faintStyle.Render(m.helpLine()))
	return b.String()
}

func (m Model) renderTabs() string {
	var parts []string
	for t := tab(0); t < tabCount; t++ {
		label := fmt.Sprintf("%d %s", int(t)+1, t)
		if t == m.tab {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, inactiveTabStyle.Render(label))
		}
	}
	return strings.Join(parts, "│")
}

func (m Model) renderForum() string {
	if len(m.posts) == 0 {
		return faintStyle.Render("No threads yet. Press 'n' to start one.")
	}
	var b strings.Builder
	for i, p := range m.posts {
		line := fmt.Sprintf("%s — %s (%d replies)", p.Title, p.Author, len(p.Replies))
		b.WriteString(cursorLine(i == m.postCursor, line))
		if m.expanded[p.ID] {
			b.WriteString("    " + truncate(p.Body, m.width-6) + "\n")
			for _, r := range p.Replies {
				b.WriteString(fmt.Sprintf("    ↳ %s: %s\n", r.Author, truncate(r.Body, m.width-10)))
			}
		}
	}
	return b.String()
}

func (m Model) renderAnnouncements() string {
	if len(m.announcements) == 0 {
		return faintStyle.Render("No announcements.")
	}
	var b strings.Builder
	for i, a := range m.announcements {
		pin := "  "
		if a.Pinned {
			pin = "📌"
		}
		line := fmt.Sprintf("%s %s — %s", pin, a.Title, a.Author)
		b.WriteString(cursorLine(i == m.annCursor, line))
		if i == m.annCursor {
			b.WriteString("    " + truncate(a.Body, m.width-6) + "\n")
		}
	}
	return b.String()
}

func (m Model) renderResources() string {
	var b strings.Builder
	if q := m.browser.Query(); q != "" {
		b.WriteString(headerStyle.Render("Search: "+q) + "\n")
	}

	if m.browser.Level() == community.LevelCategories {
		cats := m.browser.Categories()
		if len(cats) == 0 {
			return faintStyle.Render("The library is empty.")
		}
		b.WriteString(headerStyle.Render("Categories") + "\n")
		for i, c := range cats {
			b.WriteString(cursorLine(i == m.resCursor, c))
		}
		return b.String()
	}

	b.WriteString(headerStyle.Render(m.browser.Category()) + "\n")
	items := m.browser.Items()
	if len(items) == 0 {
		b.WriteString(faintStyle.Render("No matching resources."))
		return b.String()
	}
	for i, r := range items {
		line := r.Title
		if r.URL != "" {
			line += "  " + faintStyle.Render(r.URL)
		}
		b.WriteString(cursorLine(i == m.resCursor, line))
		if i == m.resCursor && r.Description != "" {
			b.WriteString("    " + truncate(r.Description, m.width-6) + "\n")
		}
	}
	return b.String()
}

func (m Model) renderTutor() string {
	var b strings.Builder
	if len(m.tutor) == 0 {
		b.WriteString(faintStyle.Render("Press enter to ask the tutor a question.") + "\n")
	}
	for _, turn := range m.tutor {
		prefix := "You: "
		if turn.role == "assistant" {
			prefix = "Tutor: "
		}
		b.WriteString(headerStyle.Render(prefix) + turn.content + "\n")
	}
	if m.tutorBusy {
		b.WriteString(faintStyle.Render("Thinking...") + "\n")
	}
	return b.String()
}

func (m Model) renderPrompt() string {
	p := m.prompt
	var b strings.Builder
	for i, v := range p.values {
		b.WriteString(fmt.Sprintf("%s: %s\n", p.labels[i], v))
	}
	b.WriteString(fmt.Sprintf("%s: %s█\n", p.labels[len(p.values)], p.buffer))
	b.WriteString(faintStyle.Render("enter to confirm, esc to cancel"))
	return b.String()
}

func (m Model) renderStatusLine() string {
	playing := "♪ idle"
	switch m.playback.State {
	case speech.StateGenerating:
		playing = "♪ generating..."
	case speech.StatePlaying:
		playing = "♪ playing"
	}

	vol := fmt.Sprintf("vol %d%%", m.volume)
	if m.muted {
		vol = "muted"
	}

	line := playing + "  " + vol
	if m.flash != "" {
		line += "  " + selectedStyle.Render(m.flash)
	}
	return line
}

func (m Model) helpLine() string {
	switch m.tab {
	case tabForum:
		return "enter:Expand  n:New thread  r:Reply  tab:Next  q:Quit"
	case tabAnnouncements:
		return "enter:Read aloud  tab:Next  +/-:Volume  m:Mute  q:Quit"
	case tabResources:
		if m.browser.Level() == community.LevelCategories {
			return "enter:Open  /:Search  tab:Next  q:Quit"
		}
		return "enter:Read aloud  d:Download  esc:Back  n:Add  /:Search  q:Quit"
	case tabTutor:
		return "enter:Ask  tab:Next  q:Quit"
	}
	return ""
}

func cursorLine(selected bool, line string) string {
	if selected {
		return selectedStyle.Render("> "+line) + "\n"
	}
	return "  " + line + "\n"
}

func truncate(s string, length int) string {
	if length < 4 {
		length = 4
	}
	runes := []rune(s)
	if len(runes) <= length {
		return s
	}
	return string(runes[:length-3]) + "..."
}
