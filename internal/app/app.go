// ABOUTME: Main client application orchestration
// ABOUTME: Coordinates the store, live feed, speech playback, tutor, and UI
package app

import (
	"context"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pascollanm-ctrl/studyhall-go/internal/community"
	"github.com/pascollanm-ctrl/studyhall-go/internal/live"
	"github.com/pascollanm-ctrl/studyhall-go/internal/player"
	"github.com/pascollanm-ctrl/studyhall-go/internal/speech"
	"github.com/pascollanm-ctrl/studyhall-go/internal/tutor"
	"github.com/pascollanm-ctrl/studyhall-go/internal/ui"
	"github.com/pascollanm-ctrl/studyhall-go/pkg/audio"
)

// Config holds client application configuration.
type Config struct {
	ServerURL   string
	WSURL       string
	Name        string
	OpenAIKey   string
	ChatModel   string
	SpeechModel string
	Voice       string
	Codec       string
	UseTUI      bool
}

// App is the main client application.
type App struct {
	config     Config
	store      *community.Client
	feed       *live.Client
	actions    *ui.Actions
	downloader *community.AttachmentDownloader

	// Speech and tutor are nil when no API key is configured; the
	// community features work without them.
	output     *player.Output
	controller *speech.Controller
	tutor      *tutor.Tutor

	tuiProg *tea.Program
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates the application. Speech playback and the tutor are only
// wired up when an OpenAI API key is configured.
func New(config Config) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		config:  config,
		store:   community.NewClient(config.ServerURL),
		actions: ui.NewActions(),
		ctx:     ctx,
		cancel:  cancel,
	}

	dl, err := community.NewAttachmentDownloader()
	if err != nil {
		log.Printf("Attachment downloads disabled: %v", err)
	} else {
		a.downloader = dl
	}

	if config.OpenAIKey != "" {
		tut, err := tutor.New(config.OpenAIKey, config.ChatModel)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("creating tutor: %w", err)
		}
		a.tutor = tut

		gen, err := speech.NewOpenAIGenerator(config.OpenAIKey, config.SpeechModel,
			speech.WithVoice(config.Voice),
			speech.WithCodec(config.Codec),
		)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("creating speech generator: %w", err)
		}

		a.output = player.NewOutput()
		a.controller = speech.NewController(gen, speech.NewCache(), a.output,
			speech.OnState(func(s speech.Status) { a.send(ui.PlaybackMsg(s)) }),
			speech.OnError(func(id string, err error) {
				log.Printf("Playback error for %s: %v", id, err)
				a.send(ui.FlashMsg(fmt.Sprintf("playback error: %v", err)))
			}),
		)
	}

	return a, nil
}

// Start runs the application until Stop is called.
func (a *App) Start() error {
	if a.output != nil {
		if err := a.output.Initialize(audio.SpeechSampleRate, audio.SpeechChannels); err != nil {
			return fmt.Errorf("initializing audio output: %w", err)
		}
	}

	if a.config.UseTUI {
		tuiProg, err := ui.Run(a.actions)
		if err != nil {
			return fmt.Errorf("failed to start TUI: %w", err)
		}
		a.tuiProg = tuiProg
		go a.tuiProg.Run()
	}

	a.refreshAnnouncements()
	a.refreshPosts()
	a.refreshResources()

	a.feed = live.NewClient(live.Config{URL: a.config.WSURL, Name: a.config.Name})
	if err := a.feed.Connect(); err != nil {
		log.Printf("Live feed unavailable: %v", err)
		a.feed = nil
	} else {
		go a.handleFeed()
	}

	go a.handleActions()

	<-a.ctx.Done()
	return nil
}

// handleActions consumes user intents emitted by the TUI.
func (a *App) handleActions() {
	for {
		select {
		case req := <-a.actions.Read:
			if a.controller == nil {
				a.send(ui.FlashMsg("set OPENAI_API_KEY to enable read-aloud"))
				continue
			}
			a.controller.Toggle(req.ID, req.Text)

		case question := <-a.actions.Ask:
			go a.askTutor(question)

		case req := <-a.actions.Posts:
			if _, err := a.store.CreatePost(a.ctx, req.Title, req.Body, a.config.Name); err != nil {
				log.Printf("Creating post failed: %v", err)
				a.send(ui.FlashMsg(fmt.Sprintf("post failed: %v", err)))
				continue
			}
			a.refreshPosts()

		case req := <-a.actions.Replies:
			if _, err := a.store.AddReply(a.ctx, req.PostID, req.Body, a.config.Name); err != nil {
				log.Printf("Adding reply failed: %v", err)
				a.send(ui.FlashMsg(fmt.Sprintf("reply failed: %v", err)))
				continue
			}
			a.refreshPosts()

		case req := <-a.actions.Adds:
			r := community.Resource{
				Category:    req.Category,
				Title:       req.Title,
				URL:         req.URL,
				Description: req.Description,
				AddedBy:     a.config.Name,
			}
			if _, err := a.store.AddResource(a.ctx, r); err != nil {
				log.Printf("Adding resource failed: %v", err)
				a.send(ui.FlashMsg(fmt.Sprintf("adding resource failed: %v", err)))
				continue
			}
			a.refreshResources()

		case r := <-a.actions.Downloads:
			go a.downloadAttachment(r)

		case change := <-a.actions.Volume:
			a.applyVolume(change)

		case <-a.actions.Quit:
			a.Stop()

		case <-a.ctx.Done():
			return
		}
	}
}

// handleFeed refreshes lists when the live feed reports changes.
func (a *App) handleFeed() {
	for {
		select {
		case <-a.feed.Announcements:
			a.refreshAnnouncements()
		case <-a.feed.Posts:
			a.refreshPosts()
		case <-a.feed.Replies:
			a.refreshPosts()
		case <-a.feed.Resources:
			a.refreshResources()
		case <-a.ctx.Done():
			return
		}
	}
}

// askTutor asks the question, records both turns in the shared
// transcript, and delivers the answer to the UI.
func (a *App) askTutor(question string) {
	if a.tutor == nil {
		a.send(ui.TutorReplyMsg{Question: question, Err: fmt.Errorf("set OPENAI_API_KEY to enable the tutor")})
		return
	}

	answer, err := a.tutor.Ask(a.ctx, question)
	if err != nil {
		log.Printf("Tutor request failed: %v", err)
		a.send(ui.TutorReplyMsg{Question: question, Err: err})
		return
	}

	if _, err := a.store.AppendChatTurn(a.ctx, "user", question); err != nil {
		log.Printf("Recording chat turn failed: %v", err)
	}
	if _, err := a.store.AppendChatTurn(a.ctx, "assistant", answer); err != nil {
		log.Printf("Recording chat turn failed: %v", err)
	}

	a.send(ui.TutorReplyMsg{Question: question, Answer: answer})
}

// downloadAttachment fetches the resource's linked file and reports
// the saved path on the status line.
func (a *App) downloadAttachment(r community.Resource) {
	if a.downloader == nil {
		a.send(ui.FlashMsg("attachment downloads unavailable"))
		return
	}
	if r.URL == "" {
		a.send(ui.FlashMsg("resource has no link to download"))
		return
	}

	path, err := a.downloader.Download(r)
	if err != nil {
		log.Printf("Downloading attachment failed: %v", err)
		a.send(ui.FlashMsg(fmt.Sprintf("download failed: %v", err)))
		return
	}
	a.send(ui.FlashMsg("saved to " + path))
}

func (a *App) applyVolume(change ui.VolumeChange) {
	if a.output == nil {
		return
	}
	if change.ToggleMute {
		a.output.SetMuted(!a.output.IsMuted())
	}
	if change.Delta != 0 {
		v := a.output.GetVolume() + change.Delta
		if v < 0 {
			v = 0
		}
		if v > 100 {
			v = 100
		}
		a.output.SetVolume(v)
	}
	a.send(ui.VolumeMsg{Volume: a.output.GetVolume(), Muted: a.output.IsMuted()})
}

func (a *App) refreshAnnouncements() {
	anns, err := a.store.ListAnnouncements(a.ctx)
	if err != nil {
		log.Printf("Listing announcements failed: %v", err)
		return
	}
	a.send(ui.AnnouncementsMsg(anns))
}

func (a *App) refreshPosts() {
	posts, err := a.store.ListPosts(a.ctx)
	if err != nil {
		log.Printf("Listing posts failed: %v", err)
		return
	}
	a.send(ui.PostsMsg(posts))
}

func (a *App) refreshResources() {
	resources, err := a.store.ListResources(a.ctx, "")
	if err != nil {
		log.Printf("Listing resources failed: %v", err)
		return
	}
	a.send(ui.ResourcesMsg(resources))
}

// send forwards a message to the TUI when one is running.
func (a *App) send(msg tea.Msg) {
	if a.tuiProg != nil {
		a.tuiProg.Send(msg)
	}
}

// Actions exposes the UI action channels.
func (a *App) Actions() *ui.Actions {
	return a.actions
}

// Stop shuts the application down.
func (a *App) Stop() {
	a.cancel()

	if a.controller != nil {
		a.controller.Close()
	}
	if a.feed != nil {
		a.feed.Close()
	}
	if a.output != nil {
		a.output.Close()
	}
	if a.downloader != nil {
		if err := a.downloader.Cleanup(); err != nil {
			log.Printf("Cleaning attachment cache failed: %v", err)
		}
	}
	if a.tuiProg != nil {
		a.tuiProg.Quit()
	}
}
