// ABOUTME: In-memory community service for local development
// ABOUTME: Serves the REST store surface and the websocket live feed
package devserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pascollanm-ctrl/studyhall-go/internal/community"
	"github.com/pascollanm-ctrl/studyhall-go/internal/live"
)

// Config holds devserver configuration.
type Config struct {
	Addr string
	Seed bool
}

// Server is a self-contained stand-in for the hosted community
// service. All documents live in process memory; restarting it starts
// from a blank (or seeded) state.
type Server struct {
	config   Config
	serverID string
	logger   *slog.Logger

	upgrader websocket.Upgrader
	mux      *http.ServeMux
	httpSrv  *http.Server
	listener net.Listener

	mu            sync.RWMutex
	announcements []community.Announcement
	posts         []community.Post
	resources     []community.Resource
	chat          []community.ChatTurn

	feedsMu sync.Mutex
	feeds   map[string]*feedConn

	stopOnce sync.Once
	stopChan chan struct{}
}

type feedConn struct {
	id   string
	conn *websocket.Conn
	send chan live.Envelope
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a devserver instance. Call Start to begin serving.
func New(config Config, opts ...Option) *Server {
	s := &Server{
		config:   config,
		serverID: uuid.New().String(),
		logger:   slog.Default(),
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			// Local development only; any origin is fine.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		feeds:    make(map[string]*feedConn),
		stopChan: make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}

	s.mux.HandleFunc("/api/announcements", s.handleAnnouncements)
	s.mux.HandleFunc("/api/posts", s.handlePosts)
	s.mux.HandleFunc("/api/posts/", s.handleReplies)
	s.mux.HandleFunc("/api/categories", s.handleCategories)
	s.mux.HandleFunc("/api/resources", s.handleResources)
	s.mux.HandleFunc("/api/chat", s.handleChat)
	s.mux.HandleFunc("/ws", s.handleFeed)

	if config.Seed {
		s.seed()
	}
	return s
}

// Start begins listening and blocks until Stop is called or the
// listener fails.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("devserver listen %s: %w", s.config.Addr, err)
	}
	s.listener = ln
	s.httpSrv = &http.Server{Handler: s.mux}

	s.logger.Info("devserver listening", slog.String("addr", ln.Addr().String()), slog.String("server_id", s.serverID))

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpSrv.Serve(ln); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	var serveErr error
	select {
	case <-s.stopChan:
	case serveErr = <-errChan:
		s.logger.Error("devserver serve error", slog.String("error", serveErr.Error()))
	}

	s.closeFeeds()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		s.logger.Warn("devserver shutdown", slog.String("error", err.Error()))
	}
	return serveErr
}

// Stop shuts the server down. Safe to call more than once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

// Addr returns the bound listen address, valid once Start has begun
// serving.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.config.Addr
	}
	return s.listener.Addr().String()
}

// Handler exposes the HTTP mux for tests using httptest.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleAnnouncements(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.mu.RLock()
		out := make([]community.Announcement, len(s.announcements))
		copy(out, s.announcements)
		s.mu.RUnlock()
		// Pinned announcements sort first, then newest first.
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Pinned != out[j].Pinned {
				return out[i].Pinned
			}
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var a community.Announcement
		if !s.readJSON(w, r, &a) {
			return
		}
		if a.ID == "" {
			a.ID = uuid.New().String()
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = time.Now().UTC()
		}
		s.mu.Lock()
		s.announcements = append(s.announcements, a)
		s.mu.Unlock()
		s.broadcast(live.TypeAnnouncementCreated, a)
		writeJSON(w, http.StatusCreated, a)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.mu.RLock()
		out := make([]community.Post, len(s.posts))
		copy(out, s.posts)
		s.mu.RUnlock()
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var p community.Post
		if !s.readJSON(w, r, &p) {
			return
		}
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now().UTC()
		}
		p.Replies = nil
		s.mu.Lock()
		s.posts = append(s.posts, p)
		s.mu.Unlock()
		s.broadcast(live.TypePostCreated, p)
		writeJSON(w, http.StatusCreated, p)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleReplies(w http.ResponseWriter, r *http.Request) {
	// Path shape: /api/posts/{id}/replies
	rest := strings.TrimPrefix(r.URL.Path, "/api/posts/")
	postID, tail, ok := strings.Cut(rest, "/")
	if !ok || tail != "replies" || postID == "" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var reply community.Reply
	if !s.readJSON(w, r, &reply) {
		return
	}
	if reply.ID == "" {
		reply.ID = uuid.New().String()
	}
	if reply.CreatedAt.IsZero() {
		reply.CreatedAt = time.Now().UTC()
	}
	reply.PostID = postID

	s.mu.Lock()
	idx := -1
	for i := range s.posts {
		if s.posts[i].ID == postID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}
	s.posts[idx].Replies = append(s.posts[idx].Replies, reply)
	s.mu.Unlock()

	s.broadcast(live.TypeReplyCreated, reply)
	writeJSON(w, http.StatusCreated, reply)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.RLock()
	seen := make(map[string]bool)
	var cats []string
	for _, res := range s.resources {
		if !seen[res.Category] {
			seen[res.Category] = true
			cats = append(cats, res.Category)
		}
	}
	s.mu.RUnlock()
	sort.Strings(cats)
	if cats == nil {
		cats = []string{}
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) handleResources(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		category := r.URL.Query().Get("category")
		s.mu.RLock()
		out := make([]community.Resource, 0, len(s.resources))
		for _, res := range s.resources {
			if category == "" || res.Category == category {
				out = append(out, res)
			}
		}
		s.mu.RUnlock()
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var res community.Resource
		if !s.readJSON(w, r, &res) {
			return
		}
		if res.Category == "" || res.Title == "" {
			http.Error(w, "category and title are required", http.StatusBadRequest)
			return
		}
		if res.ID == "" {
			res.ID = uuid.New().String()
		}
		if res.CreatedAt.IsZero() {
			res.CreatedAt = time.Now().UTC()
		}
		s.mu.Lock()
		s.resources = append(s.resources, res)
		s.mu.Unlock()
		s.broadcast(live.TypeResourceAdded, res)
		writeJSON(w, http.StatusCreated, res)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.mu.RLock()
		out := make([]community.ChatTurn, len(s.chat))
		copy(out, s.chat)
		s.mu.RUnlock()
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var turn community.ChatTurn
		if !s.readJSON(w, r, &turn) {
			return
		}
		if turn.Role != "user" && turn.Role != "assistant" {
			http.Error(w, "role must be user or assistant", http.StatusBadRequest)
			return
		}
		if turn.ID == "" {
			turn.ID = uuid.New().String()
		}
		if turn.CreatedAt.IsZero() {
			turn.CreatedAt = time.Now().UTC()
		}
		s.mu.Lock()
		s.chat = append(s.chat, turn)
		s.mu.Unlock()
		writeJSON(w, http.StatusCreated, turn)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (s *Server) seed() {
	now := time.Now().UTC()
	s.announcements = []community.Announcement{
		{
			ID:        uuid.New().String(),
			Title:     "Welcome to StudyHall",
			Body:      "Introduce yourself in the forum and check the resource library.",
			Author:    "admin",
			Pinned:    true,
			CreatedAt: now.Add(-48 * time.Hour),
		},
	}
	s.resources = []community.Resource{
		{
			ID:          uuid.New().String(),
			Category:    "Math",
			Title:       "Khan Academy Calculus",
			URL:         "https://www.khanacademy.org/math/calculus-1",
			Description: "Free calculus course with practice problems",
			AddedBy:     "admin",
			CreatedAt:   now.Add(-24 * time.Hour),
		},
		{
			ID:          uuid.New().String(),
			Category:    "Programming",
			Title:       "A Tour of Go",
			URL:         "https://go.dev/tour/",
			Description: "Interactive introduction to the Go language",
			AddedBy:     "admin",
			CreatedAt:   now.Add(-12 * time.Hour),
		},
	}
}
