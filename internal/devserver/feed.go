// ABOUTME: Websocket live feed for the devserver
// ABOUTME: Handles the hello/welcome handshake and fan-out of store events
package devserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pascollanm-ctrl/studyhall-go/internal/live"
)

const feedSendBuffer = 32

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("feed upgrade failed", slog.String("error", err.Error()))
		return
	}
	s.serveFeed(conn, r.RemoteAddr)
}

func (s *Server) serveFeed(conn *websocket.Conn, remote string) {
	defer conn.Close()

	// Wait for the client's hello before anything else.
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var env live.Envelope
	if err := conn.ReadJSON(&env); err != nil {
		s.logger.Warn("feed handshake read failed", slog.String("remote", remote), slog.String("error", err.Error()))
		return
	}
	if env.Type != live.TypeHello {
		s.logger.Warn("feed handshake wrong type", slog.String("remote", remote), slog.String("type", env.Type))
		return
	}

	var hello live.Hello
	if err := json.Unmarshal(env.Payload, &hello); err != nil || hello.ClientID == "" {
		s.logger.Warn("feed hello invalid", slog.String("remote", remote))
		return
	}
	conn.SetReadDeadline(time.Time{})

	// Register before welcoming so an event stored right after the
	// client's Connect returns is not missed.
	fc := &feedConn{
		id:   hello.ClientID,
		conn: conn,
		send: make(chan live.Envelope, feedSendBuffer),
	}
	s.feedsMu.Lock()
	s.feeds[fc.id] = fc
	s.feedsMu.Unlock()
	s.logger.Info("feed client connected", slog.String("client_id", hello.ClientID), slog.String("name", hello.Name))

	defer func() {
		s.feedsMu.Lock()
		delete(s.feeds, fc.id)
		s.feedsMu.Unlock()
		s.logger.Info("feed client disconnected", slog.String("client_id", fc.id))
	}()

	welcome, err := envelope(live.TypeWelcome, live.Welcome{ServerID: s.serverID})
	if err != nil {
		return
	}
	if err := conn.WriteJSON(welcome); err != nil {
		s.logger.Warn("feed welcome write failed", slog.String("remote", remote), slog.String("error", err.Error()))
		return
	}

	// Drain inbound frames so pings and close frames are processed; the
	// feed is one-way after the handshake.
	readErr := make(chan struct{})
	go func() {
		defer close(readErr)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case env := <-fc.send:
			if err := conn.WriteJSON(env); err != nil {
				return
			}
		case <-readErr:
			return
		case <-s.stopChan:
			return
		}
	}
}

// broadcast fans an event out to every connected feed client. A client
// whose send buffer is full misses the event rather than stalling the
// store handler.
func (s *Server) broadcast(eventType string, payload any) {
	env, err := envelope(eventType, payload)
	if err != nil {
		s.logger.Error("broadcast encode failed", slog.String("type", eventType), slog.String("error", err.Error()))
		return
	}

	s.feedsMu.Lock()
	defer s.feedsMu.Unlock()
	for id, fc := range s.feeds {
		select {
		case fc.send <- env:
		default:
			s.logger.Warn("feed client lagging, dropping event", slog.String("client_id", id), slog.String("type", eventType))
		}
	}
}

func (s *Server) closeFeeds() {
	s.feedsMu.Lock()
	defer s.feedsMu.Unlock()
	for id, fc := range s.feeds {
		fc.conn.Close()
		delete(s.feeds, id)
	}
}

func envelope(eventType string, payload any) (live.Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return live.Envelope{}, err
	}
	return live.Envelope{Type: eventType, Payload: raw}, nil
}
