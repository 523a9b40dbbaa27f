package store

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Pratham82/real-time-notes/internal/state"
)

// Server exposes the stroke table over HTTP plus the insert feed over a
// websocket:
//
//	GET    /strokes    all strokes, created_at ascending
//	PUT    /strokes    insert-or-replace one stroke by id
//	DELETE /strokes    delete every stroke
//	GET    /subscribe  websocket insert feed
type Server struct {
	backend  Backend
	hub      *Hub
	mux      *http.ServeMux
	upgrader websocket.Upgrader
}

func NewServer(backend Backend) *Server {
	s := &Server{
		backend: backend,
		hub:     NewHub(),
		mux:     http.NewServeMux(),
		upgrader: websocket.Upgrader{
			// Boards are joined by share link on a trusted LAN.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	s.mux.HandleFunc("/strokes", s.handleStrokes)
	s.mux.HandleFunc("/subscribe", s.handleSubscribe)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close tears down the feed. The backend is owned by the caller.
func (s *Server) Close() {
	s.hub.Close()
}

func (s *Server) handleStrokes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleSelectAll(w, r)
	case http.MethodPut:
		s.handleUpsert(w, r)
	case http.MethodDelete:
		s.handleDeleteAll(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSelectAll(w http.ResponseWriter, _ *http.Request) {
	strokes, err := s.backend.SelectAll()
	if err != nil {
		log.Printf("[store] select all: %v", err)
		http.Error(w, "select failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(strokes); err != nil {
		log.Printf("[store] encode strokes: %v", err)
	}
}

func (s *Server) handleUpsert(w http.ResponseWriter, r *http.Request) {
	var stroke state.Stroke
	if err := json.NewDecoder(r.Body).Decode(&stroke); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	// created_at is server-assigned; ignore whatever the client sent.
	stroke.CreatedAt = time.Time{}
	if !stroke.Valid() {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}

	inserted, err := s.backend.Upsert(stroke)
	if err != nil {
		log.Printf("[store] upsert %s: %v", stroke.ID, err)
		http.Error(w, "upsert failed", http.StatusInternalServerError)
		return
	}
	// The feed fires on first insert only; later pushes of the same id are
	// point-set updates and stay silent.
	if inserted {
		s.hub.BroadcastInsert(stroke)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAll(w http.ResponseWriter, _ *http.Request) {
	if err := s.backend.DeleteAll(); err != nil {
		log.Printf("[store] delete all: %v", err)
		http.Error(w, "delete failed", http.StatusInternalServerError)
		return
	}
	log.Printf("[store] cleared all strokes")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[store] upgrade failed: %v", err)
		return
	}
	s.hub.Add(conn)

	// The feed is push-only; the read loop just detects disconnects.
	go func() {
		defer s.hub.Remove(conn)
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
