package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/oguzhantopcu/tyasistan/internal/ai"
	"github.com/oguzhantopcu/tyasistan/internal/assistant"
)

// sessionTTL is how long an idle chat session is kept before the sweeper
// drops it.
const sessionTTL = 2 * time.Hour

// FileResolver maps an export file name to its path on disk. Implemented
// by exporter.Exporter.
type FileResolver interface {
	Resolve(name string) (string, error)
}

// chatSession pairs a conversation history with the assistant serving it.
// Sessions created with their own API key get a cloned assistant. turnMu
// keeps one turn in flight per session.
type chatSession struct {
	assistant *assistant.Assistant
	history   *assistant.Session
	turnMu    sync.Mutex
	lastSeen  time.Time
}

// Server exposes the assistant over HTTP: a chat page, a JSON chat API,
// and export file downloads.
type Server struct {
	mux    *http.ServeMux
	addr   string
	logger *slog.Logger

	base  *assistant.Assistant
	keyed func(apiKey, model string) ai.Completer
	files FileResolver

	sessions   map[string]*chatSession
	sessionsMu sync.RWMutex

	httpSrv *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithKeyedCompleter lets clients open sessions with their own API key
// and model. The key lives only in the session's assistant clone, never
// on disk.
func WithKeyedCompleter(fn func(apiKey, model string) ai.Completer) Option {
	return func(s *Server) { s.keyed = fn }
}

// New creates a chat server.
func New(addr string, base *assistant.Assistant, files FileResolver, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		addr:     addr,
		logger:   logger.With("component", "server"),
		base:     base,
		files:    files,
		sessions: make(map[string]*chatSession),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	s.mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	s.mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	s.mux.HandleFunc("POST /api/sessions/{id}/messages", s.handleMessage)

	s.mux.HandleFunc("GET /api/files/{name}", s.handleDownload)
}

// Handler returns the route table. Exposed for tests.
func (s *Server) Handler() http.Handler { return s.mux }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweepSessions(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("chat server starting", "addr", s.addr)
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// sweepSessions drops sessions idle past the TTL.
func (s *Server) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.sessionsMu.Lock()
			for id, sess := range s.sessions {
				if now.Sub(sess.lastSeen) > sessionTTL {
					delete(s.sessions, id)
				}
			}
			s.sessionsMu.Unlock()
		}
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(chatPageHTML))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		APIKey string `json:"api_key"`
		Model  string `json:"model"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
			return
		}
	}

	as := s.base
	if body.APIKey != "" || body.Model != "" {
		if s.keyed == nil {
			s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "per-session API keys are not enabled"})
			return
		}
		as = s.base.WithCompleter(s.keyed(body.APIKey, body.Model))
	}

	id := newSessionID()
	s.sessionsMu.Lock()
	s.sessions[id] = &chatSession{
		assistant: as,
		history:   assistant.NewSession(),
		lastSeen:  time.Now(),
	}
	s.sessionsMu.Unlock()

	s.logger.Info("session created", "session", id, "own_key", body.APIKey != "")
	s.jsonResponse(w, http.StatusCreated, map[string]string{
		"id":      id,
		"welcome": assistant.WelcomeMessage,
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.sessionsMu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.sessionsMu.Unlock()

	if !ok {
		s.jsonResponse(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sess := s.session(id)
	if sess == nil {
		s.jsonResponse(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Message == "" {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}

	// one turn in flight per session
	sess.turnMu.Lock()
	turn, err := sess.assistant.HandleMessage(r.Context(), sess.history, body.Message)
	sess.turnMu.Unlock()
	if err != nil {
		s.logger.Error("chat turn failed", "session", id, "error", err)
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": "chat turn failed"})
		return
	}

	resp := map[string]any{"reply": turn.Reply}
	if turn.File != nil {
		resp["file"] = map[string]any{
			"name":   turn.File.Name,
			"url":    "/api/files/" + turn.File.Name,
			"format": turn.File.Format,
			"rows":   turn.File.Rows,
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	path, err := s.files.Resolve(name)
	if err != nil {
		s.jsonResponse(w, http.StatusNotFound, map[string]string{"error": "file not found"})
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	http.ServeFile(w, r, path)
}

func (s *Server) session(id string) *chatSession {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	sess.lastSeen = time.Now()
	return sess
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func newSessionID() string {
	buf := make([]byte, 16)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}
