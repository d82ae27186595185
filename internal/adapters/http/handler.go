package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/studycircle/studycircle/internal/app/studio"
	"github.com/studycircle/studycircle/internal/domain"
)

type Server struct {
	svc *studio.Service
}

func NewServer(svc *studio.Service) http.Handler {
	s := &Server{svc: svc}
	mux := http.NewServeMux()

	// /sessions → create session (POST) / list sessions (GET)
	mux.HandleFunc("/sessions", s.handleSessions)

	// /sessions/{id}             → GET: session + transcript
	// /sessions/{id}/submissions → POST: submit a draft
	// /sessions/{id}/clear       → POST: reset the conversation
	mux.HandleFunc("/sessions/", s.handleSessionWithID)

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	return chainMiddlewares(mux, withLogging, withCORS, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type createSessionRequest struct {
	Title string `json:"title,omitempty"`
}

type createSessionResponse struct {
	Session sessionResponse `json:"session"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type messageResponse struct {
	ID          string    `json:"id"`
	Sender      string    `json:"sender"`
	DisplayName string    `json:"display_name"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

type submitRequest struct {
	Draft           string `json:"draft"`
	ContextMaterial string `json:"context_material,omitempty"`
}

type submitResponse struct {
	Messages []messageResponse `json:"messages"`
}

type getSessionResponse struct {
	Session     sessionResponse   `json:"session"`
	Transcript  []messageResponse `json:"transcript"`
	JustCleared bool              `json:"just_cleared"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

// /sessions
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSession(w, r)
	case http.MethodGet:
		s.handleListSessions(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /sessions/{id} or /sessions/{id}/{action}
func (s *Server) handleSessionWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if path == "" {
		http.NotFound(w, r)
		return
	}

	parts := strings.Split(path, "/")
	id := parts[0]

	if id == "" {
		http.NotFound(w, r)
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.handleGetSession(w, r, domain.SessionID(id))
		default:
			methodNotAllowed(w)
		}
		return
	}

	if len(parts) == 2 {
		switch parts[1] {
		case "submissions":
			if r.Method != http.MethodPost {
				methodNotAllowed(w)
				return
			}
			s.handleSubmit(w, r, domain.SessionID(id))
			return
		case "clear":
			if r.Method != http.MethodPost {
				methodNotAllowed(w)
				return
			}
			s.handleClear(w, r, domain.SessionID(id))
			return
		}
	}

	http.NotFound(w, r)
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
	}

	out, err := s.svc.StartSession(r.Context(), studio.StartSessionInput{
		Title: req.Title,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createSessionResponse{
		Session: toSessionResponse(out.Session),
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.svc.ListSessions(r.Context(), 50)
	if err != nil {
		internalError(w, err)
		return
	}

	resp := listSessionsResponse{Sessions: make([]sessionResponse, 0, len(sessions))}
	for _, sess := range sessions {
		resp.Sessions = append(resp.Sessions, toSessionResponse(sess))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	out, err := s.svc.Timeline(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			notFound(w)
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, getSessionResponse{
		Session:     toSessionResponse(out.Session),
		Transcript:  toMessagesResponse(out.Transcript),
		JustCleared: out.JustCleared,
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	out, err := s.svc.Submit(r.Context(), studio.SubmitInput{
		SessionID:       id,
		Draft:           req.Draft,
		ContextMaterial: req.ContextMaterial,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyDraft):
			// Distinct "needs input" signal, not an error payload.
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"signal":  "draft_required",
				"message": "draft text is required",
			})
		case errors.Is(err, domain.ErrSessionNotFound):
			notFound(w)
		default:
			internalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Messages: toMessagesResponse(out.Messages),
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	if err := s.svc.Clear(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			notFound(w)
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ─────────────────────────────────────────────
// Response helpers
// ─────────────────────────────────────────────

func toSessionResponse(s *domain.Session) sessionResponse {
	return sessionResponse{
		ID:        string(s.ID),
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toMessageResponse(m domain.DisplayMessage) messageResponse {
	return messageResponse{
		ID:          string(m.ID),
		Sender:      m.Sender,
		DisplayName: m.DisplayName,
		Content:     m.Content,
		CreatedAt:   m.CreatedAt,
	}
}

func toMessagesResponse(msgs []domain.DisplayMessage) []messageResponse {
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	return out
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": "session not found",
	})
}

func internalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
