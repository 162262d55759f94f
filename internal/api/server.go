package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"prompt-engine/internal/index"
	"prompt-engine/internal/service"
	"prompt-engine/internal/types"
)

type Server struct {
	service *service.Service
	manager *index.Manager
	auth    Authenticator
}

func NewServer(svc *service.Service, manager *index.Manager, auth Authenticator) *Server {
	return &Server{
		service: svc,
		manager: manager,
		auth:    auth,
	}
}

// CreatePromptRequest is the body of POST /prompts. The websocket flag asks
// for a best-effort push of the created record to the owner's notification
// channel.
type CreatePromptRequest struct {
	PromptText string `json:"prompt_text"`
	WebSocket  bool   `json:"websocket"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps the error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var ve *types.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Msg)
	case errors.Is(err, types.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		log.Printf("[api] internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// requireUser resolves the bearer token before the handler runs.
func (s *Server) requireUser(next func(w http.ResponseWriter, r *http.Request, user string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		user, ok := s.auth.Authenticate(token)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next(w, r, user)
	}
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"time_utc": time.Now().UTC().Format(time.RFC3339),
		"indexed":  s.manager.Size(),
	})
}

// HandlePrompts serves POST /prompts (create) and GET /prompts (list own,
// newest first).
func (s *Server) HandlePrompts(w http.ResponseWriter, r *http.Request, user string) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreate(w, r, user)
	case http.MethodGet:
		s.handleList(w, r, user)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request, user string) {
	var req CreatePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	record, err := s.service.Create(r.Context(), user, req.PromptText, req.WebSocket)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request, user string) {
	records, err := s.service.List(r.Context(), user)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// The raw embedding stays out of listing payloads.
	public := make([]types.Prompt, 0, len(records))
	for _, record := range records {
		public = append(public, record.Public())
	}
	writeJSON(w, http.StatusOK, public)
}

// HandleSimilar serves GET /prompts/similar?prompt=...&top_k=N.
func (s *Server) HandleSimilar(w http.ResponseWriter, r *http.Request, user string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := r.URL.Query().Get("prompt")
	if strings.TrimSpace(query) == "" {
		writeError(w, http.StatusBadRequest, "prompt query parameter is required")
		return
	}

	topK := 0
	if raw := r.URL.Query().Get("top_k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "top_k must be a positive integer")
			return
		}
		topK = n
	}

	results, err := s.service.SearchSimilar(r.Context(), user, query, topK)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// HandlePrompt serves GET /prompts/{id}.
func (s *Server) HandlePrompt(w http.ResponseWriter, r *http.Request, user string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/prompts/"), "/")
	if id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	record, err := s.service.Get(r.Context(), user, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/prompts", s.requireUser(s.HandlePrompts))
	mux.HandleFunc("/prompts/similar", s.requireUser(s.HandleSimilar))
	mux.HandleFunc("/prompts/", s.requireUser(s.HandlePrompt))
	return RequestLogger(mux)
}
