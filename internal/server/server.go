// internal/server/server.go
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	stderrors "mindline-backend/internal/common/errors"
	"mindline-backend/internal/common/logger"
	"mindline-backend/internal/models"
	"mindline-backend/internal/pipeline/orchestrator"
)

// Server exposes the turn pipeline over HTTP.
type Server struct {
	orch   *orchestrator.Orchestrator
	logger logger.Logger
}

func New(orch *orchestrator.Orchestrator, log logger.Logger) *Server {
	return &Server{
		orch:   orch,
		logger: log.With(map[string]interface{}{"component": "http-server"}),
	}
}

// Router builds the HTTP mux.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat", s.handleChat)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var utterance models.Utterance
	if err := json.NewDecoder(r.Body).Decode(&utterance); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.orch.HandleTurn(r.Context(), utterance)
	if err != nil {
		var stdErr *stderrors.StandardError
		if errors.As(err, &stdErr) && stdErr.Code == stderrors.ErrCodeInvalidUtterance {
			writeError(w, http.StatusBadRequest, stdErr.Details)
			return
		}
		s.logger.WithError(err).Error("turn handling failed", nil)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.WithError(err).Error("failed to encode response", nil)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
