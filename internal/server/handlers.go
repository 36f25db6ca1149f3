package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"letterly/internal/logger"
	"letterly/internal/pipeline"
)

type publishRequest struct {
	Title string `json:"title"`
	HTML  string `json:"html"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "letterly newsletter API is running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGenerate runs the full generation pipeline and returns the
// reconciled document. Request-level pipeline failures map to 502: the
// upstream collaborators, not this service, could not produce a document.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "topic is required"})
		return
	}

	doc, err := s.generator.Generate(r.Context(), req)
	if err != nil {
		var genErr *pipeline.GenerationError
		var parseErr *pipeline.ParseError
		if errors.As(err, &genErr) || errors.As(err, &parseErr) {
			respondJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
			return
		}
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, doc)
}

// handlePublish hands the finished newsletter to the delivery provider and
// surfaces its structured result verbatim, including failures.
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Title == "" || req.HTML == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "title and html are required"})
		return
	}

	result := s.publisher.Publish(r.Context(), req.Title, req.HTML)
	respondJSON(w, http.StatusOK, result)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", err)
	}
}
