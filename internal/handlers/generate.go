package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/bedtime-stories/internal/models"
	"github.com/snappy-loop/bedtime-stories/internal/services"
)

// MsgGenerateFailed is the only detail a caller sees when generation fails upstream.
const MsgGenerateFailed = "Failed to generate story."

// storyService is the subset of StoryService used by Handler.
type storyService interface {
	Generate(ctx context.Context, prompt string) (*models.GenerateResponse, error)
}

// Handler contains all HTTP handlers
type Handler struct {
	stories      storyService
	maxBodyBytes int64
}

// NewHandler creates a new handler. maxBodyBytes <= 0 disables the body limit.
func NewHandler(stories storyService, maxBodyBytes int64) *Handler {
	return &Handler{
		stories:      stories,
		maxBodyBytes: maxBodyBytes,
	}
}

// Generate handles POST /generate
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	body := r.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	var req models.GenerateRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		hlog.FromRequest(r).Debug().Err(err).Msg("Invalid generate request body")
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.stories.Generate(r.Context(), req.Prompt)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			writeJSONError(w, http.StatusBadRequest, verr.Message)
			return
		}
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to generate story")
		writeJSONError(w, http.StatusInternalServerError, MsgGenerateFailed)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{Status: "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorResponse{Error: message})
}
