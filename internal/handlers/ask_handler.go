package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"climatelens/internal/interfaces"
)

// maxQuestionLength caps the accepted question size
const maxQuestionLength = 2000

// AskHandler handles question-answering HTTP requests
type AskHandler struct {
	askService interfaces.AskService
	logger     arbor.ILogger
}

// NewAskHandler creates a new ask handler
func NewAskHandler(askService interfaces.AskService, logger arbor.ILogger) *AskHandler {
	return &AskHandler{
		askService: askService,
		logger:     logger,
	}
}

// AskRequest is the POST /api/ask request body
type AskRequest struct {
	Question string `json:"question"`
}

// AskHandler handles POST /api/ask requests
func (h *AskHandler) AskHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to decode ask request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		WriteError(w, http.StatusBadRequest, "Question field is required")
		return
	}
	if len(question) > maxQuestionLength {
		WriteError(w, http.StatusBadRequest, "Question exceeds maximum length of 2000 characters")
		return
	}

	h.logger.Info().
		Int("question_length", len(question)).
		Msg("Processing ask request")

	result, err := h.askService.Ask(r.Context(), question)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to answer question")
		WriteError(w, http.StatusInternalServerError, "Failed to generate answer")
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
