package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/diegoclair/qotd-bot/internal/domain/contract"
)

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

// StatusHandler reports the queue sizes and the next scheduled post as JSON
type StatusHandler struct {
	questions contract.QuestionService
	logger    *slog.Logger
}

func NewStatusHandler(questions contract.QuestionService, logger *slog.Logger) *StatusHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusHandler{questions: questions, logger: logger}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status, err := h.questions.Status(r.Context())
	if err != nil {
		h.logger.Error("Failed to read queue status", slog.String("error", err.Error()))
		http.Error(w, "status unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		h.logger.Error("Failed to write status", slog.String("error", err.Error()))
	}
}
