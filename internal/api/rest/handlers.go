package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fortuna/courtside/internal/service"
)

const (
	serviceName    = "courtside"
	serviceVersion = "1.0.0"
)

// BoardService builds the board for a date query parameter.
type BoardService interface {
	CardsForDate(ctx context.Context, dateParam string) (*service.Board, error)
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	games BoardService
}

// NewHandler creates a new handler
func NewHandler(games BoardService) *Handler {
	return &Handler{games: games}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// GetGames handles GET /api/games?date=YYYY-MM-DD
func (h *Handler) GetGames(w http.ResponseWriter, r *http.Request) {
	board, err := h.games.CardsForDate(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to fetch scoreboard", err)
		return
	}

	respondJSON(w, http.StatusOK, board)
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}
