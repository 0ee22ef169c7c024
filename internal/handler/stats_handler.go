package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"cloudvault/internal/auth"
	"cloudvault/internal/service"
)

type StatsHandler struct {
	statsService *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetStats возвращает агрегаты личного рабочего пространства для дашборда
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.VerifyToken(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	stats, err := h.statsService.GetStats(r.Context(), identity.UserID)
	if err != nil {
		log.Printf("[GetStats] Failed for %s: %v", identity.UserID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
