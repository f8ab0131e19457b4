package http

import (
	"encoding/json"
	"net/http"

	"blockquest/internal/app"
	"blockquest/internal/logger"
)

// APIHandler serves the read-only catalog endpoints.
type APIHandler struct {
	service *app.MiningService
	log     *logger.Logger
}

func NewAPIHandler(service *app.MiningService, log *logger.Logger) *APIHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &APIHandler{service: service, log: log.With("component", "APIHandler")}
}

func (h *APIHandler) Topics(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Topics())
}

func (h *APIHandler) Badges(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Badges())
}

func (h *APIHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Leaderboard(r.Context())
	if err != nil {
		h.log.Error("leaderboard failed", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, errorPayload{Message: "leaderboard unavailable"})
		return
	}
	h.writeJSON(w, http.StatusOK, entries)
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Debug("write response failed", "error", err)
	}
}

// NewMux wires every route of the service.
func NewMux(service *app.MiningService, log *logger.Logger) *http.ServeMux {
	api := NewAPIHandler(service, log)
	ws := NewWSHandler(service, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/topics", api.Topics)
	mux.HandleFunc("/badges", api.Badges)
	mux.HandleFunc("/leaderboard", api.Leaderboard)
	mux.HandleFunc("/ws", ws.ServeWS)
	return mux
}
