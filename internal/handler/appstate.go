package handler

import (
	"encoding/json"
	"net/http"

	"sandyadmin/internal/httputil"
	"sandyadmin/internal/model"
	"sandyadmin/internal/platform"
)

// AppStateHandler receives lifecycle transitions from the host bridge
// (foreground/background), mirroring the OS app-state listener.
type AppStateHandler struct {
	tracker *platform.AppStateTracker
}

func NewAppStateHandler(tracker *platform.AppStateTracker) *AppStateHandler {
	return &AppStateHandler{tracker: tracker}
}

type appStateRequest struct {
	State string `json:"state"`
}

func (h *AppStateHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req appStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	switch model.AppState(req.State) {
	case model.AppStateActive, model.AppStateBackground:
		h.tracker.Set(model.AppState(req.State))
		w.WriteHeader(http.StatusNoContent)
	default:
		httputil.WriteBadRequest(w, "state must be active or background")
	}
}
