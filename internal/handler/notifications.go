package handler

import (
	"encoding/json"
	"net/http"

	"sandyadmin/internal/httputil"
	"sandyadmin/internal/notify"
	"sandyadmin/internal/push"
	"sandyadmin/internal/session"
)

// NotificationsHandler bridges the local presenter's tap callback and the
// test-notification action onto the gateway.
type NotificationsHandler struct {
	gateway *notify.Gateway
	tester  *push.Tester
	session *session.Store
}

func NewNotificationsHandler(gateway *notify.Gateway, tester *push.Tester, sessionStore *session.Store) *NotificationsHandler {
	return &NotificationsHandler{gateway: gateway, tester: tester, session: sessionStore}
}

type tapRequest struct {
	Data map[string]string `json:"data"`
}

// Tap is the notification-response callback: the local presenter posts here
// when the user taps a displayed notification. Funnels into the same tap
// handler as background and cold-start taps.
func (h *NotificationsHandler) Tap(w http.ResponseWriter, r *http.Request) {
	var req tapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	h.gateway.HandleTap(r.Context(), req.Data)
	w.WriteHeader(http.StatusNoContent)
}

// Status reports the push registration outcome.
func (h *NotificationsHandler) Status(w http.ResponseWriter, r *http.Request) {
	reg := h.gateway.Registration()
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status": string(reg.Status),
	})
}

// Test sends a test notification to this device's registered token.
func (h *NotificationsHandler) Test(w http.ResponseWriter, r *http.Request) {
	if !h.session.Current().Authenticated() {
		httputil.WriteUnauthorized(w, "Not signed in")
		return
	}

	messageID, err := h.tester.Send(r.Context())
	if err != nil {
		httputil.WriteUpstreamError(w, err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"messageId": messageID})
}
