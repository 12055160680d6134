package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"sandyadmin/internal/httputil"
	"sandyadmin/internal/model"
	"sandyadmin/internal/nav"
	"sandyadmin/internal/session"
)

// LoginAPI is the part of the remote client the auth handler calls directly.
type LoginAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// AuthHandler exposes sign-in/sign-out on the control surface.
type AuthHandler struct {
	api     LoginAPI
	session *session.Store
	guard   *nav.Guard
}

func NewAuthHandler(api LoginAPI, sessionStore *session.Store, guard *nav.Guard) *AuthHandler {
	return &AuthHandler{api: api, session: sessionStore, guard: guard}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Authenticated bool           `json:"authenticated"`
	User          *model.Profile `json:"user,omitempty"`
}

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// validateLogin resolves form-level problems locally; they never reach the
// network layer. Field name -> message.
func validateLogin(req loginRequest) map[string]string {
	problems := make(map[string]string)
	if req.Email == "" {
		problems["email"] = "Email is required"
	} else if !emailPattern.MatchString(req.Email) {
		problems["email"] = "Please enter a valid email"
	}
	if req.Password == "" {
		problems["password"] = "Password is required"
	} else if len(req.Password) < 6 {
		problems["password"] = "Password must be at least 6 characters"
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}

// Login authenticates against the backend and establishes the session.
// This is a user-initiated action, so failures are surfaced.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if problems := validateLogin(req); problems != nil {
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error": map[string]interface{}{
				"code":   model.CodeValidation,
				"fields": problems,
			},
		})
		return
	}

	token, err := h.api.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			httputil.WriteUnauthorizedWithCode(w, model.CodeInvalidCredentials, "Invalid email or password")
			return
		}
		httputil.WriteUpstreamError(w, "Login failed. Please try again.")
		return
	}

	sess, err := h.session.SignIn(r.Context(), token)
	if err != nil {
		// Token is persisted but the profile fetch failed; the next
		// restore refills it. The session holds the token, so the guard
		// still moves off the login route before the failure is surfaced.
		h.guard.Evaluate()
		httputil.WriteUpstreamError(w, "Signed in, but loading your profile failed.")
		return
	}

	h.guard.Evaluate()
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{
		Authenticated: sess.Authenticated(),
		User:          sess.User,
	})
}

// Logout clears the session. Always succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.session.SignOut(r.Context())
	h.guard.Evaluate()
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{Authenticated: false})
}

// Me returns the current session.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess := h.session.Current()
	if !sess.Authenticated() {
		httputil.WriteUnauthorized(w, "Not signed in")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{
		Authenticated: true,
		User:          sess.User,
	})
}
