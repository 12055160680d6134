package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sandyadmin/internal/handler"
	"sandyadmin/internal/httputil"
)

// RouterConfig holds the handlers the control router wires up.
type RouterConfig struct {
	AuthHandler          *handler.AuthHandler
	OrdersHandler        *handler.OrdersHandler
	NotificationsHandler *handler.NotificationsHandler
	AppStateHandler      *handler.AppStateHandler
}

// NewRouter creates the localhost control router. It is bound to loopback
// only; session checks happen in the handlers against the in-process
// session store.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/logout", cfg.AuthHandler.Logout)
	})
	r.Get("/session", cfg.AuthHandler.Me)

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", cfg.OrdersHandler.List)
		r.Post("/{id}/status", cfg.OrdersHandler.UpdateStatus)
	})

	r.Post("/app-state", cfg.AppStateHandler.Set)

	r.Route("/notifications", func(r chi.Router) {
		r.Post("/tap", cfg.NotificationsHandler.Tap)
		r.Get("/status", cfg.NotificationsHandler.Status)
		r.Post("/test", cfg.NotificationsHandler.Test)
	})

	return r
}
