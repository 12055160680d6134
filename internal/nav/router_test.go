package nav

import (
	"errors"
	"testing"

	"sandyadmin/internal/model"
)

func TestRouterNotReady(t *testing.T) {
	r := NewRouter()
	err := r.Replace(OrdersRoute, nil)
	if !errors.Is(err, model.ErrRouterNotReady) {
		t.Fatalf("expected ErrRouterNotReady, got %v", err)
	}
}

func TestRouterReplaceIdempotent(t *testing.T) {
	r := NewRouter()
	r.SetReady(LoginRoute)

	if err := r.Replace(OrdersRoute, nil); err != nil {
		t.Fatalf("replace: %v", err)
	}
	// Replacing to the current route without params is a no-op.
	if err := r.Replace(OrdersRoute, nil); err != nil {
		t.Fatalf("idempotent replace: %v", err)
	}
	if got := r.Current(); got != OrdersRoute {
		t.Errorf("Current = %q, want %q", got, OrdersRoute)
	}
}

func TestRouterReplaceWithParamsForcesNavigation(t *testing.T) {
	r := NewRouter()
	r.SetReady(OrdersRoute)

	if err := r.Replace(OrdersRoute, map[string]string{"refresh": "abc"}); err != nil {
		t.Fatalf("replace with params: %v", err)
	}
	if got := r.Params().Get("refresh"); got != "abc" {
		t.Errorf("refresh param = %q, want %q", got, "abc")
	}
}

func TestRouterSegments(t *testing.T) {
	r := NewRouter()
	r.SetReady("/(tabs)/orders")

	segments := r.Segments()
	if len(segments) != 2 || segments[0] != "(tabs)" || segments[1] != "orders" {
		t.Errorf("Segments = %v, want [(tabs) orders]", segments)
	}
}

type staticSession struct {
	authenticated bool
}

func (s staticSession) Current() model.Session {
	if s.authenticated {
		return model.Session{Token: "t"}
	}
	return model.Session{}
}

func TestGuardLoadingSuppressesRedirects(t *testing.T) {
	r := NewRouter()
	r.SetReady("/(tabs)/orders")
	g := NewGuard(r, staticSession{authenticated: false})

	if d := g.Evaluate(); d.Redirect {
		t.Fatalf("redirect fired while loading: %+v", d)
	}

	g.FinishLoading()
	if got := r.Current(); got != LoginRoute {
		t.Errorf("after FinishLoading current = %q, want %q", got, LoginRoute)
	}
}

func TestGuardRedirectsAuthenticatedAwayFromLogin(t *testing.T) {
	r := NewRouter()
	r.SetReady(LoginRoute)
	g := NewGuard(r, staticSession{authenticated: true})
	g.FinishLoading()

	if got := r.Current(); got != OrdersRoute {
		t.Errorf("current = %q, want %q", got, OrdersRoute)
	}
}
