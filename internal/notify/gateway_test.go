package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"sandyadmin/internal/model"
	"sandyadmin/internal/nav"
	"sandyadmin/internal/relay"
)

// =============================================================================
// MOCKS
// =============================================================================

type mockPlatform struct {
	virtual       bool
	granted       bool
	permissionErr error
	channelErr    error

	prompts    int
	presents   []relay.Message
	channelSet bool
}

func (m *mockPlatform) IsVirtualDevice() bool { return m.virtual }

func (m *mockPlatform) RequestPermission(ctx context.Context) (bool, error) {
	return m.granted, m.permissionErr
}

func (m *mockPlatform) ConfigureChannel(ctx context.Context) error {
	m.channelSet = true
	return m.channelErr
}

func (m *mockPlatform) PromptOpenSettings(title, body string) { m.prompts++ }

func (m *mockPlatform) Present(ctx context.Context, msg relay.Message) error {
	m.presents = append(m.presents, msg)
	return nil
}

type mockProvider struct {
	authorization string
	authErr       error
	token         string
	tokenErr      error
}

func (m *mockProvider) RequestAuthorization(ctx context.Context) (string, error) {
	return m.authorization, m.authErr
}

func (m *mockProvider) Token(ctx context.Context) (string, error) {
	return m.token, m.tokenErr
}

type mockRegistrar struct {
	err   error
	calls []string
}

func (m *mockRegistrar) UpdateFCMToken(ctx context.Context, token string) error {
	m.calls = append(m.calls, token)
	return m.err
}

type mockNavigator struct {
	mu       sync.Mutex
	failures int // fail this many Replace calls before succeeding
	replaces []string
}

func (m *mockNavigator) Replace(path string, params map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return model.ErrRouterNotReady
	}
	m.replaces = append(m.replaces, path)
	return nil
}

func (m *mockNavigator) replaceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.replaces)
}

func grantedDeps() (*mockPlatform, *mockProvider, *mockRegistrar, *mockNavigator) {
	return &mockPlatform{granted: true},
		&mockProvider{authorization: model.AuthorizationAuthorized, token: "fcm-token-1"},
		&mockRegistrar{},
		&mockNavigator{}
}

func newTestGateway(p *mockPlatform, pr *mockProvider, r *mockRegistrar, n *mockNavigator) *Gateway {
	return NewGateway(p, pr, r, n, 10*time.Millisecond)
}

// =============================================================================
// PERMISSION NEGOTIATION
// =============================================================================

func TestRegister_FullChain(t *testing.T) {
	p, pr, r, n := grantedDeps()
	g := newTestGateway(p, pr, r, n)

	reg := g.Register(context.Background())
	if reg.Status != model.PermissionGranted {
		t.Fatalf("status = %s, want granted", reg.Status)
	}
	if reg.Token != "fcm-token-1" {
		t.Errorf("token = %q", reg.Token)
	}
	if !p.channelSet {
		t.Error("notification channel not configured")
	}
	if len(r.calls) != 1 || r.calls[0] != "fcm-token-1" {
		t.Errorf("registrar calls = %v", r.calls)
	}
}

func TestRegister_VirtualDeviceUnsupported(t *testing.T) {
	p, pr, r, n := grantedDeps()
	p.virtual = true
	g := newTestGateway(p, pr, r, n)

	reg := g.Register(context.Background())
	if reg.Status != model.PermissionUnsupported {
		t.Fatalf("status = %s, want unsupported", reg.Status)
	}
	if len(r.calls) != 0 {
		t.Error("no registration call expected on virtual device")
	}
	if p.prompts != 0 {
		t.Error("unsupported is an expected exit, not a denial prompt")
	}
}

func TestRegister_OSDenied_NoRegistrationCall(t *testing.T) {
	p, pr, r, n := grantedDeps()
	p.granted = false
	g := newTestGateway(p, pr, r, n)

	reg := g.Register(context.Background())
	if reg.Status != model.PermissionDenied {
		t.Fatalf("status = %s, want denied", reg.Status)
	}
	if p.prompts != 1 {
		t.Errorf("settings prompt shown %d times, want 1", p.prompts)
	}
	// Monotonic per launch: denied means no token registration.
	if len(r.calls) != 0 {
		t.Errorf("registrar called after denial: %v", r.calls)
	}
}

func TestRegister_ProviderDenied(t *testing.T) {
	p, pr, r, n := grantedDeps()
	pr.authorization = model.AuthorizationDenied
	g := newTestGateway(p, pr, r, n)

	reg := g.Register(context.Background())
	if reg.Status != model.PermissionDenied {
		t.Fatalf("status = %s, want denied", reg.Status)
	}
	if len(r.calls) != 0 {
		t.Error("registrar called after provider denial")
	}
}

func TestRegister_ProvisionalAcceptedAsSuccess(t *testing.T) {
	p, pr, r, n := grantedDeps()
	pr.authorization = model.AuthorizationProvisional
	g := newTestGateway(p, pr, r, n)

	if reg := g.Register(context.Background()); reg.Status != model.PermissionGranted {
		t.Fatalf("status = %s, want granted", reg.Status)
	}
}

func TestRegister_EmptyTokenUnavailable(t *testing.T) {
	p, pr, r, n := grantedDeps()
	pr.token = ""
	g := newTestGateway(p, pr, r, n)

	if reg := g.Register(context.Background()); reg.Status != model.PermissionUnavailable {
		t.Fatalf("status = %s, want unavailable", reg.Status)
	}
	if len(r.calls) != 0 {
		t.Error("registrar called without a token")
	}
}

func TestRegister_BackendFailureSwallowed(t *testing.T) {
	p, pr, r, n := grantedDeps()
	r.err = errors.New("backend down")
	g := newTestGateway(p, pr, r, n)

	reg := g.Register(context.Background())
	if reg.Status != model.PermissionGranted {
		t.Fatalf("status = %s, want granted despite registration failure", reg.Status)
	}
	if reg.Token != "fcm-token-1" {
		t.Errorf("token = %q, should still be returned", reg.Token)
	}
}

func TestRegister_ChannelFailureDoesNotBlockChain(t *testing.T) {
	p, pr, r, n := grantedDeps()
	p.channelErr = errors.New("channel config failed")
	g := newTestGateway(p, pr, r, n)

	if reg := g.Register(context.Background()); reg.Status != model.PermissionGranted {
		t.Fatalf("status = %s, want granted", reg.Status)
	}
}

// =============================================================================
// DE-DUPLICATION
// =============================================================================

func orderMessage(id string) relay.Message {
	return relay.Message{
		MessageID:    id,
		Data:         map[string]string{"orderId": "123"},
		Notification: &relay.Notification{Title: "New Order", Body: "Order #123"},
	}
}

func TestHandleMessage_DuplicateAcrossTransports(t *testing.T) {
	p, pr, r, n := grantedDeps()
	g := newTestGateway(p, pr, r, n)

	var events []Event
	sub := g.Subscribe(func(ev Event) { events = append(events, ev) })
	defer sub.Close()

	msg := orderMessage("msg-1")
	g.HandleMessage(context.Background(), model.OriginForeground, model.AppStateActive, msg)
	g.HandleMessage(context.Background(), model.OriginBackground, model.AppStateBackground, msg)

	if len(p.presents) != 1 {
		t.Fatalf("presented %d alerts for one messageId, want 1", len(p.presents))
	}
	if len(events) != 1 {
		t.Errorf("emitted %d events, want 1", len(events))
	}
}

func TestHandleMessage_DuplicateReversedOrder(t *testing.T) {
	p, pr, r, n := grantedDeps()
	g := newTestGateway(p, pr, r, n)

	msg := orderMessage("msg-2")
	// Background first: provider displayed it natively, nothing local.
	g.HandleMessage(context.Background(), model.OriginBackground, model.AppStateBackground, msg)
	g.HandleMessage(context.Background(), model.OriginForeground, model.AppStateActive, msg)

	if len(p.presents) != 0 {
		t.Fatalf("presented %d alerts, want 0 (native display already happened)", len(p.presents))
	}
}

func TestHandleMessage_DistinctIDsBothHandled(t *testing.T) {
	p, pr, r, n := grantedDeps()
	g := newTestGateway(p, pr, r, n)

	var events int
	sub := g.Subscribe(func(Event) { events++ })
	defer sub.Close()

	g.HandleMessage(context.Background(), model.OriginForeground, model.AppStateActive, orderMessage("a"))
	g.HandleMessage(context.Background(), model.OriginForeground, model.AppStateActive, orderMessage("b"))

	if events != 2 {
		t.Errorf("events = %d, want 2", events)
	}
	if len(p.presents) != 2 {
		t.Errorf("presents = %d, want 2", len(p.presents))
	}
}

func TestSubscriptionCloseStopsDelivery(t *testing.T) {
	p, pr, r, n := grantedDeps()
	g := newTestGateway(p, pr, r, n)

	var events int
	sub := g.Subscribe(func(Event) { events++ })
	sub.Close()
	sub.Close() // idempotent

	g.HandleMessage(context.Background(), model.OriginForeground, model.AppStateActive, orderMessage("c"))
	if events != 0 {
		t.Errorf("closed subscription still received %d events", events)
	}
}

// =============================================================================
// TAP NAVIGATION
// =============================================================================

func TestHandleTap_SingleReplace(t *testing.T) {
	origins := []model.MessageOrigin{model.OriginBackground, model.OriginColdStart, model.OriginTap}
	for _, origin := range origins {
		t.Run(string(origin), func(t *testing.T) {
			p, pr, r, n := grantedDeps()
			g := newTestGateway(p, pr, r, n)

			g.HandleTap(context.Background(), map[string]string{"orderId": "123"})

			if n.replaceCount() != 1 {
				t.Fatalf("replace count = %d, want 1", n.replaceCount())
			}
			if n.replaces[0] != nav.OrdersRoute {
				t.Errorf("replaced to %q, want %q", n.replaces[0], nav.OrdersRoute)
			}
		})
	}
}

func TestHandleTap_NilDataIgnored(t *testing.T) {
	p, pr, r, n := grantedDeps()
	g := newTestGateway(p, pr, r, n)

	g.HandleTap(context.Background(), nil)
	if n.replaceCount() != 0 {
		t.Errorf("replace count = %d, want 0", n.replaceCount())
	}
}

func TestHandleTap_RetriesOnceWhenRouterNotReady(t *testing.T) {
	p, pr, r, n := grantedDeps()
	n.failures = 1
	g := newTestGateway(p, pr, r, n)

	g.HandleTap(context.Background(), map[string]string{"orderId": "9"})
	if n.replaceCount() != 1 {
		t.Fatalf("replace count after retry = %d, want 1", n.replaceCount())
	}
}

func TestHandleTap_GivesUpAfterSecondFailure(t *testing.T) {
	p, pr, r, n := grantedDeps()
	n.failures = 2
	g := newTestGateway(p, pr, r, n)

	g.HandleTap(context.Background(), map[string]string{"orderId": "9"})
	if n.replaceCount() != 0 {
		t.Errorf("replace count = %d, want 0 after both attempts fail", n.replaceCount())
	}
}
