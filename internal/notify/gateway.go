package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"sandyadmin/internal/model"
	"sandyadmin/internal/nav"
	"sandyadmin/internal/relay"
)

// Platform bridges OS-level notification facilities: device capability
// checks, the system permission prompt, channel configuration and locally
// presented alerts.
type Platform interface {
	// IsVirtualDevice reports whether this is an emulator or other device
	// without push hardware.
	IsVirtualDevice() bool

	// RequestPermission asks the OS for notification permission.
	RequestPermission(ctx context.Context) (granted bool, err error)

	// ConfigureChannel sets up the Android notification channel
	// (importance high, vibration, public lockscreen). No-op on iOS.
	ConfigureChannel(ctx context.Context) error

	// PromptOpenSettings shows a one-time alert offering the system
	// settings deep-link after a permission denial.
	PromptOpenSettings(title, body string)

	// Present displays a local alert for a message.
	Present(ctx context.Context, msg relay.Message) error
}

// Provider is the push provider's device SDK surface: its own authorization,
// separate from the OS permission, and the device token.
type Provider interface {
	RequestAuthorization(ctx context.Context) (string, error)
	Token(ctx context.Context) (string, error)
}

// Registrar registers the device push token with the backend.
type Registrar interface {
	UpdateFCMToken(ctx context.Context, token string) error
}

// Navigator applies the tap-to-open navigation side effect.
type Navigator interface {
	Replace(path string, params map[string]string) error
}

// Gateway bridges the OS permission APIs and the push transport into one
// normalized event stream, owns the de-duplication set and the push
// registration, and performs tap navigation.
type Gateway struct {
	platform  Platform
	provider  Provider
	registrar Registrar
	navigator Navigator

	dedup     *dedupFilter
	listeners *listenerSet

	// Delay before the single retry when tap navigation finds the router
	// not yet ready (cold start).
	tapRetryDelay time.Duration

	mu           sync.Mutex
	registration model.PushRegistration
}

func NewGateway(platform Platform, provider Provider, registrar Registrar, navigator Navigator, tapRetryDelay time.Duration) *Gateway {
	if tapRetryDelay <= 0 {
		tapRetryDelay = 500 * time.Millisecond
	}
	return &Gateway{
		platform:      platform,
		provider:      provider,
		registrar:     registrar,
		navigator:     navigator,
		dedup:         newDedupFilter(),
		listeners:     newListenerSet(),
		tapRetryDelay: tapRetryDelay,
	}
}

const permissionPromptTitle = "Permission Required"
const permissionPromptBody = "Please enable notifications in your device settings to receive important updates."

// Register runs the permission negotiation chain and registers the device
// token with the backend. Sequential and short-circuiting: once a step
// reports denied or unavailable, no later step runs, so a denial can never
// be followed by a token registration call.
//
// Every failure degrades soft to a sentinel status; the only expected early
// exit is the virtual-device check.
func (g *Gateway) Register(ctx context.Context) model.PushRegistration {
	reg := g.register(ctx)

	g.mu.Lock()
	g.registration = reg
	g.mu.Unlock()

	log.Printf("[Notify] Registration finished: status=%s", reg.Status)
	return reg
}

func (g *Gateway) register(ctx context.Context) model.PushRegistration {
	// 1. Virtual devices have no push transport at all.
	if g.platform.IsVirtualDevice() {
		log.Printf("[Notify] Push notifications are not supported on this device/emulator")
		return model.PushRegistration{Status: model.PermissionUnsupported}
	}

	// 2. OS-level permission.
	granted, err := g.platform.RequestPermission(ctx)
	if err != nil {
		log.Printf("[Notify] OS permission request failed: %v", err)
		return model.PushRegistration{Status: model.PermissionUnavailable}
	}
	if !granted {
		g.platform.PromptOpenSettings(permissionPromptTitle, permissionPromptBody)
		return model.PushRegistration{Status: model.PermissionDenied}
	}

	// 3. Android notification channel. Failure here doesn't block the
	// chain; notifications still arrive on the default channel.
	if err := g.platform.ConfigureChannel(ctx); err != nil {
		log.Printf("[Notify] Channel configuration failed: %v", err)
	}

	// 4. Provider authorization, separate from the OS permission.
	// Provisional counts as authorized where the platform supports it.
	auth, err := g.provider.RequestAuthorization(ctx)
	if err != nil {
		log.Printf("[Notify] Provider authorization failed: %v", err)
		return model.PushRegistration{Status: model.PermissionUnavailable}
	}
	if auth != model.AuthorizationAuthorized && auth != model.AuthorizationProvisional {
		g.platform.PromptOpenSettings(permissionPromptTitle, permissionPromptBody)
		return model.PushRegistration{Status: model.PermissionDenied}
	}

	// 5. Device token. Re-derived from the provider, never invented here.
	token, err := g.provider.Token(ctx)
	if err != nil || token == "" {
		log.Printf("[Notify] Device token unavailable: %v", err)
		return model.PushRegistration{Status: model.PermissionUnavailable}
	}

	// 6. Backend registration. Failure is logged and swallowed: delivery
	// to other devices is unaffected, this device just may not be a
	// registered target yet.
	if err := g.registrar.UpdateFCMToken(ctx, token); err != nil {
		log.Printf("[Notify] Token registration with backend failed: %v", err)
	} else {
		log.Printf("[Notify] Device token registered with backend")
	}

	return model.PushRegistration{Token: token, Status: model.PermissionGranted}
}

// Registration returns the outcome of the last Register run.
func (g *Gateway) Registration() model.PushRegistration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.registration
}

// Subscribe registers a listener for normalized inbound events.
func (g *Gateway) Subscribe(fn func(Event)) *Subscription {
	return g.listeners.add(fn)
}

// HandleMessage funnels one inbound message through the de-duplication
// filter. appState is passed in explicitly by the caller; the gateway keeps
// no notion of foreground/background itself.
//
// A repeated messageId is dropped silently: the provider's native display
// and the explicit local alert would otherwise double-alert for one event.
// The local alert is only scheduled on the foreground path, since background
// and cold-start deliveries were already displayed natively.
func (g *Gateway) HandleMessage(ctx context.Context, origin model.MessageOrigin, appState model.AppState, msg relay.Message) {
	if !g.dedup.FirstSeen(msg.MessageID) {
		log.Printf("[Notify] Duplicate message dropped: messageId=%s origin=%s", msg.MessageID, origin)
		return
	}

	log.Printf("[Notify] Message received: messageId=%s origin=%s appState=%s", msg.MessageID, origin, appState)

	if origin == model.OriginForeground && msg.Notification != nil {
		if err := g.platform.Present(ctx, msg); err != nil {
			log.Printf("[Notify] Present failed: %v", err)
		}
	}

	g.listeners.emit(Event{Origin: origin, AppState: appState, Message: msg})
}

// HandleTap is the single funnel for all three tap entry points: a tap while
// backgrounded, a cold-start launch from a notification, and the local
// notification-response callback while foregrounded.
//
// It replaces the current route with the orders list, carrying a
// cache-busting refresh param so the list refetches. If the router is not
// ready yet (cold start), it retries once after a fixed delay.
func (g *Gateway) HandleTap(ctx context.Context, data map[string]string) {
	if data == nil {
		return
	}

	log.Printf("[Notify] Handling notification tap: data=%v", data)
	params := map[string]string{"refresh": uuid.NewString()}

	if err := g.navigator.Replace(nav.OrdersRoute, params); err != nil {
		log.Printf("[Notify] Tap navigation failed, retrying once: %v", err)
		time.Sleep(g.tapRetryDelay)
		if err := g.navigator.Replace(nav.OrdersRoute, params); err != nil {
			log.Printf("[Notify] Tap navigation retry failed: %v", err)
		}
	}
}
