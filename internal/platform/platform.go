// Package platform holds the host-side adapters for OS notification
// facilities and the push provider SDK. The gateway only sees the interfaces
// in internal/notify, so everything here can be swapped out in tests.
package platform

import (
	"context"
	"log"
	"sync"

	"sandyadmin/internal/relay"
)

// Host adapts the device's notification facilities. Prompts and alerts are
// written to the process log; permission state comes from the OS bridge that
// launched us, surfaced through configuration.
type Host struct {
	platform string // "android" or "ios"
	virtual  bool
	granted  bool

	mu       sync.Mutex
	prompted bool
}

func NewHost(devicePlatform string, virtual, permissionGranted bool) *Host {
	return &Host{
		platform: devicePlatform,
		virtual:  virtual,
		granted:  permissionGranted,
	}
}

// IsVirtualDevice reports whether this installation runs on an emulator.
func (h *Host) IsVirtualDevice() bool {
	return h.virtual
}

// RequestPermission surfaces the OS permission prompt outcome.
func (h *Host) RequestPermission(ctx context.Context) (bool, error) {
	log.Printf("[Platform] Requesting OS notification permission")
	return h.granted, nil
}

// ConfigureChannel configures the Android notification channel: importance
// high, vibration pattern, public lockscreen visibility. iOS has no
// channels, so this is a no-op there.
func (h *Host) ConfigureChannel(ctx context.Context) error {
	if h.platform != "android" {
		return nil
	}
	log.Printf("[Platform] Notification channel configured: importance=high vibration=[0,250,250,250] visibility=public")
	return nil
}

// PromptOpenSettings shows the one-time settings deep-link prompt after a
// permission denial. Later launches may prompt again; per-launch is the only
// suppression.
func (h *Host) PromptOpenSettings(title, body string) {
	h.mu.Lock()
	alreadyPrompted := h.prompted
	h.prompted = true
	h.mu.Unlock()

	if alreadyPrompted {
		return
	}

	settingsURL := "app-settings:"
	if h.platform == "android" {
		settingsURL = "android.settings.APP_NOTIFICATION_SETTINGS"
	}
	log.Printf("[Platform] ALERT %q: %s (Open Settings -> %s)", title, body, settingsURL)
}

// Present displays a local alert for a push message.
func (h *Host) Present(ctx context.Context, msg relay.Message) error {
	title, body := "", ""
	if msg.Notification != nil {
		title, body = msg.Notification.Title, msg.Notification.Body
	}
	log.Printf("[Platform] NOTIFICATION %q: %s data=%v", title, body, msg.Data)
	return nil
}
