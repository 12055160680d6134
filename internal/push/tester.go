package push

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"sandyadmin/internal/model"
	"sandyadmin/internal/relay"
)

// Sender is the provider-side send surface. *FCMClient implements it; tests
// substitute a fake.
type Sender interface {
	SendToToken(ctx context.Context, token, title, body string, data map[string]string) (string, error)
}

// RegistrationSource reports the current push registration.
type RegistrationSource interface {
	Registration() model.PushRegistration
}

// Tester implements the settings-screen "send test notification" action: a
// push is sent to this device's own registered token, and the same message
// is echoed onto the local relay so the inbound pipeline (de-duplication
// included) handles it like any real push.
type Tester struct {
	sender    Sender // may be nil when FCM credentials are not configured
	publisher relay.Publisher
	source    RegistrationSource
}

func NewTester(sender Sender, publisher relay.Publisher, source RegistrationSource) *Tester {
	return &Tester{sender: sender, publisher: publisher, source: source}
}

// Send fires a test notification at this device. Returns the provider
// message ID.
func (t *Tester) Send(ctx context.Context) (string, error) {
	reg := t.source.Registration()
	if reg.Status != model.PermissionGranted || reg.Token == "" {
		return "", fmt.Errorf("no registered device token (status=%s)", reg.Status)
	}

	messageID := uuid.NewString()
	title := "Test Notification"
	body := "Push delivery is working."
	data := map[string]string{"type": "test"}

	if t.sender != nil {
		providerID, err := t.sender.SendToToken(ctx, reg.Token, title, body, data)
		if err != nil {
			return "", err
		}
		messageID = providerID
	} else {
		log.Printf("[Push] FCM not configured, echoing test message locally only")
	}

	msg := relay.Message{
		MessageID:    messageID,
		Data:         data,
		Notification: &relay.Notification{Title: title, Body: body},
	}
	if _, err := t.publisher.Publish(ctx, msg); err != nil {
		return "", fmt.Errorf("echo test message onto relay: %w", err)
	}

	return messageID, nil
}
