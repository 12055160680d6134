package push

import (
	"context"
	"fmt"
	"log"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMClient wraps the Firebase Cloud Messaging client used for the admin
// "send test notification" feature: the app sends a push to its own
// registered token to verify the registration end to end.
//
// Credentials come from the Firebase service account (project ID, client
// email, private key).
type FCMClient struct {
	client *messaging.Client
}

// NewFCMClient creates an FCM client from service-account credentials. The
// private key in .env carries literal \n sequences; the SDK expects real
// newlines in the PEM.
func NewFCMClient(ctx context.Context, projectID, clientEmail, privateKey string) (*FCMClient, error) {
	privateKey = strings.ReplaceAll(privateKey, "\\n", "\n")

	credsJSON := fmt.Sprintf(`{
		"type": "service_account",
		"project_id": %q,
		"private_key": %q,
		"client_email": %q,
		"token_uri": "https://oauth2.googleapis.com/token"
	}`, projectID, privateKey, clientEmail)

	opt := option.WithCredentialsJSON([]byte(credsJSON))
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("get messaging client: %w", err)
	}

	log.Printf("[FCM] Initialized for project: %s", projectID)
	return &FCMClient{client: client}, nil
}

// SendToToken sends a push notification to a single device token.
func (c *FCMClient) SendToToken(ctx context.Context, token, title, body string, data map[string]string) (string, error) {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			// Deliver even in battery-saving mode.
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	messageID, err := c.client.Send(ctx, message)
	if err != nil {
		return "", fmt.Errorf("fcm send: %w", err)
	}

	log.Printf("[FCM] Sent messageId=%s", messageID)
	return messageID, nil
}
