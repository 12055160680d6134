package relay

import (
	"encoding/json"
	"fmt"
)

// Stream and consumer-group names for the device push relay.
const (
	Stream = "stream:push"

	// ConsumerGroup is per-device: the group's pending entries are the
	// messages delivered while the process was not running, which is how
	// cold-start notifications are recovered at launch.
	ConsumerGroup = "device"
)

// Notification is the visible part of a push message. Optional: data-only
// messages carry none.
type Notification struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
}

// Message is the provider wire schema:
// { messageId, data: map<string,string>, notification?: { title, body } }.
type Message struct {
	MessageID    string            `json:"messageId"`
	Data         map[string]string `json:"data,omitempty"`
	Notification *Notification     `json:"notification,omitempty"`
}

// NewOrderMessage builds the push message the backend emits for a new order.
func NewOrderMessage(messageID string, orderID int64) Message {
	return Message{
		MessageID: messageID,
		Data: map[string]string{
			"type":    "new_order",
			"orderId": fmt.Sprintf("%d", orderID),
		},
		Notification: &Notification{
			Title: "New Order",
			Body:  fmt.Sprintf("Order #%d has been placed", orderID),
		},
	}
}

// ToMap converts the message to the field-value form XADD expects. The whole
// message is serialized as JSON under a single "payload" field.
func (m Message) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal push message: %w", err)
	}
	return map[string]interface{}{"payload": string(data)}, nil
}

// ParseMessage decodes a stream entry's values back into a Message.
func ParseMessage(values map[string]interface{}) (Message, error) {
	raw, ok := values["payload"].(string)
	if !ok {
		return Message{}, fmt.Errorf("stream entry has no payload field")
	}

	var m Message
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return Message{}, fmt.Errorf("unmarshal push message: %w", err)
	}
	return m, nil
}
