package model

import "time"

// Order statuses. The backend only accepts forward transitions:
// pending -> preparing -> ready -> delivered.
const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
)

// Delivery types.
const (
	DeliveryPickup = "pickup"
	DeliveryType   = "delivery"
	DeliveryDoor   = "door-delivery"
)

// Order is a customer order fetched from the backend. Orders are created
// server-side; the client mutates its local copy only to mirror a confirmed
// status update.
type Order struct {
	ID                  int64       `json:"_id"`
	CustomerName        string      `json:"customerName"`
	Email               string      `json:"email"`
	Phone               string      `json:"phone,omitempty"`
	Address             string      `json:"address,omitempty"`
	DeliveryType        string      `json:"deliveryType,omitempty"`
	Items               []OrderItem `json:"items"`
	TotalAmount         float64     `json:"totalAmount"`
	Status              string      `json:"status"`
	CreatedAt           time.Time   `json:"createdAt"`
	CookingInstructions string      `json:"cookingInstructions,omitempty"`
}

// OrderItem is a single line item on an order.
type OrderItem struct {
	Name     string   `json:"name"`
	Quantity int      `json:"quantity"`
	Price    float64  `json:"price"`
	Notes    string   `json:"notes,omitempty"`
	Size     string   `json:"size,omitempty"`
	Toppings []string `json:"toppings,omitempty"`
}

// NextStatus returns the status that follows the given one. ok is false for
// delivered (terminal) and for unknown statuses.
func NextStatus(status string) (next string, ok bool) {
	switch status {
	case StatusPending:
		return StatusPreparing, true
	case StatusPreparing:
		return StatusReady, true
	case StatusReady:
		return StatusDelivered, true
	default:
		return "", false
	}
}

// ValidTransition reports whether moving from one status to another is a
// legal forward step.
func ValidTransition(from, to string) bool {
	next, ok := NextStatus(from)
	return ok && next == to
}
