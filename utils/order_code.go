package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewOrderID generates a client-side order identifier.
func NewOrderID() string {
	return uuid.NewString()
}

// OrderCode derives the short display code from an order ID so both
// share one entropy source. Example: "ORD-9F3A21BC".
func OrderCode(orderID string) string {
	compact := strings.ToUpper(strings.ReplaceAll(orderID, "-", ""))
	if len(compact) > 8 {
		compact = compact[:8]
	}
	return "ORD-" + compact
}
