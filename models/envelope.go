package models

// Broadcast event types
const (
	EventNewOrder    = "new-order"
	EventBillRequest = "bill-request"
	EventWaiterCall  = "waiter-call"
)

// BroadcastEnvelope is the transient payload pushed through every
// delivery channel. It carries enough denormalized summary for a staff
// notification to be rendered without re-fetching the order.
type BroadcastEnvelope struct {
	Type       string  `json:"type"`
	OrderID    string  `json:"order_id,omitempty"`
	SessionID  string  `json:"session_id,omitempty"`
	TableLabel string  `json:"table_label"`
	Total      float64 `json:"total"`
	ItemCount  int     `json:"item_count"`
}
