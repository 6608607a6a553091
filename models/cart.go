package models

// Variant modifier types. A percent variant scales the base price,
// a flat variant adds a fixed amount on top of it.
const (
	ModifierTypePercent = "percent"
	ModifierTypeFlat    = "flat"
)

// CartLine is one line of an unsubmitted cart as sent by the
// customer-facing ordering page. Prices are resolved into an
// OrderItem exactly once, at submission.
type CartLine struct {
	ProductID string           `json:"product_id" binding:"required"`
	Name      string           `json:"name" binding:"required"`
	BasePrice float64          `json:"base_price"`
	Quantity  int              `json:"quantity"`
	Notes     string           `json:"notes"`
	Variant   *VariantOption   `json:"variant,omitempty"`
	Modifiers []ModifierOption `json:"modifiers,omitempty"`
}

type VariantOption struct {
	Name         string  `json:"name"`
	ModifierType string  `json:"modifier_type"`
	Modifier     float64 `json:"modifier"`
}

type ModifierOption struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ValidationError rejects a cart before anything is persisted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
