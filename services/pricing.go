package services

import (
	"fmt"

	"github.com/yeremiapane/orderlink/models"
)

var (
	ErrEmptyCart       = &models.ValidationError{Reason: "cart has no items"}
	ErrInvalidQuantity = &models.ValidationError{Reason: "item quantity must be positive"}
	ErrMissingTableRef = &models.ValidationError{Reason: "table reference is required"}
)

// PriceCart resolves a cart into priced order items and a frozen total.
// It is a pure function: identical carts always price identically. That
// matters because the total is computed exactly once here and never
// recomputed after the order is persisted.
func PriceCart(lines []models.CartLine) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]models.OrderItem, 0, len(lines))
	var total float64

	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if line.BasePrice < 0 {
			return nil, &models.ValidationError{Reason: fmt.Sprintf("negative base price for %s", line.ProductID)}
		}

		unit := line.BasePrice
		if line.Variant != nil {
			switch line.Variant.ModifierType {
			case models.ModifierTypePercent:
				unit += line.BasePrice * line.Variant.Modifier / 100
			case models.ModifierTypeFlat:
				unit += line.Variant.Modifier
			default:
				return nil, &models.ValidationError{Reason: fmt.Sprintf("unknown variant modifier type %q", line.Variant.ModifierType)}
			}
		}
		for _, m := range line.Modifiers {
			unit += m.Price
		}

		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: unit,
			Quantity:  line.Quantity,
			Notes:     line.Notes,
		})
		total += unit * float64(line.Quantity)
	}

	return &models.Order{
		KitchenStatus: models.KitchenStatusNew,
		Total:         total,
		Items:         items,
	}, nil
}
