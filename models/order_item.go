package models

import (
	"time"
)

type OrderItem struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	OrderID string `gorm:"type:varchar(36);not null;index" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order     Order     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ProductID string    `gorm:"type:varchar(36);not null" json:"product_id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	UnitPrice float64   `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
