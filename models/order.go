package models

import (
	"time"
)

type KitchenStatus string

// Kitchen statuses advance new -> preparing -> ready -> served.
const (
	KitchenStatusNew       KitchenStatus = "new"
	KitchenStatusPreparing KitchenStatus = "preparing"
	KitchenStatusReady     KitchenStatus = "ready"
	KitchenStatusServed    KitchenStatus = "served"
)

// CanAdvanceTo checks if the status can move to the new status.
// Kitchen status only ever moves forward, never back.
func (s KitchenStatus) CanAdvanceTo(next KitchenStatus) bool {
	validTransitions := map[KitchenStatus][]KitchenStatus{
		KitchenStatusNew:       {KitchenStatusPreparing, KitchenStatusReady},
		KitchenStatusPreparing: {KitchenStatusReady},
		KitchenStatusReady:     {KitchenStatusServed},
		KitchenStatusServed:    {},
	}

	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether a customer view can stop watching this status.
func (s KitchenStatus) Terminal() bool {
	return s == KitchenStatusReady || s == KitchenStatusServed
}

type Order struct {
	ID            string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Code          string        `gorm:"type:varchar(16);not null" json:"code"`
	TableRef      string        `gorm:"type:varchar(50);not null;index" json:"table_ref"`
	KitchenStatus KitchenStatus `gorm:"type:varchar(20);not null;default:'new'" json:"kitchen_status"`
	Total         float64       `gorm:"type:decimal(12,2);not null" json:"total"`
	CreatedAt     time.Time     `gorm:"not null" json:"created_at"`
	Items         []OrderItem   `gorm:"foreignKey:OrderID" json:"items"`
}
