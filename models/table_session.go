package models

import (
	"encoding/json"
	"time"
)

// Session statuses. A session is never deleted; once the table is
// cleared by staff a new session supersedes the closed one.
const (
	SessionStatusActive         = "active"
	SessionStatusRequestingBill = "requesting_bill"
	SessionStatusClosed         = "closed"
)

// TableSession represents one continuous occupancy of a table and
// accumulates every order placed during that occupancy.
type TableSession struct {
	SessionID    string    `gorm:"primaryKey;type:varchar(36)" json:"session_id"`
	TableRef     string    `gorm:"type:varchar(50);not null;index" json:"table_ref"`
	Status       string    `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	RunningTotal float64   `gorm:"type:decimal(12,2);not null;default:0" json:"running_total"`
	OrderIDs     string    `gorm:"type:text;not null;default:'[]'" json:"-"` // JSON array of order IDs, in placement order
	StartTime    time.Time `gorm:"not null" json:"start_time"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

// OrderList decodes the attached order IDs. A corrupt column yields an
// empty list rather than an error; aggregation is not safety-critical.
func (s *TableSession) OrderList() []string {
	var ids []string
	if err := json.Unmarshal([]byte(s.OrderIDs), &ids); err != nil {
		return []string{}
	}
	return ids
}

func (s *TableSession) SetOrderList(ids []string) {
	raw, err := json.Marshal(ids)
	if err != nil {
		return
	}
	s.OrderIDs = string(raw)
}
