package models

import "time"

// MailboxEntry is the persisted copy of a broadcast envelope. Staff
// terminals that were not connected to the live hub when an event was
// announced catch up by reading the mailbox, newest first.
type MailboxEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Type       string    `gorm:"type:varchar(20);not null" json:"type"`
	OrderID    string    `gorm:"type:varchar(36)" json:"order_id"`
	SessionID  string    `gorm:"type:varchar(36)" json:"session_id"`
	TableLabel string    `gorm:"type:varchar(50);not null" json:"table_label"`
	Total      float64   `gorm:"type:decimal(12,2)" json:"total"`
	ItemCount  int       `json:"item_count"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
}
