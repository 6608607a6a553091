package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeremiapane/orderlink/models"
	"github.com/yeremiapane/orderlink/utils"
)

var (
	ErrSessionNotFound = errors.New("table session not found")
	ErrNoActiveSession = errors.New("no active session for this table")
	ErrSessionClosed   = errors.New("table session already closed")
)

// SessionRegistry exclusively owns table session mutation: one open tab
// per table, accumulating every order placed during the occupancy. It
// is an explicit service object rather than ambient state so tests can
// construct isolated instances.
type SessionRegistry struct {
	DB *gorm.DB
	mu sync.Mutex
}

func NewSessionRegistry(db *gorm.DB) *SessionRegistry {
	return &SessionRegistry{DB: db}
}

// GetOrCreateSession returns the open session for a table, creating
// one if none exists. The lookup-then-create is serialized so two
// rapid submissions for the same table never race into two sessions.
func (r *SessionRegistry) GetOrCreateSession(tableRef string) (*models.TableSession, error) {
	if tableRef == "" {
		return nil, ErrMissingTableRef
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var sess models.TableSession
	err := r.DB.Where("table_ref = ? AND status IN ?", tableRef,
		[]string{models.SessionStatusActive, models.SessionStatusRequestingBill}).
		First(&sess).Error
	if err == nil {
		return &sess, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up session for table %s: %w", tableRef, err)
	}

	sess = models.TableSession{
		SessionID: uuid.NewString(),
		TableRef:  tableRef,
		Status:    models.SessionStatusActive,
		OrderIDs:  "[]",
		StartTime: time.Now(),
	}
	if err := r.DB.Create(&sess).Error; err != nil {
		return nil, fmt.Errorf("failed to create session for table %s: %w", tableRef, err)
	}

	utils.InfoLogger.Printf("New session %s opened at table %s", sess.SessionID, tableRef)
	return &sess, nil
}

// GetSession returns the open session for a table without creating one.
func (r *SessionRegistry) GetSession(tableRef string) (*models.TableSession, error) {
	var sess models.TableSession
	err := r.DB.Where("table_ref = ? AND status IN ?", tableRef,
		[]string{models.SessionStatusActive, models.SessionStatusRequestingBill}).
		First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up session for table %s: %w", tableRef, err)
	}
	return &sess, nil
}

// AddOrderToSession appends an order to the session and bumps the
// running total. A missing session is a soft inconsistency: it is
// logged and skipped, never allowed to block order persistence.
func (r *SessionRegistry) AddOrderToSession(sessionID, orderID string, orderTotal float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sess models.TableSession
	if err := r.DB.First(&sess, "session_id = ?", sessionID).Error; err != nil {
		utils.ErrorLogger.Printf("Session %s not found, skipping aggregation of order %s: %v", sessionID, orderID, err)
		return
	}

	ids := append(sess.OrderList(), orderID)
	sess.SetOrderList(ids)
	sess.RunningTotal += orderTotal

	if err := r.DB.Save(&sess).Error; err != nil {
		utils.ErrorLogger.Printf("Error attaching order %s to session %s: %v", orderID, sessionID, err)
	}
}

// RequestBill moves a session to requesting_bill. Calling it again is
// a no-op; closure itself happens externally when staff clear the
// table.
func (r *SessionRegistry) RequestBill(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sess models.TableSession
	if err := r.DB.First(&sess, "session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	switch sess.Status {
	case models.SessionStatusRequestingBill:
		return nil
	case models.SessionStatusClosed:
		return ErrSessionClosed
	}

	if err := r.DB.Model(&models.TableSession{}).
		Where("session_id = ?", sessionID).
		Update("status", models.SessionStatusRequestingBill).Error; err != nil {
		return fmt.Errorf("failed to request bill for session %s: %w", sessionID, err)
	}
	return nil
}

// CalculateDuration formats how long a session has been open.
func CalculateDuration(start time.Time) string {
	minutes := int(time.Since(start).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
