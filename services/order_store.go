package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yeremiapane/orderlink/models"
	"github.com/yeremiapane/orderlink/utils"
)

// RecentOrderCap bounds the order history; the oldest orders are
// evicted first once the cap is exceeded.
const RecentOrderCap = 100

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidStatusShift = errors.New("invalid kitchen status transition")
)

// OrderStore owns order persistence. It is the single source of truth:
// every other delivery channel is an accelerant whose consumers can
// fall back to GetOrder.
type OrderStore struct {
	DB *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{DB: db}
}

// CreateOrder writes the order and its items. The order is durable
// before this returns; callers broadcast immediately afterwards and
// assume the order is already retrievable.
func (s *OrderStore) CreateOrder(order *models.Order) error {
	if err := s.DB.Create(order).Error; err != nil {
		return fmt.Errorf("failed to persist order %s: %w", order.ID, err)
	}

	s.trimHistory()
	return nil
}

// GetOrder loads a single order with its items. It never waits on
// external propagation; an order is visible here as soon as
// CreateOrder returned.
func (s *OrderStore) GetOrder(id string) (*models.Order, error) {
	var order models.Order
	if err := s.DB.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order %s: %w", id, err)
	}
	return &order, nil
}

// RecentOrders returns the newest orders, newest first, bounded by the
// retention cap.
func (s *OrderStore) RecentOrders(limit int) ([]models.Order, error) {
	if limit <= 0 || limit > RecentOrderCap {
		limit = RecentOrderCap
	}

	var orders []models.Order
	if err := s.DB.Preload("Items").
		Order("created_at desc").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent orders: %w", err)
	}
	return orders, nil
}

// AdvanceKitchenStatus moves an order's kitchen status forward. Only
// the status column is written so a stale in-memory copy can never
// clobber the frozen items and total.
func (s *OrderStore) AdvanceKitchenStatus(id string, next models.KitchenStatus) (*models.Order, error) {
	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}

	if !order.KitchenStatus.CanAdvanceTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusShift, order.KitchenStatus, next)
	}

	if err := s.DB.Model(&models.Order{}).
		Where("id = ?", id).
		Update("kitchen_status", next).Error; err != nil {
		return nil, fmt.Errorf("failed to update status of order %s: %w", id, err)
	}

	order.KitchenStatus = next
	return order, nil
}

// trimHistory evicts the oldest orders beyond the retention cap.
// Eviction failures are logged and swallowed; retention is bookkeeping,
// not part of the durability contract.
func (s *OrderStore) trimHistory() {
	var count int64
	if err := s.DB.Model(&models.Order{}).Count(&count).Error; err != nil {
		utils.ErrorLogger.Printf("Error counting orders for trim: %v", err)
		return
	}
	if count <= RecentOrderCap {
		return
	}

	var stale []models.Order
	if err := s.DB.Order("created_at asc").
		Limit(int(count - RecentOrderCap)).
		Find(&stale).Error; err != nil {
		utils.ErrorLogger.Printf("Error loading stale orders for trim: %v", err)
		return
	}

	for _, old := range stale {
		if err := s.DB.Where("order_id = ?", old.ID).Delete(&models.OrderItem{}).Error; err != nil {
			utils.ErrorLogger.Printf("Error evicting items of order %s: %v", old.ID, err)
			continue
		}
		if err := s.DB.Delete(&models.Order{}, "id = ?", old.ID).Error; err != nil {
			utils.ErrorLogger.Printf("Error evicting order %s: %v", old.ID, err)
		}
	}
}
