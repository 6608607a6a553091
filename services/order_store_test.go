package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/orderlink/models"
	"github.com/yeremiapane/orderlink/utils"
)

func makeOrder(tableRef string, total float64, createdAt time.Time) *models.Order {
	id := utils.NewOrderID()
	return &models.Order{
		ID:            id,
		Code:          utils.OrderCode(id),
		TableRef:      tableRef,
		KitchenStatus: models.KitchenStatusNew,
		Total:         total,
		CreatedAt:     createdAt,
		Items: []models.OrderItem{
			{ProductID: "latte", Name: "Latte", UnitPrice: total, Quantity: 1},
		},
	}
}

func TestCreateAndGetOrder(t *testing.T) {
	db := setupTestDB(t)
	store := NewOrderStore(db)

	order := makeOrder("T5", 60000, time.Now())
	require.NoError(t, store.CreateOrder(order))

	// Retrievable immediately, before any propagation
	loaded, err := store.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Code, loaded.Code)
	assert.Equal(t, 60000.0, loaded.Total)
	assert.Len(t, loaded.Items, 1)
}

func TestGetOrderNotFound(t *testing.T) {
	db := setupTestDB(t)
	store := NewOrderStore(db)

	_, err := store.GetOrder("missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	store := NewOrderStore(db)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		order := makeOrder("T1", float64(1000*(i+1)), base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.CreateOrder(order))
	}

	orders, err := store.RecentOrders(3)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, 5000.0, orders[0].Total)
	assert.Equal(t, 4000.0, orders[1].Total)
	assert.Equal(t, 3000.0, orders[2].Total)
}

func TestHistoryEvictsOldestBeyondCap(t *testing.T) {
	db := setupTestDB(t)
	store := NewOrderStore(db)

	base := time.Now().Add(-24 * time.Hour)
	var oldestID string
	for i := 0; i < RecentOrderCap+3; i++ {
		order := makeOrder("T1", 1000, base.Add(time.Duration(i)*time.Minute))
		if i == 0 {
			oldestID = order.ID
		}
		require.NoError(t, store.CreateOrder(order))
	}

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(RecentOrderCap), count)

	_, err := store.GetOrder(oldestID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	// Evicted orders take their items with them
	var orphaned int64
	db.Model(&models.OrderItem{}).Where("order_id = ?", oldestID).Count(&orphaned)
	assert.Equal(t, int64(0), orphaned)
}

func TestAdvanceKitchenStatusKeepsTotalFrozen(t *testing.T) {
	db := setupTestDB(t)
	store := NewOrderStore(db)

	order := makeOrder("T5", 60000, time.Now())
	require.NoError(t, store.CreateOrder(order))

	for _, next := range []models.KitchenStatus{
		models.KitchenStatusPreparing,
		models.KitchenStatusReady,
		models.KitchenStatusServed,
	} {
		updated, err := store.AdvanceKitchenStatus(order.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.KitchenStatus)
	}

	loaded, err := store.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.KitchenStatusServed, loaded.KitchenStatus)
	assert.Equal(t, 60000.0, loaded.Total)
	assert.Len(t, loaded.Items, 1)
}

func TestAdvanceKitchenStatusRejectsBackwards(t *testing.T) {
	db := setupTestDB(t)
	store := NewOrderStore(db)

	order := makeOrder("T5", 60000, time.Now())
	require.NoError(t, store.CreateOrder(order))

	_, err := store.AdvanceKitchenStatus(order.ID, models.KitchenStatusServed)
	assert.ErrorIs(t, err, ErrInvalidStatusShift)

	_, err = store.AdvanceKitchenStatus(order.ID, models.KitchenStatusPreparing)
	require.NoError(t, err)

	_, err = store.AdvanceKitchenStatus(order.ID, models.KitchenStatusNew)
	assert.ErrorIs(t, err, ErrInvalidStatusShift)
}
