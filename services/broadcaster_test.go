package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/orderlink/hub"
	"github.com/yeremiapane/orderlink/models"
	"github.com/yeremiapane/orderlink/relay"
)

// failingRelay always rejects, simulating an unreachable network.
type failingRelay struct {
	mu    sync.Mutex
	calls int
}

func (f *failingRelay) Publish(ctx context.Context, ev *relay.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return errors.New("relay unreachable")
}

func (f *failingRelay) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// recordingRelay accepts everything.
type recordingRelay struct {
	mu     sync.Mutex
	events []*relay.Event
}

func (r *recordingRelay) Publish(ctx context.Context, ev *relay.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingRelay) published() []*relay.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*relay.Event(nil), r.events...)
}

func TestAnnounceWritesMailboxAndNotification(t *testing.T) {
	db := setupTestDB(t)
	sink := &recordingRelay{}
	b := NewBroadcaster(db, hub.NewHub(), sink)

	b.Announce(models.BroadcastEnvelope{
		Type:       models.EventNewOrder,
		OrderID:    "O1",
		SessionID:  "S1",
		TableLabel: "T5",
		Total:      60000,
		ItemCount:  2,
	})
	b.Close()

	var entry models.MailboxEntry
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, models.EventNewOrder, entry.Type)
	assert.Equal(t, "O1", entry.OrderID)
	assert.Equal(t, "T5", entry.TableLabel)
	assert.Equal(t, 60000.0, entry.Total)
	assert.Equal(t, 2, entry.ItemCount)

	var notif models.Notification
	require.NoError(t, db.First(&notif).Error)
	assert.Contains(t, notif.Message, "T5")
	assert.Contains(t, notif.Message, "Rp 60.000")

	events := sink.published()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventNewOrder, events[0].Kind)
	assert.True(t, events[0].Verify())
}

func TestAnnounceSurvivesRelayFailure(t *testing.T) {
	db := setupTestDB(t)
	sink := &failingRelay{}
	b := NewBroadcaster(db, hub.NewHub(), sink)

	b.Announce(models.BroadcastEnvelope{
		Type:       models.EventWaiterCall,
		TableLabel: "T7",
	})
	b.Close()

	// Local channels still delivered
	var count int64
	db.Model(&models.MailboxEntry{}).Count(&count)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 1, sink.callCount())
}

func TestMailboxEvictsOldestBeyondCap(t *testing.T) {
	db := setupTestDB(t)
	b := NewBroadcaster(db, hub.NewHub(), &recordingRelay{})

	base := time.Now().Add(-time.Hour)
	for i := 0; i < MailboxCap+5; i++ {
		entry := models.MailboxEntry{
			Type:       models.EventNewOrder,
			TableLabel: "T1",
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, db.Create(&entry).Error)
	}

	b.trimMailbox()
	b.Close()

	var count int64
	db.Model(&models.MailboxEntry{}).Count(&count)
	assert.Equal(t, int64(MailboxCap), count)

	// The survivors are the newest entries
	var oldest models.MailboxEntry
	require.NoError(t, db.Order("created_at asc").First(&oldest).Error)
	assert.True(t, oldest.CreatedAt.After(base.Add(4*time.Second)))
}

func TestSubmitOrderNonBlockingOnRelayFailure(t *testing.T) {
	db := setupTestDB(t)
	sink := &failingRelay{}
	b := NewBroadcaster(db, hub.NewHub(), sink)
	store := NewOrderStore(db)
	registry := NewSessionRegistry(db)
	svc := NewOrderService(store, registry, b)

	order, err := svc.SubmitOrder([]models.CartLine{
		{ProductID: "latte", Name: "Latte", BasePrice: 25000, Quantity: 2,
			Variant: &models.VariantOption{ModifierType: models.ModifierTypeFlat, Modifier: 5000}},
	}, "T5")
	require.NoError(t, err)
	b.Close()

	// The order is placed and retrievable even though the relay never
	// accepted a single event.
	loaded, err := store.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, 60000.0, loaded.Total)
	assert.GreaterOrEqual(t, sink.callCount(), 1)

	sess, err := registry.GetSession("T5")
	require.NoError(t, err)
	assert.Equal(t, 60000.0, sess.RunningTotal)
	assert.Equal(t, []string{order.ID}, sess.OrderList())
}

func TestRequestBillAnnouncesRunningTotal(t *testing.T) {
	db := setupTestDB(t)
	sink := &recordingRelay{}
	b := NewBroadcaster(db, hub.NewHub(), sink)
	store := NewOrderStore(db)
	registry := NewSessionRegistry(db)
	svc := NewOrderService(store, registry, b)

	_, err := svc.SubmitOrder([]models.CartLine{
		{ProductID: "latte", Name: "Latte", BasePrice: 25000, Quantity: 2},
	}, "T5")
	require.NoError(t, err)
	_, err = svc.SubmitOrder([]models.CartLine{
		{ProductID: "tea", Name: "Tea", BasePrice: 15000, Quantity: 1},
	}, "T5")
	require.NoError(t, err)

	sess, err := svc.RequestBill("T5")
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusRequestingBill, sess.Status)
	assert.Equal(t, 65000.0, sess.RunningTotal)
	b.Close()

	var entry models.MailboxEntry
	require.NoError(t, db.Where("type = ?", models.EventBillRequest).First(&entry).Error)
	assert.Equal(t, 65000.0, entry.Total)
	assert.Equal(t, 2, entry.ItemCount)
}

func TestRequestBillWithoutSession(t *testing.T) {
	db := setupTestDB(t)
	b := NewBroadcaster(db, hub.NewHub(), &recordingRelay{})
	svc := NewOrderService(NewOrderStore(db), NewSessionRegistry(db), b)
	defer b.Close()

	_, err := svc.RequestBill("T404")
	assert.ErrorIs(t, err, ErrNoActiveSession)
}
