package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/orderlink/hub"
	"github.com/yeremiapane/orderlink/models"
	"github.com/yeremiapane/orderlink/relay"
	"github.com/yeremiapane/orderlink/utils"
)

// MailboxCap bounds the shared mailbox; the oldest entries are evicted
// first once the cap is exceeded.
const MailboxCap = 100

// Broadcaster fans an envelope out over every delivery channel: the
// live hub, the persisted mailbox and the external relay network. The
// order itself is already durable in the store before Announce is
// called, so the store acts as the channel of last resort and the only
// one guaranteed consistent. No single channel failure blocks the
// others or the caller; the broadcaster only reads orders and sessions
// and never mutates them, which is what keeps retries idempotent.
type Broadcaster struct {
	DB    *gorm.DB
	Hub   *hub.Hub
	Relay relay.Publisher

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewBroadcaster(db *gorm.DB, h *hub.Hub, publisher relay.Publisher) *Broadcaster {
	ctx, cancel := context.WithCancel(context.Background())
	return &Broadcaster{
		DB:     db,
		Hub:    h,
		Relay:  publisher,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Announce pushes the envelope through every channel. It returns as
// soon as the local channels have been attempted; the relay publish
// continues in the background with its own retry budget.
func (b *Broadcaster) Announce(env models.BroadcastEnvelope) {
	// Channel 1: live hub, best-effort, no retry.
	b.Hub.BroadcastEnvelope(env)

	// Channel 2: persisted mailbox for terminals that were offline.
	b.appendMailbox(env)

	// Renderable summary for staff views, independent of the relay.
	b.recordNotification(env)

	// Channel 4: external relay, retried in the background.
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.publishRelay(env)
	}()
}

// Close stops background publishing. In-flight attempts observe the
// cancelled context and stop retrying.
func (b *Broadcaster) Close() {
	b.cancel()
	b.wg.Wait()
}

func (b *Broadcaster) appendMailbox(env models.BroadcastEnvelope) {
	entry := models.MailboxEntry{
		Type:       env.Type,
		OrderID:    env.OrderID,
		SessionID:  env.SessionID,
		TableLabel: env.TableLabel,
		Total:      env.Total,
		ItemCount:  env.ItemCount,
		CreatedAt:  time.Now(),
	}
	if err := b.DB.Create(&entry).Error; err != nil {
		utils.ErrorLogger.Printf("Error appending %s envelope to mailbox: %v", env.Type, err)
		return
	}

	b.trimMailbox()
}

func (b *Broadcaster) trimMailbox() {
	var count int64
	if err := b.DB.Model(&models.MailboxEntry{}).Count(&count).Error; err != nil {
		utils.ErrorLogger.Printf("Error counting mailbox entries: %v", err)
		return
	}
	if count <= MailboxCap {
		return
	}

	var stale []models.MailboxEntry
	if err := b.DB.Order("created_at asc").
		Limit(int(count - MailboxCap)).
		Find(&stale).Error; err != nil {
		utils.ErrorLogger.Printf("Error loading stale mailbox entries: %v", err)
		return
	}
	for _, old := range stale {
		if err := b.DB.Delete(&models.MailboxEntry{}, old.ID).Error; err != nil {
			utils.ErrorLogger.Printf("Error evicting mailbox entry %d: %v", old.ID, err)
		}
	}
}

func (b *Broadcaster) recordNotification(env models.BroadcastEnvelope) {
	var message string
	switch env.Type {
	case models.EventNewOrder:
		message = fmt.Sprintf("New order at table %s: %d item(s), %s",
			env.TableLabel, env.ItemCount, utils.FormatCurrencyIDR(env.Total))
	case models.EventBillRequest:
		message = fmt.Sprintf("Table %s is requesting the bill (%s)",
			env.TableLabel, utils.FormatCurrencyIDR(env.Total))
	case models.EventWaiterCall:
		message = fmt.Sprintf("Table %s is calling a waiter", env.TableLabel)
	default:
		message = fmt.Sprintf("Event %s at table %s", env.Type, env.TableLabel)
	}

	notif := models.Notification{
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := b.DB.Create(&notif).Error; err != nil {
		utils.ErrorLogger.Printf("Error recording notification for %s: %v", env.Type, err)
	}
}

// publishRelay signs and publishes the envelope on the external relay
// network. Failure after the retry budget is logged and swallowed; the
// locally confirmed order is never failed or rolled back because of
// the external channel.
func (b *Broadcaster) publishRelay(env models.BroadcastEnvelope) {
	ev, err := relay.NewEvent(env.Type, env)
	if err != nil {
		utils.ErrorLogger.Printf("Error building relay event for %s: %v", env.Type, err)
		return
	}

	if err := b.Relay.Publish(b.ctx, ev); err != nil {
		utils.ErrorLogger.Printf("Relay delivery of %s for table %s dropped: %v", env.Type, env.TableLabel, err)
		return
	}
	utils.InfoLogger.Printf("Relay accepted %s event %s for table %s", env.Type, ev.ID, env.TableLabel)
}
