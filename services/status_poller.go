package services

import (
	"sync"
	"time"

	"github.com/yeremiapane/orderlink/models"
	"github.com/yeremiapane/orderlink/utils"
)

// OrderGetter is the read surface the poller needs from the store.
type OrderGetter interface {
	GetOrder(id string) (*models.Order, error)
}

// StatusPoller re-reads one order from the durable store and surfaces
// kitchen status transitions to the customer view. Sampling is lossy:
// only the latest value at each tick is observed, which is fine
// because the status sequence is monotonic and the terminal states are
// what matter.
type StatusPoller struct {
	Store    OrderGetter
	Interval time.Duration
}

func NewStatusPoller(store OrderGetter) *StatusPoller {
	return &StatusPoller{
		Store:    store,
		Interval: 10 * time.Second,
	}
}

// PollHandle cancels an observation. Stop is idempotent and a stopped
// poll never resurrects itself.
type PollHandle struct {
	stop chan struct{}
	once sync.Once
}

func (h *PollHandle) Stop() {
	h.once.Do(func() {
		close(h.stop)
	})
}

// Observe starts polling the order's kitchen status. The callback
// fires whenever the status differs from the last observed value, and
// polling self-terminates once the status is terminal. Callers must
// Stop the handle on teardown to avoid a leaked ticker.
func (p *StatusPoller) Observe(orderID string, callback func(models.KitchenStatus)) *PollHandle {
	handle := &PollHandle{stop: make(chan struct{})}

	go func() {
		ticker := time.NewTicker(p.Interval)
		defer ticker.Stop()

		var last models.KitchenStatus
		for {
			select {
			case <-handle.stop:
				return
			case <-ticker.C:
				order, err := p.Store.GetOrder(orderID)
				if err != nil {
					utils.ErrorLogger.Printf("Error polling order %s: %v", orderID, err)
					continue
				}

				if order.KitchenStatus != last {
					last = order.KitchenStatus
					callback(last)
				}
				if last.Terminal() {
					return
				}
			}
		}
	}()

	return handle
}
