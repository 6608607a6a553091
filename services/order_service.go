package services

import (
	"strings"
	"time"

	"github.com/yeremiapane/orderlink/models"
	"github.com/yeremiapane/orderlink/utils"
)

// OrderService is the single entry point of the ordering surface: it
// prices the cart, persists the order, attaches it to the table's
// session and initiates fan-out. When SubmitOrder returns, the order
// is durable locally; fan-out has been initiated but not necessarily
// completed.
type OrderService struct {
	Store       *OrderStore
	Sessions    *SessionRegistry
	Broadcaster *Broadcaster
}

func NewOrderService(store *OrderStore, sessions *SessionRegistry, broadcaster *Broadcaster) *OrderService {
	return &OrderService{
		Store:       store,
		Sessions:    sessions,
		Broadcaster: broadcaster,
	}
}

// SubmitOrder turns a cart into a durable order. Persistence failure
// is the only error surfaced after validation: an order that was never
// confirmed durable must not be fanned out, since every channel
// references the durable record. Session attachment and broadcasting
// are both soft.
func (s *OrderService) SubmitOrder(lines []models.CartLine, tableRef string) (*models.Order, error) {
	tableRef = strings.TrimSpace(tableRef)
	if tableRef == "" {
		return nil, ErrMissingTableRef
	}

	order, err := PriceCart(lines)
	if err != nil {
		return nil, err
	}

	order.ID = utils.NewOrderID()
	order.Code = utils.OrderCode(order.ID)
	order.TableRef = tableRef
	order.CreatedAt = time.Now()

	sess, err := s.Sessions.GetOrCreateSession(tableRef)
	if err != nil {
		// A broken registry must never block order persistence.
		utils.ErrorLogger.Printf("Session lookup for table %s failed, order %s proceeds without one: %v", tableRef, order.ID, err)
		sess = nil
	}

	if err := s.Store.CreateOrder(order); err != nil {
		return nil, err
	}

	sessionID := ""
	if sess != nil {
		s.Sessions.AddOrderToSession(sess.SessionID, order.ID, order.Total)
		sessionID = sess.SessionID
	}

	s.Broadcaster.Announce(models.BroadcastEnvelope{
		Type:       models.EventNewOrder,
		OrderID:    order.ID,
		SessionID:  sessionID,
		TableLabel: tableRef,
		Total:      order.Total,
		ItemCount:  len(order.Items),
	})

	utils.InfoLogger.Printf("Order %s (%s) placed at table %s, total %s",
		order.Code, order.ID, tableRef, utils.FormatCurrencyIDR(order.Total))
	return order, nil
}

// RequestBill transitions the table's session and announces a
// bill-request envelope carrying the running total.
func (s *OrderService) RequestBill(tableRef string) (*models.TableSession, error) {
	tableRef = strings.TrimSpace(tableRef)
	if tableRef == "" {
		return nil, ErrMissingTableRef
	}

	sess, err := s.Sessions.GetSession(tableRef)
	if err != nil {
		return nil, err
	}
	if err := s.Sessions.RequestBill(sess.SessionID); err != nil {
		return nil, err
	}
	sess.Status = models.SessionStatusRequestingBill

	s.Broadcaster.Announce(models.BroadcastEnvelope{
		Type:       models.EventBillRequest,
		SessionID:  sess.SessionID,
		TableLabel: tableRef,
		Total:      sess.RunningTotal,
		ItemCount:  len(sess.OrderList()),
	})
	return sess, nil
}

// CallWaiter announces a waiter-call envelope. No cart, no session
// mutation; the envelope rides the same fan-out pipeline.
func (s *OrderService) CallWaiter(tableRef string) error {
	tableRef = strings.TrimSpace(tableRef)
	if tableRef == "" {
		return ErrMissingTableRef
	}

	env := models.BroadcastEnvelope{
		Type:       models.EventWaiterCall,
		TableLabel: tableRef,
	}
	if sess, err := s.Sessions.GetSession(tableRef); err == nil {
		env.SessionID = sess.SessionID
	}

	s.Broadcaster.Announce(env)
	return nil
}

// SessionOrders resolves every order attached to a session against the
// durable store. Ids that fail to load are logged and skipped; the
// registry is told about orders, the store owns them.
func (s *OrderService) SessionOrders(sess *models.TableSession) []models.Order {
	ids := sess.OrderList()
	orders := make([]models.Order, 0, len(ids))
	for _, id := range ids {
		order, err := s.Store.GetOrder(id)
		if err != nil {
			utils.ErrorLogger.Printf("Order %s of session %s could not be loaded: %v", id, sess.SessionID, err)
			continue
		}
		orders = append(orders, *order)
	}
	return orders
}
