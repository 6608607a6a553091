package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/orderlink/utils"
)

// Publisher sends one signed event to the relay network.
type Publisher interface {
	Publish(ctx context.Context, ev *Event) error
}

// Client publishes events to a set of relay endpoints over websocket.
// Delivery is best-effort per relay; publishing succeeds when at least
// one relay accepted the event.
type Client struct {
	urls         []string
	dialer       *websocket.Dialer
	writeTimeout time.Duration
}

func NewClient(urls []string) *Client {
	return &Client{
		urls: urls,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 5 * time.Second,
		},
		writeTimeout: 5 * time.Second,
	}
}

func (c *Client) Publish(ctx context.Context, ev *Event) error {
	if len(c.urls) == 0 {
		return fmt.Errorf("no relays configured")
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	delivered := 0
	for _, url := range c.urls {
		if err := c.publishOne(ctx, url, data); err != nil {
			utils.ErrorLogger.Printf("Relay %s rejected event %s: %v", url, ev.ID, err)
			continue
		}
		delivered++
	}

	if delivered == 0 {
		return fmt.Errorf("event %s not accepted by any of %d relays", ev.ID, len(c.urls))
	}
	return nil
}

func (c *Client) publishOne(ctx context.Context, url string, data []byte) error {
	conn, _, err := c.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("failed to dial relay: %w", err)
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}
