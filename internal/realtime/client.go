package realtime

import (
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"
)

const sendQueueSize = 16

// IncomingMessage is the client→server frame: an action name plus an
// action-specific payload.

type IncomingMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type registerPayload struct {
	PaymentID string `json:"payment_id"`
}

// Client is one live websocket connection. A connection may register interest
// in several payments over its lifetime; the registry tracks the bindings.

type Client struct {
	conn     *websocket.Conn
	send     chan PushMessage
	registry *Registry
}

func newClient(conn *websocket.Conn, registry *Registry) *Client {
	return &Client{
		conn:     conn,
		send:     make(chan PushMessage, sendQueueSize),
		registry: registry,
	}
}

// readPump consumes client frames until the connection drops, then tears the
// client's registrations down. Closing send after Unregister returns is safe:
// once unregistered the registry can no longer queue a push to this client.
func (c *Client) readPump() {
	defer func() {
		c.registry.Unregister(c)
		close(c.send)
		c.conn.Close()
	}()

	for {
		_, msgBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[realtime][client] read error: %v", err)
			}
			return
		}

		var msg IncomingMessage
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			log.Printf("[realtime][client] malformed frame: %v", err)
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Printf("[realtime][client] write error: %v", err)
			return
		}
	}
}

func (c *Client) handleMessage(msg IncomingMessage) {
	switch msg.Action {
	case "register":
		var payload registerPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil || payload.PaymentID == "" {
			log.Printf("[realtime][client] invalid register payload")
			return
		}
		c.registry.Register(payload.PaymentID, c)

	default:
		log.Printf("[realtime][client] unhandled action: %q", msg.Action)
	}
}
