package realtime

import (
	"log"
	"sync"

	"ktcomp_payments/internal/domain/entities"
	"ktcomp_payments/internal/usecase/interfaces"
)

// PushMessage is the event delivered to a registered connection when its
// payment resolves.

type PushMessage struct {
	Type      string `json:"type"`
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

const pushTypePaymentResolved = "payment.resolved"

// Registry maps a payment id to the one live connection interested in it.
//
// It is process-local and deliberately not persisted: clients re-register on
// reconnect and the polling fallback covers any gap. All three operations are
// serialized by a mutex because a webhook push and a client disconnect can
// race. Delivery is one-shot: a push removes the registration before handing
// the message to the connection's send queue.

type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Client
}

var _ interfaces.IPaymentNotifier = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Client)}
}

// Register binds a payment id to a connection. A prior binding for the same
// payment is overwritten: last writer wins, at most one live target.
func (r *Registry) Register(paymentID string, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[paymentID] = c
	log.Printf("[realtime][registry] registered payment_id=%s sessions=%d", paymentID, len(r.sessions))
}

// PushIfPresent delivers the terminal status to the registered connection, if
// any, and drops the registration. No registration is a silent no-op; the
// client may be polling instead. Returns whether a delivery was queued.
func (r *Registry) PushIfPresent(paymentID string, status entities.PaymentStatus) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.sessions[paymentID]
	if !ok {
		return false
	}
	delete(r.sessions, paymentID)

	msg := PushMessage{Type: pushTypePaymentResolved, PaymentID: paymentID, Status: string(status)}
	select {
	case c.send <- msg:
		log.Printf("[realtime][registry] pushed payment_id=%s status=%s", paymentID, status)
		return true
	default:
		// Send queue full means a stalled connection; the client's polling
		// path will observe the persisted state instead.
		log.Printf("[realtime][registry] send queue full, dropping push payment_id=%s", paymentID)
		return false
	}
}

// Unregister removes every binding held by the connection so a dead
// connection is never the target of a later push. Called on disconnect,
// strictly before the connection's send queue is closed.
func (r *Registry) Unregister(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for paymentID, registered := range r.sessions {
		if registered == c {
			delete(r.sessions, paymentID)
		}
	}
}

// Len reports the number of live registrations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
