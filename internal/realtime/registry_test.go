package realtime

import (
	"sync"
	"testing"

	"ktcomp_payments/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	return &Client{send: make(chan PushMessage, sendQueueSize)}
}

func TestRegistry_PushIfPresent(t *testing.T) {
	t.Run("no registration is a no-op", func(t *testing.T) {
		r := NewRegistry()
		assert.False(t, r.PushIfPresent("P1", entities.PaymentStatusSuccessful))
	})

	t.Run("delivers to the registered client", func(t *testing.T) {
		r := NewRegistry()
		c := newTestClient()
		r.Register("P1", c)

		require.True(t, r.PushIfPresent("P1", entities.PaymentStatusSuccessful))

		msg := <-c.send
		assert.Equal(t, "payment.resolved", msg.Type)
		assert.Equal(t, "P1", msg.PaymentID)
		assert.Equal(t, "SUCCESSFUL", msg.Status)
	})

	t.Run("one-shot delivery", func(t *testing.T) {
		r := NewRegistry()
		c := newTestClient()
		r.Register("P1", c)

		require.True(t, r.PushIfPresent("P1", entities.PaymentStatusSuccessful))
		assert.False(t, r.PushIfPresent("P1", entities.PaymentStatusSuccessful))
		assert.Len(t, c.send, 1)
	})

	t.Run("full send queue drops the push", func(t *testing.T) {
		r := NewRegistry()
		c := &Client{send: make(chan PushMessage)}
		r.Register("P1", c)

		assert.False(t, r.PushIfPresent("P1", entities.PaymentStatusSuccessful))
		assert.Equal(t, 0, r.Len())
	})
}

func TestRegistry_LastWriterWins(t *testing.T) {
	r := NewRegistry()
	first := newTestClient()
	second := newTestClient()

	r.Register("P1", first)
	r.Register("P1", second)
	assert.Equal(t, 1, r.Len())

	require.True(t, r.PushIfPresent("P1", entities.PaymentStatusFailed))
	assert.Len(t, second.send, 1)
	assert.Len(t, first.send, 0)
}

func TestRegistry_Unregister(t *testing.T) {
	t.Run("removes every binding of the connection", func(t *testing.T) {
		r := NewRegistry()
		c := newTestClient()
		r.Register("P1", c)
		r.Register("P2", c)

		r.Unregister(c)

		assert.Equal(t, 0, r.Len())
		assert.False(t, r.PushIfPresent("P1", entities.PaymentStatusSuccessful))
		assert.False(t, r.PushIfPresent("P2", entities.PaymentStatusSuccessful))
	})

	t.Run("leaves other connections registered", func(t *testing.T) {
		r := NewRegistry()
		gone := newTestClient()
		alive := newTestClient()
		r.Register("P1", gone)
		r.Register("P2", alive)

		r.Unregister(gone)

		assert.False(t, r.PushIfPresent("P1", entities.PaymentStatusSuccessful))
		assert.True(t, r.PushIfPresent("P2", entities.PaymentStatusSuccessful))
	})
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	c := newTestClient()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			r.Register("P1", c)
		}()
		go func() {
			defer wg.Done()
			r.PushIfPresent("P1", entities.PaymentStatusSuccessful)
		}()
		go func() {
			defer wg.Done()
			r.Unregister(c)
		}()
	}
	wg.Wait()
}
