package realtime

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ktcomp_payments/internal/domain/entities"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestServer(t *testing.T, registry *Registry) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/v1/payments/events", NewHandler(registry).ServeWS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/payments/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForRegistration(t *testing.T, registry *Registry) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for registry.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("registration never observed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServeWS_RegisterAndPush(t *testing.T) {
	registry := NewRegistry()
	conn := dialTestServer(t, registry)

	err := conn.WriteJSON(IncomingMessage{Action: "register", Data: []byte(`{"payment_id":"P1"}`)})
	require.NoError(t, err)
	waitForRegistration(t, registry)

	require.True(t, registry.PushIfPresent("P1", entities.PaymentStatusSuccessful))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg PushMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "payment.resolved", msg.Type)
	assert.Equal(t, "P1", msg.PaymentID)
	assert.Equal(t, "SUCCESSFUL", msg.Status)
}

func TestServeWS_DisconnectUnregisters(t *testing.T) {
	registry := NewRegistry()
	conn := dialTestServer(t, registry)

	require.NoError(t, conn.WriteJSON(IncomingMessage{Action: "register", Data: []byte(`{"payment_id":"P1"}`)}))
	waitForRegistration(t, registry)

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for registry.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("disconnect never unregistered the session")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// A webhook resolving after the disconnect is a safe no-op.
	assert.False(t, registry.PushIfPresent("P1", entities.PaymentStatusSuccessful))
}

func TestServeWS_MalformedFramesIgnored(t *testing.T) {
	registry := NewRegistry()
	conn := dialTestServer(t, registry)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteJSON(IncomingMessage{Action: "register", Data: []byte(`{}`)}))
	require.NoError(t, conn.WriteJSON(IncomingMessage{Action: "register", Data: []byte(`{"payment_id":"P2"}`)}))
	waitForRegistration(t, registry)

	assert.Equal(t, 1, registry.Len())
	assert.True(t, registry.PushIfPresent("P2", entities.PaymentStatusFailed))
}
