package realtime

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades a storefront client to the payment-events websocket.

type Handler struct {
	registry *Registry
}

func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

// ServeWS upgrades the request and starts the connection's read/write pumps.
// The client announces interest with a register frame after connecting;
// nothing is pushed until then.
func (h *Handler) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[realtime][handler] upgrade error: %v", err)
		return
	}

	client := newClient(conn, h.registry)
	go client.readPump()
	go client.writePump()
}
