package events

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// maxInboundBytes caps what a subscriber may send; the stream is
// one-way and inbound frames are discarded.
const maxInboundBytes = 512

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict origins once the frontend host is known.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades the request and attaches the connection to the
// hub until the peer goes away.
func WSHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[events] ws upgrade failed: %v", err)
			return
		}

		sub := hub.AttachWS(conn)
		defer sub.Close()
		log.Printf("[events] ws subscriber attached: %s", conn.RemoteAddr())

		conn.SetReadLimit(maxInboundBytes)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				log.Printf("[events] ws subscriber gone: %s", conn.RemoteAddr())
				return
			}
		}
	}
}
