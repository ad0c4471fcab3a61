// cart_web_socket.go
package cartControllers

import (
	"net/http"
	"time"

	"github.com/brianmwiruki/Thrills/cart"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// CartWebSocketHandler streams the session cart to the browser: the current
// state first, then every change. Slow readers only see the latest state.
// GET /session/cart/ws?token=
func CartWebSocketHandler(carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := sessionCart(c, carts)
		if !ok {
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		updates, cancel := store.Subscribe()
		defer cancel()

		// the read loop only notices the client going away
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		if err := writeSnapshot(conn, store.Snapshot()); err != nil {
			return
		}
		for {
			select {
			case <-closed:
				return
			case <-c.Request.Context().Done():
				return
			case snap, open := <-updates:
				if !open {
					return
				}
				if err := writeSnapshot(conn, snap); err != nil {
					return
				}
			}
		}
	}
}

func writeSnapshot(conn *websocket.Conn, snap cart.Snapshot) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(snap)
}
