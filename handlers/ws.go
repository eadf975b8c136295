package handlers

import (
	"log"
	"time"

	"github.com/gofiber/contrib/websocket"
)

const wsWriteTimeout = 10 * time.Second

// Stream pushes hub events to one WebSocket client until either side goes away.
// Clients only listen; anything they send is read and discarded.
func (h *Handler) Stream(conn *websocket.Conn) {
	sub := h.Hub.Subscribe()
	defer h.Hub.Unsubscribe(sub)

	log.Printf("🔌 [WS] client connected from %s (%d total)", conn.RemoteAddr(), h.Hub.Count())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case payload, ok := <-sub.C:
			if !ok {
				// dropped as a slow subscriber or the hub is shutting down
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Printf("⚠️ [WS] write to %s failed: %v", conn.RemoteAddr(), err)
				return
			}
		case <-done:
			log.Printf("🔌 [WS] client %s disconnected", conn.RemoteAddr())
			return
		}
	}
}
