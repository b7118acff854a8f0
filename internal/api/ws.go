package api

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsUpdate is the frame pushed to WebSocket clients on every tick.
type wsUpdate struct {
	Type string `json:"type"`
	metricsPayload
}

// handleWS bridges a hub subscription onto a WebSocket connection. The
// subscription channel closes when the hub drops us (slow consumer) or when
// the client disconnects, ending the write loop either way.
func (s *Server) handleWS(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	sub := s.sim.Subscribe()
	defer s.sim.Unsubscribe(sub)

	go func() {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				s.sim.Unsubscribe(sub)
				return
			}
		}
	}()

	for snap := range sub.Updates() {
		update := wsUpdate{Type: "metrics_update", metricsPayload: toMetricsPayload(snap)}
		if err := ws.WriteJSON(update); err != nil {
			return nil
		}
	}
	return nil
}
