package api

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func (s *Server) registerWS() {
	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws", websocket.New(s.handleWS))
}

// handleWS serves one subscriber connection. The server pushes event
// frames; inbound client frames are logged and otherwise ignored. Events
// published before the subscription are never replayed.
func (s *Server) handleWS(conn *websocket.Conn) {
	sub := s.hub.Subscribe()
	defer s.hub.Unsubscribe(sub)

	logger := s.logger.With().Str("subscriber_id", sub.ID()).Logger()

	// Connection confirmation frame
	if err := conn.WriteJSON(fiber.Map{"type": "connection", "status": "connected"}); err != nil {
		logger.Warn().Err(err).Msg("failed to send connection frame")
		return
	}
	logger.Info().Msg("WebSocket client connected")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			logger.Debug().Str("message", string(msg)).Msg("received client frame")
		}
	}()

	for {
		select {
		case frame, ok := <-sub.C():
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				logger.Info().Err(err).Msg("WebSocket client disconnected")
				return
			}
		case <-done:
			logger.Info().Msg("WebSocket client disconnected")
			return
		}
	}
}
