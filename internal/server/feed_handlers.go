package server

import (
	"log/slog"

	"forumhub/internal/featureflags"
	"forumhub/internal/middleware"
	"forumhub/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// FeedUpgrade gates GET /api/feed/ws: the live_feed flag must be on for the
// caller and the request must be a websocket upgrade.
func (s *Server) FeedUpgrade(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return nil
	}
	if !s.featureFlags.Enabled(featureflags.LiveFeed, id.ID) {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Route"))
	}
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(models.ErrorResponse{Message: "Upgrade required"})
	}
	return c.Next()
}

// CodeFeedLimit marks feed connections refused by the hub's connection limits.
const CodeFeedLimit = "FEED_LIMIT"

// rejectFeed writes a single error frame and closes the connection.
func rejectFeed(conn *websocket.Conn, resp models.ErrorResponse) {
	_ = conn.WriteJSON(resp)
	_ = conn.Close()
}

// FeedHandler streams forum activity events to the connected client.
func (s *Server) FeedHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		who, ok := conn.Locals(middleware.IdentityLocal).(*models.Identity)
		if !ok || who == nil {
			rejectFeed(conn, models.ErrorResponse{Message: "Unauthorized", Code: models.CodeUnauthorized})
			return
		}

		client, err := s.hub.Register(who.ID, conn)
		if err != nil {
			middleware.Logger.Warn("feed connection rejected",
				slog.String("user_id", who.ID), slog.String("error", err.Error()))
			rejectFeed(conn, models.ErrorResponse{Message: err.Error(), Code: CodeFeedLimit})
			return
		}
		middleware.Logger.Debug("feed client connected", slog.String("user_id", who.ID))

		done := make(chan struct{})
		go client.WritePump(done)
		client.ReadPump()
		close(done)
	})
}
