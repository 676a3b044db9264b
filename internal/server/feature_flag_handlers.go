package server

import (
	"forumhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetFeatureFlags returns configured feature flags and their state for the caller.
// Anonymous callers only see flags that are fully on.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID := ""
	if id, ok := middleware.IdentityFrom(c); ok {
		userID = id.ID
	}

	return c.JSON(fiber.Map{
		"raw":       s.featureFlags.Raw(),
		"evaluated": s.featureFlags.Snapshot(userID),
	})
}
