package server

import "github.com/gofiber/fiber/v2"

// GetCurrentUser handles GET /api/users/me. A verified identity without a
// stored row is provisioned on first call.
// @Summary Current user profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me [get]
func (s *Server) GetCurrentUser(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := s.userService.CurrentUser(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(user)
}
