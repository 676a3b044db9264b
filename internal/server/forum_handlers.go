package server

import (
	"forumhub/internal/notifications"
	"forumhub/internal/service"
	"forumhub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetForums handles GET /api/forums
// @Summary List forums
// @Description All forums, newest first, with author and comment count
// @Tags forums
// @Produce json
// @Success 200 {array} models.Forum
// @Router /forums [get]
func (s *Server) GetForums(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	forums, err := s.forumService.ListForums(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(forums)
}

// GetForum handles GET /api/forums/:id
// @Summary Get forum
// @Description A forum with its comments, newest first
// @Tags forums
// @Produce json
// @Param id path string true "Forum ID"
// @Success 200 {object} models.ForumDetail
// @Failure 404 {object} models.ErrorResponse
// @Router /forums/{id} [get]
func (s *Server) GetForum(c *fiber.Ctx) error {
	forumID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	forum, err := s.forumService.GetForum(ctx, forumID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(forum)
}

// CreateForum handles POST /api/forums
// @Summary Create forum
// @Tags forums
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body validation.ForumRequest true "Forum"
// @Success 201 {object} models.Forum
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /forums [post]
func (s *Server) CreateForum(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return nil
	}

	var req validation.ForumRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	forum, err := s.forumService.CreateForum(ctx, service.CreateForumInput{
		AuthorID:    id.ID,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.TagList(),
	})
	if err != nil {
		return respondError(c, err)
	}

	s.events.Publish(c.UserContext(), notifications.EventForumCreated, forum)
	return c.Status(fiber.StatusCreated).JSON(forum)
}

// UpdateForum handles PUT /api/forums/:id
// @Summary Update forum
// @Description Replace title and description. Tags are kept when omitted.
// @Tags forums
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Forum ID"
// @Param request body validation.ForumRequest true "Forum"
// @Success 200 {object} models.Forum
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /forums/{id} [put]
func (s *Server) UpdateForum(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return nil
	}
	forumID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req validation.ForumRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	forum, err := s.forumService.UpdateForum(ctx, service.UpdateForumInput{
		UserID:      id.ID,
		ForumID:     forumID,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		return respondError(c, err)
	}

	s.events.Publish(c.UserContext(), notifications.EventForumUpdated, forum)
	return c.JSON(forum)
}

// DeleteForum handles DELETE /api/forums/:id
// @Summary Delete forum
// @Description Delete a forum and its comments
// @Tags forums
// @Security BearerAuth
// @Param id path string true "Forum ID"
// @Success 204
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /forums/{id} [delete]
func (s *Server) DeleteForum(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return nil
	}
	forumID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	forum, err := s.forumService.DeleteForum(ctx, service.DeleteForumInput{UserID: id.ID, ForumID: forumID})
	if err != nil {
		return respondError(c, err)
	}

	s.events.Publish(c.UserContext(), notifications.EventForumDeleted, fiber.Map{"id": forum.ID})
	return c.SendStatus(fiber.StatusNoContent)
}
