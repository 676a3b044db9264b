package server

import (
	"forumhub/internal/notifications"
	"forumhub/internal/service"
	"forumhub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/forums/:forumId/comments
// @Summary Comment on a forum
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param forumId path string true "Forum ID"
// @Param request body validation.CommentRequest true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /forums/{forumId}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return nil
	}
	forumID, err := parseID(c, "forumId")
	if err != nil {
		return nil
	}

	var req validation.CommentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	created, err := s.commentService.CreateComment(ctx, service.CreateCommentInput{
		AuthorID: id.ID,
		ForumID:  forumID,
		Content:  req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}

	s.events.Publish(c.UserContext(), notifications.EventCommentCreated, created)
	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetComments handles GET /api/forums/:forumId/comments
// @Summary List comments
// @Description Comments of a forum, newest first
// @Tags comments
// @Produce json
// @Param forumId path string true "Forum ID"
// @Success 200 {array} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /forums/{forumId}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	forumID, err := parseID(c, "forumId")
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	comments, err := s.commentService.ListComments(ctx, forumID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// DeleteComment handles DELETE /api/comments/:id
// @Summary Delete comment
// @Tags comments
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Success 204
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{id} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return nil
	}
	commentID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	deleted, err := s.commentService.DeleteComment(ctx, service.DeleteCommentInput{UserID: id.ID, CommentID: commentID})
	if err != nil {
		return respondError(c, err)
	}

	s.events.Publish(c.UserContext(), notifications.EventCommentDeleted, fiber.Map{
		"id":      deleted.ID,
		"forumId": deleted.ForumID,
	})
	return c.SendStatus(fiber.StatusNoContent)
}
