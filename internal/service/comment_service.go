package service

import (
	"context"

	"forumhub/internal/models"
	"forumhub/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	forumRepo   repository.ForumRepository
}

type CreateCommentInput struct {
	AuthorID string
	ForumID  string
	Content  string
}

type DeleteCommentInput struct {
	UserID    string
	CommentID string
}

func NewCommentService(commentRepo repository.CommentRepository, forumRepo repository.ForumRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		forumRepo:   forumRepo,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if _, err := s.forumRepo.GetByID(ctx, in.ForumID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:  in.Content,
		AuthorID: in.AuthorID,
		ForumID:  in.ForumID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, forumID string) ([]models.Comment, error) {
	if _, err := s.forumRepo.GetByID(ctx, forumID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByForum(ctx, forumID)
}

func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	if comment.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("Forbidden: You can only delete your own comments")
	}

	if err := s.commentRepo.Delete(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}
