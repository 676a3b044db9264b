package service

import (
	"context"

	"forumhub/internal/models"
	"forumhub/internal/repository"
)

type ForumService struct {
	forumRepo repository.ForumRepository
}

type CreateForumInput struct {
	AuthorID    string
	Title       string
	Description string
	Tags        []string
}

// UpdateForumInput replaces title and description. A nil Tags keeps the stored tags.
type UpdateForumInput struct {
	UserID      string
	ForumID     string
	Title       string
	Description string
	Tags        *[]string
}

type DeleteForumInput struct {
	UserID  string
	ForumID string
}

func NewForumService(forumRepo repository.ForumRepository) *ForumService {
	return &ForumService{forumRepo: forumRepo}
}

func (s *ForumService) ListForums(ctx context.Context) ([]models.Forum, error) {
	return s.forumRepo.List(ctx)
}

func (s *ForumService) GetForum(ctx context.Context, id string) (*models.ForumDetail, error) {
	return s.forumRepo.GetDetail(ctx, id)
}

func (s *ForumService) CreateForum(ctx context.Context, in CreateForumInput) (*models.Forum, error) {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	forum := &models.Forum{
		Title:       in.Title,
		Description: in.Description,
		Tags:        tags,
		AuthorID:    in.AuthorID,
	}
	if err := s.forumRepo.Create(ctx, forum); err != nil {
		return nil, err
	}

	return s.forumRepo.GetByID(ctx, forum.ID)
}

func (s *ForumService) UpdateForum(ctx context.Context, in UpdateForumInput) (*models.Forum, error) {
	forum, err := s.forumRepo.GetByID(ctx, in.ForumID)
	if err != nil {
		return nil, err
	}

	if forum.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("Forbidden: You can only update your own forums")
	}

	forum.Title = in.Title
	forum.Description = in.Description
	if in.Tags != nil {
		forum.Tags = *in.Tags
	}
	if err := s.forumRepo.Update(ctx, forum); err != nil {
		return nil, err
	}

	return s.forumRepo.GetByID(ctx, forum.ID)
}

// DeleteForum removes the forum and its comments, returning what was deleted.
func (s *ForumService) DeleteForum(ctx context.Context, in DeleteForumInput) (*models.Forum, error) {
	forum, err := s.forumRepo.GetByID(ctx, in.ForumID)
	if err != nil {
		return nil, err
	}

	if forum.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("Forbidden: You can only delete your own forums")
	}

	if err := s.forumRepo.Delete(ctx, forum.ID); err != nil {
		return nil, err
	}

	return forum, nil
}
