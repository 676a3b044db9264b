package service

import (
	"context"
	"errors"
	"testing"

	"forumhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn     func(context.Context, string) (*models.User, error)
	getByEmailFn  func(context.Context, string) (*models.User, error)
	createFn      func(context.Context, *models.User) error
	getOrCreateFn func(context.Context, *models.User) (*models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetOrCreate(ctx context.Context, user *models.User) (*models.User, error) {
	return s.getOrCreateFn(ctx, user)
}

// memoryUsers returns a userRepoStub backed by a map keyed by email.
func memoryUsers() *userRepoStub {
	byEmail := map[string]*models.User{}
	byID := map[string]*models.User{}
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id string) (*models.User, error) {
			if u, ok := byID[id]; ok {
				return u, nil
			}
			return nil, models.NewNotFoundError("User")
		},
		getByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			if u, ok := byEmail[models.NormalizeEmail(email)]; ok {
				return u, nil
			}
			return nil, models.NewNotFoundError("User")
		},
		createFn: func(_ context.Context, u *models.User) error {
			u.Email = models.NormalizeEmail(u.Email)
			if _, ok := byEmail[u.Email]; ok {
				return models.NewConflictError("User already exists with this email")
			}
			if u.ID == "" {
				u.ID = "user-" + u.Email
			}
			byEmail[u.Email] = u
			byID[u.ID] = u
			return nil
		},
		getOrCreateFn: func(_ context.Context, u *models.User) (*models.User, error) {
			if existing, ok := byID[u.ID]; ok {
				return existing, nil
			}
			byID[u.ID] = u
			byEmail[u.Email] = u
			return u, nil
		},
	}
}

// forumRepoStub is a stub for repository.ForumRepository.
type forumRepoStub struct {
	createFn    func(context.Context, *models.Forum) error
	getByIDFn   func(context.Context, string) (*models.Forum, error)
	getDetailFn func(context.Context, string) (*models.ForumDetail, error)
	listFn      func(context.Context) ([]models.Forum, error)
	updateFn    func(context.Context, *models.Forum) error
	deleteFn    func(context.Context, string) error
}

func (s *forumRepoStub) Create(ctx context.Context, forum *models.Forum) error {
	return s.createFn(ctx, forum)
}
func (s *forumRepoStub) GetByID(ctx context.Context, id string) (*models.Forum, error) {
	return s.getByIDFn(ctx, id)
}
func (s *forumRepoStub) GetDetail(ctx context.Context, id string) (*models.ForumDetail, error) {
	return s.getDetailFn(ctx, id)
}
func (s *forumRepoStub) List(ctx context.Context) ([]models.Forum, error) {
	return s.listFn(ctx)
}
func (s *forumRepoStub) Update(ctx context.Context, forum *models.Forum) error {
	return s.updateFn(ctx, forum)
}
func (s *forumRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func noopForumRepo() *forumRepoStub {
	return &forumRepoStub{
		createFn:    func(_ context.Context, _ *models.Forum) error { return nil },
		getByIDFn:   func(_ context.Context, id string) (*models.Forum, error) { return &models.Forum{ID: id}, nil },
		getDetailFn: func(_ context.Context, id string) (*models.ForumDetail, error) { return &models.ForumDetail{}, nil },
		listFn:      func(_ context.Context) ([]models.Forum, error) { return []models.Forum{}, nil },
		updateFn:    func(_ context.Context, _ *models.Forum) error { return nil },
		deleteFn:    func(_ context.Context, _ string) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	getByIDFn     func(context.Context, string) (*models.Comment, error)
	listByForumFn func(context.Context, string) ([]models.Comment, error)
	deleteFn      func(context.Context, *models.Comment) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByForum(ctx context.Context, forumID string) ([]models.Comment, error) {
	return s.listByForumFn(ctx, forumID)
}
func (s *commentRepoStub) Delete(ctx context.Context, comment *models.Comment) error {
	return s.deleteFn(ctx, comment)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:      func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:     func(_ context.Context, id string) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByForumFn: func(_ context.Context, _ string) ([]models.Comment, error) { return []models.Comment{}, nil },
		deleteFn:      func(_ context.Context, _ *models.Comment) error { return nil },
	}
}

// assertAppError asserts that err is an AppError with the given code.
func assertAppError(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}
