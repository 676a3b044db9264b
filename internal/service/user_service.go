package service

import (
	"context"

	"forumhub/internal/models"
	"forumhub/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CurrentUser returns the stored user for identity, provisioning a row from the
// identity fields when none exists. Repeated calls return the same user.
func (s *UserService) CurrentUser(ctx context.Context, identity *models.Identity) (*models.User, error) {
	if identity == nil || identity.ID == "" {
		return nil, models.NewUnauthorizedError("Unauthorized")
	}

	return s.userRepo.GetOrCreate(ctx, &models.User{
		ID:     identity.ID,
		Email:  identity.Email,
		Name:   identity.Name,
		Avatar: identity.Avatar,
	})
}
