package service

import (
	"context"

	"forumhub/internal/auth"
	"forumhub/internal/models"
	"forumhub/internal/observability"
	"forumhub/internal/repository"
)

type AuthService struct {
	users repository.UserRepository
	authn *auth.Authenticator
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Avatar   *string
}

type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is the body returned by register and login.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func NewAuthService(users repository.UserRepository, authn *auth.Authenticator) *AuthService {
	return &AuthService{users: users, authn: authn}
}

// Register stores a new user with a hashed password and issues a token for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (result *AuthResult, err error) {
	ctx, span := observability.StartSpan(ctx, "auth.register")
	defer func() { observability.EndSpan(span, err) }()

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    in.Email,
		Password: hash,
		Name:     in.Name,
		Avatar:   in.Avatar,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login checks the password and issues a fresh token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (result *AuthResult, err error) {
	ctx, span := observability.StartSpan(ctx, "auth.login")
	defer func() { observability.EndSpan(span, err) }()

	user, err := s.authn.Authenticate(ctx, auth.PasswordCredentials{Email: in.Email, Password: in.Password})
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Me returns the stored user behind an authenticated identity.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.authn.Tokens().Issue(user.ID, user.Email)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
