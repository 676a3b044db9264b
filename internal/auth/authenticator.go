package auth

import (
	"context"
	"errors"

	"forumhub/internal/models"
	"forumhub/internal/observability"
)

// ErrUnknownSubject is returned when a valid token names a user that no longer exists.
var ErrUnknownSubject = errors.New("token subject does not exist")

// Credentials is the closed set of things a caller can prove identity with.
type Credentials interface {
	credentials()
}

// PasswordCredentials verifies an email and plaintext password.
type PasswordCredentials struct {
	Email    string
	Password string
}

// TokenCredentials verifies a bearer token.
type TokenCredentials struct {
	Token string
}

func (PasswordCredentials) credentials() {}
func (TokenCredentials) credentials()    {}

// UserLookup is the slice of the user store the authenticator needs.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Authenticator resolves credentials to users.
type Authenticator struct {
	users  UserLookup
	tokens *TokenService
}

// NewAuthenticator returns an Authenticator backed by the given store and token service.
func NewAuthenticator(users UserLookup, tokens *TokenService) *Authenticator {
	return &Authenticator{users: users, tokens: tokens}
}

// Tokens exposes the token service used for verification.
func (a *Authenticator) Tokens() *TokenService {
	return a.tokens
}

// Verify resolves credentials to the minimal identity attached to requests.
func (a *Authenticator) Verify(ctx context.Context, creds Credentials) (*models.Identity, error) {
	user, err := a.Authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}
	return user.Identity(), nil
}

// Authenticate resolves credentials to the stored user.
//
// Password failures return an InvalidCredentials AppError whether the email
// is unknown or the password is wrong. Token failures return ErrInvalidToken
// or ErrUnknownSubject. Store failures are returned unchanged.
func (a *Authenticator) Authenticate(ctx context.Context, creds Credentials) (*models.User, error) {
	switch c := creds.(type) {
	case PasswordCredentials:
		return a.byPassword(ctx, c)
	case TokenCredentials:
		return a.byToken(ctx, c)
	default:
		return nil, models.NewUnauthorizedError("Unsupported credentials")
	}
}

func (a *Authenticator) byPassword(ctx context.Context, c PasswordCredentials) (*models.User, error) {
	user, err := a.users.GetByEmail(ctx, models.NormalizeEmail(c.Email))
	if err != nil {
		if !isNotFound(err) {
			return nil, err
		}
		CheckPassword(dummyHash(), c.Password)
		observability.AuthFailures.WithLabelValues(observability.ReasonInvalidCredentials).Inc()
		return nil, models.NewInvalidCredentialsError()
	}

	hash := user.Password
	if hash == "" {
		// Provisioned accounts have no password and can never log in with one.
		CheckPassword(dummyHash(), c.Password)
		observability.AuthFailures.WithLabelValues(observability.ReasonInvalidCredentials).Inc()
		return nil, models.NewInvalidCredentialsError()
	}
	if !CheckPassword(hash, c.Password) {
		observability.AuthFailures.WithLabelValues(observability.ReasonInvalidCredentials).Inc()
		return nil, models.NewInvalidCredentialsError()
	}
	return user, nil
}

func (a *Authenticator) byToken(ctx context.Context, c TokenCredentials) (*models.User, error) {
	claims, err := a.tokens.Verify(c.Token)
	if err != nil {
		observability.AuthFailures.WithLabelValues(observability.ReasonInvalidToken).Inc()
		return nil, err
	}

	user, err := a.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if isNotFound(err) {
			observability.AuthFailures.WithLabelValues(observability.ReasonUnknownSubject).Inc()
			return nil, ErrUnknownSubject
		}
		return nil, err
	}
	return user, nil
}

func isNotFound(err error) bool {
	var appErr *models.AppError
	return errors.As(err, &appErr) && appErr.Code == models.CodeNotFound
}
