// Package middleware provides authentication, rate limiting, tracing and logging middleware.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"forumhub/internal/auth"
	"forumhub/internal/models"
	"forumhub/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// Fiber locals written by the auth gates.
const (
	IdentityLocal = "identity"
	UserIDLocal   = "userID"
)

// IdentityVerifier resolves credentials to an identity.
type IdentityVerifier interface {
	Verify(ctx context.Context, creds auth.Credentials) (*models.Identity, error)
}

var (
	errMissingHeader = models.NewUnauthorizedError("Authorization header required")
	errBadHeader     = models.NewUnauthorizedError("Invalid authorization header format")
	errBadToken      = models.NewUnauthorizedError("Invalid or expired token")
	errUnknownUser   = models.NewUnauthorizedError("User not found")
)

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(v IdentityVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, appErr := bearerToken(c)
		if appErr != nil {
			observability.AuthFailures.WithLabelValues(observability.ReasonMissingToken).Inc()
			return models.RespondWithError(c, fiber.StatusUnauthorized, appErr)
		}
		return verifyAndAttach(c, v, token)
	}
}

// WebSocketAuthRequired is AuthRequired that also accepts a ?token= query
// parameter, since browsers cannot set headers on upgrade requests.
func WebSocketAuthRequired(v IdentityVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Query("token")
		if token == "" {
			var appErr *models.AppError
			token, appErr = bearerToken(c)
			if appErr != nil {
				observability.AuthFailures.WithLabelValues(observability.ReasonMissingToken).Inc()
				return models.RespondWithError(c, fiber.StatusUnauthorized, appErr)
			}
		}
		return verifyAndAttach(c, v, token)
	}
}

// OptionalAuth attaches an identity when a valid token is present and
// otherwise continues anonymously.
func OptionalAuth(v IdentityVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, appErr := bearerToken(c)
		if appErr != nil {
			return c.Next()
		}
		identity, err := v.Verify(c.UserContext(), auth.TokenCredentials{Token: token})
		if err != nil {
			Logger.DebugContext(c.UserContext(), "optional auth skipped", slog.String("reason", err.Error()))
			return c.Next()
		}
		attachIdentity(c, identity)
		return c.Next()
	}
}

// IdentityFrom returns the identity attached by an auth gate.
func IdentityFrom(c *fiber.Ctx) (*models.Identity, bool) {
	identity, ok := c.Locals(IdentityLocal).(*models.Identity)
	return identity, ok && identity != nil
}

func verifyAndAttach(c *fiber.Ctx, v IdentityVerifier, token string) error {
	identity, err := v.Verify(c.UserContext(), auth.TokenCredentials{Token: token})
	switch {
	case err == nil:
		attachIdentity(c, identity)
		return c.Next()
	case errors.Is(err, auth.ErrInvalidToken):
		return models.RespondWithError(c, fiber.StatusUnauthorized, errBadToken)
	case errors.Is(err, auth.ErrUnknownSubject):
		return models.RespondWithError(c, fiber.StatusUnauthorized, errUnknownUser)
	default:
		Logger.ErrorContext(c.UserContext(), "auth gate lookup failed", slog.String("error", err.Error()))
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
}

func attachIdentity(c *fiber.Ctx, identity *models.Identity) {
	c.Locals(IdentityLocal, identity)
	c.Locals(UserIDLocal, identity.ID)
	c.SetUserContext(WithUserID(c.UserContext(), identity.ID))
}

func bearerToken(c *fiber.Ctx) (string, *models.AppError) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", errMissingHeader
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errBadHeader
	}
	return parts[1], nil
}
