package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"  // context with timeout bounds the identity lookup
	"errors"   // sentinel matching for token failures
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming
	"time"     // timeout duration for the store lookup

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/roetechhub/college-lms/internal/repository"
	"github.com/roetechhub/college-lms/internal/utils"
)

// identityKey is the echo context key under which JWTAuth stores the
// authenticated identity record.
const identityKey = "identity"

// IdentitySource loads identity records by id. It is satisfied by
// *repository.UserRepo and stubbed in tests.
type IdentitySource interface {
	GetByID(ctx context.Context, id uint64) (repository.User, error)
}

// JWTAuth returns an Echo middleware that validates a Bearer access token,
// loads the identity it names from the store, and injects the record into
// the request context. Loading per request (rather than trusting claims)
// means a deactivated or deleted account is shut out immediately instead
// of riding out the token's remaining lifetime. The provided secret must
// match the one used when issuing tokens. Handlers behind this middleware
// access the caller via CurrentUser.
func JWTAuth(secret string, users IdentitySource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header starts with "Bearer " followed by the JWT. If
			// it doesn't, authentication is required but absent.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			uid, err := utils.VerifyAccessToken(secret, raw)
			if err != nil {
				// Expired and malformed tokens are both 401s, but the body
				// distinguishes them so clients know whether to re-login.
				if errors.Is(err, utils.ErrTokenExpired) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token expired"})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, err := users.GetByID(ctx, uid)
			if err != nil || !u.IsActive {
				// A token for a vanished or deactivated identity reads the
				// same as any other failed authentication.
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authentication"})
			}

			c.Set(identityKey, u)
			return next(c)
		}
	}
}

// CurrentUser returns the identity stored in the context by JWTAuth. The
// boolean is false when the middleware did not run or rejected the
// request, which on a protected route indicates a wiring bug.
func CurrentUser(c echo.Context) (repository.User, bool) {
	u, ok := c.Get(identityKey).(repository.User)
	return u, ok
}
