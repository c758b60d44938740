package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campusevent/campusevent-api/internal/core/ports"
)

const (
	// APIKeyHeader carries the static API key.
	APIKeyHeader = "x-api-key"
	// APIKeyQueryParam is the fallback when the header is absent.
	APIKeyQueryParam = "token"
)

// APIKey gates destructive routes behind the caller's static API key. The
// key owner is not required to match the session identity; a mismatch is
// only logged.
func APIKey(auth ports.Authenticator, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get(APIKeyHeader)
			if key == "" {
				key = c.QueryParam(APIKeyQueryParam)
			}

			ctx := c.Request().Context()
			owner, err := auth.AuthorizeAPIKey(ctx, key)
			if err != nil {
				return reject(c, log, "api_key", err)
			}

			if session, ok := AuthFrom(ctx); ok && session.UserID() != owner.ID {
				log.Warn().
					Str("session_user", session.UserID()).
					Str("key_owner", owner.ID).
					Str("path", c.Path()).
					Msg("api key owner differs from session user")
			}
			return next(c)
		}
	}
}
