package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campusevent/campusevent-api/internal/api/metrics"
	"github.com/campusevent/campusevent-api/internal/core/domain"
	"github.com/campusevent/campusevent-api/internal/core/ports"
)

const bearerScheme = "Bearer"

// Session verifies the bearer token and attaches the resolved identity to the
// request context. Any failure short-circuits the chain.
func Session(auth ports.Authenticator, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return reject(c, log, "session", err)
			}

			ctx := c.Request().Context()
			user, err := auth.Authenticate(ctx, token)
			if err != nil {
				return reject(c, log, "session", err)
			}

			c.SetRequest(c.Request().WithContext(WithAuth(ctx, domain.AuthContext{User: user})))
			return next(c)
		}
	}
}

// bearerToken extracts the value of an "Authorization: Bearer <value>"
// header. The scheme is matched literally.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", domain.ErrMissingCredential
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != bearerScheme {
		return "", domain.ErrMalformedCredential
	}
	if parts[1] == "" {
		return "", domain.ErrMalformedCredential
	}
	return parts[1], nil
}

// reject records why a gate refused the request and hands the error to the
// central error handler.
func reject(c echo.Context, log zerolog.Logger, gate string, err error) error {
	reason := rejectionReason(err)
	metrics.AuthRejectionsTotal.WithLabelValues(gate, reason).Inc()

	if reason == "store_error" {
		return err
	}
	log.Debug().
		Err(err).
		Str("gate", gate).
		Str("reason", reason).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("request rejected")
	return err
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return "missing"
	case errors.Is(err, domain.ErrMalformedCredential):
		return "malformed"
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrInvalidCredential):
		return "invalid"
	case errors.Is(err, domain.ErrMissingAPIKey):
		return "missing_api_key"
	case errors.Is(err, domain.ErrInvalidAPIKey):
		return "invalid_api_key"
	default:
		return "store_error"
	}
}
