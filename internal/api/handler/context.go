package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/campusevent/campusevent-api/internal/api/middleware"
	"github.com/campusevent/campusevent-api/internal/core/domain"
)

// authedHandler is a handler that needs the caller's identity.
type authedHandler func(c echo.Context, auth domain.AuthContext) error

// withAuth adapts an authedHandler to echo, passing the identity attached by
// the Session middleware. Without one the request is rejected; that only
// happens when a protected route was registered outside the session group.
func withAuth(h authedHandler) echo.HandlerFunc {
	return func(c echo.Context) error {
		auth, ok := middleware.AuthFrom(c.Request().Context())
		if !ok {
			return domain.ErrMissingCredential
		}
		return h(c, auth)
	}
}
