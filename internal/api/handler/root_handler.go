package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Root handles GET / with a static banner.
//
// @Summary      API banner
// @Tags         health
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       / [get]
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "CampusEvent API"})
}
