package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/farmify/farmify-api/internal/models"
)

// AdminOnly rejects authenticated callers whose role is not admin.
// Runs after RequireLogin.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if Role(c) != models.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "admins only")
			}
			return next(c)
		}
	}
}
