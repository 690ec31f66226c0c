package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/farmify/farmify-api/internal/models"
)

type UserHandler struct {
	DB *gorm.DB
}

// GetAllUsers lists every registered user for the admin console.
// Password hashes never serialize (json:"-").
func (h *UserHandler) GetAllUsers(c echo.Context) error {
	var users []models.User
	if err := h.DB.WithContext(c.Request().Context()).Order("id ASC").Find(&users).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, users)
}
