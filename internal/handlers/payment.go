package handlers

import (
	"fmt"
	"net/http"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	authmw "github.com/farmify/farmify-api/internal/middleware/auth"
	"github.com/farmify/farmify-api/internal/models"
	"github.com/farmify/farmify-api/internal/mykafka"
	"github.com/farmify/farmify-api/internal/validation"
)

type PaymentHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	Validate *validatorv10.Validate
}

// Pay appends a mock payment record. No gateway is called; the record is
// written once with status success.
func (h *PaymentHandler) Pay(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	var req validation.PayRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		return err
	}

	payment := models.Payment{
		UserID:        userID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Status:        "success",
	}
	if err := h.DB.WithContext(c.Request().Context()).Create(&payment).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, "payment_events", fmt.Sprint(userID), map[string]interface{}{
		"type":      "payment_recorded",
		"paymentID": payment.ID,
		"userID":    userID,
		"amount":    payment.Amount,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"payment": payment,
	})
}

// ListPayments returns successful payments newest first with user
// details expanded, for the admin console.
func (h *PaymentHandler) ListPayments(c echo.Context) error {
	var payments []models.Payment
	err := h.DB.WithContext(c.Request().Context()).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		}).
		Where("status = ?", "success").
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"payments": payments,
	})
}
