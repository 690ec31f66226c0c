package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/farmify/farmify-api/internal/models"
	"github.com/farmify/farmify-api/internal/validation"
)

func newPaymentHandler(t *testing.T) *PaymentHandler {
	return &PaymentHandler{
		DB:       initTestDB(t),
		Validate: validation.New(),
	}
}

func TestPay(t *testing.T) {
	h := newPaymentHandler(t)
	e := echo.New()

	rec, c := jsonContext(t, e, http.MethodPost, "/payment/pay", map[string]interface{}{
		"amount":         450.5,
		"payment_method": "upi",
	})
	asCaller(c, 3, models.RoleCustomer)

	require.NoError(t, h.Pay(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool           `json:"success"`
		Payment models.Payment `json:"payment"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "success", resp.Payment.Status)
	require.Equal(t, uint(3), resp.Payment.UserID)
	require.Equal(t, 450.5, resp.Payment.Amount)
}

func TestPayRejectsZeroAmount(t *testing.T) {
	h := newPaymentHandler(t)
	e := echo.New()

	_, c := jsonContext(t, e, http.MethodPost, "/payment/pay", map[string]interface{}{
		"amount":         0,
		"payment_method": "upi",
	})
	asCaller(c, 3, models.RoleCustomer)

	err := h.Pay(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestListPaymentsNewestFirst(t *testing.T) {
	h := newPaymentHandler(t)
	e := echo.New()

	user := models.User{Name: "Ravi", Email: "ravi@example.com", PasswordHash: "h", Role: models.RoleCustomer}
	require.NoError(t, h.DB.Create(&user).Error)

	older := models.Payment{UserID: user.ID, Amount: 100, PaymentMethod: "upi", Status: "success", CreatedAt: time.Now().Add(-time.Hour)}
	newer := models.Payment{UserID: user.ID, Amount: 200, PaymentMethod: "card", Status: "success", CreatedAt: time.Now()}
	failed := models.Payment{UserID: user.ID, Amount: 300, PaymentMethod: "card", Status: "failed", CreatedAt: time.Now()}
	require.NoError(t, h.DB.Create(&older).Error)
	require.NoError(t, h.DB.Create(&newer).Error)
	require.NoError(t, h.DB.Create(&failed).Error)

	rec, c := jsonContext(t, e, http.MethodGet, "/admin/get/payments", nil)
	asCaller(c, 1, models.RoleAdmin)

	require.NoError(t, h.ListPayments(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success  bool             `json:"success"`
		Payments []models.Payment `json:"payments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Len(t, resp.Payments, 2)
	require.Equal(t, 200.0, resp.Payments[0].Amount)
	require.Equal(t, 100.0, resp.Payments[1].Amount)
	require.NotNil(t, resp.Payments[0].User)
	require.Equal(t, "ravi@example.com", resp.Payments[0].User.Email)
}
