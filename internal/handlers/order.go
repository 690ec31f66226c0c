package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/farmify/farmify-api/internal/logging"
	authmw "github.com/farmify/farmify-api/internal/middleware/auth"
	"github.com/farmify/farmify-api/internal/models"
	"github.com/farmify/farmify-api/internal/mykafka"
	"github.com/farmify/farmify-api/internal/service/order"
	"github.com/farmify/farmify-api/internal/validation"
)

type OrderHandler struct {
	Svc      *order.Service
	Producer *mykafka.Producer
	Validate *validatorv10.Validate
	BaseURL  string
}

// PlaceOrder handles POST /buyer/placeorder.
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place_order")

	buyerID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	var req validation.PlaceOrderRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		l.Warn("place_order_error", "status", 400, "reason", "invalid body")
		return err
	}

	ord, err := h.Svc.PlaceOrder(ctx, buyerID, req)
	if err != nil {
		l.Warn("place_order_error", "error", err)
		return mapServiceErr(err)
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(buyerID), map[string]interface{}{
		"type":    "order_placed",
		"orderID": ord.ID,
		"buyerID": buyerID,
		"items":   len(ord.Items),
	})

	l.Info("place_order_success", "orderID", ord.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "order placed successfully",
		"order":   ord,
	})
}

// GetOrders handles GET /buyer/getorder/:userId. Buyers can only read
// their own orders; a mismatched id behaves like an empty result.
func (h *OrderHandler) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()

	callerID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil || userID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	if uint(userID) != callerID && authmw.Role(c) != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusNotFound, "no orders found for this user")
	}

	orders, err := h.Svc.ListBuyerOrders(ctx, uint(userID))
	if err != nil {
		return mapServiceErr(err)
	}
	if len(orders) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no orders found for this user")
	}

	h.resolvePictures(orders)
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

// EditOrder handles PUT /buyer/editorder/:orderId, the stricter
// owner-only transition.
func (h *OrderHandler) EditOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.edit_order")

	buyerID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil || orderID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var req validation.EditOrderRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		return err
	}

	ord, err := h.Svc.BuyerEditOrder(ctx, buyerID, uint(orderID), req)
	if err != nil {
		l.Warn("edit_order_error", "orderID", orderID, "error", err)
		return mapServiceErr(err)
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(buyerID), map[string]interface{}{
		"type":    "order_updated",
		"orderID": ord.ID,
		"status":  ord.Status,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": "order updated successfully",
		"order":   ord,
	})
}

// DeleteOrder handles DELETE /buyer/deleteorder/:orderId.
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()

	buyerID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil || orderID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	if err := h.Svc.DeleteOrder(ctx, buyerID, uint(orderID)); err != nil {
		return mapServiceErr(err)
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(buyerID), map[string]interface{}{
		"type":    "order_deleted",
		"orderID": orderID,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "order deleted successfully"})
}

// GetAllOrders handles GET /admin/getorders with product and buyer
// details expanded.
func (h *OrderHandler) GetAllOrders(c echo.Context) error {
	orders, err := h.Svc.ListAllOrders(c.Request().Context())
	if err != nil {
		return mapServiceErr(err)
	}

	h.resolvePictures(orders)
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

// EditOrderStatus handles PUT /admin/editorders/:id, the permissive
// admin transition.
func (h *OrderHandler) EditOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.edit_order_status")

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil || orderID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var req validation.EditOrderStatusRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		return err
	}

	ord, err := h.Svc.UpdateStatus(ctx, uint(orderID), req.Status)
	if err != nil {
		l.Warn("edit_order_status_error", "orderID", orderID, "error", err)
		return mapServiceErr(err)
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(ord.BuyerID), map[string]interface{}{
		"type":    "order_status_updated",
		"orderID": ord.ID,
		"status":  ord.Status,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": "order status updated successfully",
		"order":   ord,
	})
}

func (h *OrderHandler) resolvePictures(orders []models.Order) {
	for i := range orders {
		for j := range orders[i].Items {
			p := orders[i].Items[j].Product
			if p != nil && p.Picture != "" {
				p.Picture = fmt.Sprintf("%s/uploads/%s", h.BaseURL, p.Picture)
			}
		}
	}
}
