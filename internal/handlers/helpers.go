package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/farmify/farmify-api/internal/logging"
	"github.com/farmify/farmify-api/internal/mykafka"
	"github.com/farmify/farmify-api/internal/service/order"
)

// publish sends a domain event best-effort. Failures are logged, never
// surfaced to the client; the mutation already succeeded.
func publish(c echo.Context, p *mykafka.Producer, topic, key string, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "topic", topic, "error", err)
	}
}

// mapServiceErr translates the order service's sentinel errors into HTTP
// status codes. Anything unrecognized is a storage failure and maps to a
// generic 500.
func mapServiceErr(err error) error {
	switch {
	case errors.Is(err, order.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
