package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hoversale/internal/checkout"
	"github.com/Skotchmaster/hoversale/internal/models"
	"github.com/Skotchmaster/hoversale/internal/orders"
	"github.com/Skotchmaster/hoversale/internal/payment"
	"github.com/Skotchmaster/hoversale/internal/transport"
	"github.com/Skotchmaster/hoversale/pkg/logging"
)

type AdminOrdersHTTP struct {
	Flow     *checkout.Workflow
	Orders   *orders.Store
	Payments *payment.Service
}

func (h *AdminOrdersHTTP) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_orders.stats")

	counts, err := h.Orders.StatusCounts(ctx)
	if err != nil {
		return respondError(c, l, "order_stats_error", err)
	}
	return c.JSON(http.StatusOK, counts)
}

func (h *AdminOrdersHTTP) Pending(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_orders.pending")

	list, err := h.Orders.ListPending(ctx)
	if err != nil {
		return respondError(c, l, "pending_orders_error", err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *AdminOrdersHTTP) WithItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_orders.with_items")

	offset, limit := pageParams(c)
	total, list, err := h.Orders.ListWithItems(ctx, offset, limit)
	if err != nil {
		return respondError(c, l, "orders_with_items_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "orders": list})
}

// UpdateStatus sets status and courier details. Canceling goes through the
// checkout workflow so reserved stock comes back.
func (h *AdminOrdersHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_orders.update_status")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, l, "admin_update_status_error", "invalid id", err)
	}
	var req transport.AdminStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "admin_update_status_error", "invalid body", err)
	}

	to := models.OrderStatus(strings.TrimSpace(req.Status))
	if !to.Valid() {
		return badRequest(c, l, "admin_update_status_error", "invalid status", errors.New(req.Status))
	}

	var o *models.Order
	if to == models.StatusCanceled {
		actor, aerr := actorOf(c)
		if aerr != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		o, err = h.Flow.Cancel(ctx, id, actor)
	} else {
		o, err = h.Flow.UpdateStatus(ctx, id, to, &orders.Shipment{
			TrackingID:         strings.TrimSpace(req.TrackingID),
			CourierName:        req.CourierName,
			CourierTrackingURL: req.CourierTrackingURL,
			EstimatedDelivery:  req.EstimatedDelivery,
		})
	}
	if err != nil {
		return respondError(c, l, "admin_update_status_error", err)
	}

	l.Info("admin_update_status_success", "order_id", id, "status", to)
	return c.JSON(http.StatusOK, echo.Map{"message": "Order updated", "order": o})
}

func (h *AdminOrdersHTTP) PaymentStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_orders.payment_status")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, l, "payment_status_error", "invalid id", err)
	}
	var req transport.PaymentStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "payment_status_error", "invalid body", err)
	}

	if err := h.Payments.SetStatus(ctx, id, models.PaymentStatus(req.PaymentStatus)); err != nil {
		return respondError(c, l, "payment_status_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Payment status updated"})
}
