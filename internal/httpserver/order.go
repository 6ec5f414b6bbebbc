package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hoversale/internal/checkout"
	"github.com/Skotchmaster/hoversale/internal/models"
	"github.com/Skotchmaster/hoversale/internal/orders"
	"github.com/Skotchmaster/hoversale/internal/transport"
	"github.com/Skotchmaster/hoversale/pkg/logging"
)

const statusEmailed = "Emailed"

type OrderHTTP struct {
	Flow   *checkout.Workflow
	Orders *orders.Store
}

func (h *OrderHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place_order")

	var req transport.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "place_order_error", "invalid body", err)
	}
	userID, err := ownUser(c, req.UserID)
	if err != nil {
		return respondError(c, l, "place_order_error", err)
	}
	req.UserID = userID

	o, err := h.Flow.PlaceOrder(ctx, req.Input())
	if err != nil {
		return respondError(c, l, "place_order_error", err)
	}

	l.Info("place_order_success", "order_id", o.ID, "user_id", o.UserID)
	return c.JSON(http.StatusCreated, transport.PlaceOrderResponse{Message: "Order placed successfully", OrderID: o.ID})
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel_order")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, l, "cancel_order_error", "invalid id", err)
	}
	actor, err := actorOf(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if _, err := h.Flow.Cancel(ctx, id, actor); err != nil {
		return respondError(c, l, "cancel_order_error", err)
	}

	l.Info("cancel_order_success", "order_id", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Order canceled and stock restored"})
}

func (h *OrderHTTP) Reorder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.reorder")

	id, err := parseID(c, "orderId")
	if err != nil {
		return badRequest(c, l, "reorder_error", "invalid order id", err)
	}
	actor, err := actorOf(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	o, err := h.Flow.Reorder(ctx, id, actor)
	if err != nil {
		return respondError(c, l, "reorder_error", err)
	}

	l.Info("reorder_success", "order_id", o.ID, "source_id", id)
	return c.JSON(http.StatusCreated, transport.PlaceOrderResponse{Message: "Reorder placed", OrderID: o.ID})
}

func (h *OrderHTTP) ReorderCustom(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.reorder_custom")

	var req transport.ReorderCustomRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "reorder_custom_error", "invalid body", err)
	}
	userID, err := ownUser(c, req.UserID)
	if err != nil {
		return respondError(c, l, "reorder_custom_error", err)
	}
	req.UserID = userID

	o, err := h.Flow.ReorderCustom(ctx, req.Input())
	if err != nil {
		return respondError(c, l, "reorder_custom_error", err)
	}

	l.Info("reorder_custom_success", "order_id", o.ID)
	return c.JSON(http.StatusCreated, transport.PlaceOrderResponse{Message: "Custom reorder placed", OrderID: o.ID})
}

func (h *OrderHTTP) UserOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.user_orders")

	requested, err := parseID(c, "userId")
	if err != nil {
		return badRequest(c, l, "user_orders_error", "invalid user id", err)
	}
	userID, err := ownUser(c, requested)
	if err != nil {
		return respondError(c, l, "user_orders_error", err)
	}

	list, err := h.Orders.ListByUser(ctx, userID)
	if err != nil {
		return respondError(c, l, "user_orders_error", err)
	}
	if list == nil {
		list = []orders.OrderView{}
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": list})
}

func (h *OrderHTTP) EmailInvoice(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.email_invoice")

	var req transport.EmailInvoiceRequest
	if err := c.Bind(&req); err != nil || req.OrderID == 0 {
		return badRequest(c, l, "email_invoice_error", "orderId and userId are required", err)
	}
	userID, err := ownUser(c, req.UserID)
	if err != nil {
		return respondError(c, l, "email_invoice_error", err)
	}

	if err := h.Flow.EmailInvoice(ctx, req.OrderID, userID); err != nil {
		return respondError(c, l, "email_invoice_error", err)
	}

	l.Info("email_invoice_success", "order_id", req.OrderID)
	return c.JSON(http.StatusOK, echo.Map{"message": "Invoice sent"})
}

// UpdateStatus is the admin shortcut used from the order list. "Emailed"
// re-sends the invoice without changing the status.
func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, l, "update_status_error", "invalid id", err)
	}
	var req transport.UserStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "update_status_error", "invalid body", err)
	}

	switch strings.TrimSpace(req.Status) {
	case statusEmailed:
		o, err := h.Orders.Get(ctx, id)
		if err != nil {
			return respondError(c, l, "update_status_error", err)
		}
		if err := h.Flow.EmailInvoice(ctx, id, o.UserID); err != nil {
			return respondError(c, l, "update_status_error", err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Invoice emailed"})
	case string(models.StatusShipped), string(models.StatusDelivered):
		to := models.OrderStatus(strings.TrimSpace(req.Status))
		if _, err := h.Flow.UpdateStatus(ctx, id, to, nil); err != nil {
			return respondError(c, l, "update_status_error", err)
		}
		l.Info("update_status_success", "order_id", id, "status", to)
		return c.JSON(http.StatusOK, echo.Map{"message": "Marked as " + string(to)})
	default:
		return badRequest(c, l, "update_status_error", "invalid status", errors.New(req.Status))
	}
}

// Track is public: the tracking id is the capability.
func (h *OrderHTTP) Track(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.track")

	trackingID := strings.TrimSpace(c.Param("trackingId"))
	if trackingID == "" {
		return badRequest(c, l, "track_error", "tracking id required", nil)
	}

	view, err := h.Orders.GetByTrackingID(ctx, trackingID)
	if err != nil {
		code, reason := classify(err)
		if code == http.StatusNotFound {
			reason = "Tracking ID not found"
		}
		l.Warn("track_error", "status", code, "error", err)
		return c.JSON(code, echo.Map{"success": false, "error": reason})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "order": view})
}
