package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hoversale/internal/cart"
	"github.com/Skotchmaster/hoversale/internal/models"
	"github.com/Skotchmaster/hoversale/internal/transport"
	"github.com/Skotchmaster/hoversale/pkg/logging"
)

type CartHTTP struct {
	Svc *cart.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	requested, err := parseID(c, "userId")
	if err != nil {
		return badRequest(c, l, "get_cart_error", "invalid user id", err)
	}
	userID, err := ownUser(c, requested)
	if err != nil {
		return respondError(c, l, "get_cart_error", err)
	}

	lines, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		return respondError(c, l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, lines)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_to_cart")

	var req transport.CartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "add_to_cart_error", "invalid body", err)
	}
	userID, err := ownUser(c, req.UserID)
	if err != nil {
		return respondError(c, l, "add_to_cart_error", err)
	}

	item := &models.CartItem{UserID: userID, ProductID: req.ProductID, Quantity: req.Quantity}
	if err := h.Svc.AddToCart(ctx, item); err != nil {
		return respondError(c, l, "add_to_cart_error", err)
	}

	l.Info("add_to_cart_success", "product_id", req.ProductID)
	return c.JSON(http.StatusOK, echo.Map{"message": "Cart updated"})
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_quantity")

	var req transport.CartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "update_quantity_error", "invalid body", err)
	}
	userID, err := ownUser(c, req.UserID)
	if err != nil {
		return respondError(c, l, "update_quantity_error", err)
	}

	if err := h.Svc.UpdateQuantity(ctx, userID, req.ProductID, req.Quantity); err != nil {
		return respondError(c, l, "update_quantity_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Quantity updated successfully"})
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_from_cart")

	var req transport.CartRemoveRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "remove_from_cart_error", "invalid body", err)
	}
	userID, err := ownUser(c, req.UserID)
	if err != nil {
		return respondError(c, l, "remove_from_cart_error", err)
	}

	if err := h.Svc.Remove(ctx, userID, req.ProductID); err != nil {
		return respondError(c, l, "remove_from_cart_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Item removed from cart"})
}
