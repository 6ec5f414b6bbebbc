package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hoversale/internal/transport"
	"github.com/Skotchmaster/hoversale/internal/wishlist"
	"github.com/Skotchmaster/hoversale/pkg/logging"
)

type WishlistHTTP struct {
	Svc *wishlist.WishlistService
}

func (h *WishlistHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.list")

	requested, err := parseID(c, "userId")
	if err != nil {
		return badRequest(c, l, "wishlist_list_error", "invalid user id", err)
	}
	userID, err := ownUser(c, requested)
	if err != nil {
		return respondError(c, l, "wishlist_list_error", err)
	}

	products, err := h.Svc.List(ctx, userID)
	if err != nil {
		return respondError(c, l, "wishlist_list_error", err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *WishlistHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.add")

	var req transport.WishlistRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "wishlist_add_error", "invalid body", err)
	}
	userID, err := ownUser(c, req.UserID)
	if err != nil {
		return respondError(c, l, "wishlist_add_error", err)
	}

	if err := h.Svc.Add(ctx, userID, req.ProductID); err != nil {
		return respondError(c, l, "wishlist_add_error", err)
	}

	l.Info("wishlist_add_success", "product_id", req.ProductID)
	return c.JSON(http.StatusOK, echo.Map{"message": "Added to wishlist"})
}

func (h *WishlistHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.remove")

	var req transport.WishlistRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "wishlist_remove_error", "invalid body", err)
	}
	userID, err := ownUser(c, req.UserID)
	if err != nil {
		return respondError(c, l, "wishlist_remove_error", err)
	}

	if err := h.Svc.Remove(ctx, userID, req.ProductID); err != nil {
		return respondError(c, l, "wishlist_remove_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Removed from wishlist"})
}
