package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hoversale/internal/address"
	"github.com/Skotchmaster/hoversale/internal/transport"
	"github.com/Skotchmaster/hoversale/pkg/logging"
)

type AddressHTTP struct {
	Svc *address.AddressService
}

func (h *AddressHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.list")

	requested, err := parseID(c, "userId")
	if err != nil {
		return badRequest(c, l, "address_list_error", "invalid user id", err)
	}
	userID, err := ownUser(c, requested)
	if err != nil {
		return respondError(c, l, "address_list_error", err)
	}

	addresses, err := h.Svc.List(ctx, userID)
	if err != nil {
		return respondError(c, l, "address_list_error", err)
	}
	return c.JSON(http.StatusOK, addresses)
}

func (h *AddressHTTP) Save(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.save")

	var req transport.AddressRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "address_save_error", "invalid body", err)
	}
	userID, err := ownUser(c, req.UserID)
	if err != nil {
		return respondError(c, l, "address_save_error", err)
	}

	if err := h.Svc.Save(ctx, userID, req.Address); err != nil {
		return respondError(c, l, "address_save_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
