package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hoversale/internal/address"
	"github.com/Skotchmaster/hoversale/internal/cart"
	"github.com/Skotchmaster/hoversale/internal/catalog"
	"github.com/Skotchmaster/hoversale/internal/checkout"
	"github.com/Skotchmaster/hoversale/internal/orders"
	"github.com/Skotchmaster/hoversale/internal/payment"
	"github.com/Skotchmaster/hoversale/internal/transport"
	"github.com/Skotchmaster/hoversale/internal/wishlist"
	authmw "github.com/Skotchmaster/hoversale/pkg/middleware/auth"
)

var errForbidden = errors.New("forbidden")

// classify maps domain errors to a status code and a short public reason.
// Server side kinds are checked first because a Failure also unwraps to its
// cause.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, checkout.ErrPersistFailed):
		return http.StatusInternalServerError, "failed to place order"
	case errors.Is(err, checkout.ErrCancelFailed):
		return http.StatusInternalServerError, "failed to cancel order"
	case errors.Is(err, checkout.ErrNotifyFailed):
		return http.StatusInternalServerError, "failed to send invoice"
	case errors.Is(err, checkout.ErrStorage):
		return http.StatusInternalServerError, "internal error"

	case errors.Is(err, checkout.ErrOutOfStock):
		return http.StatusConflict, "out of stock"
	case errors.Is(err, catalog.ErrConflict):
		return http.StatusConflict, "already exists"
	case errors.Is(err, checkout.ErrForbidden), errors.Is(err, errForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, checkout.ErrNotFound),
		errors.Is(err, orders.ErrNotFound),
		errors.Is(err, cart.ErrNotFound),
		errors.Is(err, wishlist.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, payment.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, checkout.ErrTerminalState):
		return http.StatusBadRequest, "order is already canceled or delivered"
	case errors.Is(err, payment.ErrSignatureMismatch):
		return http.StatusBadRequest, "signature verification failed"
	case errors.Is(err, checkout.ErrInvalidRequest),
		errors.Is(err, checkout.ErrInvalidTransition),
		errors.Is(err, cart.ErrValidation),
		errors.Is(err, wishlist.ErrValidation),
		errors.Is(err, address.ErrValidation),
		errors.Is(err, catalog.ErrValidation),
		errors.Is(err, payment.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid request"
	}
	return http.StatusInternalServerError, "internal error"
}

// respondError writes the classified error. Details carry the cause for
// client errors only; server errors are logged, not echoed.
func respondError(c echo.Context, l *slog.Logger, event string, err error) error {
	code, reason := classify(err)
	if code >= http.StatusInternalServerError {
		l.Error(event, "status", code, "reason", reason, "error", err)
		return c.JSON(code, transport.ErrorResponse{Error: reason})
	}
	l.Warn(event, "status", code, "reason", reason, "error", err)
	return c.JSON(code, transport.ErrorResponse{Error: reason, Details: err.Error()})
}

func badRequest(c echo.Context, l *slog.Logger, event, reason string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", reason, "error", err)
	return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: reason})
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return uint(id), nil
}

func actorOf(c echo.Context) (checkout.Actor, error) {
	id, err := authmw.UserID(c)
	if err != nil {
		return checkout.Actor{}, err
	}
	return checkout.Actor{UserID: id, Admin: authmw.IsAdmin(c)}, nil
}

// ownUser resolves the user a request acts for. Zero means the caller;
// anyone else requires admin.
func ownUser(c echo.Context, requested uint) (uint, error) {
	a, err := actorOf(c)
	if err != nil {
		return 0, err
	}
	if requested == 0 {
		return a.UserID, nil
	}
	if !a.CanAccess(requested) {
		return 0, errForbidden
	}
	return requested, nil
}
