package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hoversale/internal/payment"
	"github.com/Skotchmaster/hoversale/internal/transport"
	"github.com/Skotchmaster/hoversale/pkg/logging"
	authmw "github.com/Skotchmaster/hoversale/pkg/middleware/auth"
)

type PaymentHTTP struct {
	Svc *payment.Service
}

func (h *PaymentHTTP) VerifyPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.verify")

	var req transport.VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "verify_payment_error", "invalid body", err)
	}

	in := payment.Confirmation{
		GatewayOrderID: req.RazorpayOrderID,
		PaymentID:      req.RazorpayPaymentID,
		Signature:      req.RazorpaySignature,
		OrderID:        req.OrderID,
	}
	if !authmw.IsAdmin(c) {
		userID, err := authmw.UserID(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		in.UserID = userID
	}

	if err := h.Svc.Confirm(ctx, in); err != nil {
		code, reason := classify(err)
		l.Warn("verify_payment_error", "status", code, "reason", reason, "error", err)
		return c.JSON(code, echo.Map{"success": false, "message": reason})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *PaymentHTTP) Key(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"key": h.Svc.KeyID})
}
