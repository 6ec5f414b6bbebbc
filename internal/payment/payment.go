// Package payment verifies gateway payment signatures and records the
// outcome on the order.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/hoversale/internal/models"
	"github.com/Skotchmaster/hoversale/internal/orders"
	"github.com/Skotchmaster/hoversale/pkg/logging"
)

var (
	ErrInvalidRequest    = errors.New("invalid payment request")
	ErrSignatureMismatch = errors.New("signature verification failed")
	ErrNotFound          = errors.New("order not found")
)

type Service struct {
	Orders    *orders.Store
	KeyID     string
	KeySecret []byte
}

type Confirmation struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
	// OrderID is optional. When set the order is marked Paid.
	OrderID uint
	// UserID, when set, must own OrderID.
	UserID uint
}

func Sign(secret []byte, gatewayOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *Service) Verify(gatewayOrderID, paymentID, signature string) error {
	if gatewayOrderID == "" || paymentID == "" || signature == "" {
		return fmt.Errorf("%w: missing gateway fields", ErrInvalidRequest)
	}
	want := Sign(s.KeySecret, gatewayOrderID, paymentID)
	if !hmac.Equal([]byte(want), []byte(strings.ToLower(signature))) {
		return ErrSignatureMismatch
	}
	return nil
}

func (s *Service) Confirm(ctx context.Context, in Confirmation) error {
	l := logging.FromContext(ctx).With("component", "payment", "order_id", in.OrderID)

	if err := s.Verify(in.GatewayOrderID, in.PaymentID, in.Signature); err != nil {
		if errors.Is(err, ErrSignatureMismatch) {
			l.Warn("payment_signature_mismatch", "payment_id", in.PaymentID)
		}
		return err
	}
	if in.OrderID == 0 {
		l.Info("payment_verified", "payment_id", in.PaymentID)
		return nil
	}

	if in.UserID != 0 {
		if _, err := s.Orders.GetForUser(ctx, in.OrderID, in.UserID); err != nil {
			return mapStore(err)
		}
	}
	if err := s.Orders.SetPaymentStatus(ctx, in.OrderID, models.PaymentPaid, in.PaymentID); err != nil {
		return mapStore(err)
	}
	l.Info("payment_verified", "payment_id", in.PaymentID, "payment_status", models.PaymentPaid)
	return nil
}

// SetStatus is the admin override.
func (s *Service) SetStatus(ctx context.Context, orderID uint, status models.PaymentStatus) error {
	if status != models.PaymentPaid && status != models.PaymentUnpaid {
		return fmt.Errorf("%w: payment status %q", ErrInvalidRequest, status)
	}
	return mapStore(s.Orders.SetPaymentStatus(ctx, orderID, status, ""))
}

func mapStore(err error) error {
	if errors.Is(err, orders.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
