// Package orders persists the order aggregate: an order header together with
// its line items, always written and read as one unit.
package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/hoversale/internal/models"
)

var (
	ErrNotFound      = errors.New("order not found")
	ErrTerminalState = errors.New("order is in a terminal state")
	ErrEmptyOrder    = errors.New("order has no items")
	ErrUnchanged     = errors.New("order already has this status")
)

type Store struct {
	DB  *gorm.DB
	Now func() time.Time
}

func (s *Store) WithTx(tx *gorm.DB) *Store {
	return &Store{DB: tx, Now: s.Now}
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Create inserts the header and every item. Either all rows exist afterwards
// or none do.
func (s *Store) Create(ctx context.Context, o *models.Order) error {
	if len(o.Items) == 0 {
		return ErrEmptyOrder
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = s.now()
	}
	if o.Status == "" {
		o.Status = models.StatusPending
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = models.PaymentUnpaid
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(o).Error
	})
}

func (s *Store) Get(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := s.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetForUser hides orders owned by someone else behind ErrNotFound.
func (s *Store) GetForUser(ctx context.Context, id, userID uint) (*models.Order, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return o, nil
}

// Shipment carries the optional courier details stamped on a status change.
type Shipment struct {
	TrackingID         string
	CourierName        string
	CourierTrackingURL string
	EstimatedDelivery  string
}

func (sh *Shipment) columns(m map[string]any) {
	if sh == nil {
		return
	}
	if sh.TrackingID != "" {
		m["tracking_id"] = sh.TrackingID
	}
	if sh.CourierName != "" {
		m["courier_name"] = sh.CourierName
	}
	if sh.CourierTrackingURL != "" {
		m["courier_tracking_url"] = sh.CourierTrackingURL
	}
	if sh.EstimatedDelivery != "" {
		m["estimated_delivery"] = sh.EstimatedDelivery
	}
}

// TransitionStatus moves a non-terminal order to status to. The terminal
// guard is part of the UPDATE predicate so two racing writers cannot both
// leave a terminal state. Setting the current status again is ErrUnchanged.
func (s *Store) TransitionStatus(ctx context.Context, id uint, to models.OrderStatus, sh *Shipment) error {
	cols := map[string]any{
		"status":            to,
		"status_updated_at": s.now(),
	}
	sh.columns(cols)

	res := s.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status NOT IN ? AND status <> ?", id, models.TerminalStatuses, to).
		Updates(cols)
	if res.Error != nil {
		return fmt.Errorf("update order %d status: %w", id, res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}
	return s.missOrTerminal(ctx, id, to)
}

// Cancel is TransitionStatus to Canceled. At most one concurrent caller wins.
func (s *Store) Cancel(ctx context.Context, id uint) error {
	return s.TransitionStatus(ctx, id, models.StatusCanceled, nil)
}

func (s *Store) missOrTerminal(ctx context.Context, id uint, to models.OrderStatus) error {
	var o models.Order
	err := s.DB.WithContext(ctx).Select("id", "status").First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return err
	}
	if !o.Status.Terminal() && o.Status == to {
		return fmt.Errorf("%w: order %d is %s", ErrUnchanged, id, o.Status)
	}
	return fmt.Errorf("%w: order %d is %s", ErrTerminalState, id, o.Status)
}

func (s *Store) SetPaymentStatus(ctx context.Context, id uint, status models.PaymentStatus, reference string) error {
	cols := map[string]any{"payment_status": status}
	if reference != "" {
		cols["payment_reference"] = reference
	}
	res := s.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}
