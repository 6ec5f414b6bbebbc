package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderView is the read model returned to customers: the order header with
// items nested underneath.
type OrderView struct {
	ID                 uint            `json:"id"`
	OrderGroupID       string          `json:"order_group_id"`
	ReorderedFromID    *uint           `json:"reordered_from_id,omitempty"`
	UserID             uint            `json:"user_id"`
	TotalPrice         decimal.Decimal `json:"total_price"`
	Status             string          `json:"status"`
	PaymentStatus      string          `json:"payment_status"`
	PaymentMethod      string          `json:"payment_method"`
	OrderDate          time.Time       `json:"order_date"`
	StatusUpdatedAt    *time.Time      `json:"status_updated_at,omitempty"`
	Name               string          `json:"name"`
	Phone              string          `json:"phone"`
	Email              string          `json:"email"`
	Address            string          `json:"address"`
	TrackingID         *string         `json:"tracking_id,omitempty"`
	CourierName        string          `json:"courier_name"`
	CourierTrackingURL string          `json:"courier_tracking_url"`
	EstimatedDelivery  string          `json:"estimated_delivery"`
	Items              []ItemView      `json:"items"`
}

type ItemView struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"product_id"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	ProductName string          `json:"product_name"`
	ImageURL    string          `json:"image_url"`
	Stock       int             `json:"stock"`
}

// joinedRow is one row of the orders x order_items x products projection.
type joinedRow struct {
	OrderID            uint
	OrderGroupID       string
	ReorderedFromID    *uint
	UserID             uint
	TotalPrice         decimal.Decimal
	Status             string
	PaymentStatus      string
	PaymentMethod      string
	OrderDate          time.Time
	StatusUpdatedAt    *time.Time
	Name               string
	Phone              string
	Email              string
	Address            string
	TrackingID         *string
	CourierName        string
	CourierTrackingURL string
	EstimatedDelivery  string

	ItemID       *uint
	ProductID    *uint
	Quantity     *int
	ItemPrice    decimal.NullDecimal
	ProductName  *string
	ProductImage *string
	CatalogName  *string
	CatalogImage *string
	CatalogStock *int
}

const joinedSelect = `
orders.id AS order_id, orders.order_group_id, orders.reordered_from_id, orders.user_id,
orders.total_price, orders.status, orders.payment_status, orders.payment_method,
orders.order_date, orders.status_updated_at, orders.name, orders.phone, orders.email,
orders.address, orders.tracking_id, orders.courier_name, orders.courier_tracking_url,
orders.estimated_delivery,
order_items.id AS item_id, order_items.product_id, order_items.quantity,
order_items.price AS item_price, order_items.product_name, order_items.product_image,
products.name AS catalog_name, products.image_url AS catalog_image,
products.quantity AS catalog_stock`

func (s *Store) joined(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Table("orders").
		Select(joinedSelect).
		Joins("LEFT JOIN order_items ON order_items.order_id = orders.id").
		Joins("LEFT JOIN products ON products.id = order_items.product_id")
}

// ListByUser returns the user's orders newest first.
func (s *Store) ListByUser(ctx context.Context, userID uint) ([]OrderView, error) {
	var rows []joinedRow
	err := s.joined(ctx).
		Where("orders.user_id = ?", userID).
		Order("orders.order_date DESC, orders.id DESC, order_items.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list orders for user %d: %w", userID, err)
	}
	return groupRows(rows), nil
}

const (
	DefaultCourier    = "HoverExpress"
	DeliveryNotSetYet = "To be updated"
)

// GetByTrackingID fills in the default courier and delivery estimate when
// the admin has not set them.
func (s *Store) GetByTrackingID(ctx context.Context, trackingID string) (*OrderView, error) {
	var rows []joinedRow
	err := s.joined(ctx).
		Where("orders.tracking_id = ?", trackingID).
		Order("order_items.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("track order %q: %w", trackingID, err)
	}
	views := groupRows(rows)
	if len(views) == 0 {
		return nil, fmt.Errorf("%w: tracking id %q", ErrNotFound, trackingID)
	}
	v := &views[0]
	v.CourierName = firstNonEmpty(v.CourierName, DefaultCourier)
	v.EstimatedDelivery = firstNonEmpty(v.EstimatedDelivery, DeliveryNotSetYet)
	return v, nil
}

// groupRows folds a flat join into nested views. Orders keep the order in
// which they first appear; items keep row order within their order.
func groupRows(rows []joinedRow) []OrderView {
	out := make([]OrderView, 0)
	index := make(map[uint]int)

	for _, r := range rows {
		i, ok := index[r.OrderID]
		if !ok {
			out = append(out, OrderView{
				ID:                 r.OrderID,
				OrderGroupID:       r.OrderGroupID,
				ReorderedFromID:    r.ReorderedFromID,
				UserID:             r.UserID,
				TotalPrice:         r.TotalPrice,
				Status:             r.Status,
				PaymentStatus:      r.PaymentStatus,
				PaymentMethod:      r.PaymentMethod,
				OrderDate:          r.OrderDate,
				StatusUpdatedAt:    r.StatusUpdatedAt,
				Name:               r.Name,
				Phone:              r.Phone,
				Email:              r.Email,
				Address:            r.Address,
				TrackingID:         r.TrackingID,
				CourierName:        r.CourierName,
				CourierTrackingURL: r.CourierTrackingURL,
				EstimatedDelivery:  r.EstimatedDelivery,
				Items:              []ItemView{},
			})
			i = len(out) - 1
			index[r.OrderID] = i
		}

		if r.ItemID == nil {
			continue
		}
		out[i].Items = append(out[i].Items, ItemView{
			ID:          *r.ItemID,
			ProductID:   deref(r.ProductID),
			Quantity:    deref(r.Quantity),
			Price:       r.ItemPrice.Decimal,
			ProductName: firstNonEmpty(deref(r.ProductName), deref(r.CatalogName)),
			ImageURL:    firstNonEmpty(deref(r.ProductImage), deref(r.CatalogImage)),
			Stock:       deref(r.CatalogStock),
		})
	}
	return out
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
