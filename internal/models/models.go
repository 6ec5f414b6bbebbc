package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceScale is the number of decimal places stored for money columns.
const PriceScale = 2

type Category struct {
	ID   uint   `gorm:"primaryKey"          json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// Product quantity is the live stock counter. Checkout and cancellation only
// touch it through the inventory ledger.
type Product struct {
	ID          uint            `gorm:"primaryKey"                          json:"id"`
	Name        string          `gorm:"not null"                            json:"name"`
	Description string          `                                           json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"         json:"price"`
	Quantity    int             `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
	CategoryID  *uint           `gorm:"index"                               json:"category_id,omitempty"`
	Category    *Category       `gorm:"constraint:OnDelete:SET NULL"        json:"category,omitempty"`
	ImageURL    string          `                                           json:"image_url"`
	CreatedAt   time.Time       `                                           json:"created_at"`
	UpdatedAt   time.Time       `                                           json:"updated_at"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                                   json:"id"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_cart_user_product"   json:"user_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_cart_user_product"   json:"product_id"`
	Quantity  int  `gorm:"not null;default:1;check:quantity > 0"        json:"quantity"`
}

type WishlistItem struct {
	ID        uint      `gorm:"primaryKey"                                       json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_product"   json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_product"   json:"product_id"`
	Product   *Product  `gorm:"constraint:OnDelete:CASCADE"                      json:"-"`
	CreatedAt time.Time `                                                        json:"created_at"`
}

// Address is a delivery address a user saved at checkout.
type Address struct {
	ID        uint      `gorm:"primaryKey"                                json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_address_user_text" json:"user_id"`
	Address   string    `gorm:"not null;uniqueIndex:idx_address_user_text" json:"address"`
	CreatedAt time.Time `                                                 json:"created_at"`
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusShipped   OrderStatus = "Shipped"
	StatusDelivered OrderStatus = "Delivered"
	StatusCanceled  OrderStatus = "Canceled"
)

// Terminal statuses never change again.
func (s OrderStatus) Terminal() bool {
	return s == StatusCanceled || s == StatusDelivered
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusShipped, StatusDelivered, StatusCanceled:
		return true
	}
	return false
}

// TerminalStatuses is the list used in conditional status updates.
var TerminalStatuses = []OrderStatus{StatusCanceled, StatusDelivered}

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "Unpaid"
	PaymentPaid   PaymentStatus = "Paid"
)

type Order struct {
	ID              uint            `gorm:"primaryKey"                        json:"id"`
	OrderGroupID    string          `gorm:"index;not null"                    json:"order_group_id"`
	ReorderedFromID *uint           `gorm:"index"                             json:"reordered_from_id,omitempty"`
	UserID          uint            `gorm:"index;not null"                    json:"user_id"`
	TotalPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null"       json:"total_price"`

	Name          string `gorm:"not null" json:"name"`
	Phone         string `                json:"phone"`
	Email         string `                json:"email"`
	Address       string `                json:"address"`
	PaymentMethod string `                json:"payment_method"`

	Status           OrderStatus   `gorm:"type:varchar(16);not null;default:Pending;index" json:"status"`
	PaymentStatus    PaymentStatus `gorm:"type:varchar(16);not null;default:Unpaid"       json:"payment_status"`
	PaymentReference string        `                                                     json:"payment_reference,omitempty"`

	OrderDate       time.Time  `gorm:"not null" json:"order_date"`
	StatusUpdatedAt *time.Time `                json:"status_updated_at,omitempty"`

	TrackingID         *string `gorm:"uniqueIndex" json:"tracking_id,omitempty"`
	CourierName        string  `                   json:"courier_name,omitempty"`
	CourierTrackingURL string  `                   json:"courier_tracking_url,omitempty"`
	EstimatedDelivery  string  `                   json:"estimated_delivery,omitempty"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

type OrderItem struct {
	ID           uint            `gorm:"primaryKey"                   json:"id"`
	OrderID      uint            `gorm:"index;not null"               json:"order_id"`
	ProductID    uint            `gorm:"index;not null"               json:"product_id"`
	Quantity     int             `gorm:"not null;check:quantity > 0"  json:"quantity"`
	Price        decimal.Decimal `gorm:"type:numeric(12,2);not null"  json:"price"`
	ProductName  string          `                                    json:"product_name"`
	ProductImage string          `                                    json:"product_image"`
}

// LineTotal is quantity times unit price.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// InvoiceDelivery records the outcome of one invoice email attempt.
type InvoiceDelivery struct {
	ID        uint        `gorm:"primaryKey"     json:"id"`
	OrderID   uint        `gorm:"index;not null" json:"order_id"`
	UserID    uint        `gorm:"not null"       json:"user_id"`
	Status    OrderStatus `gorm:"type:varchar(16)" json:"status"`
	Recipient string      `                      json:"recipient"`
	Sent      bool        `                      json:"sent"`
	Error     string      `                      json:"error,omitempty"`
	CreatedAt time.Time   `                      json:"created_at"`
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&Category{},
		&Product{},
		&CartItem{},
		&WishlistItem{},
		&Address{},
		&Order{},
		&OrderItem{},
		&InvoiceDelivery{},
	}
}
