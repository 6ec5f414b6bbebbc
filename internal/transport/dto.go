package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/hoversale/internal/checkout"
)

type PlaceOrderItem struct {
	ProductID    uint             `json:"productId"`
	Quantity     int              `json:"quantity"`
	Price        *decimal.Decimal `json:"price"`
	ProductName  string           `json:"productName"`
	ProductImage string           `json:"productImage"`
}

type PlaceOrderRequest struct {
	UserID        uint             `json:"userId"`
	Name          string           `json:"name"`
	Phone         string           `json:"phone"`
	Email         string           `json:"email"`
	Address       string           `json:"address"`
	PaymentMethod string           `json:"paymentMethod"`
	Items         []PlaceOrderItem `json:"items"`
}

func (r PlaceOrderRequest) Input() checkout.PlaceOrderInput {
	in := checkout.PlaceOrderInput{
		UserID:        r.UserID,
		Contact:       checkout.Contact{Name: r.Name, Phone: r.Phone, Email: r.Email, Address: r.Address},
		PaymentMethod: r.PaymentMethod,
	}
	for _, it := range r.Items {
		in.Items = append(in.Items, checkout.Line{
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			Price:        it.Price,
			ProductName:  it.ProductName,
			ProductImage: it.ProductImage,
		})
	}
	return in
}

type ReorderCustomItem struct {
	ProductID    uint             `json:"product_id"`
	Quantity     int              `json:"quantity"`
	Price        *decimal.Decimal `json:"price"`
	ProductName  string           `json:"product_name"`
	ProductImage string           `json:"product_image"`
}

type ReorderCustomRequest struct {
	UserID        uint                `json:"user_id"`
	Name          string              `json:"name"`
	Email         string              `json:"email"`
	Phone         string              `json:"phone"`
	Address       string              `json:"address"`
	PaymentMethod string              `json:"payment_method"`
	Items         []ReorderCustomItem `json:"items"`
}

func (r ReorderCustomRequest) Input() checkout.PlaceOrderInput {
	in := checkout.PlaceOrderInput{
		UserID:        r.UserID,
		Contact:       checkout.Contact{Name: r.Name, Phone: r.Phone, Email: r.Email, Address: r.Address},
		PaymentMethod: r.PaymentMethod,
	}
	for _, it := range r.Items {
		in.Items = append(in.Items, checkout.Line{
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			Price:        it.Price,
			ProductName:  it.ProductName,
			ProductImage: it.ProductImage,
		})
	}
	return in
}

type PlaceOrderResponse struct {
	Message string `json:"message"`
	OrderID uint   `json:"orderId"`
}

type EmailInvoiceRequest struct {
	OrderID uint `json:"orderId"`
	UserID  uint `json:"userId"`
}

type UserStatusRequest struct {
	Status string `json:"status"`
	UserID uint   `json:"userId"`
}

type AdminStatusRequest struct {
	Status             string `json:"status"`
	TrackingID         string `json:"tracking_id"`
	CourierName        string `json:"courier_name"`
	CourierTrackingURL string `json:"courier_tracking_url"`
	EstimatedDelivery  string `json:"estimated_delivery"`
}

type PaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status"`
}

type CartItemRequest struct {
	UserID    uint `json:"userId"`
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

type CartRemoveRequest struct {
	UserID    uint `json:"userId"`
	ProductID uint `json:"productId"`
}

type WishlistRequest struct {
	UserID    uint `json:"userId"`
	ProductID uint `json:"productId"`
}

type AddressRequest struct {
	UserID  uint   `json:"userId"`
	Address string `json:"address"`
}

type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	CategoryID  *uint           `json:"category_id"`
	ImageURL    string          `json:"image_url"`
}

type CategoryRequest struct {
	Name string `json:"name"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	OrderID           uint   `json:"orderId"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
