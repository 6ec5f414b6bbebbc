package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/hoversale/internal/address"
	"github.com/Skotchmaster/hoversale/internal/cart"
	"github.com/Skotchmaster/hoversale/internal/catalog"
	"github.com/Skotchmaster/hoversale/internal/checkout"
	"github.com/Skotchmaster/hoversale/internal/models"
	"github.com/Skotchmaster/hoversale/internal/orders"
	"github.com/Skotchmaster/hoversale/internal/payment"
	"github.com/Skotchmaster/hoversale/internal/testdb"
	"github.com/Skotchmaster/hoversale/internal/transport"
	"github.com/Skotchmaster/hoversale/internal/wishlist"
	"github.com/Skotchmaster/hoversale/pkg/tokens"
)

var jwtSecret = []byte("handler-test-secret")

type recordingNotifier struct {
	mu       sync.Mutex
	statuses []models.OrderStatus
	err      error
}

func (n *recordingNotifier) Notify(_ context.Context, _, _ uint, status models.OrderStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statuses = append(n.statuses, status)
}

func (n *recordingNotifier) Deliver(_ context.Context, _, _ uint, _ models.OrderStatus) error {
	return n.err
}

type testEnv struct {
	DB       *gorm.DB
	E        *echo.Echo
	Notifier *recordingNotifier
	Payments *payment.Service
	Orders   *OrderHTTP
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testdb.Open(t)

	carts := &cart.CartService{Repo: &cart.GormRepo{DB: db}}
	notifier := &recordingNotifier{}
	flow := checkout.New(db, carts, notifier)
	store := &orders.Store{DB: db}
	payments := &payment.Service{Orders: store, KeyID: "rzp_test_key", KeySecret: []byte("rzp-secret")}

	env := &testEnv{
		DB:       db,
		E:        echo.New(),
		Notifier: notifier,
		Payments: payments,
		Orders:   &OrderHTTP{Flow: flow, Orders: store},
	}
	Register(env.E, &Deps{
		DB:              db,
		OrderHandler:    env.Orders,
		AdminHandler:    &AdminOrdersHTTP{Flow: flow, Orders: store, Payments: payments},
		CartHandler:     &CartHTTP{Svc: carts},
		WishlistHandler: &WishlistHTTP{Svc: &wishlist.WishlistService{Repo: &wishlist.GormRepo{DB: db}}},
		AddressHandler:  &AddressHTTP{Svc: &address.AddressService{Repo: &address.GormRepo{DB: db}}},
		CatalogHandler:  &CatalogHTTP{Svc: &catalog.CatalogService{Repo: &catalog.GormRepo{DB: db}}, Orders: store},
		PaymentHandler:  &PaymentHTTP{Svc: payments},
		JWTSecret:       jwtSecret,
	})
	return env
}

func token(t *testing.T, userID uint, role string) string {
	t.Helper()
	tok, err := tokens.NewAccessToken(fmt.Sprint(userID), role, time.Now().Add(time.Hour), jwtSecret)
	require.NoError(t, err)
	return tok
}

func (env *testEnv) do(t *testing.T, method, path string, body any, tok string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if tok != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func placeBody(userID, productID uint, qty int, price string) map[string]any {
	return map[string]any{
		"userId":        userID,
		"name":          "Asha",
		"phone":         "555",
		"email":         "asha@example.com",
		"address":       "12 Main St",
		"paymentMethod": "COD",
		"items": []map[string]any{
			{"productId": productID, "quantity": qty, "price": price},
		},
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/live", nil, "").Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/ready", nil, "").Code)
}

func TestPlaceAndCancelOrder(t *testing.T) {
	env := newTestEnv(t)
	p := testdb.SeedProduct(t, env.DB, "board", "10.00", 5)
	user := token(t, 1, tokens.RoleUser)

	rec := env.do(t, http.MethodPost, "/api/order/place", placeBody(1, p.ID, 2, "10.00"), user)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	placed := decode[struct {
		Message string `json:"message"`
		OrderID uint   `json:"orderId"`
	}](t, rec)
	assert.NotZero(t, placed.OrderID)
	assert.Equal(t, 3, testdb.Stock(t, env.DB, p.ID))

	rec = env.do(t, http.MethodGet, "/api/order/user/1", nil, user)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Orders []orders.OrderView `json:"orders"`
	}](t, rec)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, "Pending", list.Orders[0].Status)
	require.Len(t, list.Orders[0].Items, 1)
	assert.Equal(t, 2, list.Orders[0].Items[0].Quantity)

	path := fmt.Sprintf("/api/order/%d/cancel", placed.OrderID)
	rec = env.do(t, http.MethodPatch, path, nil, user)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 5, testdb.Stock(t, env.DB, p.ID))

	rec = env.do(t, http.MethodPatch, path, nil, user)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPatch, "/api/order/999/cancel", nil, user).Code)
}

func TestPlaceOrder_Errors(t *testing.T) {
	env := newTestEnv(t)
	p := testdb.SeedProduct(t, env.DB, "board", "10.00", 1)
	user := token(t, 1, tokens.RoleUser)

	tests := []struct {
		name   string
		body   any
		tok    string
		status int
		reason string
	}{
		{name: "no token", body: placeBody(1, p.ID, 1, "10.00"), status: http.StatusUnauthorized},
		{name: "out of stock", body: placeBody(1, p.ID, 2, "10.00"), tok: user, status: http.StatusConflict, reason: "out of stock"},
		{name: "someone else", body: placeBody(2, p.ID, 1, "10.00"), tok: user, status: http.StatusForbidden, reason: "forbidden"},
		{name: "no items", body: map[string]any{"userId": 1}, tok: user, status: http.StatusBadRequest, reason: "invalid request"},
		{name: "unknown product", body: placeBody(1, 999, 1, "10.00"), tok: user, status: http.StatusNotFound, reason: "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/order/place", tt.body, tt.tok)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.reason != "" {
				body := decode[map[string]any](t, rec)
				assert.Equal(t, tt.reason, body["error"])
			}
		})
	}
	assert.Equal(t, 1, testdb.Stock(t, env.DB, p.ID))
}

func TestUserOrders_Forbidden(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/order/user/1", nil, token(t, 2, tokens.RoleUser))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/order/user/1", nil, token(t, 9, tokens.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, []any{}, body["orders"])
}

func TestReorderEndpoints(t *testing.T) {
	env := newTestEnv(t)
	p := testdb.SeedProduct(t, env.DB, "board", "10.00", 10)
	user := token(t, 1, tokens.RoleUser)

	rec := env.do(t, http.MethodPost, "/api/order/place", placeBody(1, p.ID, 1, "10.00"), user)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[map[string]any](t, rec)["orderId"]

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/api/order/reorder/%v", id), nil, user)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 8, testdb.Stock(t, env.DB, p.ID))

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/api/order/reorder/%v", id), nil, token(t, 2, tokens.RoleUser))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	custom := map[string]any{
		"user_id": 1, "name": "Asha", "email": "a@example.com", "phone": "1", "address": "x", "payment_method": "UPI",
		"items": []map[string]any{{"product_id": p.ID, "quantity": 3, "price": "9.50"}},
	}
	rec = env.do(t, http.MethodPost, "/api/order/reorder-custom", custom, user)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 5, testdb.Stock(t, env.DB, p.ID))

	delete(custom, "address")
	rec = env.do(t, http.MethodPost, "/api/order/reorder-custom", custom, user)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminStatusAndTracking(t *testing.T) {
	env := newTestEnv(t)
	p := testdb.SeedProduct(t, env.DB, "board", "10.00", 5)
	user := token(t, 1, tokens.RoleUser)
	admin := token(t, 100, tokens.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/api/order/place", placeBody(1, p.ID, 1, "10.00"), user)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[map[string]any](t, rec)["orderId"]
	statusPath := fmt.Sprintf("/api/admin/orders/%v/status", id)

	rec = env.do(t, http.MethodPut, statusPath, map[string]any{"status": "Shipped", "tracking_id": "TRK-1"}, user)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPut, statusPath, map[string]any{"status": "Shipped", "tracking_id": "TRK-1"}, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/order/track/TRK-1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	tracked := decode[struct {
		Success bool             `json:"success"`
		Order   orders.OrderView `json:"order"`
	}](t, rec)
	assert.True(t, tracked.Success)
	assert.Equal(t, "Shipped", tracked.Order.Status)
	assert.Equal(t, orders.DefaultCourier, tracked.Order.CourierName)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/order/track/nope", nil, "").Code)

	rec = env.do(t, http.MethodPut, statusPath, map[string]any{"status": "Lost"}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, statusPath, map[string]any{"status": "Shipped"}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "repeating a status is rejected")
	assert.NotEmpty(t, decode[transport.ErrorResponse](t, rec).Details)

	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/api/order/%v/status", id), map[string]any{"status": "Delivered"}, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPut, statusPath, map[string]any{"status": "Canceled"}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "delivered orders stay delivered")
	assert.Equal(t, 4, testdb.Stock(t, env.DB, p.ID))

	rec = env.do(t, http.MethodGet, "/api/admin/orders/stats", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[map[string]int](t, rec)
	assert.Equal(t, 1, stats["Delivered"])

	env.Notifier.mu.Lock()
	assert.Equal(t, []models.OrderStatus{models.StatusPending, models.StatusShipped, models.StatusDelivered}, env.Notifier.statuses)
	env.Notifier.mu.Unlock()
}

func TestAdminCancelRestoresStock(t *testing.T) {
	env := newTestEnv(t)
	p := testdb.SeedProduct(t, env.DB, "board", "10.00", 5)
	admin := token(t, 100, tokens.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/api/order/place", placeBody(1, p.ID, 4, "10.00"), token(t, 1, tokens.RoleUser))
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[map[string]any](t, rec)["orderId"]

	rec = env.do(t, http.MethodPut, fmt.Sprintf("/api/admin/orders/%v/status", id), map[string]any{"status": "Canceled"}, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 5, testdb.Stock(t, env.DB, p.ID))
}

func TestEmailInvoiceEndpoint(t *testing.T) {
	env := newTestEnv(t)
	p := testdb.SeedProduct(t, env.DB, "board", "10.00", 5)
	user := token(t, 1, tokens.RoleUser)

	rec := env.do(t, http.MethodPost, "/api/order/place", placeBody(1, p.ID, 1, "10.00"), user)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[map[string]any](t, rec)["orderId"]

	rec = env.do(t, http.MethodPost, "/api/order/email-invoice", map[string]any{"orderId": id, "userId": 1}, user)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env.Notifier.err = fmt.Errorf("smtp down")
	rec = env.do(t, http.MethodPost, "/api/order/email-invoice", map[string]any{"orderId": id, "userId": 1}, user)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	failed := decode[transport.ErrorResponse](t, rec)
	assert.Equal(t, "failed to send invoice", failed.Error)
	assert.Empty(t, failed.Details, "server side causes stay in the log")
	assert.NotContains(t, rec.Body.String(), "smtp down")

	rec = env.do(t, http.MethodPost, "/api/order/email-invoice", map[string]any{"userId": 1}, user)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartEndpoints(t *testing.T) {
	env := newTestEnv(t)
	p := testdb.SeedProduct(t, env.DB, "board", "10.00", 5)
	user := token(t, 1, tokens.RoleUser)

	rec := env.do(t, http.MethodPost, "/api/cart", map[string]any{"userId": 1, "productId": p.ID, "quantity": 2}, user)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPut, "/api/cart/update", map[string]any{"userId": 1, "productId": p.ID, "quantity": 3}, user)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/cart/1", nil, user)
	require.Equal(t, http.StatusOK, rec.Code)
	lines := decode[[]cart.Line](t, rec)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 5, lines[0].Stock)

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/api/cart/2", nil, user).Code)

	rec = env.do(t, http.MethodPost, "/api/cart", map[string]any{"productId": p.ID, "quantity": 0}, user)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/cart", map[string]any{"userId": 1, "productId": p.ID}, user)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodDelete, "/api/cart", map[string]any{"userId": 1, "productId": p.ID}, user)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWishlistEndpoints(t *testing.T) {
	env := newTestEnv(t)
	p := testdb.SeedProduct(t, env.DB, "board", "10.00", 5)
	user := token(t, 1, tokens.RoleUser)
	admin := token(t, 100, tokens.RoleAdmin)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/wishlist/1", nil, "").Code)

	for i := 0; i < 2; i++ {
		rec := env.do(t, http.MethodPost, "/api/wishlist", map[string]any{"userId": 1, "productId": p.ID}, user)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	rec := env.do(t, http.MethodPost, "/api/wishlist", map[string]any{"userId": 1, "productId": 999}, user)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/wishlist", map[string]any{"userId": 2, "productId": p.ID}, user)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/wishlist/1", nil, user)
	require.Equal(t, http.StatusOK, rec.Code)
	wished := decode[[]models.Product](t, rec)
	require.Len(t, wished, 1)
	assert.Equal(t, "board", wished[0].Name)

	rec = env.do(t, http.MethodGet, "/api/wishlist/1", nil, admin)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/wishlist", map[string]any{"userId": 1, "productId": p.ID}, user)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodDelete, "/api/wishlist", map[string]any{"userId": 1, "productId": p.ID}, user)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, http.MethodDelete, "/api/wishlist", map[string]any{"userId": 1}, user)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/wishlist/1", nil, user)
	assert.Empty(t, decode[[]models.Product](t, rec))
}

func TestAddressEndpoints(t *testing.T) {
	env := newTestEnv(t)
	user := token(t, 1, tokens.RoleUser)

	rec := env.do(t, http.MethodPost, "/api/user-addresses", map[string]any{"userId": 1, "address": "12 Main St"}, user)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode[map[string]any](t, rec)["success"])

	rec = env.do(t, http.MethodPost, "/api/user-addresses", map[string]any{"userId": 1}, user)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/user-addresses", map[string]any{"userId": 2, "address": "x"}, user)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/user-addresses/1", nil, user)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"12 Main St"}, decode[[]string](t, rec))

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/api/user-addresses/2", nil, user).Code)
}

func TestCatalogEndpoints(t *testing.T) {
	env := newTestEnv(t)
	admin := token(t, 100, tokens.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/api/admin/categories", map[string]any{"name": "Boards"}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cat := decode[models.Category](t, rec)

	rec = env.do(t, http.MethodPost, "/api/admin/categories", map[string]any{"name": "boards"}, admin)
	assert.Equal(t, http.StatusConflict, rec.Code)

	product := map[string]any{"name": "Hoverboard", "description": "self balancing", "price": "199.99", "quantity": 3, "category_id": cat.ID, "image_url": "/img/h.png"}
	rec = env.do(t, http.MethodPost, "/api/admin/products", product, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[map[string]any](t, rec)["id"]

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPost, "/api/admin/products", product, token(t, 1, tokens.RoleUser)).Code)

	rec = env.do(t, http.MethodGet, "/api/products?page=1&size=10", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, rec)["total"])

	rec = env.do(t, http.MethodGet, "/api/products/BOARDS", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Product](t, rec), 1)

	rec = env.do(t, http.MethodGet, "/api/products/search?q=hover", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, rec)["total"])
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/products/search", nil, "").Code)

	rec = env.do(t, http.MethodGet, "/api/categories", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Category](t, rec), 1)

	product["quantity"] = 0
	rec = env.do(t, http.MethodPut, fmt.Sprintf("/api/admin/products/%v", id), product, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/admin/dashboard/out-of-stock-products", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Product](t, rec), 1)

	rec = env.do(t, http.MethodGet, "/api/admin/dashboard", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	dash := decode[map[string]any](t, rec)
	assert.EqualValues(t, 1, dash["products"])
	assert.EqualValues(t, 0, dash["orders"])

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/products/%v", id), nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/products/%v", id), nil, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPaymentEndpoints(t *testing.T) {
	env := newTestEnv(t)
	p := testdb.SeedProduct(t, env.DB, "board", "10.00", 5)
	user := token(t, 1, tokens.RoleUser)

	rec := env.do(t, http.MethodGet, "/api/pay/razorpay-key", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rzp_test_key", decode[map[string]string](t, rec)["key"])

	rec = env.do(t, http.MethodPost, "/api/order/place", placeBody(1, p.ID, 1, "10.00"), user)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[map[string]any](t, rec)["orderId"]

	body := map[string]any{
		"razorpay_order_id":   "order_A",
		"razorpay_payment_id": "pay_B",
		"razorpay_signature":  payment.Sign(env.Payments.KeySecret, "order_A", "pay_B"),
		"orderId":             id,
	}
	rec = env.do(t, http.MethodPost, "/api/pay/verify-payment", body, user)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/order/user/1", nil, user)
	list := decode[struct {
		Orders []orders.OrderView `json:"orders"`
	}](t, rec)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, "Paid", list.Orders[0].PaymentStatus)

	body["razorpay_signature"] = "deadbeef"
	rec = env.do(t, http.MethodPost, "/api/pay/verify-payment", body, user)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, decode[map[string]any](t, rec)["success"])

	admin := token(t, 100, tokens.RoleAdmin)
	rec = env.do(t, http.MethodPut, fmt.Sprintf("/api/admin/orders/%v/payment-status", id), map[string]any{"payment_status": "Unpaid"}, admin)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCancelOrder_DirectContext(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPatch, "/api/order/abc/cancel", nil)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	c.Set("user_id", "1")

	require.NoError(t, env.Orders.CancelOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
