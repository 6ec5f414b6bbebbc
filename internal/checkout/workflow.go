// Package checkout drives order placement, cancellation and reorders.
//
// A workflow runs its stages in a fixed sequence:
//
//	validating -> reserving_stock -> persisting -> clearing_cart -> notifying -> done
//
// Stock reservation and order persistence share one storage transaction, so
// a failure at either stage rolls back every reservation already taken.
// Cart cleanup and notification run after commit and never fail the order.
package checkout

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/hoversale/internal/inventory"
	"github.com/Skotchmaster/hoversale/internal/models"
	"github.com/Skotchmaster/hoversale/internal/orders"
	"github.com/Skotchmaster/hoversale/pkg/logging"
)

type CartCleaner interface {
	RemoveProducts(ctx context.Context, userID uint, productIDs []uint) error
}

type Notifier interface {
	// Notify starts an invoice delivery in the background and returns at once.
	Notify(ctx context.Context, orderID, userID uint, status models.OrderStatus)
	// Deliver sends the invoice and reports the outcome.
	Deliver(ctx context.Context, orderID, userID uint, status models.OrderStatus) error
}

type Workflow struct {
	DB       *gorm.DB
	Ledger   *inventory.Ledger
	Orders   *orders.Store
	Carts    CartCleaner
	Notifier Notifier

	NewGroupID func() string
	Now        func() time.Time
}

func New(db *gorm.DB, carts CartCleaner, notifier Notifier) *Workflow {
	return &Workflow{
		DB:       db,
		Ledger:   &inventory.Ledger{DB: db},
		Orders:   &orders.Store{DB: db},
		Carts:    carts,
		Notifier: notifier,
	}
}

type Contact struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// Line is one requested order line. Price is the unit price the customer
// saw; nil means it was not supplied.
type Line struct {
	ProductID    uint
	Quantity     int
	Price        *decimal.Decimal
	ProductName  string
	ProductImage string
}

type PlaceOrderInput struct {
	UserID        uint
	Contact       Contact
	PaymentMethod string
	Items         []Line
}

// Actor is the caller on whose behalf a workflow runs.
type Actor struct {
	UserID uint
	Admin  bool
}

func (a Actor) CanAccess(ownerID uint) bool {
	return a.Admin || (a.UserID != 0 && a.UserID == ownerID)
}

// PlaceOrder checks out the given lines and removes them from the user's cart.
func (w *Workflow) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	if err := validate(in, false); err != nil {
		return nil, err
	}
	return w.run(ctx, w.buildOrder(in, nil), true)
}

// ReorderCustom places an order from a list assembled elsewhere (wishlist,
// saved cart). Contact details are mandatory and the cart is left alone.
func (w *Workflow) ReorderCustom(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	if err := validate(in, true); err != nil {
		return nil, err
	}
	return w.run(ctx, w.buildOrder(in, nil), false)
}

// Reorder places a new order with the lines, prices and contact details of
// an existing one. Stock is reserved exactly as for a fresh checkout.
func (w *Workflow) Reorder(ctx context.Context, sourceID uint, actor Actor) (*models.Order, error) {
	src, err := w.Orders.Get(ctx, sourceID)
	if errors.Is(err, orders.ErrNotFound) {
		return nil, fail(StageValidating, ErrNotFound, err)
	}
	if err != nil {
		return nil, fail(StageValidating, ErrStorage, err)
	}
	if !actor.CanAccess(src.UserID) {
		return nil, fail(StageValidating, ErrForbidden, nil)
	}
	if len(src.Items) == 0 {
		return nil, invalid("order %d has no items", src.ID)
	}

	in := PlaceOrderInput{
		UserID: src.UserID,
		Contact: Contact{
			Name:    src.Name,
			Phone:   src.Phone,
			Email:   src.Email,
			Address: src.Address,
		},
		PaymentMethod: src.PaymentMethod,
	}
	for _, it := range src.Items {
		price := it.Price
		in.Items = append(in.Items, Line{
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			Price:        &price,
			ProductName:  it.ProductName,
			ProductImage: it.ProductImage,
		})
	}

	return w.run(ctx, w.buildOrder(in, &src.ID), false)
}

func validate(in PlaceOrderInput, requireContact bool) error {
	if in.UserID == 0 {
		return invalid("user id required")
	}
	if len(in.Items) == 0 {
		return invalid("items required")
	}
	if requireContact {
		c := in.Contact
		if c.Name == "" || c.Email == "" || c.Phone == "" || c.Address == "" || in.PaymentMethod == "" {
			return invalid("name, email, phone, address and payment method required")
		}
	}
	for i, it := range in.Items {
		if it.ProductID == 0 {
			return invalid("item %d: product id required", i)
		}
		if it.Quantity <= 0 {
			return invalid("item %d: quantity must be > 0", i)
		}
		if it.Price == nil {
			return invalid("item %d: price required", i)
		}
		if it.Price.IsNegative() {
			return invalid("item %d: price must be >= 0", i)
		}
		if !it.Price.Equal(it.Price.Round(models.PriceScale)) {
			return invalid("item %d: price %s has more than %d decimal places", i, it.Price, models.PriceScale)
		}
	}
	return nil
}

func (w *Workflow) buildOrder(in PlaceOrderInput, reorderedFrom *uint) *models.Order {
	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(in.Items))
	for _, l := range in.Items {
		it := models.OrderItem{
			ProductID:    l.ProductID,
			Quantity:     l.Quantity,
			Price:        l.Price.Round(models.PriceScale),
			ProductName:  l.ProductName,
			ProductImage: l.ProductImage,
		}
		total = total.Add(it.LineTotal())
		items = append(items, it)
	}

	return &models.Order{
		OrderGroupID:    w.groupID(),
		ReorderedFromID: reorderedFrom,
		UserID:          in.UserID,
		TotalPrice:      total,
		Name:            in.Contact.Name,
		Phone:           in.Contact.Phone,
		Email:           in.Contact.Email,
		Address:         in.Contact.Address,
		PaymentMethod:   in.PaymentMethod,
		Status:          models.StatusPending,
		PaymentStatus:   models.PaymentUnpaid,
		OrderDate:       w.now(),
		Items:           items,
	}
}

func (w *Workflow) run(ctx context.Context, o *models.Order, clearCart bool) (*models.Order, error) {
	l := logging.FromContext(ctx).With("workflow", "checkout", "user_id", o.UserID)

	if err := w.reserveAndPersist(ctx, o); err != nil {
		l.Warn("checkout_failed", "stage", StageOf(err), "error", err)
		return nil, err
	}

	if clearCart {
		w.clearCart(ctx, o)
	}

	if w.Notifier != nil {
		w.Notifier.Notify(ctx, o.ID, o.UserID, o.Status)
	}

	l.Info("checkout_done", "order_id", o.ID, "order_group_id", o.OrderGroupID, "total", o.TotalPrice.StringFixed(2))
	return o, nil
}

func (w *Workflow) reserveAndPersist(ctx context.Context, o *models.Order) error {
	err := w.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ledger := w.Ledger.WithTx(tx)
		for _, r := range reservations(o.Items) {
			if err := ledger.Reserve(ctx, r.ProductID, r.Quantity); err != nil {
				return reserveFailure(err)
			}
		}

		if err := fillSnapshots(ctx, tx, o.Items); err != nil {
			return fail(StagePersisting, ErrPersistFailed, err)
		}
		if err := w.Orders.WithTx(tx).Create(ctx, o); err != nil {
			return fail(StagePersisting, ErrPersistFailed, err)
		}
		return nil
	})
	if err == nil {
		return nil
	}

	var f *Failure
	if errors.As(err, &f) {
		return err
	}
	// Commit itself failed.
	return fail(StagePersisting, ErrPersistFailed, err)
}

// reservation is the stock movement for one product across all lines of an
// order.
type reservation struct {
	ProductID uint
	Quantity  int
}

// reservations merges lines per product and orders them by product id, so
// every transaction takes product row locks in the same order.
func reservations(items []models.OrderItem) []reservation {
	byID := make(map[uint]int, len(items))
	for _, it := range items {
		byID[it.ProductID] += it.Quantity
	}
	out := make([]reservation, 0, len(byID))
	for id, qty := range byID {
		out = append(out, reservation{ProductID: id, Quantity: qty})
	}
	slices.SortFunc(out, func(a, b reservation) int {
		return cmp.Compare(a.ProductID, b.ProductID)
	})
	return out
}

func reserveFailure(err error) error {
	switch {
	case errors.Is(err, inventory.ErrInsufficientStock):
		return fail(StageReservingStock, ErrOutOfStock, err)
	case errors.Is(err, inventory.ErrProductNotFound):
		return fail(StageReservingStock, ErrNotFound, err)
	case errors.Is(err, inventory.ErrInvalidQuantity):
		return fail(StageReservingStock, ErrInvalidRequest, err)
	default:
		return fail(StageReservingStock, ErrStorage, err)
	}
}

// fillSnapshots copies the catalog name and image into lines that arrived
// without them.
func fillSnapshots(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error {
	var ids []uint
	for _, it := range items {
		if it.ProductName == "" || it.ProductImage == "" {
			ids = append(ids, it.ProductID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var products []models.Product
	if err := tx.WithContext(ctx).Select("id", "name", "image_url").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for i := range items {
		p, ok := byID[items[i].ProductID]
		if !ok {
			continue
		}
		if items[i].ProductName == "" {
			items[i].ProductName = p.Name
		}
		if items[i].ProductImage == "" {
			items[i].ProductImage = p.ImageURL
		}
	}
	return nil
}

func (w *Workflow) clearCart(ctx context.Context, o *models.Order) {
	if w.Carts == nil {
		return
	}
	ids := make([]uint, 0, len(o.Items))
	for _, it := range o.Items {
		ids = append(ids, it.ProductID)
	}
	if err := w.Carts.RemoveProducts(ctx, o.UserID, ids); err != nil {
		logging.FromContext(ctx).Warn("cart_cleanup_failed",
			"stage", StageClearingCart, "order_id", o.ID, "user_id", o.UserID, "error", err)
	}
}

func (w *Workflow) groupID() string {
	if w.NewGroupID != nil {
		return w.NewGroupID()
	}
	return uuid.NewString()
}

func (w *Workflow) now() time.Time {
	if w.Now != nil {
		return w.Now().UTC()
	}
	return time.Now().UTC()
}
