package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/hoversale/internal/models"
	"github.com/Skotchmaster/hoversale/internal/orders"
	"github.com/Skotchmaster/hoversale/pkg/logging"
)

// UpdateStatus advances an order to Shipped or Delivered. Cancellation has
// its own path because it must return stock. Repeating the current status is
// ErrInvalidTransition and sends nothing.
func (w *Workflow) UpdateStatus(ctx context.Context, orderID uint, to models.OrderStatus, sh *orders.Shipment) (*models.Order, error) {
	if to != models.StatusShipped && to != models.StatusDelivered {
		return nil, fail(StageValidating, ErrInvalidTransition, fmt.Errorf("cannot set status %q", to))
	}

	o, err := w.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, storeFailure(StageValidating, err)
	}

	if err := w.Orders.TransitionStatus(ctx, orderID, to, sh); err != nil {
		return nil, storeFailure(StagePersisting, err)
	}

	if w.Notifier != nil {
		w.Notifier.Notify(ctx, o.ID, o.UserID, to)
	}

	logging.FromContext(ctx).Info("order_status_updated", "order_id", orderID, "from", o.Status, "to", to)

	return w.Orders.Get(ctx, orderID)
}

// EmailInvoice sends the invoice for the order's current status and waits
// for the result.
func (w *Workflow) EmailInvoice(ctx context.Context, orderID, userID uint) error {
	o, err := w.Orders.GetForUser(ctx, orderID, userID)
	if err != nil {
		return storeFailure(StageValidating, err)
	}
	if w.Notifier == nil {
		return fail(StageNotifying, ErrNotifyFailed, errors.New("notifications disabled"))
	}
	if err := w.Notifier.Deliver(ctx, o.ID, o.UserID, o.Status); err != nil {
		return fail(StageNotifying, ErrNotifyFailed, err)
	}
	return nil
}

func storeFailure(stage Stage, err error) error {
	switch {
	case errors.Is(err, orders.ErrNotFound):
		return fail(stage, ErrNotFound, err)
	case errors.Is(err, orders.ErrTerminalState):
		return fail(stage, ErrTerminalState, err)
	case errors.Is(err, orders.ErrUnchanged):
		return fail(stage, ErrInvalidTransition, err)
	default:
		return fail(stage, ErrStorage, err)
	}
}
