package checkout

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/hoversale/internal/inventory"
	"github.com/Skotchmaster/hoversale/internal/models"
	"github.com/Skotchmaster/hoversale/internal/orders"
	"github.com/Skotchmaster/hoversale/pkg/logging"
)

// StageReleasingStock is the cancellation counterpart of StageReservingStock.
const StageReleasingStock Stage = "releasing_stock"

// Cancel moves a non-terminal order to Canceled and returns its reserved
// stock. The status change and every release commit together: if any
// release fails the order keeps its previous status and the call can be
// retried.
func (w *Workflow) Cancel(ctx context.Context, orderID uint, actor Actor) (*models.Order, error) {
	l := logging.FromContext(ctx).With("workflow", "cancel", "order_id", orderID)

	var canceled *models.Order
	err := w.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		store := w.Orders.WithTx(tx)

		o, err := store.Get(ctx, orderID)
		if errors.Is(err, orders.ErrNotFound) {
			return fail(StageValidating, ErrNotFound, err)
		}
		if err != nil {
			return fail(StageValidating, ErrStorage, err)
		}
		if !actor.CanAccess(o.UserID) {
			return fail(StageValidating, ErrForbidden, nil)
		}
		if o.Status.Terminal() {
			return fail(StageValidating, ErrTerminalState, nil)
		}

		// The conditional update decides the winner between racing cancels;
		// the loser sees ErrTerminalState and releases nothing.
		if err := store.Cancel(ctx, orderID); err != nil {
			if errors.Is(err, orders.ErrTerminalState) {
				return fail(StagePersisting, ErrTerminalState, err)
			}
			return fail(StagePersisting, ErrCancelFailed, err)
		}

		ledger := w.Ledger.WithTx(tx)
		for _, r := range reservations(o.Items) {
			err := ledger.Release(ctx, r.ProductID, r.Quantity)
			if errors.Is(err, inventory.ErrProductNotFound) {
				l.Warn("release_skipped", "product_id", r.ProductID, "quantity", r.Quantity, "reason", "product no longer exists")
				continue
			}
			if err != nil {
				return fail(StageReleasingStock, ErrCancelFailed, err)
			}
		}

		o.Status = models.StatusCanceled
		canceled = o
		return nil
	})
	if err != nil {
		var f *Failure
		if !errors.As(err, &f) {
			err = fail(StagePersisting, ErrCancelFailed, err)
		}
		l.Warn("cancel_failed", "stage", StageOf(err), "error", err)
		return nil, err
	}

	if w.Notifier != nil {
		w.Notifier.Notify(ctx, canceled.ID, canceled.UserID, models.StatusCanceled)
	}

	l.Info("cancel_done", "user_id", canceled.UserID, "items", len(canceled.Items))
	return canceled, nil
}
