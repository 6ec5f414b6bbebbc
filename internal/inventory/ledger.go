// Package inventory owns the per-product stock counters.
//
// Every mutation is a single conditional UPDATE evaluated by the storage
// engine, so concurrent reservations on the same product can never drive
// stock below zero. There are no in-process locks.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/hoversale/internal/models"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be > 0")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrProductNotFound   = errors.New("product not found")
)

type Ledger struct {
	DB *gorm.DB
}

// WithTx returns a ledger whose updates join tx.
func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	return &Ledger{DB: tx}
}

// Reserve decrements stock by qty only when at least qty units remain.
func (l *Ledger) Reserve(ctx context.Context, productID uint, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, qty)
	}

	res := l.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", productID, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return fmt.Errorf("reserve product %d: %w", productID, res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	exists, err := l.exists(ctx, productID)
	if err != nil {
		return fmt.Errorf("reserve product %d: %w", productID, err)
	}
	if !exists {
		return fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
	}
	return fmt.Errorf("%w: product %d, requested %d", ErrInsufficientStock, productID, qty)
}

// Release adds qty back to stock. Callers guarantee qty was previously
// reserved and is released at most once.
func (l *Ledger) Release(ctx context.Context, productID uint, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, qty)
	}

	res := l.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return fmt.Errorf("release product %d: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
	}
	return nil
}

func (l *Ledger) Stock(ctx context.Context, productID uint) (int, error) {
	var p models.Product
	err := l.DB.WithContext(ctx).Select("id", "quantity").First(&p, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
	}
	if err != nil {
		return 0, err
	}
	return p.Quantity, nil
}

func (l *Ledger) exists(ctx context.Context, productID uint) (bool, error) {
	var n int64
	if err := l.DB.WithContext(ctx).Model(&models.Product{}).Where("id = ?", productID).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
