package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/hoversale/internal/models"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
)

type CartService struct {
	Repo *GormRepo
}

func (s *CartService) GetCart(ctx context.Context, userID uint) ([]Line, error) {
	lines, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []Line{}
	}
	return lines, nil
}

func (s *CartService) AddToCart(ctx context.Context, item *models.CartItem) error {
	if item.ProductID == 0 {
		return fmt.Errorf("%w: product id required", ErrValidation)
	}
	if item.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}
	return s.Repo.Upsert(ctx, item)
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID uint, qty int) error {
	if productID == 0 || qty <= 0 {
		return fmt.Errorf("%w: product id and quantity > 0 required", ErrValidation)
	}
	ok, err := s.Repo.UpdateQuantity(ctx, userID, productID, qty)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: product %d not in cart", ErrNotFound, productID)
	}
	return nil
}

func (s *CartService) Remove(ctx context.Context, userID, productID uint) error {
	if productID == 0 {
		return fmt.Errorf("%w: product id required", ErrValidation)
	}
	ok, err := s.Repo.Remove(ctx, userID, productID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: product %d not in cart", ErrNotFound, productID)
	}
	return nil
}

// RemoveProducts drops the given products from the cart. Checkout calls it
// after an order commits.
func (s *CartService) RemoveProducts(ctx context.Context, userID uint, productIDs []uint) error {
	return s.Repo.RemoveProducts(ctx, userID, productIDs)
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	return s.Repo.Clear(ctx, userID)
}
