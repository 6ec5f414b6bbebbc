// Package wishlist keeps the products a user marked for later.
package wishlist

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

type WishlistService struct {
	Repo *GormRepo
}

func (s *WishlistService) List(ctx context.Context, userID uint) ([]models.Product, error) {
	products, err := s.Repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// Add is idempotent: adding a product twice keeps one entry.
func (s *WishlistService) Add(ctx context.Context, userID, productID uint) error {
	if userID == 0 || productID == 0 {
		return fmt.Errorf("%w: user id and product id required", ErrValidation)
	}
	ok, err := s.Repo.ProductExists(ctx, productID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: product %d", ErrNotFound, productID)
	}
	_, err = s.Repo.Add(ctx, userID, productID)
	return err
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID uint) error {
	if userID == 0 || productID == 0 {
		return fmt.Errorf("%w: user id and product id required", ErrValidation)
	}
	ok, err := s.Repo.Remove(ctx, userID, productID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: product %d not in wishlist", ErrNotFound, productID)
	}
	return nil
}
