package wishlist

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/hoversale/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

// List returns the wished products, oldest wish first.
func (r *GormRepo) List(ctx context.Context, userID uint) ([]models.Product, error) {
	var out []models.Product
	err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Select("products.*").
		Joins("JOIN wishlist_items ON wishlist_items.product_id = products.id").
		Where("wishlist_items.user_id = ?", userID).
		Order("wishlist_items.id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Add reports whether a new row was inserted. A product already on the list
// is left alone.
func (r *GormRepo) Add(ctx context.Context, userID, productID uint) (bool, error) {
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.WishlistItem{UserID: userID, ProductID: productID})
	return res.RowsAffected > 0, res.Error
}

func (r *GormRepo) Remove(ctx context.Context, userID, productID uint) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{})
	return res.RowsAffected > 0, res.Error
}

func (r *GormRepo) ProductExists(ctx context.Context, productID uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Product{}).Where("id = ?", productID).Count(&n).Error
	return n > 0, err
}
