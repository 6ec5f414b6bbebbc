package cart

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/hoversale/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

// Line is a cart row joined with its product.
type Line struct {
	ID        uint            `json:"id"`
	UserID    uint            `json:"user_id"`
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
	Stock     int             `json:"stock"`
}

// GetCart returns the user's cart lines whose product is still in stock.
func (r *GormRepo) GetCart(ctx context.Context, userID uint) ([]Line, error) {
	var out []Line
	err := r.DB.WithContext(ctx).
		Table("cart_items").
		Select(`cart_items.id, cart_items.user_id, cart_items.product_id, cart_items.quantity,
			products.name, products.price, products.image_url, products.quantity AS stock`).
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ? AND products.quantity > 0", userID).
		Order("cart_items.id ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Upsert sets the quantity of a product in the cart, inserting the row when
// it does not exist yet.
func (r *GormRepo) Upsert(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity"}),
	}).Create(item).Error
}

// UpdateQuantity reports whether a row was changed.
func (r *GormRepo) UpdateQuantity(ctx context.Context, userID, productID uint, qty int) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", qty)
	return res.RowsAffected > 0, res.Error
}

func (r *GormRepo) Remove(ctx context.Context, userID, productID uint) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{})
	return res.RowsAffected > 0, res.Error
}

func (r *GormRepo) RemoveProducts(ctx context.Context, userID uint, productIDs []uint) error {
	if len(productIDs) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id IN ?", userID, productIDs).
		Delete(&models.CartItem{}).Error
}

func (r *GormRepo) Clear(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
