package address

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/hoversale/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

// Save stores the address once per user.
func (r *GormRepo) Save(ctx context.Context, userID uint, address string) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Address{UserID: userID, Address: address}).Error
}

func (r *GormRepo) List(ctx context.Context, userID uint) ([]string, error) {
	var out []string
	err := r.DB.WithContext(ctx).
		Model(&models.Address{}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Pluck("address", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
