package orders

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/hoversale/internal/models"
)

// StatusCounts returns the number of orders per status.
func (s *Store) StatusCounts(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := s.DB.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[strings.TrimSpace(r.Status)] = r.Count
	}
	return out, nil
}

func (s *Store) ListPending(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	err := s.DB.WithContext(ctx).
		Select("id", "user_id", "total_price", "order_date", "name", "phone", "status").
		Where("status = ?", models.StatusPending).
		Order("order_date DESC, id DESC").
		Find(&out).Error
	return out, err
}

// ListWithItems pages through every order with its items, newest first.
func (s *Store) ListWithItems(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var out []models.Order
	err := s.DB.WithContext(ctx).
		Preload("Items", func(q *gorm.DB) *gorm.DB { return q.Order("order_items.id ASC") }).
		Order("order_date DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return 0, nil, err
	}
	return total, out, nil
}

type Summary struct {
	Orders    int64           `json:"orders"`
	Customers int64           `json:"customers"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// Summary aggregates dashboard figures. Revenue only counts paid orders.
func (s *Store) Summary(ctx context.Context) (*Summary, error) {
	var sum Summary
	db := s.DB.WithContext(ctx)

	if err := db.Model(&models.Order{}).Count(&sum.Orders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Distinct("user_id").Count(&sum.Customers).Error; err != nil {
		return nil, err
	}

	var revenue decimal.NullDecimal
	err := db.Model(&models.Order{}).
		Select("SUM(total_price)").
		Where("payment_status = ?", models.PaymentPaid).
		Row().Scan(&revenue)
	if err != nil {
		return nil, err
	}
	sum.Revenue = revenue.Decimal
	return &sum, nil
}
