package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/hoversale/internal/models"
	"github.com/Skotchmaster/hoversale/pkg/logging"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// Indexer mirrors the product table into a full text index.
type Indexer interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []uint, error)
}

type CatalogService struct {
	Repo  *GormRepo
	Index Indexer
}

type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
	CategoryID  *uint
	ImageURL    string
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	return p, notFound(err, "product", id)
}

func (s *CatalogService) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.GetProducts(ctx, offset, limit)
}

func (s *CatalogService) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, fmt.Errorf("%w: category required", ErrValidation)
	}
	return s.Repo.GetByCategory(ctx, category)
}

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.Categories(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if _, err := s.Repo.CategoryByName(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: category %q exists", ErrConflict, name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	c := &models.Category{Name: name}
	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) validate(ctx context.Context, in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name required", ErrValidation)
	}
	if !in.Price.IsPositive() {
		return fmt.Errorf("%w: price must be > 0", ErrValidation)
	}
	if !in.Price.Equal(in.Price.Round(models.PriceScale)) {
		return fmt.Errorf("%w: price has more than %d decimal places", ErrValidation, models.PriceScale)
	}
	if in.Quantity < 0 {
		return fmt.Errorf("%w: quantity must be >= 0", ErrValidation)
	}
	if in.CategoryID != nil {
		ok, err := s.Repo.CategoryExists(ctx, *in.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: unknown category %d", ErrValidation, *in.CategoryID)
		}
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	p := &models.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Quantity:    in.Quantity,
		CategoryID:  in.CategoryID,
		ImageURL:    in.ImageURL,
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	s.reindex(ctx, p)
	return p, nil
}

// UpdateProduct replaces every field. An empty ImageURL keeps the current image.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	fields := map[string]any{
		"name":        strings.TrimSpace(in.Name),
		"description": in.Description,
		"price":       in.Price,
		"quantity":    in.Quantity,
		"category_id": in.CategoryID,
	}
	if in.ImageURL != "" {
		fields["image_url"] = in.ImageURL
	}
	p, err := s.Repo.UpdateProduct(ctx, id, fields)
	if err != nil {
		return nil, notFound(err, "product", id)
	}
	s.reindex(ctx, p)
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return notFound(err, "product", id)
	}
	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_delete_failed", "product_id", id, "error", err)
		}
	}
	return nil
}

// Search hydrates index hits from the database so stock and price are
// current. Without an index, or when it fails, a LIKE query is used.
func (s *CatalogService) Search(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, fmt.Errorf("%w: query required", ErrValidation)
	}
	if s.Index != nil {
		total, ids, err := s.Index.Search(ctx, q, offset, limit)
		if err == nil {
			items, err := s.Repo.GetByIDs(ctx, ids)
			return total, items, err
		}
		logging.FromContext(ctx).Warn("search_index_failed", "query", q, "error", err)
	}
	return s.Repo.SearchLike(ctx, q, offset, limit)
}

func (s *CatalogService) LowStock(ctx context.Context) ([]models.Product, error) {
	return s.Repo.StockBetween(ctx, 1, LowStockLimit)
}

func (s *CatalogService) OutOfStock(ctx context.Context) ([]models.Product, error) {
	return s.Repo.StockBetween(ctx, 0, 1)
}

func (s *CatalogService) Count(ctx context.Context) (int64, error) {
	return s.Repo.Count(ctx)
}

func (s *CatalogService) reindex(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
	}
}

func notFound(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %d", ErrNotFound, what, id)
	}
	return err
}
