package wishlist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/hoversale/internal/testdb"
)

func newService(t *testing.T) (*WishlistService, *gorm.DB) {
	t.Helper()
	db := testdb.Open(t)
	return &WishlistService{Repo: &GormRepo{DB: db}}, db
}

func TestWishlistService_AddListRemove(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	board := testdb.SeedProduct(t, db, "board", "100.00", 3)
	gone := testdb.SeedProduct(t, db, "gone", "5.00", 0)

	require.NoError(t, svc.Add(ctx, 1, gone.ID))
	require.NoError(t, svc.Add(ctx, 1, board.ID))
	require.NoError(t, svc.Add(ctx, 1, board.ID), "adding twice is not an error")
	require.NoError(t, svc.Add(ctx, 2, board.ID))

	products, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, products, 2, "one entry per product, out of stock included")
	assert.Equal(t, gone.ID, products[0].ID)
	assert.Equal(t, "board", products[1].Name)
	assert.True(t, board.Price.Equal(products[1].Price))

	require.NoError(t, svc.Remove(ctx, 1, gone.ID))
	assert.ErrorIs(t, svc.Remove(ctx, 1, gone.ID), ErrNotFound)

	products, err = svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, products, 1)

	other, err := svc.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, other, 1)

	empty, err := svc.List(ctx, 42)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestWishlistService_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Add(ctx, 1, 0), ErrValidation)
	assert.ErrorIs(t, svc.Add(ctx, 0, 1), ErrValidation)
	assert.ErrorIs(t, svc.Add(ctx, 1, 999), ErrNotFound)
	assert.ErrorIs(t, svc.Remove(ctx, 1, 0), ErrValidation)
}
