package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormRepo_DecrementStock(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	p := createProduct(t, r, "widget", 3)

	require.NoError(t, r.DecrementStock(ctx, p.ID, 2))

	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stock)

	// Draining to exactly zero is allowed.
	require.NoError(t, r.DecrementStock(ctx, p.ID, 1))

	got, err = r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
}

func TestGormRepo_DecrementStock_Insufficient(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	p := createProduct(t, r, "scarce", 1)

	err := r.DecrementStock(ctx, p.ID, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// The conditional write refused: stock is untouched.
	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stock)
}

func TestGormRepo_DecrementStock_MissingProduct(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)

	err := r.DecrementStock(context.Background(), 9999, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGormRepo_ListProducts_Paginated(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		createProduct(t, r, "bulk", 10)
	}

	total, page, err := r.ListProducts(ctx, 0, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, page, 3)

	total, rest, err := r.ListProducts(ctx, 3, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, rest, 2)
}
