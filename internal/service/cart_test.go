package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/repo"
)

func newCartService(t *testing.T) (*CartService, *repo.GormRepo) {
	t.Helper()

	store := &repo.GormRepo{DB: newTestDB(t)}
	return &CartService{Store: store, Bus: newTestBus()}, store
}

func TestCartService_AddToCart_NewLine(t *testing.T) {
	t.Parallel()

	svc, store := newCartService(t)
	ctx := context.Background()
	owner := uuid.New()
	p := seedProduct(t, store.DB, "lamp", 500, 3)

	added, err := svc.AddToCart(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.True(t, added)

	line, err := store.GetCartItem(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)
	assert.Equal(t, 3, line.AvailableStock)
	assert.Equal(t, "lamp", line.Name)
	assert.True(t, line.UnitPrice.Equal(dec(500)), "unit price %s", line.UnitPrice)

	notes := svc.Bus.List(owner)
	require.Len(t, notes, 1)
	assert.Equal(t, notify.SeveritySuccess, notes[0].Severity)
}

func TestCartService_AddToCart_StockCeiling(t *testing.T) {
	t.Parallel()

	svc, store := newCartService(t)
	ctx := context.Background()
	owner := uuid.New()
	p := seedProduct(t, store.DB, "mug", 200, 3)

	// Every mutation must leave the line inside 1 <= qty <= stock.
	for i := 0; i < 5; i++ {
		_, err := svc.AddToCart(ctx, owner, p.ID)
		require.NoError(t, err)

		line, err := store.GetCartItem(ctx, owner, p.ID)
		require.NoError(t, err)
		assert.Greater(t, line.Quantity, 0)
		assert.LessOrEqual(t, line.Quantity, line.AvailableStock)
	}

	line, err := store.GetCartItem(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)

	added, err := svc.AddToCart(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.False(t, added)

	notes := svc.Bus.List(owner)
	require.NotEmpty(t, notes)
	assert.Equal(t, notify.SeverityWarning, notes[len(notes)-1].Severity)
}

func TestCartService_AddToCart_OutOfStock(t *testing.T) {
	t.Parallel()

	svc, store := newCartService(t)
	ctx := context.Background()
	owner := uuid.New()
	p := seedProduct(t, store.DB, "gone", 100, 0)

	added, err := svc.AddToCart(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.False(t, added)

	items, err := store.GetCart(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, items)

	notes := svc.Bus.List(owner)
	require.Len(t, notes, 1)
	assert.Equal(t, notify.SeverityError, notes[0].Severity)
}

func TestCartService_AddToCart_UnknownProduct(t *testing.T) {
	t.Parallel()

	svc, _ := newCartService(t)

	_, err := svc.AddToCart(context.Background(), uuid.New(), 9999)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	t.Parallel()

	svc, store := newCartService(t)
	ctx := context.Background()
	owner := uuid.New()
	p := seedProduct(t, store.DB, "chair", 900, 4)

	_, err := svc.AddToCart(ctx, owner, p.ID)
	require.NoError(t, err)

	updated, err := svc.UpdateQuantity(ctx, owner, p.ID, 4)
	require.NoError(t, err)
	assert.True(t, updated)

	line, err := store.GetCartItem(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, line.Quantity)

	// Beyond the snapshot: refused, line untouched.
	updated, err = svc.UpdateQuantity(ctx, owner, p.ID, 5)
	require.NoError(t, err)
	assert.False(t, updated)

	line, err = store.GetCartItem(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, line.Quantity)

	notes := svc.Bus.List(owner)
	require.NotEmpty(t, notes)
	assert.Equal(t, notify.SeverityWarning, notes[len(notes)-1].Severity)

	// Zero or less removes the line.
	removed, err := svc.UpdateQuantity(ctx, owner, p.ID, 0)
	require.NoError(t, err)
	assert.True(t, removed)

	items, err := store.GetCart(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartService_UpdateQuantity_AbsentLine(t *testing.T) {
	t.Parallel()

	svc, store := newCartService(t)
	p := seedProduct(t, store.DB, "void", 10, 5)

	_, err := svc.UpdateQuantity(context.Background(), uuid.New(), p.ID, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartService_RemoveFromCart_Idempotent(t *testing.T) {
	t.Parallel()

	svc, store := newCartService(t)
	ctx := context.Background()
	owner := uuid.New()
	p := seedProduct(t, store.DB, "rug", 300, 2)

	require.NoError(t, store.CreateCartItem(ctx, &models.CartItem{
		OwnerID:        owner,
		ProductID:      p.ID,
		Name:           p.Name,
		UnitPrice:      p.Price,
		Quantity:       1,
		AvailableStock: p.Stock,
	}))

	removed, err := svc.RemoveFromCart(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.RemoveFromCart(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	// The second removal is a silent no-op: one notification total.
	assert.Len(t, svc.Bus.List(owner), 1)
}

func TestCartService_ClearCart(t *testing.T) {
	t.Parallel()

	svc, store := newCartService(t)
	ctx := context.Background()
	owner := uuid.New()

	p1 := seedProduct(t, store.DB, "one", 100, 5)
	p2 := seedProduct(t, store.DB, "two", 200, 5)
	_, err := svc.AddToCart(ctx, owner, p1.ID)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, owner, p2.ID)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(ctx, owner))

	items, err := store.GetCart(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, items)

	notes := svc.Bus.List(owner)
	require.NotEmpty(t, notes)
	assert.Equal(t, "Cart cleared", notes[len(notes)-1].Message)
}

func TestCartTotals(t *testing.T) {
	t.Parallel()

	items := []models.CartItem{
		{UnitPrice: dec(10), Quantity: 2},
		{UnitPrice: dec(5), Quantity: 1},
	}

	count, total := CartTotals(items)
	assert.Equal(t, 3, count)
	assert.True(t, total.Equal(dec(25)), "total %s", total)
}

func TestCartService_QuantityOf(t *testing.T) {
	t.Parallel()

	svc, store := newCartService(t)
	ctx := context.Background()
	owner := uuid.New()
	p := seedProduct(t, store.DB, "pen", 50, 10)

	qty, err := svc.QuantityOf(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)

	_, err = svc.AddToCart(ctx, owner, p.ID)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, owner, p.ID)
	require.NoError(t, err)

	qty, err = svc.QuantityOf(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, qty)
}
