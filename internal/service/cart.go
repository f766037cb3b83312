package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/models"
	"storefront/internal/notify"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// CartStore is the persistence the cart service needs, satisfied by
// repo.GormRepo.
type CartStore interface {
	GetCart(ctx context.Context, ownerID uuid.UUID) ([]models.CartItem, error)
	GetCartItem(ctx context.Context, ownerID uuid.UUID, productID uint) (*models.CartItem, error)
	CreateCartItem(ctx context.Context, item *models.CartItem) error
	UpdateCartQuantity(ctx context.Context, ownerID uuid.UUID, productID uint, qty int) error
	DeleteCartItem(ctx context.Context, ownerID uuid.UUID, productID uint) (bool, error)
	ClearCart(ctx context.Context, ownerID uuid.UUID) error
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
}

// CartService holds the authoritative view of what the shopper intends to
// buy. Every mutation is checked against the line's stock snapshot; a
// mutation that would break 1 <= quantity <= availableStock is refused and
// reported through the bus, never clamped.
type CartService struct {
	Store CartStore
	Bus   *notify.Bus
}

// AddToCart puts one unit of the product into the cart, incrementing an
// existing line or opening a new one. The returned flag tells whether the
// cart changed; refusals leave state untouched and only emit a notification.
func (s *CartService) AddToCart(ctx context.Context, ownerID uuid.UUID, productID uint) (bool, error) {
	product, err := s.Store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("product %d: %w", productID, ErrNotFound)
		}
		return false, err
	}

	line, err := s.Store.GetCartItem(ctx, ownerID, productID)
	switch {
	case err == nil:
		if !CanIncrease(*line) {
			s.Bus.Warn(ownerID, fmt.Sprintf("Only %d of %s in stock", line.AvailableStock, line.Name))
			return false, nil
		}
		if err := s.Store.UpdateCartQuantity(ctx, ownerID, productID, line.Quantity+1); err != nil {
			s.Bus.Error(ownerID, "Could not update cart")
			return false, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if product.Stock <= 0 {
			s.Bus.Error(ownerID, fmt.Sprintf("%s is out of stock", product.Name))
			return false, nil
		}
		item := models.CartItem{
			OwnerID:           ownerID,
			ProductID:         product.ID,
			Name:              product.Name,
			UnitPrice:         product.Price,
			OriginalUnitPrice: product.OriginalPrice,
			ImageURL:          product.ImageURL,
			Quantity:          1,
			AvailableStock:    product.Stock,
		}
		if err := s.Store.CreateCartItem(ctx, &item); err != nil {
			s.Bus.Error(ownerID, "Could not update cart")
			return false, err
		}
	default:
		return false, err
	}

	s.Bus.Success(ownerID, fmt.Sprintf("%s added to cart", product.Name))
	return true, nil
}

// UpdateQuantity sets a line's quantity. A quantity of zero or less removes
// the line; a quantity above the stock snapshot is refused with a warning.
func (s *CartService) UpdateQuantity(ctx context.Context, ownerID uuid.UUID, productID uint, qty int) (bool, error) {
	if qty <= 0 {
		return s.RemoveFromCart(ctx, ownerID, productID)
	}

	line, err := s.Store.GetCartItem(ctx, ownerID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("cart line for product %d: %w", productID, ErrNotFound)
		}
		return false, err
	}

	if qty > line.AvailableStock {
		s.Bus.Warn(ownerID, fmt.Sprintf("Only %d of %s in stock", line.AvailableStock, line.Name))
		return false, nil
	}

	if err := s.Store.UpdateCartQuantity(ctx, ownerID, productID, qty); err != nil {
		s.Bus.Error(ownerID, "Could not update cart")
		return false, err
	}
	return true, nil
}

// RemoveFromCart deletes the line if present. Removing an absent line is a
// no-op with no notification.
func (s *CartService) RemoveFromCart(ctx context.Context, ownerID uuid.UUID, productID uint) (bool, error) {
	line, err := s.Store.GetCartItem(ctx, ownerID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	deleted, err := s.Store.DeleteCartItem(ctx, ownerID, productID)
	if err != nil {
		s.Bus.Error(ownerID, "Could not update cart")
		return false, err
	}
	if deleted {
		s.Bus.Success(ownerID, fmt.Sprintf("%s removed from cart", line.Name))
	}
	return deleted, nil
}

func (s *CartService) ClearCart(ctx context.Context, ownerID uuid.UUID) error {
	if err := s.Store.ClearCart(ctx, ownerID); err != nil {
		s.Bus.Error(ownerID, "Could not clear cart")
		return err
	}
	s.Bus.Success(ownerID, "Cart cleared")
	return nil
}

func (s *CartService) GetCart(ctx context.Context, ownerID uuid.UUID) ([]models.CartItem, error) {
	return s.Store.GetCart(ctx, ownerID)
}

// Totals returns the summed line count and price of the owner's cart.
func (s *CartService) Totals(ctx context.Context, ownerID uuid.UUID) (int, decimal.Decimal, error) {
	items, err := s.Store.GetCart(ctx, ownerID)
	if err != nil {
		return 0, decimal.Zero, err
	}
	count, total := CartTotals(items)
	return count, total, nil
}

func (s *CartService) QuantityOf(ctx context.Context, ownerID uuid.UUID, productID uint) (int, error) {
	line, err := s.Store.GetCartItem(ctx, ownerID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return line.Quantity, nil
}

// CartTotals is the pure sum over a line snapshot: total unit count and
// total price.
func CartTotals(items []models.CartItem) (int, decimal.Decimal) {
	count := 0
	total := decimal.Zero
	for _, it := range items {
		count += it.Quantity
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return count, total
}
