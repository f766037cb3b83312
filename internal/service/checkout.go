package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/repo"
	"storefront/pkg/logging"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = repo.ErrInsufficientStock
)

type CheckoutStore interface {
	GetCart(ctx context.Context, ownerID uuid.UUID) ([]models.CartItem, error)
	ClearCart(ctx context.Context, ownerID uuid.UUID) error
	GetAddress(ctx context.Context, ownerID uuid.UUID, id uint) (*models.Address, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	DecrementStock(ctx context.Context, productID uint, qty int) error
	UpdateOrderTotal(ctx context.Context, orderID uint, total decimal.Decimal) error
	UpdateSagaStep(ctx context.Context, orderID uint, step string) error
	GetOrder(ctx context.Context, ownerID uuid.UUID, orderID uint) (*models.Order, error)
	GetOrderItems(ctx context.Context, orderID uint) ([]models.OrderItem, error)
	ListOrders(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]models.Order, error)
}

// CheckoutService runs the order-placement saga: create the header, write
// the lines, adjust stock, clear the cart. The steps are independent
// remote writes with no enclosing transaction and no compensation; how far
// a saga got is persisted on the order header so an abandoned one can be
// resumed rather than silently leaving partial state.
type CheckoutService struct {
	Store CheckoutStore
	Bus   *notify.Bus

	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
}

// ShippingFeeFor is zero once the subtotal clears the free-shipping
// threshold, otherwise the flat fee.
func (s *CheckoutService) ShippingFeeFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(s.FreeShippingThreshold) {
		return decimal.Zero
	}
	return s.ShippingFee
}

// PlaceOrder converts the owner's cart into a durable order shipped to the
// selected address. Each failed step halts the saga where it stands; the
// persisted step marker records what already committed.
func (s *CheckoutService) PlaceOrder(ctx context.Context, ownerID uuid.UUID, addressID uint) (*models.Order, error) {
	l := logging.FromContext(ctx).With("component", "checkout")

	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("no session owner: %w", ErrValidation)
	}

	if _, err := s.Store.GetAddress(ctx, ownerID, addressID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.Bus.Error(ownerID, "Select a delivery address")
			return nil, fmt.Errorf("address %d: %w", addressID, ErrValidation)
		}
		return nil, err
	}

	items, err := s.Store.GetCart(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		s.Bus.Error(ownerID, "Your cart is empty")
		return nil, ErrEmptyCart
	}

	_, subtotal := CartTotals(items)
	total := subtotal.Add(s.ShippingFeeFor(subtotal))

	order := &models.Order{
		OwnerID:     ownerID,
		AddressID:   addressID,
		OrderNumber: NewOrderNumber(),
		TotalAmount: total,
		Status:      models.OrderStatusPending,
		SagaStep:    models.SagaStepCreated,
	}
	if err := s.Store.CreateOrder(ctx, order); err != nil {
		s.Bus.Error(ownerID, "Could not place order")
		return nil, fmt.Errorf("create order: %w", err)
	}
	l = l.With("order_id", order.ID, "order_number", order.OrderNumber)

	if err := s.runSaga(ctx, order, orderLines(order.ID, items)); err != nil {
		l.Error("saga_halted", "step", order.SagaStep, "error", err)
		return nil, err
	}

	l.Info("order_placed", "total", total.String())
	s.Bus.Success(ownerID, fmt.Sprintf("Order %s placed", order.OrderNumber))
	return order, nil
}

// Resume continues an abandoned saga from its persisted step marker.
// Completed orders come back unchanged.
func (s *CheckoutService) Resume(ctx context.Context, ownerID uuid.UUID, orderID uint) (*models.Order, error) {
	order, err := s.Store.GetOrder(ctx, ownerID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, err
	}
	if order.SagaStep == models.SagaStepComplete {
		return order, nil
	}

	var lines []models.OrderItem
	if order.SagaStep == models.SagaStepCreated {
		// Lines were never written, so they are rebuilt from the cart,
		// which the shopper may have edited since the header committed.
		// The charged total has to follow the rebuilt lines, not the
		// stale header.
		items, err := s.Store.GetCart(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, ErrEmptyCart
		}
		lines = orderLines(order.ID, items)

		_, subtotal := CartTotals(items)
		total := subtotal.Add(s.ShippingFeeFor(subtotal))
		if !total.Equal(order.TotalAmount) {
			if err := s.Store.UpdateOrderTotal(ctx, order.ID, total); err != nil {
				return nil, fmt.Errorf("update order total: %w", err)
			}
			order.TotalAmount = total
		}
	}

	if err := s.runSaga(ctx, order, lines); err != nil {
		return nil, err
	}

	s.Bus.Success(ownerID, fmt.Sprintf("Order %s placed", order.OrderNumber))
	return order, nil
}

// runSaga executes the remaining steps given the order's current marker,
// advancing the marker after each one. Strict ordering: lines are inserted
// before any stock decrement, and all decrements precede the cart clear.
func (s *CheckoutService) runSaga(ctx context.Context, order *models.Order, lines []models.OrderItem) error {
	ownerID := order.OwnerID

	if order.SagaStep == models.SagaStepCreated {
		if err := s.Store.CreateOrderItems(ctx, lines); err != nil {
			s.Bus.Error(ownerID, "Could not save order items")
			return fmt.Errorf("write order lines: %w", err)
		}
		if err := s.advance(ctx, order, models.SagaStepLinesWritten); err != nil {
			return err
		}
	}

	if order.SagaStep == models.SagaStepLinesWritten {
		written, err := s.Store.GetOrderItems(ctx, order.ID)
		if err != nil {
			return err
		}
		for _, line := range written {
			if err := s.Store.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				if errors.Is(err, repo.ErrInsufficientStock) {
					s.Bus.Warn(ownerID, fmt.Sprintf("%s is no longer in stock", line.ProductName))
				} else {
					s.Bus.Error(ownerID, "Could not update stock")
				}
				return fmt.Errorf("decrement stock for product %d: %w", line.ProductID, err)
			}
		}
		if err := s.advance(ctx, order, models.SagaStepStockAdjusted); err != nil {
			return err
		}
	}

	if order.SagaStep == models.SagaStepStockAdjusted {
		if err := s.Store.ClearCart(ctx, ownerID); err != nil {
			s.Bus.Error(ownerID, "Could not clear cart")
			return fmt.Errorf("clear cart: %w", err)
		}
		if err := s.advance(ctx, order, models.SagaStepCartCleared); err != nil {
			return err
		}
	}

	if order.SagaStep == models.SagaStepCartCleared {
		if err := s.advance(ctx, order, models.SagaStepComplete); err != nil {
			return err
		}
	}

	return nil
}

func (s *CheckoutService) advance(ctx context.Context, order *models.Order, step string) error {
	if err := s.Store.UpdateSagaStep(ctx, order.ID, step); err != nil {
		return fmt.Errorf("advance saga to %s: %w", step, err)
	}
	order.SagaStep = step
	return nil
}

func (s *CheckoutService) ListOrders(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	return s.Store.ListOrders(ctx, ownerID, limit, offset)
}

func (s *CheckoutService) GetOrder(ctx context.Context, ownerID uuid.UUID, orderID uint) (*models.Order, []models.OrderItem, error) {
	order, err := s.Store.GetOrder(ctx, ownerID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, nil, err
	}
	items, err := s.Store.GetOrderItems(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

func orderLines(orderID uint, items []models.CartItem) []models.OrderItem {
	lines := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, models.OrderItem{
			OrderID:           orderID,
			ProductID:         it.ProductID,
			ProductName:       it.Name,
			Quantity:          it.Quantity,
			UnitPrice:         it.UnitPrice,
			OriginalUnitPrice: it.OriginalUnitPrice,
			ImageURL:          it.ImageURL,
		})
	}
	return lines
}

// NewOrderNumber returns the human-facing receipt token printed on the
// confirmation. It is not a uniqueness key; the storage id is.
func NewOrderNumber() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "ORD-UNKNOWN"
	}
	return "ORD-" + strings.ToUpper(hex.EncodeToString(b))
}
