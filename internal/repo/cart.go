package repo

import (
	"context"

	"github.com/google/uuid"

	"storefront/internal/models"
)

// GetCart returns the owner's lines in insertion order.
func (r *GormRepo) GetCart(ctx context.Context, ownerID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetCartItem(ctx context.Context, ownerID uuid.UUID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).Where("owner_id = ? AND product_id = ?", ownerID, productID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) CreateCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) UpdateCartQuantity(ctx context.Context, ownerID uuid.UUID, productID uint, qty int) error {
	return r.DB.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("owner_id = ? AND product_id = ?", ownerID, productID).
		Update("quantity", qty).Error
}

// DeleteCartItem removes the line if present and reports whether anything
// was actually deleted, so deleting an absent line stays a silent no-op.
func (r *GormRepo) DeleteCartItem(ctx context.Context, ownerID uuid.UUID, productID uint) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("owner_id = ? AND product_id = ?", ownerID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) ClearCart(ctx context.Context, ownerID uuid.UUID) error {
	return r.DB.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&models.CartItem{}).Error
}
