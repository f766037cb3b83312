package repo

import (
	"context"

	"github.com/google/uuid"

	"storefront/internal/models"
)

// ListAddresses returns the owner's addresses newest first.
func (r *GormRepo) ListAddresses(ctx context.Context, ownerID uuid.UUID) ([]models.Address, error) {
	var addrs []models.Address
	if err := r.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&addrs).Error; err != nil {
		return nil, err
	}
	return addrs, nil
}

func (r *GormRepo) CountAddresses(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Address{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormRepo) CreateAddress(ctx context.Context, addr *models.Address) error {
	return r.DB.WithContext(ctx).Create(addr).Error
}

func (r *GormRepo) GetAddress(ctx context.Context, ownerID uuid.UUID, id uint) (*models.Address, error) {
	var addr models.Address
	if err := r.DB.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&addr).Error; err != nil {
		return nil, err
	}
	return &addr, nil
}

func (r *GormRepo) DeleteAddress(ctx context.Context, ownerID uuid.UUID, id uint) (bool, error) {
	res := r.DB.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Address{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
