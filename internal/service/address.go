package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/feed"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/pkg/logging"
)

type AddressStore interface {
	ListAddresses(ctx context.Context, ownerID uuid.UUID) ([]models.Address, error)
	CountAddresses(ctx context.Context, ownerID uuid.UUID) (int64, error)
	CreateAddress(ctx context.Context, addr *models.Address) error
	GetAddress(ctx context.Context, ownerID uuid.UUID, id uint) (*models.Address, error)
	DeleteAddress(ctx context.Context, ownerID uuid.UUID, id uint) (bool, error)
}

type AddressPublisher interface {
	PublishAddressEvent(ctx context.Context, key string, ev feed.Event) error
}

// AddressService owns the shopper's saved addresses. Writes go to the
// store and onto the change feed; reads come from the in-memory directory,
// seeded on first access and kept convergent by the feed subscriber.
type AddressService struct {
	Store     AddressStore
	Publisher AddressPublisher
	Directory *feed.Directory
	Bus       *notify.Bus
}

// List serves the live view, warming it from the store on the owner's
// first read.
func (s *AddressService) List(ctx context.Context, ownerID uuid.UUID) ([]models.Address, error) {
	if !s.Directory.Warmed(ownerID) {
		addrs, err := s.Store.ListAddresses(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		s.Directory.Seed(ownerID, addrs)
	}
	return s.Directory.List(ownerID), nil
}

// Save inserts a new address. The owner's first address becomes the
// default; this is a single best-effort write with no read-verify, per the
// observed design. The insert event is applied locally and published; the
// published copy arriving back through the feed is deduplicated by id.
func (s *AddressService) Save(ctx context.Context, addr *models.Address) error {
	if addr.OwnerID == uuid.Nil {
		return fmt.Errorf("owner required: %w", ErrValidation)
	}
	if addr.FirstName == "" || addr.Street == "" || addr.City == "" {
		return fmt.Errorf("first name, street and city required: %w", ErrValidation)
	}

	count, err := s.Store.CountAddresses(ctx, addr.OwnerID)
	if err != nil {
		return err
	}
	if count == 0 {
		addr.IsDefault = true
	}

	if err := s.Store.CreateAddress(ctx, addr); err != nil {
		s.Bus.Error(addr.OwnerID, "Could not save address")
		return err
	}

	ev := feed.Event{Type: feed.EventInsert, Address: *addr}
	s.Directory.Apply(ev)
	s.publish(ctx, addr.OwnerID, addr.ID, ev)

	s.Bus.Success(addr.OwnerID, "Address saved")
	return nil
}

// Delete removes an address by id. Deleting an id the owner does not have
// is a no-op.
func (s *AddressService) Delete(ctx context.Context, ownerID uuid.UUID, id uint) error {
	addr, err := s.Store.GetAddress(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	deleted, err := s.Store.DeleteAddress(ctx, ownerID, id)
	if err != nil {
		s.Bus.Error(ownerID, "Could not delete address")
		return err
	}
	if !deleted {
		return nil
	}

	ev := feed.Event{Type: feed.EventDelete, Address: *addr}
	s.Directory.Apply(ev)
	s.publish(ctx, ownerID, id, ev)

	s.Bus.Success(ownerID, "Address deleted")
	return nil
}

// publish is best-effort: the store is authoritative and the directory is
// re-seeded on a cold read, so a lost event costs other sessions freshness,
// not correctness.
func (s *AddressService) publish(ctx context.Context, ownerID uuid.UUID, id uint, ev feed.Event) {
	if s.Publisher == nil {
		return
	}
	key := ownerID.String() + "/" + strconv.FormatUint(uint64(id), 10)
	if err := s.Publisher.PublishAddressEvent(ctx, key, ev); err != nil {
		logging.FromContext(ctx).Error("address_event_publish_failed", "error", err, "address_id", id)
	}
}
