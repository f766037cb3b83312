package feed

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"storefront/internal/models"
)

// Directory is the live in-memory view of saved addresses. It is seeded
// from the store on an owner's first read and kept convergent by applying
// feed events as idempotent set operations keyed by address id: a duplicate
// insert changes nothing and a delete of an absent id is a no-op, so the
// session's own writes arriving back through the feed never double-apply.
type Directory struct {
	mu     sync.RWMutex
	byID   map[uint]models.Address
	warmed map[uuid.UUID]bool
}

func NewDirectory() *Directory {
	return &Directory{
		byID:   make(map[uint]models.Address),
		warmed: make(map[uuid.UUID]bool),
	}
}

func (d *Directory) Warmed(ownerID uuid.UUID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.warmed[ownerID]
}

// Seed loads an owner's fetched addresses. Entries already present by id,
// for example from feed events that raced the fetch, are left untouched.
func (d *Directory) Seed(ownerID uuid.UUID, addrs []models.Address) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, a := range addrs {
		if _, ok := d.byID[a.ID]; !ok {
			d.byID[a.ID] = a
		}
	}
	d.warmed[ownerID] = true
}

func (d *Directory) Apply(ev Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch ev.Type {
	case EventInsert:
		if _, ok := d.byID[ev.Address.ID]; !ok {
			d.byID[ev.Address.ID] = ev.Address
		}
	case EventDelete:
		delete(d.byID, ev.Address.ID)
	}
}

// List returns the owner's addresses newest first.
func (d *Directory) List(ownerID uuid.UUID) []models.Address {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []models.Address
	for _, a := range d.byID {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
