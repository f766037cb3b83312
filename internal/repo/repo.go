package repo

import (
	"errors"

	"gorm.io/gorm"
)

// ErrInsufficientStock reports that a conditional stock decrement found
// fewer units than requested. The decrement and the floor check are one
// indivisible statement executed by the store, so two concurrent checkouts
// can never both succeed past the available quantity.
var ErrInsufficientStock = errors.New("insufficient stock")

type GormRepo struct {
	DB *gorm.DB
}
