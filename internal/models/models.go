package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID            uint             `gorm:"primaryKey;autoIncrement"          json:"id"`
	Name          string           `gorm:"not null"                          json:"name"`
	Description   string           `gorm:"not null"                          json:"description"`
	Price         decimal.Decimal  `gorm:"type:numeric;not null"             json:"price"`
	OriginalPrice *decimal.Decimal `gorm:"type:numeric"                      json:"original_price,omitempty"`
	ImageURL      string           `json:"image_url"`
	Stock         int              `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
}

// CartItem is one product's quantity entry in a shopper's in-progress
// selection. Name, price and AvailableStock are snapshots of the product
// taken when the line was created; the snapshot can go stale relative to
// the catalog, which checkout re-checks through the conditional decrement.
type CartItem struct {
	ID                uint             `gorm:"primaryKey"                         json:"id"`
	OwnerID           uuid.UUID        `gorm:"type:uuid;index;not null"           json:"owner_id"`
	ProductID         uint             `gorm:"not null"                           json:"product_id"`
	Name              string           `gorm:"not null"                           json:"name"`
	UnitPrice         decimal.Decimal  `gorm:"type:numeric;not null"              json:"unit_price"`
	OriginalUnitPrice *decimal.Decimal `gorm:"type:numeric"                       json:"original_unit_price,omitempty"`
	ImageURL          string           `json:"image_url"`
	Quantity          int              `gorm:"default:1;check:quantity > 0"       json:"quantity"`
	AvailableStock    int              `gorm:"not null"                           json:"available_stock"`
}

type Address struct {
	ID        uint      `gorm:"primaryKey"               json:"id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	FirstName string    `gorm:"not null"                 json:"first_name"`
	LastName  string    `gorm:"not null"                 json:"last_name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Street    string    `gorm:"not null"                 json:"street"`
	City      string    `gorm:"not null"                 json:"city"`
	State     string    `gorm:"not null"                 json:"state"`
	ZipCode   string    `gorm:"not null"                 json:"zip_code"`
	Country   string    `gorm:"not null"                 json:"country"`
	Label     string    `json:"label,omitempty"`
	IsDefault bool      `gorm:"default:false"            json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Saga step markers persisted on the order header. The marker records the
// last step the placement saga completed, so an abandoned order can be
// resumed instead of silently leaving partial state behind.
const (
	SagaStepCreated       = "created"
	SagaStepLinesWritten  = "lines_written"
	SagaStepStockAdjusted = "stock_adjusted"
	SagaStepCartCleared   = "cart_cleared"
	SagaStepComplete      = "complete"
)

type Order struct {
	ID          uint            `gorm:"primaryKey"               json:"id"`
	OwnerID     uuid.UUID       `gorm:"type:uuid;index;not null" json:"owner_id"`
	AddressID   uint            `gorm:"not null"                 json:"address_id"`
	OrderNumber string          `gorm:"not null"                 json:"order_number"`
	TotalAmount decimal.Decimal `gorm:"type:numeric;not null"    json:"total_amount"`
	Status      string          `gorm:"not null"                 json:"status"`
	SagaStep    string          `gorm:"not null"                 json:"saga_step"`
	CreatedAt   time.Time       `json:"created_at"`
}

type OrderItem struct {
	ID                uint             `gorm:"primaryKey"                   json:"id"`
	OrderID           uint             `gorm:"index;not null"               json:"order_id"`
	ProductID         uint             `gorm:"not null"                     json:"product_id"`
	ProductName       string           `gorm:"not null"                     json:"product_name"`
	Quantity          int              `gorm:"check:quantity > 0"           json:"quantity"`
	UnitPrice         decimal.Decimal  `gorm:"type:numeric;not null"        json:"unit_price"`
	OriginalUnitPrice *decimal.Decimal `gorm:"type:numeric"                 json:"original_unit_price,omitempty"`
	ImageURL          string           `json:"image_url"`
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Username     string    `gorm:"unique;not null"       json:"username"`
	PasswordHash string    `gorm:"not null"              json:"-"`
	Role         string    `gorm:"not null;default:user" json:"role"`
}

// All returns every entity migrated at startup and in tests.
func All() []any {
	return []any{
		&Product{},
		&CartItem{},
		&Address{},
		&Order{},
		&OrderItem{},
		&User{},
	}
}
