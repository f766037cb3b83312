package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/internal/models"
)

func TestCanIncrease(t *testing.T) {
	t.Parallel()

	assert.True(t, CanIncrease(models.CartItem{Quantity: 1, AvailableStock: 3}))
	assert.False(t, CanIncrease(models.CartItem{Quantity: 3, AvailableStock: 3}))
	assert.False(t, CanIncrease(models.CartItem{Quantity: 1, AvailableStock: 0}))
}

func TestClampToStock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		requested int
		stock     int
		want      int
	}{
		{name: "within stock", requested: 2, stock: 5, want: 2},
		{name: "at stock", requested: 5, stock: 5, want: 5},
		{name: "above stock", requested: 9, stock: 5, want: 5},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ClampToStock(tt.requested, tt.stock))
		})
	}
}
