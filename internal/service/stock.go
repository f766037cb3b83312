package service

import "storefront/internal/models"

// CanIncrease reports whether one more unit of the line's product fits
// under its stock ceiling. The check runs against the line's local stock
// snapshot; checkout re-checks remotely through the conditional decrement,
// and the two can legitimately disagree when the snapshot is stale.
func CanIncrease(line models.CartItem) bool {
	return line.Quantity < line.AvailableStock
}

// ClampToStock caps a requested quantity at the available stock.
func ClampToStock(requested, stock int) int {
	if requested > stock {
		return stock
	}
	return requested
}
