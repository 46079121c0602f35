package repository

import (
	"context"

	"github.com/sarkartanmay393/aanandini-ecom/internal/domain/model"
)

type InventoryRepository interface {
	// Admin override of the current stock value.
	SetStock(ctx context.Context, productID int64, newStock int64) error

	// Conditional decrement: succeeds only when stock >= qty, as one
	// UPDATE. Must run inside the checkout transaction.
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// Stock restore on cancellation.
	IncreaseStock(ctx context.Context, productID int64, qty int64) error

	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error
}
