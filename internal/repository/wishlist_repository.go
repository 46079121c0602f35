package repository

import (
	"context"

	"github.com/sarkartanmay393/aanandini-ecom/internal/domain/model"
)

type WishlistRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.WishlistItem, error)
	Find(ctx context.Context, userID, productID int64) (model.WishlistItem, error)
	Create(ctx context.Context, item model.WishlistItem) (model.WishlistItem, error)
	Delete(ctx context.Context, userID, productID int64) error
}
