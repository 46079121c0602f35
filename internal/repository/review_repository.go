package repository

import (
	"context"

	"github.com/sarkartanmay393/aanandini-ecom/internal/domain/model"
)

type ReviewRepository interface {
	ListByProductID(ctx context.Context, productID int64) ([]model.Review, error)

	//ErrConflict when the user already reviewed the product
	Create(ctx context.Context, r model.Review) (model.Review, error)
}
