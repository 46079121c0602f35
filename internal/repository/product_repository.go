package repository

import (
	"context"
	"errors"

	"github.com/sarkartanmay393/aanandini-ecom/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// Conflict on a unique constraint (slug, email, one-review-per-product).
var ErrConflict = errors.New("conflict")

type ProductListQuery struct {
	Page       int
	Limit      int
	Q          string
	CategoryID *int64
	MinPrice   *int64
	MaxPrice   *int64
	Sort       string
}

type ProductRepository interface {
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error
}
