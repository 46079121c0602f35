package repository

import (
	"context"

	"github.com/sarkartanmay393/aanandini-ecom/internal/domain/model"
)

type AddressRepository interface {
	Create(ctx context.Context, address model.Address) (model.Address, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Address, error)
	FindByID(ctx context.Context, addressID int64) (model.Address, error)
	Update(ctx context.Context, address model.Address) error
	Delete(ctx context.Context, addressID int64) error

	CountByUserID(ctx context.Context, userID int64) (int64, error)

	//clears is_default on every address of the user
	ClearDefault(ctx context.Context, userID int64) error

	//atomically clears the old default and sets the new one
	SetDefault(ctx context.Context, userID, addressID int64) error
}
