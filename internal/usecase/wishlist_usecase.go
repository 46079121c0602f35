package usecase

import (
	"context"
	"net/http"

	"github.com/sarkartanmay393/aanandini-ecom/internal/domain/model"
	repo "github.com/sarkartanmay393/aanandini-ecom/internal/repository"
)

type WishlistUsecase struct {
	wishlist repo.WishlistRepository
	products repo.ProductRepository
}

func NewWishlistUsecase(wishlist repo.WishlistRepository, products repo.ProductRepository) *WishlistUsecase {
	return &WishlistUsecase{wishlist: wishlist, products: products}
}

type WishlistEntryOutput struct {
	ProductID int64          `json:"product_id"`
	Product   *ProductOutput `json:"product,omitempty"`
}

func (u *WishlistUsecase) List(ctx context.Context, userID int64) ([]WishlistEntryOutput, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := u.wishlist.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]WishlistEntryOutput, 0, len(items))
	for _, it := range items {
		entry := WishlistEntryOutput{ProductID: it.ProductID}
		p, err := u.products.FindByID(ctx, it.ProductID)
		if err == nil {
			dto := toProductOutput(&p)
			entry.Product = &dto
		} else if err != repo.ErrNotFound {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = append(out, entry)
	}
	return out, nil
}

func (u *WishlistUsecase) Add(ctx context.Context, userID, productID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.products.FindByID(ctx, productID)
	if err == repo.ErrNotFound || (err == nil && !p.IsActive) {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	_, err = u.wishlist.Create(ctx, model.WishlistItem{UserID: userID, ProductID: productID})
	if err == repo.ErrConflict {
		// adding twice is a no-op
		return nil
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *WishlistUsecase) Remove(ctx context.Context, userID, productID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if _, err := u.wishlist.Find(ctx, userID, productID); err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	} else if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.wishlist.Delete(ctx, userID, productID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
