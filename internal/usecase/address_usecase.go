package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sarkartanmay393/aanandini-ecom/internal/domain/model"
	repo "github.com/sarkartanmay393/aanandini-ecom/internal/repository"
)

type AddressUsecase struct {
	addresses repo.AddressRepository
}

func NewAddressUsecase(addresses repo.AddressRepository) *AddressUsecase {
	return &AddressUsecase{addresses: addresses}
}

type AddressDTO struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Label     string    `json:"label"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Pincode   string    `json:"pincode"`
	Phone     string    `json:"phone"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

type AddressCreateInput struct {
	Label     string `json:"label"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	Phone     string `json:"phone"`
	IsDefault bool   `json:"is_default"`
}

type AddressUpdateInput struct {
	Label     string `json:"label"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	Phone     string `json:"phone"`
	IsDefault bool   `json:"is_default"`
}

func (u *AddressUsecase) List(ctx context.Context, userID int64) ([]AddressDTO, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	list, err := u.addresses.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]AddressDTO, 0, len(list))
	for i := range list {
		out = append(out, toAddressDTO(&list[i]))
	}
	return out, nil
}

// Create keeps the single-default invariant: an explicit default clears
// the prior one, and a user's first address is defaulted regardless.
func (u *AddressUsecase) Create(ctx context.Context, userID int64, in AddressCreateInput) (AddressDTO, error) {
	if userID <= 0 {
		return AddressDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateAddressFields(in.Label, in.Street, in.City, in.State, in.Pincode); err != nil {
		return AddressDTO{}, err
	}

	count, err := u.addresses.CountByUserID(ctx, userID)
	if err != nil {
		return AddressDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	isDefault := in.IsDefault
	if count == 0 {
		isDefault = true
	}

	if isDefault {
		if err := u.addresses.ClearDefault(ctx, userID); err != nil {
			return AddressDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	a := model.Address{
		UserID:    userID,
		Label:     strings.TrimSpace(in.Label),
		Street:    strings.TrimSpace(in.Street),
		City:      strings.TrimSpace(in.City),
		State:     strings.TrimSpace(in.State),
		Pincode:   strings.TrimSpace(in.Pincode),
		Phone:     strings.TrimSpace(in.Phone),
		IsDefault: isDefault,
	}

	created, err := u.addresses.Create(ctx, a)
	if err != nil {
		return AddressDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toAddressDTO(&created), nil
}

func (u *AddressUsecase) Update(ctx context.Context, userID int64, addressID int64, in AddressUpdateInput) (AddressDTO, error) {
	if userID <= 0 {
		return AddressDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if addressID <= 0 {
		return AddressDTO{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := validateAddressFields(in.Label, in.Street, in.City, in.State, in.Pincode); err != nil {
		return AddressDTO{}, err
	}

	a, err := u.addresses.FindByID(ctx, addressID)
	if err == repo.ErrNotFound {
		return AddressDTO{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return AddressDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//another user's address reads as absent
	if a.UserID != userID {
		return AddressDTO{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	a.Label = strings.TrimSpace(in.Label)
	a.Street = strings.TrimSpace(in.Street)
	a.City = strings.TrimSpace(in.City)
	a.State = strings.TrimSpace(in.State)
	a.Pincode = strings.TrimSpace(in.Pincode)
	a.Phone = strings.TrimSpace(in.Phone)

	if err := u.addresses.Update(ctx, a); err != nil {
		if err == repo.ErrNotFound {
			return AddressDTO{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return AddressDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.IsDefault && !a.IsDefault {
		if err := u.addresses.SetDefault(ctx, userID, addressID); err != nil {
			if err == repo.ErrNotFound {
				return AddressDTO{}, NewHTTPError(http.StatusNotFound, "not found")
			}
			return AddressDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		a.IsDefault = true
	}

	return toAddressDTO(&a), nil
}

func (u *AddressUsecase) Delete(ctx context.Context, userID int64, addressID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if addressID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	a, err := u.addresses.FindByID(ctx, addressID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if a.UserID != userID {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.addresses.Delete(ctx, addressID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *AddressUsecase) SetDefault(ctx context.Context, userID int64, addressID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if addressID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := u.addresses.SetDefault(ctx, userID, addressID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func validateAddressFields(label, street, city, state, pincode string) error {
	if strings.TrimSpace(label) == "" || strings.TrimSpace(street) == "" ||
		strings.TrimSpace(city) == "" || strings.TrimSpace(state) == "" ||
		strings.TrimSpace(pincode) == "" {
		return NewHTTPError(http.StatusBadRequest, "label, street, city, state and pincode are required")
	}
	return nil
}

func toAddressDTO(a *model.Address) AddressDTO {
	return AddressDTO{
		ID:        a.ID,
		UserID:    a.UserID,
		Label:     a.Label,
		Street:    a.Street,
		City:      a.City,
		State:     a.State,
		Pincode:   a.Pincode,
		Phone:     a.Phone,
		IsDefault: a.IsDefault,
		CreatedAt: a.CreatedAt,
	}
}
