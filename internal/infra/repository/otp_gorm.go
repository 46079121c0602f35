package repository

import (
	"context"
	"time"

	"github.com/sarkartanmay393/aanandini-ecom/internal/domain/model"
	repo "github.com/sarkartanmay393/aanandini-ecom/internal/repository"

	"gorm.io/gorm"
)

type otpGormRepository struct {
	db *gorm.DB
}

func NewOtpGormRepository(db *gorm.DB) repo.OtpRepository {
	return &otpGormRepository{db: db}
}

func (r *otpGormRepository) Create(ctx context.Context, otp model.Otp) error {
	return r.db.WithContext(ctx).Create(&otp).Error
}

func (r *otpGormRepository) DeleteByPhone(ctx context.Context, phone string) error {
	return r.db.WithContext(ctx).Where("phone = ?", phone).Delete(&model.Otp{}).Error
}

func (r *otpGormRepository) FindValid(ctx context.Context, phone, code string, now time.Time) (model.Otp, error) {
	var otp model.Otp
	err := r.db.WithContext(ctx).
		Where("phone = ? AND code = ? AND verified = FALSE AND expires_at > ?", phone, code, now).
		First(&otp).Error
	if isNotFound(err) {
		return model.Otp{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Otp{}, err
	}
	return otp, nil
}

func (r *otpGormRepository) MarkVerified(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Otp{}).
		Where("id = ?", id).
		Update("verified", true)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
