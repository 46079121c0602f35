package repository

import (
	"context"
	"time"

	"github.com/sarkartanmay393/aanandini-ecom/internal/domain/model"
)

type OtpRepository interface {
	Create(ctx context.Context, otp model.Otp) error
	DeleteByPhone(ctx context.Context, phone string) error

	//unverified, unexpired code for the phone
	FindValid(ctx context.Context, phone, code string, now time.Time) (model.Otp, error)
	MarkVerified(ctx context.Context, id int64) error
}
