package repository

import (
	"context"
	"time"

	"github.com/sarkartanmay393/aanandini-ecom/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)

	//admin listing with optional filters
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)

	//unconditional admin override
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	//conditional bump; no-op when the current status differs, so a
	//concurrent admin override is never clobbered
	UpdateStatusIf(ctx context.Context, orderID int64, from, to model.OrderStatus) error

	//single UPDATE setting payment_status and payment_id together,
	//guarded by payment_status <> 'SUCCESS'. Returns false when the
	//order was already settled successfully.
	SetPaymentSuccess(ctx context.Context, orderID int64, paymentID string) (bool, error)

	//FAILED / PENDING outcomes; same guard, payment_id untouched
	SetPaymentOutcome(ctx context.Context, orderID int64, status model.PaymentStatus) (bool, error)

	//hard delete (items are removed separately in the same tx)
	Delete(ctx context.Context, orderID int64) error
}
