package usecase

import (
	"context"
	"net/http"
	"time"

	"github.com/sarkartanmay393/aanandini-ecom/internal/domain/model"
	repo "github.com/sarkartanmay393/aanandini-ecom/internal/repository"
)

// Opaque payment reference issued on a successful settlement.
type PaymentIDGenerator interface {
	NewPaymentID() string
}

// Uniform [0,1) draw standing in for the external payment gateway.
// Injected so tests can pin the outcome.
type OutcomeDraw func() float64

// Gateway simulation thresholds: 70% SUCCESS, 20% FAILED, 10% PENDING.
const (
	drawSuccessBelow = 0.70
	drawFailedBelow  = 0.90
)

type OrderUsecase struct {
	tx     repo.TransactionManager
	payIDs PaymentIDGenerator
	draw   OutcomeDraw
}

func NewOrderUsecase(tx repo.TransactionManager, payIDs PaymentIDGenerator, draw OutcomeDraw) *OrderUsecase {
	return &OrderUsecase{tx: tx, payIDs: payIDs, draw: draw}
}

type CheckoutItemInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type CheckoutInput struct {
	Items             []CheckoutItemInput `json:"items"`
	ShippingAddressID int64               `json:"shipping_address_id"`
}

type PayInput struct {
	//explicit outcome (SUCCESS/FAILED/PENDING); empty means draw
	Result string `json:"result"`
}

type OrderItemOutput struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type OrderAddressOutput struct {
	ID      int64  `json:"id"`
	Label   string `json:"label"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Phone   string `json:"phone"`
}

type OrderOutput struct {
	ID              int64               `json:"id"`
	UserID          int64               `json:"user_id"`
	Status          string              `json:"status"`
	PaymentStatus   string              `json:"payment_status"`
	PaymentID       *string             `json:"payment_id"`
	Total           int64               `json:"total"`
	CreatedAt       time.Time           `json:"created_at"`
	Items           []OrderItemOutput   `json:"items"`
	ShippingAddress *OrderAddressOutput `json:"shipping_address,omitempty"`
}

type OrderListOutput struct {
	Data []OrderOutput `json:"data"`
	Meta PageMeta      `json:"meta"`
}

type PayOutput struct {
	PaymentStatus string      `json:"payment_status"`
	PaymentID     *string     `json:"payment_id"`
	Order         OrderOutput `json:"order"`
}

// Checkout converts a cart payload into an order plus stock reservation.
// Price reads, stock decrements and the order insert share one
// transaction: a failure on any item rolls back every decrement, and a
// concurrent price update cannot drift the captured snapshots.
func (u *OrderUsecase) Checkout(ctx context.Context, userID int64, in CheckoutInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(in.Items) == 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "items required")
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 || it.Quantity < 1 {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item")
		}
	}
	if in.ShippingAddressID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid address")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//address must exist and belong to the caller
		addr, err := r.Addresses().FindByID(ctx, in.ShippingAddressID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "invalid address")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if addr.UserID != userID {
			return NewHTTPError(http.StatusBadRequest, "invalid address")
		}

		//validate and reserve in cart-item order; first violation wins
		orderItems := make([]model.OrderItem, 0, len(in.Items))
		var total int64

		for _, it := range in.Items {
			p, err := r.Products().FindByID(ctx, it.ProductID)
			if err == repo.ErrNotFound || (err == nil && !p.IsActive) {
				return NewHTTPError(http.StatusBadRequest, "product not found")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusBadRequest, "insufficient stock for "+p.Name)
			}

			orderItems = append(orderItems, model.OrderItem{
				ProductID:           it.ProductID,
				ProductNameSnapshot: p.Name,
				UnitPriceSnapshot:   p.Price,
				Quantity:            it.Quantity,
			})
			total += p.Price * it.Quantity
		}

		now := time.Now()
		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:        userID,
			AddressID:     in.ShippingAddressID,
			Status:        model.OrderStatusPending,
			PaymentStatus: model.PaymentStatusPending,
			Total:         total,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		created := model.Order{
			ID:            orderID,
			UserID:        userID,
			AddressID:     in.ShippingAddressID,
			Status:        model.OrderStatusPending,
			PaymentStatus: model.PaymentStatusPending,
			Total:         total,
			CreatedAt:     now,
		}
		out = toOrderOutput(created, orderItems, &addr)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// Pay resolves the payment outcome for a pending order, at most once.
// payment_status and payment_id move together in a single guarded update,
// and the status bump is conditional so it never clobbers a concurrent
// admin override.
func (u *OrderUsecase) Pay(ctx context.Context, userID int64, orderID int64, in PayInput) (PayOutput, error) {
	if userID <= 0 {
		return PayOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return PayOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Result != "" && !model.ValidPaymentStatus(in.Result) {
		return PayOutput{}, NewHTTPError(http.StatusBadRequest, "invalid result")
	}

	var out PayOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		//someone else's order reads as absent
		if o.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		if o.PaymentStatus == model.PaymentStatusSuccess {
			return NewHTTPError(http.StatusBadRequest, "already paid")
		}

		outcome := model.PaymentStatus(in.Result)
		if in.Result == "" {
			outcome = u.resolveOutcome()
		}

		if outcome == model.PaymentStatusSuccess {
			paymentID := u.payIDs.NewPaymentID()

			ok, err := r.Orders().SetPaymentSuccess(ctx, orderID, paymentID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				//lost the race with another settlement attempt
				return NewHTTPError(http.StatusBadRequest, "already paid")
			}

			if err := r.Orders().UpdateStatusIf(ctx, orderID, model.OrderStatusPending, model.OrderStatusProcessing); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			o.PaymentStatus = model.PaymentStatusSuccess
			o.PaymentID = &paymentID
			if o.Status == model.OrderStatusPending {
				o.Status = model.OrderStatusProcessing
			}
		} else {
			ok, err := r.Orders().SetPaymentOutcome(ctx, orderID, outcome)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusBadRequest, "already paid")
			}
			o.PaymentStatus = outcome
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = PayOutput{
			PaymentStatus: string(o.PaymentStatus),
			PaymentID:     o.PaymentID,
			Order:         toOrderOutput(o, items, nil),
		}
		return nil
	})

	if err != nil {
		return PayOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) resolveOutcome() model.PaymentStatus {
	v := u.draw()
	switch {
	case v < drawSuccessBelow:
		return model.PaymentStatusSuccess
	case v < drawFailedBelow:
		return model.PaymentStatusFailed
	default:
		return model.PaymentStatusPending
	}
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page, limit int) (OrderListOutput, error) {
	if userID <= 0 {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	var out OrderListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListByUserID(ctx, userID, page, limit)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		data := make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			oo, err := expandOrder(ctx, r, o)
			if err != nil {
				return err
			}
			data = append(data, oo)
		}

		out = OrderListOutput{Data: data, Meta: newPageMeta(total, page, limit)}
		return nil
	})

	if err != nil {
		return OrderListOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		out, err = expandOrder(ctx, r, o)
		return err
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// Loads items and the live shipping address row for display.
func expandOrder(ctx context.Context, r repo.TxRepos, o model.Order) (OrderOutput, error) {
	items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var addrPtr *model.Address
	addr, err := r.Addresses().FindByID(ctx, o.AddressID)
	if err == nil {
		addrPtr = &addr
	} else if err != repo.ErrNotFound {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toOrderOutput(o, items, addrPtr), nil
}

func toOrderOutput(o model.Order, items []model.OrderItem, addr *model.Address) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
	}

	out := OrderOutput{
		ID:            o.ID,
		UserID:        o.UserID,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		PaymentID:     o.PaymentID,
		Total:         o.Total,
		CreatedAt:     o.CreatedAt,
		Items:         outItems,
	}

	if addr != nil {
		out.ShippingAddress = &OrderAddressOutput{
			ID:      addr.ID,
			Label:   addr.Label,
			Street:  addr.Street,
			City:    addr.City,
			State:   addr.State,
			Pincode: addr.Pincode,
			Phone:   addr.Phone,
		}
	}

	return out
}
