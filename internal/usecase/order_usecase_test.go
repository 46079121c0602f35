package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sarkartanmay393/aanandini-ecom/internal/domain/model"
	repo "github.com/sarkartanmay393/aanandini-ecom/internal/repository"
)

type orderTestEnv struct {
	tx        *txManagerMock
	orders    *orderRepoMock
	items     *orderItemRepoMock
	products  *productRepoMock
	inventory *inventoryRepoMock
	addresses *addressRepoMock
	uc        *OrderUsecase
}

func newOrderTestEnv(draw OutcomeDraw) *orderTestEnv {
	env := &orderTestEnv{
		orders:    &orderRepoMock{},
		items:     &orderItemRepoMock{},
		products:  &productRepoMock{},
		inventory: &inventoryRepoMock{},
		addresses: &addressRepoMock{},
	}
	env.tx = &txManagerMock{Repos: &txReposMock{
		orders:     env.orders,
		orderItems: env.items,
		products:   env.products,
		inventory:  env.inventory,
		addresses:  env.addresses,
	}}
	env.tx.On("WithinTx", mock.Anything).Return(nil).Maybe()
	env.uc = NewOrderUsecase(env.tx, fixedPaymentIDs{id: "pay_test_0001"}, draw)
	return env
}

func assertHTTPError(t *testing.T, err error, status int, message string) {
	t.Helper()
	he, ok := AsHTTPError(err)
	if assert.True(t, ok, "expected HTTPError, got %v", err) {
		assert.Equal(t, status, he.Status)
		if message != "" {
			assert.Equal(t, message, he.Message)
		}
	}
}

func TestCheckout_Validation(t *testing.T) {
	env := newOrderTestEnv(nil)
	ctx := context.Background()

	_, err := env.uc.Checkout(ctx, 0, CheckoutInput{
		Items:             []CheckoutItemInput{{ProductID: 1, Quantity: 1}},
		ShippingAddressID: 1,
	})
	assertHTTPError(t, err, http.StatusUnauthorized, "unauthorized")

	_, err = env.uc.Checkout(ctx, 7, CheckoutInput{ShippingAddressID: 1})
	assertHTTPError(t, err, http.StatusBadRequest, "items required")

	_, err = env.uc.Checkout(ctx, 7, CheckoutInput{
		Items:             []CheckoutItemInput{{ProductID: 1, Quantity: 0}},
		ShippingAddressID: 1,
	})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid item")

	_, err = env.uc.Checkout(ctx, 7, CheckoutInput{
		Items: []CheckoutItemInput{{ProductID: 1, Quantity: 1}},
	})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid address")
}

func TestCheckout_AddressMustBelongToCaller(t *testing.T) {
	env := newOrderTestEnv(nil)
	ctx := context.Background()

	env.addresses.On("FindByID", mock.Anything, int64(9)).
		Return(model.Address{ID: 9, UserID: 42}, nil)

	_, err := env.uc.Checkout(ctx, 7, CheckoutInput{
		Items:             []CheckoutItemInput{{ProductID: 1, Quantity: 1}},
		ShippingAddressID: 9,
	})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid address")
	env.products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestCheckout_InsufficientStockNamesProduct(t *testing.T) {
	env := newOrderTestEnv(nil)
	ctx := context.Background()

	env.addresses.On("FindByID", mock.Anything, int64(9)).
		Return(model.Address{ID: 9, UserID: 7}, nil)
	env.products.On("FindByID", mock.Anything, int64(1)).
		Return(model.Product{ID: 1, Name: "Banarasi Silk", Price: 450000, IsActive: true}, nil)
	env.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), int64(3)).
		Return(false, nil)

	_, err := env.uc.Checkout(ctx, 7, CheckoutInput{
		Items:             []CheckoutItemInput{{ProductID: 1, Quantity: 3}},
		ShippingAddressID: 9,
	})
	assertHTTPError(t, err, http.StatusBadRequest, "insufficient stock for Banarasi Silk")
	env.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckout_InactiveProductReadsAsMissing(t *testing.T) {
	env := newOrderTestEnv(nil)
	ctx := context.Background()

	env.addresses.On("FindByID", mock.Anything, int64(9)).
		Return(model.Address{ID: 9, UserID: 7}, nil)
	env.products.On("FindByID", mock.Anything, int64(4)).
		Return(model.Product{ID: 4, Name: "Retired", IsActive: false}, nil)

	_, err := env.uc.Checkout(ctx, 7, CheckoutInput{
		Items:             []CheckoutItemInput{{ProductID: 4, Quantity: 1}},
		ShippingAddressID: 9,
	})
	assertHTTPError(t, err, http.StatusBadRequest, "product not found")
}

func TestCheckout_TotalFromSnapshots(t *testing.T) {
	env := newOrderTestEnv(nil)
	ctx := context.Background()

	env.addresses.On("FindByID", mock.Anything, int64(9)).
		Return(model.Address{ID: 9, UserID: 7, Label: "Home"}, nil)
	env.products.On("FindByID", mock.Anything, int64(1)).
		Return(model.Product{ID: 1, Name: "Banarasi Silk", Price: 450000, IsActive: true}, nil)
	env.products.On("FindByID", mock.Anything, int64(2)).
		Return(model.Product{ID: 2, Name: "Kanjivaram", Price: 780000, IsActive: true}, nil)
	env.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), int64(2)).Return(true, nil)
	env.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(2), int64(1)).Return(true, nil)

	env.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == 7 &&
			o.Status == model.OrderStatusPending &&
			o.PaymentStatus == model.PaymentStatusPending &&
			o.Total == 2*450000+780000
	})).Return(int64(100), nil)
	env.items.On("CreateBulk", mock.Anything, int64(100), mock.Anything).Return(nil)

	out, err := env.uc.Checkout(ctx, 7, CheckoutInput{
		Items: []CheckoutItemInput{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
		ShippingAddressID: 9,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(100), out.ID)
	assert.Equal(t, int64(1680000), out.Total)
	assert.Equal(t, "PENDING", out.Status)
	assert.Equal(t, "PENDING", out.PaymentStatus)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, "Banarasi Silk", out.Items[0].Name)
	assert.Equal(t, int64(450000), out.Items[0].Price)
	if assert.NotNil(t, out.ShippingAddress) {
		assert.Equal(t, "Home", out.ShippingAddress.Label)
	}

	env.orders.AssertExpectations(t)
	env.items.AssertExpectations(t)
}

func TestPay_OwnershipReadsAsAbsent(t *testing.T) {
	env := newOrderTestEnv(nil)
	ctx := context.Background()

	env.orders.On("FindByID", mock.Anything, int64(100)).
		Return(model.Order{ID: 100, UserID: 42, PaymentStatus: model.PaymentStatusPending}, nil)

	_, err := env.uc.Pay(ctx, 7, 100, PayInput{Result: "SUCCESS"})
	assertHTTPError(t, err, http.StatusNotFound, "not found")

	env.orders.On("FindByID", mock.Anything, int64(999)).
		Return(model.Order{}, repo.ErrNotFound)
	_, err = env.uc.Pay(ctx, 7, 999, PayInput{Result: "SUCCESS"})
	assertHTTPError(t, err, http.StatusNotFound, "not found")
}

func TestPay_SuccessSettlesOnce(t *testing.T) {
	env := newOrderTestEnv(nil)
	ctx := context.Background()

	env.orders.On("FindByID", mock.Anything, int64(100)).
		Return(model.Order{
			ID: 100, UserID: 7,
			Status:        model.OrderStatusPending,
			PaymentStatus: model.PaymentStatusPending,
			Total:         450000,
		}, nil)
	env.orders.On("SetPaymentSuccess", mock.Anything, int64(100), "pay_test_0001").
		Return(true, nil)
	env.orders.On("UpdateStatusIf", mock.Anything, int64(100),
		model.OrderStatusPending, model.OrderStatusProcessing).Return(nil)
	env.items.On("ListByOrderID", mock.Anything, int64(100)).
		Return([]model.OrderItem{}, nil)

	out, err := env.uc.Pay(ctx, 7, 100, PayInput{Result: "SUCCESS"})
	assert.NoError(t, err)
	assert.Equal(t, "SUCCESS", out.PaymentStatus)
	if assert.NotNil(t, out.PaymentID) {
		assert.Equal(t, "pay_test_0001", *out.PaymentID)
	}
	assert.Equal(t, "PROCESSING", out.Order.Status)
	env.orders.AssertExpectations(t)
}

func TestPay_AlreadyPaid(t *testing.T) {
	env := newOrderTestEnv(nil)
	ctx := context.Background()

	paymentID := "pay_existing"
	env.orders.On("FindByID", mock.Anything, int64(100)).
		Return(model.Order{
			ID: 100, UserID: 7,
			PaymentStatus: model.PaymentStatusSuccess,
			PaymentID:     &paymentID,
		}, nil)

	_, err := env.uc.Pay(ctx, 7, 100, PayInput{Result: "SUCCESS"})
	assertHTTPError(t, err, http.StatusBadRequest, "already paid")
	env.orders.AssertNotCalled(t, "SetPaymentSuccess", mock.Anything, mock.Anything, mock.Anything)
}

func TestPay_LosingSettlementRaceReadsAsPaid(t *testing.T) {
	env := newOrderTestEnv(nil)
	ctx := context.Background()

	env.orders.On("FindByID", mock.Anything, int64(100)).
		Return(model.Order{ID: 100, UserID: 7, PaymentStatus: model.PaymentStatusPending}, nil)
	env.orders.On("SetPaymentSuccess", mock.Anything, int64(100), "pay_test_0001").
		Return(false, nil)

	_, err := env.uc.Pay(ctx, 7, 100, PayInput{Result: "SUCCESS"})
	assertHTTPError(t, err, http.StatusBadRequest, "already paid")
	env.orders.AssertNotCalled(t, "UpdateStatusIf",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPay_FailedLeavesStatusAndPaymentID(t *testing.T) {
	env := newOrderTestEnv(nil)
	ctx := context.Background()

	env.orders.On("FindByID", mock.Anything, int64(100)).
		Return(model.Order{
			ID: 100, UserID: 7,
			Status:        model.OrderStatusPending,
			PaymentStatus: model.PaymentStatusPending,
		}, nil)
	env.orders.On("SetPaymentOutcome", mock.Anything, int64(100), model.PaymentStatusFailed).
		Return(true, nil)
	env.items.On("ListByOrderID", mock.Anything, int64(100)).
		Return([]model.OrderItem{}, nil)

	out, err := env.uc.Pay(ctx, 7, 100, PayInput{Result: "FAILED"})
	assert.NoError(t, err)
	assert.Equal(t, "FAILED", out.PaymentStatus)
	assert.Nil(t, out.PaymentID)
	assert.Equal(t, "PENDING", out.Order.Status)
	env.orders.AssertNotCalled(t, "SetPaymentSuccess", mock.Anything, mock.Anything, mock.Anything)
}

func TestPay_InvalidExplicitResult(t *testing.T) {
	env := newOrderTestEnv(nil)

	_, err := env.uc.Pay(context.Background(), 7, 100, PayInput{Result: "MAYBE"})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid result")
}

func TestResolveOutcome_Thresholds(t *testing.T) {
	cases := []struct {
		draw float64
		want model.PaymentStatus
	}{
		{0.0, model.PaymentStatusSuccess},
		{0.6999, model.PaymentStatusSuccess},
		{0.70, model.PaymentStatusFailed},
		{0.8999, model.PaymentStatusFailed},
		{0.90, model.PaymentStatusPending},
		{0.99, model.PaymentStatusPending},
	}

	for _, tc := range cases {
		env := newOrderTestEnv(func() float64 { return tc.draw })
		got := env.uc.resolveOutcome()
		assert.Equal(t, tc.want, got, "draw=%v", tc.draw)
	}
}

func TestListMyOrders_PaginationMeta(t *testing.T) {
	env := newOrderTestEnv(nil)
	ctx := context.Background()

	env.orders.On("ListByUserID", mock.Anything, int64(7), 2, 10).
		Return([]model.Order{
			{ID: 5, UserID: 7, AddressID: 9, Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusPending},
		}, int64(25), nil)
	env.items.On("ListByOrderID", mock.Anything, int64(5)).
		Return([]model.OrderItem{{OrderID: 5, ProductID: 1, ProductNameSnapshot: "Banarasi Silk", UnitPriceSnapshot: 450000, Quantity: 1}}, nil)
	env.addresses.On("FindByID", mock.Anything, int64(9)).
		Return(model.Address{ID: 9, UserID: 7, Label: "Home"}, nil)

	out, err := env.uc.ListMyOrders(ctx, 7, 2, 10)
	assert.NoError(t, err)
	assert.Len(t, out.Data, 1)
	assert.Equal(t, int64(25), out.Meta.Total)
	assert.Equal(t, 2, out.Meta.Page)
	assert.Equal(t, int64(3), out.Meta.TotalPages)
	assert.Equal(t, "Banarasi Silk", out.Data[0].Items[0].Name)
}

func TestListMyOrders_DeletedAddressTolerated(t *testing.T) {
	env := newOrderTestEnv(nil)
	ctx := context.Background()

	env.orders.On("ListByUserID", mock.Anything, int64(7), 1, 20).
		Return([]model.Order{{ID: 5, UserID: 7, AddressID: 9}}, int64(1), nil)
	env.items.On("ListByOrderID", mock.Anything, int64(5)).
		Return([]model.OrderItem{}, nil)
	env.addresses.On("FindByID", mock.Anything, int64(9)).
		Return(model.Address{}, repo.ErrNotFound)

	out, err := env.uc.ListMyOrders(ctx, 7, 1, 20)
	assert.NoError(t, err)
	assert.Nil(t, out.Data[0].ShippingAddress)
}

func TestGetMyOrderDetail_Ownership(t *testing.T) {
	env := newOrderTestEnv(nil)
	ctx := context.Background()

	env.orders.On("FindByID", mock.Anything, int64(5)).
		Return(model.Order{ID: 5, UserID: 42, AddressID: 9}, nil)

	_, err := env.uc.GetMyOrderDetail(ctx, 7, 5)
	assertHTTPError(t, err, http.StatusNotFound, "not found")
}
