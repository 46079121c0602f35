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

type adminOrderTestEnv struct {
	tx        *txManagerMock
	orders    *orderRepoMock
	items     *orderItemRepoMock
	inventory *inventoryRepoMock
	addresses *addressRepoMock
	audit     *auditLogRepoMock
	users     *userRepoMock
	stats     *statsRepoMock
	uc        *AdminOrderUsecase
}

func newAdminOrderTestEnv() *adminOrderTestEnv {
	env := &adminOrderTestEnv{
		orders:    &orderRepoMock{},
		items:     &orderItemRepoMock{},
		inventory: &inventoryRepoMock{},
		addresses: &addressRepoMock{},
		audit:     &auditLogRepoMock{},
		users:     &userRepoMock{},
		stats:     &statsRepoMock{},
	}
	env.tx = &txManagerMock{Repos: &txReposMock{
		orders:     env.orders,
		orderItems: env.items,
		inventory:  env.inventory,
		addresses:  env.addresses,
		auditLogs:  env.audit,
	}}
	env.tx.On("WithinTx", mock.Anything).Return(nil).Maybe()
	env.uc = NewAdminOrderUsecase(env.tx, env.users, env.stats)
	return env
}

func TestAdminList_InvalidStatusFilter(t *testing.T) {
	env := newAdminOrderTestEnv()

	_, err := env.uc.List(context.Background(), repo.AdminOrderListFilter{
		Page: 1, Limit: 20, Status: "SHIPPING",
	})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid status")
}

func TestAdminList_IncludesUser(t *testing.T) {
	env := newAdminOrderTestEnv()
	ctx := context.Background()

	email := "priya@example.com"
	env.orders.On("ListAdmin", mock.Anything, mock.Anything).
		Return([]model.Order{{ID: 5, UserID: 7, AddressID: 9, Status: model.OrderStatusPending}}, int64(1), nil)
	env.items.On("ListByOrderID", mock.Anything, int64(5)).Return([]model.OrderItem{}, nil)
	env.addresses.On("FindByID", mock.Anything, int64(9)).Return(model.Address{ID: 9}, nil)
	env.users.On("FindByID", mock.Anything, int64(7)).
		Return(&model.User{ID: 7, Name: "Priya", Email: &email}, nil)

	out, err := env.uc.List(ctx, repo.AdminOrderListFilter{Page: 1, Limit: 20})
	assert.NoError(t, err)
	assert.Len(t, out.Data, 1)
	if assert.NotNil(t, out.Data[0].User) {
		assert.Equal(t, "Priya", out.Data[0].User.Name)
	}
}

func TestAdminUpdateStatus_CancelRestoresStock(t *testing.T) {
	env := newAdminOrderTestEnv()
	ctx := context.Background()

	env.orders.On("FindByID", mock.Anything, int64(5)).
		Return(model.Order{ID: 5, UserID: 7, AddressID: 9, Status: model.OrderStatusProcessing}, nil)
	env.items.On("ListByOrderID", mock.Anything, int64(5)).
		Return([]model.OrderItem{
			{OrderID: 5, ProductID: 1, Quantity: 2},
			{OrderID: 5, ProductID: 2, Quantity: 1},
		}, nil)
	env.inventory.On("IncreaseStock", mock.Anything, int64(1), int64(2)).Return(nil)
	env.inventory.On("IncreaseStock", mock.Anything, int64(2), int64(1)).Return(nil)
	env.orders.On("UpdateStatus", mock.Anything, int64(5), model.OrderStatusCancelled).Return(nil)
	env.audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateOrderStatus && l.ResourceID == 5 && l.ActorUserID == 99
	})).Return(nil)
	env.addresses.On("FindByID", mock.Anything, int64(9)).Return(model.Address{ID: 9}, nil)
	env.users.On("FindByID", mock.Anything, int64(7)).Return(&model.User{ID: 7, Name: "Priya"}, nil)

	out, err := env.uc.UpdateStatus(ctx, 99, 5, AdminUpdateOrderStatusInput{Status: "CANCELLED"})
	assert.NoError(t, err)
	assert.Equal(t, "CANCELLED", out.Status)
	env.inventory.AssertExpectations(t)
	env.audit.AssertExpectations(t)
}

func TestAdminUpdateStatus_ShippedCancelKeepsStock(t *testing.T) {
	env := newAdminOrderTestEnv()
	ctx := context.Background()

	env.orders.On("FindByID", mock.Anything, int64(5)).
		Return(model.Order{ID: 5, UserID: 7, AddressID: 9, Status: model.OrderStatusShipped}, nil)
	env.orders.On("UpdateStatus", mock.Anything, int64(5), model.OrderStatusCancelled).Return(nil)
	env.audit.On("Create", mock.Anything, mock.Anything).Return(nil)
	env.items.On("ListByOrderID", mock.Anything, int64(5)).Return([]model.OrderItem{}, nil)
	env.addresses.On("FindByID", mock.Anything, int64(9)).Return(model.Address{ID: 9}, nil)
	env.users.On("FindByID", mock.Anything, int64(7)).Return(&model.User{ID: 7}, nil)

	_, err := env.uc.UpdateStatus(ctx, 99, 5, AdminUpdateOrderStatusInput{Status: "CANCELLED"})
	assert.NoError(t, err)
	env.inventory.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminUpdateStatus_SameStatusIsNoop(t *testing.T) {
	env := newAdminOrderTestEnv()
	ctx := context.Background()

	env.orders.On("FindByID", mock.Anything, int64(5)).
		Return(model.Order{ID: 5, UserID: 7, AddressID: 9, Status: model.OrderStatusPending}, nil)
	env.items.On("ListByOrderID", mock.Anything, int64(5)).Return([]model.OrderItem{}, nil)
	env.addresses.On("FindByID", mock.Anything, int64(9)).Return(model.Address{ID: 9}, nil)
	env.users.On("FindByID", mock.Anything, int64(7)).Return(&model.User{ID: 7}, nil)

	_, err := env.uc.UpdateStatus(ctx, 99, 5, AdminUpdateOrderStatusInput{Status: "PENDING"})
	assert.NoError(t, err)
	env.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	env.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAdminUpdateStatus_InvalidEnum(t *testing.T) {
	env := newAdminOrderTestEnv()

	_, err := env.uc.UpdateStatus(context.Background(), 99, 5, AdminUpdateOrderStatusInput{Status: "LOST"})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid status")
}

func TestAdminDelete_CascadesAndAudits(t *testing.T) {
	env := newAdminOrderTestEnv()
	ctx := context.Background()

	env.orders.On("FindByID", mock.Anything, int64(5)).
		Return(model.Order{ID: 5, Status: model.OrderStatusPending, Total: 450000}, nil)
	env.items.On("DeleteByOrderID", mock.Anything, int64(5)).Return(nil)
	env.orders.On("Delete", mock.Anything, int64(5)).Return(nil)
	env.audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionDeleteOrder && l.ResourceID == 5
	})).Return(nil)

	err := env.uc.Delete(ctx, 99, 5)
	assert.NoError(t, err)
	env.items.AssertExpectations(t)
	env.orders.AssertExpectations(t)
	env.audit.AssertExpectations(t)
}

func TestAdminStats_Shape(t *testing.T) {
	env := newAdminOrderTestEnv()
	ctx := context.Background()

	env.stats.On("CountOrders", mock.Anything).Return(int64(12), nil)
	env.stats.On("CountProducts", mock.Anything).Return(int64(30), nil)
	env.stats.On("CountCustomers", mock.Anything).Return(int64(8), nil)
	env.stats.On("TotalRevenue", mock.Anything).Return(int64(2250000), nil)
	env.stats.On("CountOrdersByStatus", mock.Anything).
		Return(map[model.OrderStatus]int64{
			model.OrderStatusPending:    4,
			model.OrderStatusProcessing: 5,
			model.OrderStatusDelivered:  3,
		}, nil)
	env.stats.On("RecentOrders", mock.Anything, 5).
		Return([]model.Order{{ID: 12, Status: model.OrderStatusPending}}, nil)
	env.stats.On("TopProducts", mock.Anything, 5).
		Return([]repo.TopProductRow{{ProductID: 1, Name: "Banarasi Silk", QuantitySold: 9, Revenue: 4050000}}, nil)

	out, err := env.uc.Stats(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(12), out.TotalOrders)
	assert.Equal(t, int64(2250000), out.TotalRevenue)
	assert.Equal(t, int64(4), out.PendingOrders)
	assert.Equal(t, int64(5), out.StatusBreakdown["PROCESSING"])
	assert.Len(t, out.RecentOrders, 1)
	assert.Equal(t, "Banarasi Silk", out.TopProducts[0].Name)
}
