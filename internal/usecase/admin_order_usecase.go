package usecase

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sarkartanmay393/aanandini-ecom/internal/domain/model"
	repo "github.com/sarkartanmay393/aanandini-ecom/internal/repository"
)

type AdminOrderUsecase struct {
	tx    repo.TransactionManager
	users repo.UserRepository
	stats repo.StatsRepository
}

func NewAdminOrderUsecase(tx repo.TransactionManager, users repo.UserRepository, stats repo.StatsRepository) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, users: users, stats: stats}
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

type OrderUserOutput struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email"`
}

type AdminOrderOutput struct {
	OrderOutput
	User *OrderUserOutput `json:"user,omitempty"`
}

type AdminOrderListOutput struct {
	Data []AdminOrderOutput `json:"data"`
	Meta PageMeta           `json:"meta"`
}

type OrderStatsOutput struct {
	TotalOrders     int64                `json:"total_orders"`
	TotalProducts   int64                `json:"total_products"`
	TotalUsers      int64                `json:"total_users"`
	TotalRevenue    int64                `json:"total_revenue"`
	PendingOrders   int64                `json:"pending_orders"`
	StatusBreakdown map[string]int64     `json:"status_breakdown"`
	RecentOrders    []OrderOutput        `json:"recent_orders"`
	TopProducts     []repo.TopProductRow `json:"top_products"`
}

func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) (AdminOrderListOutput, error) {
	if f.Page < 1 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if f.Status != "" && !model.ValidOrderStatus(f.Status) {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out AdminOrderListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		data := make([]AdminOrderOutput, 0, len(orders))
		for _, o := range orders {
			oo, err := expandOrder(ctx, r, o)
			if err != nil {
				return err
			}
			data = append(data, AdminOrderOutput{OrderOutput: oo, User: u.lookupUser(ctx, o.UserID)})
		}

		out = AdminOrderListOutput{Data: data, Meta: newPageMeta(total, f.Page, f.Limit)}
		return nil
	})

	if err != nil {
		return AdminOrderListOutput{}, err
	}
	return out, nil
}

func (u *AdminOrderUsecase) Get(ctx context.Context, orderID int64) (AdminOrderOutput, error) {
	if orderID <= 0 {
		return AdminOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out AdminOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		oo, err := expandOrder(ctx, r, o)
		if err != nil {
			return err
		}
		out = AdminOrderOutput{OrderOutput: oo, User: u.lookupUser(ctx, o.UserID)}
		return nil
	})

	if err != nil {
		return AdminOrderOutput{}, err
	}
	return out, nil
}

// UpdateStatus is a free walk over the status enum; no transition table is
// enforced. Moving into CANCELLED restores stock for orders that had not
// shipped yet.
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID int64, orderID int64, in AdminUpdateOrderStatusInput) (AdminOrderOutput, error) {
	if actorAdminUserID <= 0 {
		return AdminOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return AdminOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := strings.TrimSpace(in.Status)
	if !model.ValidOrderStatus(newStatus) {
		return AdminOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out AdminOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if string(o.Status) != newStatus {
			//restore reserved stock when cancelling an unshipped order
			if newStatus == string(model.OrderStatusCancelled) &&
				(o.Status == model.OrderStatusPending || o.Status == model.OrderStatusProcessing) {
				items, err := r.OrderItems().ListByOrderID(ctx, orderID)
				if err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				for _, it := range items {
					if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
						return NewHTTPError(http.StatusInternalServerError, "db error")
					}
				}
			}

			if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatus(newStatus)); err != nil {
				if err == repo.ErrNotFound {
					return NewHTTPError(http.StatusNotFound, "not found")
				}
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			beforeJSON := `{"status":"` + string(o.Status) + `"}`
			afterJSON := `{"status":"` + newStatus + `"}`
			if err := r.AuditLogs().Create(ctx, model.AuditLog{
				ActorUserID:  actorAdminUserID,
				Action:       model.AuditActionUpdateOrderStatus,
				ResourceType: model.AuditResourceOrder,
				ResourceID:   orderID,
				BeforeJSON:   beforeJSON,
				AfterJSON:    afterJSON,
				CreatedAt:    time.Now(),
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			o.Status = model.OrderStatus(newStatus)
		}

		oo, err := expandOrder(ctx, r, o)
		if err != nil {
			return err
		}
		out = AdminOrderOutput{OrderOutput: oo, User: u.lookupUser(ctx, o.UserID)}
		return nil
	})

	if err != nil {
		return AdminOrderOutput{}, err
	}
	return out, nil
}

// Delete removes the order and its items for good. No restore.
func (u *AdminOrderUsecase) Delete(ctx context.Context, actorAdminUserID int64, orderID int64) error {
	if actorAdminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().DeleteByOrderID(ctx, orderID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Orders().Delete(ctx, orderID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		beforeJSON := `{"status":"` + string(o.Status) + `","total":` + itoa(o.Total) + `}`
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionDeleteOrder,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   beforeJSON,
			AfterJSON:    `{}`,
			CreatedAt:    time.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})
}

func (u *AdminOrderUsecase) Stats(ctx context.Context) (OrderStatsOutput, error) {
	totalOrders, err := u.stats.CountOrders(ctx)
	if err != nil {
		return OrderStatsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	totalProducts, err := u.stats.CountProducts(ctx)
	if err != nil {
		return OrderStatsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	totalUsers, err := u.stats.CountCustomers(ctx)
	if err != nil {
		return OrderStatsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	totalRevenue, err := u.stats.TotalRevenue(ctx)
	if err != nil {
		return OrderStatsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	byStatus, err := u.stats.CountOrdersByStatus(ctx)
	if err != nil {
		return OrderStatsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	recent, err := u.stats.RecentOrders(ctx, 5)
	if err != nil {
		return OrderStatsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	top, err := u.stats.TopProducts(ctx, 5)
	if err != nil {
		return OrderStatsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	breakdown := make(map[string]int64, len(byStatus))
	for s, n := range byStatus {
		breakdown[string(s)] = n
	}

	recentOut := make([]OrderOutput, 0, len(recent))
	for _, o := range recent {
		recentOut = append(recentOut, toOrderOutput(o, nil, nil))
	}

	if top == nil {
		top = []repo.TopProductRow{}
	}

	return OrderStatsOutput{
		TotalOrders:     totalOrders,
		TotalProducts:   totalProducts,
		TotalUsers:      totalUsers,
		TotalRevenue:    totalRevenue,
		PendingOrders:   byStatus[model.OrderStatusPending],
		StatusBreakdown: breakdown,
		RecentOrders:    recentOut,
		TopProducts:     top,
	}, nil
}

// User row may be gone (account removal); the order still renders.
func (u *AdminOrderUsecase) lookupUser(ctx context.Context, userID int64) *OrderUserOutput {
	usr, err := u.users.FindByID(ctx, userID)
	if err != nil || usr == nil {
		return nil
	}
	return &OrderUserOutput{ID: usr.ID, Name: usr.Name, Email: usr.Email}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
