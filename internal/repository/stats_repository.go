package repository

import (
	"context"

	"github.com/sarkartanmay393/aanandini-ecom/internal/domain/model"
)

// Aggregated sales row for a product, resolved against the current
// product name/image (a rename after the sale shows the new name).
type TopProductRow struct {
	ProductID    int64  `json:"product_id"`
	Name         string `json:"name"`
	Image        string `json:"image"`
	QuantitySold int64  `json:"quantity_sold"`
	Revenue      int64  `json:"revenue"`
}

type StatsRepository interface {
	CountOrders(ctx context.Context) (int64, error)
	CountOrdersByStatus(ctx context.Context) (map[model.OrderStatus]int64, error)
	CountProducts(ctx context.Context) (int64, error)
	CountCustomers(ctx context.Context) (int64, error)

	//sum of totals over orders with payment_status = SUCCESS only
	TotalRevenue(ctx context.Context) (int64, error)

	RecentOrders(ctx context.Context, limit int) ([]model.Order, error)
	TopProducts(ctx context.Context, limit int) ([]TopProductRow, error)
}
