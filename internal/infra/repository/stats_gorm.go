package repository

import (
	"context"

	"github.com/sarkartanmay393/aanandini-ecom/internal/domain/model"
	repo "github.com/sarkartanmay393/aanandini-ecom/internal/repository"

	"gorm.io/gorm"
)

type statsGormRepository struct {
	db *gorm.DB
}

func NewStatsGormRepository(db *gorm.DB) repo.StatsRepository {
	return &statsGormRepository{db: db}
}

func (r *statsGormRepository) CountOrders(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&n).Error
	return n, err
}

func (r *statsGormRepository) CountOrdersByStatus(ctx context.Context) (map[model.OrderStatus]int64, error) {
	type row struct {
		Status model.OrderStatus
		N      int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("status, count(*) as n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[model.OrderStatus]int64, len(rows))
	for _, rw := range rows {
		out[rw.Status] = rw.N
	}
	return out, nil
}

func (r *statsGormRepository) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, err
}

func (r *statsGormRepository) CountCustomers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("role <> ?", model.RoleAdmin).
		Count(&n).Error
	return n, err
}

// Unpaid and failed orders never inflate revenue.
func (r *statsGormRepository) TotalRevenue(ctx context.Context) (int64, error) {
	var sum *int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("payment_status = ?", model.PaymentStatusSuccess).
		Select("sum(total)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

func (r *statsGormRepository) RecentOrders(ctx context.Context, limit int) ([]model.Order, error) {
	var items []model.Order
	err := r.db.WithContext(ctx).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *statsGormRepository) TopProducts(ctx context.Context, limit int) ([]repo.TopProductRow, error) {
	type row struct {
		ProductID    int64
		Name         string
		Images       string
		QuantitySold int64
		Revenue      int64
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Table("order_items oi").
		Select("oi.product_id, p.name, p.images, sum(oi.quantity) as quantity_sold, sum(oi.quantity * oi.unit_price_snapshot) as revenue").
		Joins("JOIN products p ON p.id = oi.product_id").
		Group("oi.product_id, p.name, p.images").
		Order("quantity_sold desc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]repo.TopProductRow, 0, len(rows))
	for _, rw := range rows {
		p := model.Product{ImagesJSON: rw.Images}
		image := ""
		if imgs := p.Images(); len(imgs) > 0 {
			image = imgs[0]
		}
		out = append(out, repo.TopProductRow{
			ProductID:    rw.ProductID,
			Name:         rw.Name,
			Image:        image,
			QuantitySold: rw.QuantitySold,
			Revenue:      rw.Revenue,
		})
	}
	return out, nil
}
