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

type productTestEnv struct {
	products   *productRepoMock
	categories *categoryRepoMock
	inventory  *inventoryRepoMock
	audit      *auditLogRepoMock
	uc         *ProductUsecase
}

func newProductTestEnv() *productTestEnv {
	env := &productTestEnv{
		products:   &productRepoMock{},
		categories: &categoryRepoMock{},
		inventory:  &inventoryRepoMock{},
		audit:      &auditLogRepoMock{},
	}
	env.uc = NewProductUsecase(env.products, env.categories, env.inventory, env.audit)
	return env
}

func TestProductList_Validation(t *testing.T) {
	env := newProductTestEnv()
	ctx := context.Background()

	_, err := env.uc.List(ctx, ListProductsInput{Page: 0, Limit: 20})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid page")

	_, err = env.uc.List(ctx, ListProductsInput{Page: 1, Limit: 101})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid limit")

	minP, maxP := int64(500), int64(100)
	_, err = env.uc.List(ctx, ListProductsInput{Page: 1, Limit: 20, MinPrice: &minP, MaxPrice: &maxP})
	assertHTTPError(t, err, http.StatusBadRequest, "min_price must be <= max_price")

	_, err = env.uc.List(ctx, ListProductsInput{Page: 1, Limit: 20, Sort: "rating"})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid sort")
}

func TestProductList_PassesFilters(t *testing.T) {
	env := newProductTestEnv()
	ctx := context.Background()

	catID := int64(2)
	env.products.On("ListPublic", mock.Anything, mock.MatchedBy(func(q repo.ProductListQuery) bool {
		return q.Q == "silk" && q.CategoryID != nil && *q.CategoryID == 2 && q.Sort == "price_asc"
	})).Return([]model.Product{{ID: 1, Name: "Banarasi Silk", Price: 450000, IsActive: true}}, int64(1), nil)

	out, err := env.uc.List(ctx, ListProductsInput{
		Page: 1, Limit: 20, Q: "silk", CategoryID: &catID, Sort: "price_asc",
	})
	assert.NoError(t, err)
	assert.Len(t, out.Data, 1)
	assert.Equal(t, int64(1), out.Meta.Total)
}

func TestProductDetail_InactiveReadsAsAbsent(t *testing.T) {
	env := newProductTestEnv()
	ctx := context.Background()

	env.products.On("FindByID", mock.Anything, int64(4)).
		Return(model.Product{ID: 4, Name: "Retired", IsActive: false}, nil)

	_, err := env.uc.Detail(ctx, 4)
	assertHTTPError(t, err, http.StatusNotFound, "not found")
}

func TestProductCreate_UnknownCategory(t *testing.T) {
	env := newProductTestEnv()
	ctx := context.Background()

	catID := int64(99)
	env.categories.On("FindByID", mock.Anything, int64(99)).
		Return(model.Category{}, repo.ErrNotFound)

	_, err := env.uc.Create(ctx, ProductCreateInput{
		Name: "Banarasi Silk", Price: 450000, Stock: 5, CategoryID: &catID,
	})
	assertHTTPError(t, err, http.StatusBadRequest, "category not found")
	env.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSetStock_RecordsDeltaAndAudit(t *testing.T) {
	env := newProductTestEnv()
	ctx := context.Background()

	env.products.On("FindByID", mock.Anything, int64(1)).
		Return(model.Product{ID: 1, Name: "Banarasi Silk", Stock: 3}, nil)
	env.inventory.On("SetStock", mock.Anything, int64(1), int64(10)).Return(nil)
	env.inventory.On("CreateAdjustment", mock.Anything, mock.MatchedBy(func(a model.InventoryAdjustment) bool {
		return a.ProductID == 1 && a.AdminUserID == 99 && a.Delta == 7 && a.Reason == "restock"
	})).Return(nil)
	env.audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateStock &&
			l.BeforeJSON == `{"stock":3}` && l.AfterJSON == `{"stock":10}`
	})).Return(nil)

	err := env.uc.SetStock(ctx, 99, 1, SetStockInput{Stock: 10, Reason: "restock"})
	assert.NoError(t, err)
	env.inventory.AssertExpectations(t)
	env.audit.AssertExpectations(t)
}

func TestSetStock_Validation(t *testing.T) {
	env := newProductTestEnv()
	ctx := context.Background()

	err := env.uc.SetStock(ctx, 99, 1, SetStockInput{Stock: -1, Reason: "x"})
	assertHTTPError(t, err, http.StatusBadRequest, "stock must be >= 0")

	err = env.uc.SetStock(ctx, 99, 1, SetStockInput{Stock: 5, Reason: "  "})
	assertHTTPError(t, err, http.StatusBadRequest, "reason required")
}
