package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/crm/internal/product/domain"
	"github.com/smallbiznis/crm/internal/product/repository"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Product{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, db
}

func intptr(v int) *int { return &v }

func mustCreate(t *testing.T, svc domain.Service, name, price string, stock int) domain.Product {
	t.Helper()
	product, err := svc.Create(context.Background(), domain.CreateProductRequest{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: intptr(stock),
	})
	require.NoError(t, err)
	return product
}

func TestCreateProduct(t *testing.T) {
	svc, _ := newTestService(t)

	product := mustCreate(t, svc, "Laptop", "999.99", 15)
	assert.NotZero(t, product.ID)
	assert.Equal(t, "Laptop", product.Name)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("999.99")))
	assert.Equal(t, 15, product.Stock)

	// Stock defaults to zero.
	product, err := svc.Create(context.Background(), domain.CreateProductRequest{
		Name:  "Cable",
		Price: decimal.RequireFromString("9.99"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, product.Stock)
}

func TestCreateProduct_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateProductRequest{Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateProductRequest{Name: "Free", Price: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = svc.Create(ctx, domain.CreateProductRequest{Name: "Refund", Price: decimal.NewFromInt(-5)})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = svc.Create(ctx, domain.CreateProductRequest{
		Name:  "Ghost",
		Price: decimal.NewFromInt(1),
		Stock: intptr(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStock)
}

func TestRestockLowStock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	low1 := mustCreate(t, svc, "Monitor", "299.99", 3)
	high := mustCreate(t, svc, "Mouse", "29.99", 15)
	low2 := mustCreate(t, svc, "Headphones", "199.99", 0)

	result, err := svc.RestockLowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)

	byID := map[string]int{}
	for _, p := range result.Products {
		byID[p.ID.String()] = p.Stock
	}
	assert.Equal(t, 13, byID[low1.ID.String()])
	assert.Equal(t, 10, byID[low2.ID.String()])

	untouched, err := svc.GetByID(ctx, domain.GetProductRequest{ID: high.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, 15, untouched.Stock)
}

func TestRestockLowStock_EmptySelection(t *testing.T) {
	svc, _ := newTestService(t)

	mustCreate(t, svc, "Mouse", "29.99", 50)

	result, err := svc.RestockLowStock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Products)
}

func TestListProducts_LowStockMatchesStockBound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	stocks := []int{0, 3, 9, 10, 11, 50}
	for i, stock := range stocks {
		mustCreate(t, svc, fmt.Sprintf("Product %d", i), "10.00", stock)
	}

	lowStock := true
	viaFlag, err := svc.List(ctx, domain.ListProductRequest{Filter: domain.ProductFilter{LowStock: &lowStock}})
	require.NoError(t, err)

	viaBound, err := svc.List(ctx, domain.ListProductRequest{Filter: domain.ProductFilter{StockMax: intptr(domain.LowStockThreshold - 1)}})
	require.NoError(t, err)

	require.Len(t, viaFlag.Products, 3)
	require.Len(t, viaBound.Products, len(viaFlag.Products))
	for i := range viaFlag.Products {
		assert.Equal(t, viaBound.Products[i].ID, viaFlag.Products[i].ID)
	}
}

func TestListProducts_PriceBounds(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustCreate(t, svc, "Mouse", "29.99", 10)
	mustCreate(t, svc, "Keyboard", "79.99", 10)
	mustCreate(t, svc, "Laptop", "999.99", 10)

	min := decimal.RequireFromString("50")
	max := decimal.RequireFromString("100")
	resp, err := svc.List(ctx, domain.ListProductRequest{Filter: domain.ProductFilter{PriceMin: &min, PriceMax: &max}})
	require.NoError(t, err)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Keyboard", resp.Products[0].Name)
}

func TestListProducts_OrderByStock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustCreate(t, svc, "B", "10.00", 20)
	mustCreate(t, svc, "A", "10.00", 5)
	mustCreate(t, svc, "C", "10.00", 40)

	resp, err := svc.List(ctx, domain.ListProductRequest{OrderBy: "stock"})
	require.NoError(t, err)
	require.Len(t, resp.Products, 3)
	assert.Equal(t, "A", resp.Products[0].Name)
	assert.Equal(t, "C", resp.Products[2].Name)
}
