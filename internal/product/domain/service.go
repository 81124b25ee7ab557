package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/crm/pkg/db/pagination"
)

// ProductFilter narrows a listing; absent fields are no-ops. When LowStock
// is set it takes precedence over the stock bounds.
type ProductFilter struct {
	Name     string
	PriceMin *decimal.Decimal
	PriceMax *decimal.Decimal
	StockMin *int
	StockMax *int
	LowStock *bool
}

type ListProductRequest struct {
	PageToken string
	PageSize  int
	OrderBy   string
	Filter    ProductFilter
}

type ListProductResponse struct {
	PageInfo *pagination.PageInfo `json:"page_info,omitempty"`
	Products []Product            `json:"products"`
}

type CreateProductRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock *int            `json:"stock,omitempty"`
}

type GetProductRequest struct {
	ID string
}

// RestockResult reports the products updated by RestockLowStock.
type RestockResult struct {
	Products []Product `json:"updated_products"`
	Count    int       `json:"count"`
}

type Service interface {
	Create(context.Context, CreateProductRequest) (Product, error)
	List(context.Context, ListProductRequest) (ListProductResponse, error)
	GetByID(context.Context, GetProductRequest) (Product, error)
	// RestockLowStock increments the stock of every product below
	// LowStockThreshold by RestockIncrement, using a selection snapshot
	// taken before any increment.
	RestockLowStock(context.Context) (RestockResult, error)
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidPrice = errors.New("invalid_price")
	ErrInvalidStock = errors.New("invalid_stock")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
)
