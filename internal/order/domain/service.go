package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/crm/pkg/db/pagination"
)

// OrderFilter narrows a listing; absent fields are no-ops. The customer and
// product fields match through the respective relation.
type OrderFilter struct {
	TotalMin      *decimal.Decimal
	TotalMax      *decimal.Decimal
	OrderDateFrom *time.Time
	OrderDateTo   *time.Time
	CustomerName  string
	CustomerEmail string
	ProductName   string
	ProductID     *snowflake.ID
}

type ListOrderRequest struct {
	PageToken string
	PageSize  int
	OrderBy   string
	Filter    OrderFilter
}

type ListOrderResponse struct {
	PageInfo *pagination.PageInfo `json:"page_info,omitempty"`
	Orders   []Order              `json:"orders"`
}

type CreateOrderRequest struct {
	CustomerID string     `json:"customer_id"`
	ProductIDs []string   `json:"product_ids"`
	OrderDate  *time.Time `json:"order_date,omitempty"`
}

type GetOrderRequest struct {
	ID string
}

// Totals aggregates order count and revenue, used by the weekly report.
type Totals struct {
	Orders  int64
	Revenue decimal.Decimal
}

type Service interface {
	Create(context.Context, CreateOrderRequest) (Order, error)
	List(context.Context, ListOrderRequest) (ListOrderResponse, error)
	GetByID(context.Context, GetOrderRequest) (Order, error)
}

var (
	ErrInvalidCustomer = errors.New("invalid_customer_id")
	ErrNoProducts      = errors.New("no_products")
	ErrInvalidProducts = errors.New("invalid_product_ids")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
)
