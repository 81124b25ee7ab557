package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/crm/internal/order/domain"
	"github.com/smallbiznis/crm/pkg/db/option"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	err := db.WithContext(ctx).Exec(
		`INSERT INTO orders (id, customer_id, order_date, total_amount, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		order.ID,
		order.CustomerID,
		order.OrderDate,
		order.TotalAmount,
		order.CreatedAt,
		order.UpdatedAt,
	).Error
	if err != nil {
		return err
	}

	for _, product := range order.Products {
		err = db.WithContext(ctx).Exec(
			`INSERT INTO order_products (order_id, product_id) VALUES (?, ?)`,
			order.ID,
			product.ID,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).
		Model(&domain.Order{}).
		Preload("Customer").
		Preload("Products").
		Where("orders.id = ?", id).
		Find(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.OrderFilter, opts ...option.QueryOption) ([]*domain.Order, error) {
	var orders []*domain.Order
	stmt := db.WithContext(ctx).
		Model(&domain.Order{}).
		Preload("Customer").
		Preload("Products")

	if filter.TotalMin != nil {
		stmt = stmt.Where("orders.total_amount >= ?", *filter.TotalMin)
	}
	if filter.TotalMax != nil {
		stmt = stmt.Where("orders.total_amount <= ?", *filter.TotalMax)
	}
	if filter.OrderDateFrom != nil {
		stmt = stmt.Where("orders.order_date >= ?", *filter.OrderDateFrom)
	}
	if filter.OrderDateTo != nil {
		stmt = stmt.Where("orders.order_date <= ?", *filter.OrderDateTo)
	}

	if filter.CustomerName != "" || filter.CustomerEmail != "" {
		stmt = stmt.Joins("JOIN customers ON customers.id = orders.customer_id")
		if filter.CustomerName != "" {
			stmt = stmt.Where("LOWER(customers.name) LIKE ?", "%"+strings.ToLower(filter.CustomerName)+"%")
		}
		if filter.CustomerEmail != "" {
			stmt = stmt.Where("LOWER(customers.email) LIKE ?", "%"+strings.ToLower(filter.CustomerEmail)+"%")
		}
	}

	if filter.ProductName != "" || filter.ProductID != nil {
		// A multi-product order matching on one product must appear once.
		stmt = stmt.
			Joins("JOIN order_products ON order_products.order_id = orders.id").
			Joins("JOIN products ON products.id = order_products.product_id").
			Distinct("orders.*")
		if filter.ProductName != "" {
			stmt = stmt.Where("LOWER(products.name) LIKE ?", "%"+strings.ToLower(filter.ProductName)+"%")
		}
		if filter.ProductID != nil {
			stmt = stmt.Where("order_products.product_id = ?", *filter.ProductID)
		}
	}

	stmt = option.Apply(stmt, opts...)

	if err := stmt.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repo) Totals(ctx context.Context, db *gorm.DB) (domain.Totals, error) {
	var row struct {
		Orders  int64
		Revenue decimal.NullDecimal
	}
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) AS orders, SUM(total_amount) AS revenue FROM orders`,
	).Scan(&row).Error
	if err != nil {
		return domain.Totals{}, err
	}

	totals := domain.Totals{Orders: row.Orders, Revenue: decimal.Zero}
	if row.Revenue.Valid {
		totals.Revenue = row.Revenue.Decimal
	}
	return totals, nil
}
