package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	customerdomain "github.com/smallbiznis/crm/internal/customer/domain"
	productdomain "github.com/smallbiznis/crm/internal/product/domain"
)

type Order struct {
	ID          snowflake.ID            `gorm:"primaryKey" json:"id"`
	CustomerID  snowflake.ID            `gorm:"not null;index" json:"customer_id"`
	Customer    customerdomain.Customer `gorm:"foreignKey:CustomerID" json:"customer"`
	Products    []productdomain.Product `gorm:"many2many:order_products" json:"products"`
	OrderDate   time.Time               `gorm:"not null;index" json:"order_date"`
	TotalAmount decimal.Decimal         `gorm:"type:numeric;not null" json:"total_amount"`
	CreatedAt   time.Time               `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt   time.Time               `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

// Total sums the product prices. It is computed once at order creation and
// is not kept in sync with later price changes.
func Total(products []productdomain.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Price)
	}
	return total
}
