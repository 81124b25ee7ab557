package seed

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/crm/internal/config"
	custdomain "github.com/smallbiznis/crm/internal/customer/domain"
	orderdomain "github.com/smallbiznis/crm/internal/order/domain"
	proddomain "github.com/smallbiznis/crm/internal/product/domain"
)

type seedCustomer struct {
	Name  string
	Email string
	Phone string
}

type seedProduct struct {
	Name  string
	Price string
	Stock int
}

var customers = []seedCustomer{
	{Name: "Alice Johnson", Email: "alice@example.com", Phone: "+1234567890"},
	{Name: "Bob Smith", Email: "bob@example.com", Phone: "123-456-7890"},
	{Name: "Carol White", Email: "carol@example.com"},
	{Name: "David Brown", Email: "david@example.com", Phone: "+441234567890"},
}

var products = []seedProduct{
	{Name: "Laptop", Price: "999.99", Stock: 15},
	{Name: "Mouse", Price: "29.99", Stock: 50},
	{Name: "Keyboard", Price: "79.99", Stock: 30},
	{Name: "Monitor", Price: "299.99", Stock: 8},
	{Name: "Headphones", Price: "199.99", Stock: 3},
}

// orders maps a customer email to the product names on a single order.
var orders = map[string][]string{
	"alice@example.com": {"Laptop", "Mouse"},
	"bob@example.com":   {"Keyboard", "Monitor"},
	"carol@example.com": {"Headphones"},
}

// Run inserts the sample dataset when SEED_ON_START is set. Customers are
// keyed by email and products by name, so running it again is a no-op.
func Run(cfg config.Config, db *gorm.DB, node *snowflake.Node, log *zap.Logger) error {
	if !cfg.SeedOnStart {
		return nil
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		byEmail := make(map[string]*custdomain.Customer, len(customers))
		for _, c := range customers {
			row, err := upsertCustomer(tx, node, c)
			if err != nil {
				return err
			}
			byEmail[row.Email] = row
		}

		byName := make(map[string]*proddomain.Product, len(products))
		for _, p := range products {
			row, err := upsertProduct(tx, node, p)
			if err != nil {
				return err
			}
			byName[row.Name] = row
		}

		for email, names := range orders {
			if err := ensureOrder(tx, node, byEmail[email], names, byName); err != nil {
				return err
			}
		}

		log.Info("seed complete",
			zap.Int("customers", len(customers)),
			zap.Int("products", len(products)),
			zap.Int("orders", len(orders)),
		)
		return nil
	})
}

func upsertCustomer(tx *gorm.DB, node *snowflake.Node, c seedCustomer) (*custdomain.Customer, error) {
	var existing custdomain.Customer
	err := tx.Where("email = ?", c.Email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	row := custdomain.Customer{
		ID:    node.Generate(),
		Name:  c.Name,
		Email: c.Email,
	}
	if c.Phone != "" {
		phone := c.Phone
		row.Phone = &phone
	}
	if err := tx.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func upsertProduct(tx *gorm.DB, node *snowflake.Node, p seedProduct) (*proddomain.Product, error) {
	var existing proddomain.Product
	err := tx.Where("name = ?", p.Name).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	row := proddomain.Product{
		ID:    node.Generate(),
		Name:  p.Name,
		Price: decimal.RequireFromString(p.Price),
		Stock: p.Stock,
	}
	if err := tx.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func ensureOrder(tx *gorm.DB, node *snowflake.Node, cust *custdomain.Customer, names []string, byName map[string]*proddomain.Product) error {
	if cust == nil {
		return nil
	}

	var count int64
	if err := tx.Model(&orderdomain.Order{}).Where("customer_id = ?", cust.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	items := make([]*proddomain.Product, 0, len(names))
	for _, name := range names {
		if p := byName[name]; p != nil {
			items = append(items, p)
		}
	}
	if len(items) == 0 {
		return nil
	}

	itemValues := make([]proddomain.Product, 0, len(items))
	for _, p := range items {
		itemValues = append(itemValues, *p)
	}

	row := orderdomain.Order{
		ID:          node.Generate(),
		CustomerID:  cust.ID,
		OrderDate:   time.Now().UTC(),
		TotalAmount: orderdomain.Total(itemValues),
	}
	if err := tx.Omit("Products", "Customer").Create(&row).Error; err != nil {
		return err
	}
	for _, p := range items {
		if err := tx.Exec(`INSERT INTO order_products (order_id, product_id) VALUES (?, ?)`, row.ID, p.ID).Error; err != nil {
			return err
		}
	}
	return nil
}
