package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/smallbiznis/crm/internal/customer/domain"
	"github.com/smallbiznis/crm/internal/order/domain"
	productdomain "github.com/smallbiznis/crm/internal/product/domain"
	"github.com/smallbiznis/crm/pkg/db/option"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Repo         domain.Repository
	CustomerRepo customerdomain.Repository
	ProductRepo  productdomain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	repo         domain.Repository
	customerRepo customerdomain.Repository
	productRepo  productdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("order.service"),
		genID:        p.GenID,
		repo:         p.Repo,
		customerRepo: p.CustomerRepo,
		productRepo:  p.ProductRepo,
	}
}

// Create resolves the customer and product references, computes the order
// total and persists everything inside one transaction.
func (s *Service) Create(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil || customerID == 0 {
		return domain.Order{}, domain.ErrInvalidCustomer
	}

	productIDs, err := parseProductIDs(req.ProductIDs)
	if err != nil {
		return domain.Order{}, err
	}
	if len(productIDs) == 0 {
		return domain.Order{}, domain.ErrNoProducts
	}

	var order domain.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.customerRepo.FindByID(ctx, tx, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrInvalidCustomer
		}

		products, err := s.productRepo.FindByIDs(ctx, tx, productIDs)
		if err != nil {
			return err
		}
		if len(products) != len(productIDs) {
			return domain.ErrInvalidProducts
		}

		now := time.Now().UTC()
		orderDate := now
		if req.OrderDate != nil {
			orderDate = req.OrderDate.UTC()
		}

		order = domain.Order{
			ID:          s.genID.Generate(),
			CustomerID:  customer.ID,
			Customer:    *customer,
			Products:    products,
			OrderDate:   orderDate,
			TotalAmount: domain.Total(products),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return s.repo.Insert(ctx, tx, &order)
	})
	if err != nil {
		return domain.Order{}, err
	}

	return order, nil
}

func (s *Service) List(ctx context.Context, req domain.ListOrderRequest) (domain.ListOrderResponse, error) {
	opts, pageSize, err := option.ForList(option.ListParams{
		Table:     "orders",
		PageToken: req.PageToken,
		PageSize:  req.PageSize,
		OrderBy:   req.OrderBy,
		Sortable: map[string]bool{
			"order_date":   true,
			"total_amount": true,
			"created_at":   true,
		},
	})
	if err != nil {
		return domain.ListOrderResponse{}, err
	}

	items, err := s.repo.List(ctx, s.db, req.Filter, opts...)
	if err != nil {
		return domain.ListOrderResponse{}, err
	}

	resp := domain.ListOrderResponse{}
	if pageSize > 0 {
		resp.PageInfo = pagination.BuildCursorPageInfo(items, pageSize, func(order *domain.Order) string {
			token, err := pagination.EncodeCursor(pagination.Cursor{
				ID:        order.ID.String(),
				CreatedAt: order.CreatedAt.Format(time.RFC3339Nano),
			})
			if err != nil {
				return ""
			}
			return token
		})
		if resp.PageInfo.HasMore && len(items) > pageSize {
			items = items[:pageSize]
		}
	}

	orders := make([]domain.Order, 0, len(items))
	for _, item := range items {
		orders = append(orders, *item)
	}
	resp.Orders = orders

	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetOrderRequest) (domain.Order, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Order{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Order{}, err
	}
	if item == nil {
		return domain.Order{}, domain.ErrNotFound
	}

	return *item, nil
}

// parseProductIDs parses and de-duplicates the requested product IDs so a
// repeated ID cannot fake a reference-count mismatch.
func parseProductIDs(raw []string) ([]snowflake.ID, error) {
	ids := make([]snowflake.ID, 0, len(raw))
	seen := make(map[snowflake.ID]bool, len(raw))
	for _, value := range raw {
		id, err := snowflake.ParseString(strings.TrimSpace(value))
		if err != nil || id == 0 {
			return nil, domain.ErrInvalidProducts
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}
