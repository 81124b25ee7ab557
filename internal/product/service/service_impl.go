package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/crm/internal/product/domain"
	"github.com/smallbiznis/crm/pkg/db/option"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("product.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateProductRequest) (domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Product{}, domain.ErrInvalidName
	}

	if !req.Price.IsPositive() {
		return domain.Product{}, domain.ErrInvalidPrice
	}

	stock := 0
	if req.Stock != nil {
		stock = *req.Stock
	}
	if stock < 0 {
		return domain.Product{}, domain.ErrInvalidStock
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:        s.genID.Generate(),
		Name:      name,
		Price:     req.Price,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &product); err != nil {
		return domain.Product{}, err
	}

	return product, nil
}

func (s *Service) List(ctx context.Context, req domain.ListProductRequest) (domain.ListProductResponse, error) {
	opts, pageSize, err := option.ForList(option.ListParams{
		Table:     "products",
		PageToken: req.PageToken,
		PageSize:  req.PageSize,
		OrderBy:   req.OrderBy,
		Sortable: map[string]bool{
			"name":       true,
			"price":      true,
			"stock":      true,
			"created_at": true,
		},
	})
	if err != nil {
		return domain.ListProductResponse{}, err
	}

	items, err := s.repo.List(ctx, s.db, req.Filter, opts...)
	if err != nil {
		return domain.ListProductResponse{}, err
	}

	resp := domain.ListProductResponse{}
	if pageSize > 0 {
		resp.PageInfo = pagination.BuildCursorPageInfo(items, pageSize, func(product *domain.Product) string {
			token, err := pagination.EncodeCursor(pagination.Cursor{
				ID:        product.ID.String(),
				CreatedAt: product.CreatedAt.Format(time.RFC3339Nano),
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

	products := make([]domain.Product, 0, len(items))
	for _, item := range items {
		products = append(products, *item)
	}
	resp.Products = products

	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetProductRequest) (domain.Product, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Product{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Product{}, err
	}
	if item == nil {
		return domain.Product{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) RestockLowStock(ctx context.Context) (domain.RestockResult, error) {
	result := domain.RestockResult{Products: []domain.Product{}}

	lowStock := true
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Snapshot before any increment so a product pushed past the
		// threshold by its own update is not selected again.
		selected, err := s.repo.List(ctx, tx, domain.ProductFilter{LowStock: &lowStock})
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, item := range selected {
			item.Stock += domain.RestockIncrement
			item.UpdatedAt = now
			if err := s.repo.UpdateStock(ctx, tx, item); err != nil {
				return err
			}
			result.Products = append(result.Products, *item)
		}
		return nil
	})
	if err != nil {
		return domain.RestockResult{}, err
	}

	result.Count = len(result.Products)
	if result.Count > 0 {
		s.log.Info("restocked low-stock products", zap.Int("count", result.Count))
	}
	return result, nil
}
