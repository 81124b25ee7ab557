package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/crm/internal/customer/domain"
	pkgdb "github.com/smallbiznis/crm/pkg/db"
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
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	customer, err := s.validate(req)
	if err != nil {
		return domain.Customer{}, err
	}

	exists, err := s.repo.EmailExists(ctx, s.db, customer.Email)
	if err != nil {
		return domain.Customer{}, err
	}
	if exists {
		return domain.Customer{}, domain.ErrEmailExists
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return domain.Customer{}, domain.ErrEmailExists
		}
		return domain.Customer{}, err
	}

	return customer, nil
}

// BulkCreate validates and inserts each input independently inside one
// transaction. Item failures are collected with their 1-based position and
// never abort the batch; only a store-level failure rolls the batch back.
func (s *Service) BulkCreate(ctx context.Context, reqs []domain.CreateCustomerRequest) (domain.BulkCreateResult, error) {
	result := domain.BulkCreateResult{Customers: []domain.Customer{}}
	seen := make(map[string]bool, len(reqs))

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for idx, req := range reqs {
			pos := idx + 1

			customer, err := s.validate(req)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Customer %d: %s", pos, validationMessage(err)))
				continue
			}

			if seen[customer.Email] {
				result.Errors = append(result.Errors, fmt.Sprintf("Customer %d: Email already exists.", pos))
				continue
			}
			exists, err := s.repo.EmailExists(ctx, tx, customer.Email)
			if err != nil {
				return err
			}
			if exists {
				result.Errors = append(result.Errors, fmt.Sprintf("Customer %d: Email already exists.", pos))
				continue
			}

			if err := s.repo.Insert(ctx, tx, &customer); err != nil {
				return err
			}
			seen[customer.Email] = true
			result.Customers = append(result.Customers, customer)
		}
		return nil
	})
	if txErr != nil {
		s.log.Error("bulk create rolled back", zap.Error(txErr))
		return domain.BulkCreateResult{
			Customers: []domain.Customer{},
			Errors:    []string{fmt.Sprintf("Bulk create failed: %v", txErr)},
		}, nil
	}

	return result, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) (domain.ListCustomerResponse, error) {
	opts, pageSize, err := option.ForList(option.ListParams{
		Table:     "customers",
		PageToken: req.PageToken,
		PageSize:  req.PageSize,
		OrderBy:   req.OrderBy,
		Sortable: map[string]bool{
			"name":       true,
			"email":      true,
			"created_at": true,
		},
	})
	if err != nil {
		return domain.ListCustomerResponse{}, err
	}

	items, err := s.repo.List(ctx, s.db, req.Filter, opts...)
	if err != nil {
		return domain.ListCustomerResponse{}, err
	}

	resp := domain.ListCustomerResponse{}
	if pageSize > 0 {
		resp.PageInfo = pagination.BuildCursorPageInfo(items, pageSize, func(customer *domain.Customer) string {
			token, err := pagination.EncodeCursor(pagination.Cursor{
				ID:        customer.ID.String(),
				CreatedAt: customer.CreatedAt.Format(time.RFC3339Nano),
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

	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		customers = append(customers, *item)
	}
	resp.Customers = customers

	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetCustomerRequest) (domain.Customer, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Customer{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) validate(req domain.CreateCustomerRequest) (domain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Customer{}, domain.ErrInvalidEmail
	}

	var phone *string
	if req.Phone != nil {
		value := strings.TrimSpace(*req.Phone)
		if value != "" {
			if !domain.ValidPhone(value) {
				return domain.Customer{}, domain.ErrInvalidPhone
			}
			phone = &value
		}
	}

	now := time.Now().UTC()
	return domain.Customer{
		ID:        s.genID.Generate(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func validationMessage(err error) string {
	switch err {
	case domain.ErrInvalidName, domain.ErrInvalidEmail:
		return "Name and email are required."
	case domain.ErrInvalidPhone:
		return "Invalid phone format."
	default:
		return err.Error()
	}
}
