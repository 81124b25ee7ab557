package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/crm/pkg/db/pagination"
)

// CustomerFilter narrows a listing. Zero-valued fields are no-ops; every
// present field ANDs into the predicate.
type CustomerFilter struct {
	Name        string
	Email       string
	PhonePrefix string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type ListCustomerRequest struct {
	PageToken string
	PageSize  int
	OrderBy   string
	Filter    CustomerFilter
}

type ListCustomerResponse struct {
	PageInfo  *pagination.PageInfo `json:"page_info,omitempty"`
	Customers []Customer           `json:"customers"`
}

type CreateCustomerRequest struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

type BulkCreateResult struct {
	Customers []Customer `json:"customers"`
	Errors    []string   `json:"errors,omitempty"`
}

type GetCustomerRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	BulkCreate(context.Context, []CreateCustomerRequest) (BulkCreateResult, error)
	List(context.Context, ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(context.Context, GetCustomerRequest) (Customer, error)
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrEmailExists  = errors.New("email_exists")
	ErrInvalidPhone = errors.New("invalid_phone")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
)
