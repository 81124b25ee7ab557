package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/crm/pkg/db/option"
	"gorm.io/gorm"
)

type Repository interface {
	// Insert persists the order row and its product associations.
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)
	List(ctx context.Context, db *gorm.DB, filter OrderFilter, opts ...option.QueryOption) ([]*Order, error)
	Totals(ctx context.Context, db *gorm.DB) (Totals, error)
}
