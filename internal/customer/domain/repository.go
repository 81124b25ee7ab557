package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/crm/pkg/db/option"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Customer, error)
	EmailExists(ctx context.Context, db *gorm.DB, email string) (bool, error)
	List(ctx context.Context, db *gorm.DB, filter CustomerFilter, opts ...option.QueryOption) ([]*Customer, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}
