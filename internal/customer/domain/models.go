package domain

import (
	"regexp"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Customer struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"not null" json:"name"`
	Email     string            `gorm:"not null;uniqueIndex:ux_customers_email" json:"email"`
	Phone     *string           `json:"phone,omitempty"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

// phonePattern accepts either an international form with an optional plus
// (10-15 digits) or the dashed form DDD-DDD-DDDD.
var phonePattern = regexp.MustCompile(`^(\+?\d{10,15}|\d{3}-\d{3}-\d{4})$`)

func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
