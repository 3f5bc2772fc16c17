package models

import (
	"time"

	"github.com/afigueroa/mailprov-backend/pkg/enums"
)

// User is the canonical identity entity. IDs are opaque strings minted by the
// auth collaborator, so the column is text rather than uuid.
type User struct {
	ID            string         `gorm:"column:id;type:text;primaryKey"`
	Name          string         `gorm:"column:name;not null"`
	Email         string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	EmailVerified bool           `gorm:"column:email_verified;not null;default:false"`
	Role          enums.UserRole `gorm:"column:role;type:text;not null;default:'user'"`

	// EnterpriseEmail and EnterprisePassword hold the delivered credential.
	// The password is sealed at rest (pkg/security) and only unsealed for
	// the delivery email.
	EnterpriseEmail    *string `gorm:"column:enterprise_email"`
	EnterprisePassword *string `gorm:"column:enterprise_password"`

	CountryCode *string    `gorm:"column:country_code;type:varchar(2)"`
	LastLogin   *time.Time `gorm:"column:last_login"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
