package users

import (
	"time"

	"github.com/afigueroa/mailprov-backend/pkg/db/models"
	"github.com/afigueroa/mailprov-backend/pkg/enums"
)

// UserDTO is the transport shape. The sealed enterprise password never
// leaves the persistence layer.
type UserDTO struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	EmailVerified   bool           `json:"email_verified"`
	Role            enums.UserRole `json:"role"`
	EnterpriseEmail *string        `json:"enterprise_email,omitempty"`
	CountryCode     *string        `json:"country_code,omitempty"`
	LastLogin       *time.Time     `json:"last_login,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// CreateUserDTO holds the data required to persist a new user.
type CreateUserDTO struct {
	ID          string
	Name        string
	Email       string
	Role        enums.UserRole
	CountryCode *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		EmailVerified:   u.EmailVerified,
		Role:            u.Role,
		EnterpriseEmail: u.EnterpriseEmail,
		CountryCode:     u.CountryCode,
		LastLogin:       u.LastLogin,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.RoleUser
	}
	return &models.User{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Role:        role,
		CountryCode: c.CountryCode,
	}
}
