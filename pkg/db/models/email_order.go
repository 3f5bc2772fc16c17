package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/afigueroa/mailprov-backend/pkg/enums"
)

// EmailOrder is the unit of fulfillment work created when a subscription is
// paid and closed out when an admin delivers credentials.
type EmailOrder struct {
	ID                  uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID              string              `gorm:"column:user_id;type:text;not null;index"`
	Status              enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentID           *string             `gorm:"column:payment_id"`
	PolarSubscriptionID *string             `gorm:"column:polar_subscription_id"`
	AssignedAdminID     *string             `gorm:"column:assigned_admin_id;type:text"`
	AdminNotes          *string             `gorm:"column:admin_notes"`
	Priority            enums.OrderPriority `gorm:"column:priority;type:text;not null;default:'normal'"`
	DeliveredAt         *time.Time          `gorm:"column:delivered_at"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	User          *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	AssignedAdmin *User `gorm:"foreignKey:AssignedAdminID"`
}

func (EmailOrder) TableName() string {
	return "email_orders"
}
