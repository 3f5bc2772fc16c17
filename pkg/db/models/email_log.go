package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/afigueroa/mailprov-backend/pkg/enums"
)

// EmailLog records one row per outbound email attempt, failures included.
// Rows are never updated after creation.
type EmailLog struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         *string           `gorm:"column:user_id;type:text;index"`
	EmailType      enums.EmailType   `gorm:"column:email_type;type:text;not null"`
	RecipientEmail string            `gorm:"column:recipient_email;not null"`
	Subject        string            `gorm:"column:subject;not null"`
	Status         enums.EmailStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	ResendID       *string           `gorm:"column:resend_id"`
	ErrorMessage   *string           `gorm:"column:error_message"`
	SentAt         time.Time         `gorm:"column:sent_at;autoCreateTime"`
}

func (EmailLog) TableName() string {
	return "email_logs"
}
