package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/afigueroa/mailprov-backend/pkg/enums"
)

// AdminActivity is the append-only audit trail: one row per administrative
// mutation, written even when a downstream side effect failed.
type AdminActivity struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AdminID    string            `gorm:"column:admin_id;type:text;not null;index"`
	Action     enums.AdminAction `gorm:"column:action;type:text;not null"`
	TargetType enums.TargetType  `gorm:"column:target_type;type:text;not null"`
	TargetID   string            `gorm:"column:target_id;type:text;not null"`
	Details    json.RawMessage   `gorm:"column:details;type:jsonb"`
	IPAddress  *string           `gorm:"column:ip_address"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (AdminActivity) TableName() string {
	return "admin_activity"
}
