package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/afigueroa/mailprov-backend/pkg/db/models"
	"github.com/afigueroa/mailprov-backend/pkg/enums"
)

// Entry is one administrative mutation to append to the trail.
type Entry struct {
	AdminID    string
	TargetType enums.TargetType
	TargetID   string
	Detail     Detail
	IPAddress  *string
}

// Recorder appends audit rows. Rows are never updated or deleted.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder binds the recorder to the shared GORM connection.
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// Record appends one activity row. When tx is non-nil the row joins the
// caller's transaction so the mutation and its audit entry commit together.
func (r *Recorder) Record(ctx context.Context, tx *gorm.DB, entry Entry) error {
	if entry.Detail == nil {
		return fmt.Errorf("audit entry requires a detail payload")
	}

	payload, err := json.Marshal(entry.Detail)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}

	row := &models.AdminActivity{
		AdminID:    entry.AdminID,
		Action:     entry.Detail.Action(),
		TargetType: entry.TargetType,
		TargetID:   entry.TargetID,
		Details:    payload,
		IPAddress:  entry.IPAddress,
	}

	conn := r.db
	if tx != nil {
		conn = tx
	}
	return conn.WithContext(ctx).Create(row).Error
}
