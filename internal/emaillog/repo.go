package emaillog

import (
	"context"

	"gorm.io/gorm"

	"github.com/afigueroa/mailprov-backend/pkg/db/models"
)

// Repository appends email log rows. The log is append-only: there is no
// update or delete surface on purpose.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the shared GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append writes one row for a send attempt, success or failure.
func (r *Repository) Append(ctx context.Context, row *models.EmailLog) error {
	return r.db.WithContext(ctx).Create(row).Error
}
