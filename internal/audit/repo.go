package audit

import (
	"context"

	"gorm.io/gorm"

	"github.com/afigueroa/mailprov-backend/pkg/db/models"
	"github.com/afigueroa/mailprov-backend/pkg/pagination"
)

// Repository reads the activity trail for admin dashboards.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the shared GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns activity rows newest-first.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.AdminActivity, error) {
	var rows []models.AdminActivity
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(params.Normalize().Limit).
		Offset(params.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Recent returns the n most recent activity rows.
func (r *Repository) Recent(ctx context.Context, n int) ([]models.AdminActivity, error) {
	if n <= 0 {
		n = 10
	}
	var rows []models.AdminActivity
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(n).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
