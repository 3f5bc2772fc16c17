package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/afigueroa/mailprov-backend/pkg/db/models"
	"github.com/afigueroa/mailprov-backend/pkg/enums"
	"github.com/afigueroa/mailprov-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.EmailOrder) (*models.EmailOrder, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.EmailOrder, error) {
	var order models.EmailOrder
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("AssignedAdmin").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.EmailOrder, error) {
	var order models.EmailOrder
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByPaymentID(ctx context.Context, paymentID string) (*models.EmailOrder, error) {
	var order models.EmailOrder
	err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params) ([]models.EmailOrder, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.EmailOrder{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.EmailOrder
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("AssignedAdmin").
		Order("created_at DESC").
		Limit(params.Normalize().Limit).
		Offset(params.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]models.EmailOrder, error) {
	var rows []models.EmailOrder
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.EmailOrder{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.EmailOrder{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	type statusCount struct {
		Status enums.OrderStatus
		Count  int64
	}
	var counts []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.EmailOrder{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	result := make(map[enums.OrderStatus]int64, len(counts))
	for _, row := range counts {
		result[row.Status] = row.Count
	}
	return result, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.EmailOrder{}).Count(&n).Error
	return n, err
}

func (r *repository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.EmailOrder{}).
		Where("created_at >= ?", since).
		Count(&n).Error
	return n, err
}

func (r *repository) CreatedTimesSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.db.WithContext(ctx).
		Model(&models.EmailOrder{}).
		Where("created_at >= ?", since).
		Pluck("created_at", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}
