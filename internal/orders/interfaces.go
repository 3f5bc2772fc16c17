package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/afigueroa/mailprov-backend/pkg/db/models"
	"github.com/afigueroa/mailprov-backend/pkg/enums"
	"github.com/afigueroa/mailprov-backend/pkg/pagination"
)

// Repository exposes email-order persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.EmailOrder) (*models.EmailOrder, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.EmailOrder, error)
	// FindByIDForUpdate locks the row for the remainder of the transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.EmailOrder, error)
	FindByPaymentID(ctx context.Context, paymentID string) (*models.EmailOrder, error)
	List(ctx context.Context, params pagination.Params) ([]models.EmailOrder, int64, error)
	ListByUser(ctx context.Context, userID string) ([]models.EmailOrder, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error)
	Count(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	CreatedTimesSince(ctx context.Context, since time.Time) ([]time.Time, error)
}
