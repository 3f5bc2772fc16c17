package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/afigueroa/mailprov-backend/pkg/db/models"
	"github.com/afigueroa/mailprov-backend/pkg/enums"
	"github.com/afigueroa/mailprov-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec(`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		email_verified BOOLEAN NOT NULL DEFAULT FALSE,
		role TEXT NOT NULL DEFAULT 'user',
		enterprise_email TEXT,
		enterprise_password TEXT,
		country_code TEXT,
		last_login DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`).Error)

	require.NoError(t, db.Exec(`CREATE TABLE IF NOT EXISTS email_orders (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		payment_id TEXT,
		polar_subscription_id TEXT,
		assigned_admin_id TEXT,
		admin_notes TEXT,
		priority TEXT NOT NULL DEFAULT 'normal',
		delivered_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`).Error)

	return db
}

func seedOrderUser(t *testing.T, db *gorm.DB, id, email string) {
	t.Helper()
	require.NoError(t, db.Create(&models.User{
		ID:    id,
		Name:  "Order User",
		Email: email,
		Role:  enums.RoleUser,
	}).Error)
}

func seedOrder(t *testing.T, repo Repository, userID string, status enums.OrderStatus, createdAt time.Time) *models.EmailOrder {
	t.Helper()
	order, err := repo.Create(context.Background(), &models.EmailOrder{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    status,
		Priority:  enums.PriorityNormal,
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
	return order
}

func TestOrdersRepositoryCreateAndFind(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	seedOrderUser(t, db, "user-1", "one@example.com")
	created := seedOrder(t, repo, "user-1", enums.OrderStatusPending, time.Now().UTC())

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, enums.OrderStatusPending, found.Status)
	require.NotNil(t, found.User)
	assert.Equal(t, "one@example.com", found.User.Email)
}

func TestOrdersRepositoryFindByPaymentID(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	seedOrderUser(t, db, "user-1", "one@example.com")
	paymentID := "pay_123"
	_, err := repo.Create(context.Background(), &models.EmailOrder{
		ID:        uuid.New(),
		UserID:    "user-1",
		Status:    enums.OrderStatusPending,
		Priority:  enums.PriorityNormal,
		PaymentID: &paymentID,
	})
	require.NoError(t, err)

	found, err := repo.FindByPaymentID(context.Background(), "pay_123")
	require.NoError(t, err)
	require.NotNil(t, found.PaymentID)
	assert.Equal(t, "pay_123", *found.PaymentID)

	_, err = repo.FindByPaymentID(context.Background(), "pay_missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrdersRepositoryListNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	seedOrderUser(t, db, "user-1", "one@example.com")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	oldest := seedOrder(t, repo, "user-1", enums.OrderStatusPending, base)
	middle := seedOrder(t, repo, "user-1", enums.OrderStatusProcessing, base.Add(time.Hour))
	newest := seedOrder(t, repo, "user-1", enums.OrderStatusDelivered, base.Add(2*time.Hour))

	rows, total, err := repo.List(context.Background(), pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rows, 2)
	assert.Equal(t, newest.ID, rows[0].ID)
	assert.Equal(t, middle.ID, rows[1].ID)

	rows, total, err = repo.List(context.Background(), pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rows, 1)
	assert.Equal(t, oldest.ID, rows[0].ID)
}

func TestOrdersRepositoryListByUser(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	seedOrderUser(t, db, "user-1", "one@example.com")
	seedOrderUser(t, db, "user-2", "two@example.com")
	seedOrder(t, repo, "user-1", enums.OrderStatusPending, time.Now().UTC())
	seedOrder(t, repo, "user-2", enums.OrderStatusPending, time.Now().UTC())

	rows, err := repo.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "user-1", rows[0].UserID)
}

func TestOrdersRepositoryUpdate(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	seedOrderUser(t, db, "user-1", "one@example.com")
	order := seedOrder(t, repo, "user-1", enums.OrderStatusPending, time.Now().UTC())

	err := repo.Update(context.Background(), order.ID, map[string]any{
		"status":      enums.OrderStatusProcessing,
		"admin_notes": "picked up",
	})
	require.NoError(t, err)

	reloaded, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, reloaded.Status)
	require.NotNil(t, reloaded.AdminNotes)
	assert.Equal(t, "picked up", *reloaded.AdminNotes)

	err = repo.Update(context.Background(), uuid.New(), map[string]any{"status": enums.OrderStatusFailed})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrdersRepositoryDelete(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	seedOrderUser(t, db, "user-1", "one@example.com")
	order := seedOrder(t, repo, "user-1", enums.OrderStatusPending, time.Now().UTC())

	require.NoError(t, repo.Delete(context.Background(), order.ID))

	_, err := repo.FindByID(context.Background(), order.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.Delete(context.Background(), order.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrdersRepositoryCountByStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	seedOrderUser(t, db, "user-1", "one@example.com")
	seedOrder(t, repo, "user-1", enums.OrderStatusPending, time.Now().UTC())
	seedOrder(t, repo, "user-1", enums.OrderStatusPending, time.Now().UTC())
	seedOrder(t, repo, "user-1", enums.OrderStatusDelivered, time.Now().UTC())

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[enums.OrderStatusPending])
	assert.Equal(t, int64(1), counts[enums.OrderStatusDelivered])

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestOrdersRepositoryCreatedSince(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	seedOrderUser(t, db, "user-1", "one@example.com")
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	seedOrder(t, repo, "user-1", enums.OrderStatusPending, base)
	seedOrder(t, repo, "user-1", enums.OrderStatusPending, base.AddDate(0, 0, 5))

	n, err := repo.CountCreatedSince(context.Background(), base.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	times, err := repo.CreatedTimesSince(context.Background(), base.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, times, 1)
}
