package orders

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/afigueroa/mailprov-backend/internal/audit"
	"github.com/afigueroa/mailprov-backend/pkg/db/models"
	"github.com/afigueroa/mailprov-backend/pkg/enums"
	pkgerrors "github.com/afigueroa/mailprov-backend/pkg/errors"
	"github.com/afigueroa/mailprov-backend/pkg/pagination"
)

type stubOrdersRepo struct {
	order   *models.EmailOrder
	updates []map[string]any
	deleted []uuid.UUID
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.EmailOrder) (*models.EmailOrder, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now().UTC()
	order.UpdatedAt = order.CreatedAt
	s.order = order
	return order, nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.EmailOrder, error) {
	if s.order == nil || s.order.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.order
	return &copied, nil
}

func (s *stubOrdersRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.EmailOrder, error) {
	return s.FindByID(ctx, id)
}

func (s *stubOrdersRepo) FindByPaymentID(ctx context.Context, paymentID string) (*models.EmailOrder, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) List(ctx context.Context, params pagination.Params) ([]models.EmailOrder, int64, error) {
	if s.order == nil {
		return nil, 0, nil
	}
	return []models.EmailOrder{*s.order}, 1, nil
}

func (s *stubOrdersRepo) ListByUser(ctx context.Context, userID string) ([]models.EmailOrder, error) {
	if s.order == nil || s.order.UserID != userID {
		return nil, nil
	}
	return []models.EmailOrder{*s.order}, nil
}

func (s *stubOrdersRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if s.order == nil || s.order.ID != id {
		return gorm.ErrRecordNotFound
	}
	s.updates = append(s.updates, updates)
	if v, ok := updates["status"]; ok {
		s.order.Status = v.(enums.OrderStatus)
	}
	if v, ok := updates["priority"]; ok {
		s.order.Priority = v.(enums.OrderPriority)
	}
	if v, ok := updates["admin_notes"]; ok {
		notes := v.(string)
		s.order.AdminNotes = &notes
	}
	if v, ok := updates["assigned_admin_id"]; ok {
		adminID := v.(string)
		s.order.AssignedAdminID = &adminID
	}
	if v, ok := updates["delivered_at"]; ok {
		at := v.(time.Time)
		s.order.DeliveredAt = &at
	}
	return nil
}

func (s *stubOrdersRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if s.order == nil || s.order.ID != id {
		return gorm.ErrRecordNotFound
	}
	s.deleted = append(s.deleted, id)
	s.order = nil
	return nil
}

func (s *stubOrdersRepo) CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	return nil, nil
}

func (s *stubOrdersRepo) Count(ctx context.Context) (int64, error) { return 0, nil }

func (s *stubOrdersRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return 0, nil
}

func (s *stubOrdersRepo) CreatedTimesSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	return nil, nil
}

type stubUserFinder struct {
	users map[string]*models.User
}

func (s stubUserFinder) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeTxRunner struct {
	db *gorm.DB
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(f.db)
}

func setupActivityDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec(`CREATE TABLE IF NOT EXISTS admin_activity (
		id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(4)) || '-' || hex(randomblob(2)) || '-4' || substr(hex(randomblob(2)),2) || '-a' || substr(hex(randomblob(2)),2) || '-' || hex(randomblob(6)))),
		admin_id TEXT NOT NULL,
		action TEXT NOT NULL,
		target_type TEXT NOT NULL,
		target_id TEXT NOT NULL,
		details TEXT,
		ip_address TEXT,
		created_at DATETIME
	)`).Error)

	return db
}

func newTestService(t *testing.T, repo *stubOrdersRepo, users map[string]*models.User) (Service, *gorm.DB) {
	t.Helper()
	db := setupActivityDB(t)
	svc, err := NewService(repo, stubUserFinder{users: users}, fakeTxRunner{db: db}, audit.NewRecorder(db))
	require.NoError(t, err)
	return svc, db
}

func activityRows(t *testing.T, db *gorm.DB) []models.AdminActivity {
	t.Helper()
	var rows []models.AdminActivity
	require.NoError(t, db.Find(&rows).Error)
	return rows
}

func pendingOrder(adminID *string) *models.EmailOrder {
	return &models.EmailOrder{
		ID:              uuid.New(),
		UserID:          "user-1",
		Status:          enums.OrderStatusPending,
		Priority:        enums.PriorityNormal,
		AssignedAdminID: adminID,
		CreatedAt:       time.Now().UTC(),
	}
}

func TestOrdersServiceCreateDefaults(t *testing.T) {
	repo := &stubOrdersRepo{}
	svc, db := newTestService(t, repo, map[string]*models.User{
		"user-1": {ID: "user-1", Name: "Customer", Email: "c@example.com"},
	})

	dto, err := svc.Create(context.Background(), CreateOrderInput{
		UserID:  "user-1",
		ActorID: "admin-1",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, dto.Status)
	assert.Equal(t, enums.PriorityNormal, dto.Priority)
	require.NotNil(t, dto.AssignedAdminID)
	assert.Equal(t, "admin-1", *dto.AssignedAdminID)

	rows := activityRows(t, db)
	require.Len(t, rows, 1)
	assert.Equal(t, enums.ActionCreateOrder, rows[0].Action)
	assert.Equal(t, enums.TargetOrder, rows[0].TargetType)
	assert.Equal(t, "admin-1", rows[0].AdminID)

	var details audit.OrderCreatedDetails
	require.NoError(t, json.Unmarshal(rows[0].Details, &details))
	assert.Equal(t, "user-1", details.UserID)
	assert.Equal(t, enums.PriorityNormal, details.Priority)
}

func TestOrdersServiceCreateUnknownUser(t *testing.T) {
	svc, db := newTestService(t, &stubOrdersRepo{}, map[string]*models.User{})

	_, err := svc.Create(context.Background(), CreateOrderInput{UserID: "ghost", ActorID: "admin-1"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
	assert.Empty(t, activityRows(t, db))
}

func TestOrdersServiceUpdateIllegalTransition(t *testing.T) {
	repo := &stubOrdersRepo{order: pendingOrder(nil)}
	repo.order.Status = enums.OrderStatusDelivered
	svc, db := newTestService(t, repo, nil)

	status := enums.OrderStatusProcessing
	_, err := svc.Update(context.Background(), repo.order.ID, UpdateOrderInput{
		Status:  &status,
		ActorID: "admin-1",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
	assert.Empty(t, repo.updates)
	assert.Empty(t, activityRows(t, db))
}

func TestOrdersServiceUpdateSetsDeliveredAt(t *testing.T) {
	repo := &stubOrdersRepo{order: pendingOrder(nil)}
	svc, db := newTestService(t, repo, nil)

	status := enums.OrderStatusDelivered
	dto, err := svc.Update(context.Background(), repo.order.ID, UpdateOrderInput{
		Status:  &status,
		ActorID: "admin-1",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDelivered, dto.Status)
	require.NotNil(t, dto.DeliveredAt)

	require.Len(t, repo.updates, 1)
	_, hasDeliveredAt := repo.updates[0]["delivered_at"]
	assert.True(t, hasDeliveredAt)

	rows := activityRows(t, db)
	require.Len(t, rows, 1)
	assert.Equal(t, enums.ActionUpdateOrder, rows[0].Action)

	var details audit.OrderDiffDetails
	require.NoError(t, json.Unmarshal(rows[0].Details, &details))
	assert.Contains(t, details.Fields, "status")
	assert.Contains(t, details.Fields, "delivered_at")
}

func TestOrdersServiceUpdateNoop(t *testing.T) {
	repo := &stubOrdersRepo{order: pendingOrder(nil)}
	svc, db := newTestService(t, repo, nil)

	priority := enums.PriorityNormal
	dto, err := svc.Update(context.Background(), repo.order.ID, UpdateOrderInput{
		Priority: &priority,
		ActorID:  "admin-1",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.PriorityNormal, dto.Priority)
	assert.Empty(t, repo.updates)
	assert.Empty(t, activityRows(t, db))
}

func TestOrdersServiceUpdateReassign(t *testing.T) {
	previous := "admin-1"
	repo := &stubOrdersRepo{order: pendingOrder(&previous)}
	svc, db := newTestService(t, repo, map[string]*models.User{
		"admin-2": {ID: "admin-2", Name: "Second Admin", Email: "a2@example.com", Role: enums.RoleAdmin},
	})

	assignee := "admin-2"
	dto, err := svc.Update(context.Background(), repo.order.ID, UpdateOrderInput{
		AssignedAdminID: &assignee,
		ActorID:         "admin-1",
	})
	require.NoError(t, err)
	require.NotNil(t, dto.AssignedAdminID)
	assert.Equal(t, "admin-2", *dto.AssignedAdminID)

	require.Len(t, repo.updates, 1)
	assert.Equal(t, "admin-2", repo.updates[0]["assigned_admin_id"])

	rows := activityRows(t, db)
	require.Len(t, rows, 1)

	var details audit.OrderDiffDetails
	require.NoError(t, json.Unmarshal(rows[0].Details, &details))
	assert.Contains(t, details.Fields, "assigned_admin_id")

	// Re-sending the current assignee is a no-op, no second audit row.
	dto, err = svc.Update(context.Background(), repo.order.ID, UpdateOrderInput{
		AssignedAdminID: &assignee,
		ActorID:         "admin-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin-2", *dto.AssignedAdminID)
	assert.Len(t, repo.updates, 1)
	assert.Len(t, activityRows(t, db), 1)
}

func TestOrdersServiceUpdateReassignValidatesTarget(t *testing.T) {
	repo := &stubOrdersRepo{order: pendingOrder(nil)}
	svc, db := newTestService(t, repo, map[string]*models.User{
		"user-1": {ID: "user-1", Name: "Customer", Email: "c@example.com", Role: enums.RoleUser},
	})

	ghost := "ghost"
	_, err := svc.Update(context.Background(), repo.order.ID, UpdateOrderInput{
		AssignedAdminID: &ghost,
		ActorID:         "admin-1",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	customer := "user-1"
	_, err = svc.Update(context.Background(), repo.order.ID, UpdateOrderInput{
		AssignedAdminID: &customer,
		ActorID:         "admin-1",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	assert.Empty(t, repo.updates)
	assert.Empty(t, activityRows(t, db))
}

func TestOrdersServiceCreateRecordsPaymentRefs(t *testing.T) {
	repo := &stubOrdersRepo{}
	svc, _ := newTestService(t, repo, map[string]*models.User{
		"user-1": {ID: "user-1", Name: "Customer", Email: "c@example.com"},
	})

	paymentID := "pay_123"
	subID := "sub_456"
	dto, err := svc.Create(context.Background(), CreateOrderInput{
		UserID:              "user-1",
		PaymentID:           &paymentID,
		PolarSubscriptionID: &subID,
		ActorID:             "admin-1",
	})
	require.NoError(t, err)
	require.NotNil(t, dto.PaymentID)
	assert.Equal(t, "pay_123", *dto.PaymentID)
	require.NotNil(t, dto.PolarSubscriptionID)
	assert.Equal(t, "sub_456", *dto.PolarSubscriptionID)

	require.NotNil(t, repo.order.PaymentID)
	assert.Equal(t, "pay_123", *repo.order.PaymentID)
}

func TestOrdersServiceClaim(t *testing.T) {
	repo := &stubOrdersRepo{order: pendingOrder(nil)}
	svc, db := newTestService(t, repo, nil)

	dto, err := svc.Claim(context.Background(), repo.order.ID, "admin-1", nil)
	require.NoError(t, err)
	require.NotNil(t, dto.AssignedAdminID)
	assert.Equal(t, "admin-1", *dto.AssignedAdminID)

	rows := activityRows(t, db)
	require.Len(t, rows, 1)
	assert.Equal(t, enums.ActionAssignOrder, rows[0].Action)

	// Re-claiming your own order is allowed.
	_, err = svc.Claim(context.Background(), repo.order.ID, "admin-1", nil)
	require.NoError(t, err)
}

func TestOrdersServiceClaimConflicts(t *testing.T) {
	other := "admin-2"
	repo := &stubOrdersRepo{order: pendingOrder(&other)}
	svc, _ := newTestService(t, repo, nil)

	_, err := svc.Claim(context.Background(), repo.order.ID, "admin-1", nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())

	repo.order.AssignedAdminID = nil
	repo.order.Status = enums.OrderStatusCancelled
	_, err = svc.Claim(context.Background(), repo.order.ID, "admin-1", nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestOrdersServiceDeleteSnapshots(t *testing.T) {
	repo := &stubOrdersRepo{order: pendingOrder(nil)}
	orderID := repo.order.ID
	svc, db := newTestService(t, repo, nil)

	require.NoError(t, svc.Delete(context.Background(), orderID, "admin-1", nil))
	require.Len(t, repo.deleted, 1)

	rows := activityRows(t, db)
	require.Len(t, rows, 1)
	assert.Equal(t, enums.ActionDeleteOrder, rows[0].Action)
	assert.Equal(t, orderID.String(), rows[0].TargetID)

	var details audit.OrderSnapshotDetails
	require.NoError(t, json.Unmarshal(rows[0].Details, &details))
	assert.Equal(t, "user-1", details.UserID)
	assert.Equal(t, enums.OrderStatusPending, details.Status)
}

func TestOrdersServiceRequiresActor(t *testing.T) {
	repo := &stubOrdersRepo{order: pendingOrder(nil)}
	svc, _ := newTestService(t, repo, nil)

	_, err := svc.Create(context.Background(), CreateOrderInput{UserID: "user-1"})
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())

	_, err = svc.Claim(context.Background(), repo.order.ID, "", nil)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}
