package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/afigueroa/mailprov-backend/internal/audit"
	"github.com/afigueroa/mailprov-backend/pkg/db/models"
	"github.com/afigueroa/mailprov-backend/pkg/enums"
	pkgerrors "github.com/afigueroa/mailprov-backend/pkg/errors"
	"github.com/afigueroa/mailprov-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Service defines the fulfillment-order operations.
type Service interface {
	List(ctx context.Context, params pagination.Params) (*OrderList, error)
	ListForUser(ctx context.Context, userID string) ([]OrderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*OrderDTO, error)
	Claim(ctx context.Context, id uuid.UUID, actorID string, actorIP *string) (*OrderDTO, error)
	Delete(ctx context.Context, id uuid.UUID, actorID string, actorIP *string) error
}

type service struct {
	repo     Repository
	users    userFinder
	tx       txRunner
	recorder *audit.Recorder
}

// NewService wires the orders service dependencies.
func NewService(repo Repository, users userFinder, tx txRunner, recorder *audit.Recorder) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders repository required")
	}
	if users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if recorder == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "audit recorder required")
	}
	return &service{repo: repo, users: users, tx: tx, recorder: recorder}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*OrderList, error) {
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	normalized := params.Normalize()
	list := &OrderList{
		Orders: make([]OrderDTO, 0, len(rows)),
		Total:  total,
		Page:   normalized.Page,
		Limit:  normalized.Limit,
	}
	for i := range rows {
		list.Orders = append(list.Orders, *FromModel(&rows[i]))
	}
	return list, nil
}

func (s *service) ListForUser(ctx context.Context, userID string) ([]OrderDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user orders")
	}

	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return FromModel(order), nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if input.ActorID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if _, err := s.users.FindByID(ctx, input.UserID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	priority := enums.PriorityNormal
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown priority")
		}
		priority = *input.Priority
	}

	actorID := input.ActorID
	order := &models.EmailOrder{
		UserID:              input.UserID,
		Status:              enums.OrderStatusPending,
		Priority:            priority,
		PaymentID:           input.PaymentID,
		PolarSubscriptionID: input.PolarSubscriptionID,
		AdminNotes:          input.Notes,
		AssignedAdminID:     &actorID,
	}

	var created *OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		row, err := repo.Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		if err := s.recorder.Record(ctx, tx, audit.Entry{
			AdminID:    input.ActorID,
			TargetType: enums.TargetOrder,
			TargetID:   row.ID.String(),
			Detail:     audit.OrderCreatedDetails{UserID: row.UserID, Priority: row.Priority},
			IPAddress:  input.ActorIP,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record order creation")
		}

		created = FromModel(row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*OrderDTO, error) {
	if input.ActorID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown status")
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown priority")
	}
	if input.AssignedAdminID != nil {
		assignee, err := s.users.FindByID(ctx, *input.AssignedAdminID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "assignee not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignee")
		}
		if !assignee.Role.CanAssignOrders() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignee must be an admin")
		}
	}

	var updated *OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock order")
		}

		updates := map[string]any{}
		diff := map[string]audit.FieldChange{}

		if input.Status != nil && *input.Status != current.Status {
			if !CanTransition(current.Status, *input.Status) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "order cannot move from "+string(current.Status)+" to "+string(*input.Status))
			}
			updates["status"] = *input.Status
			diff["status"] = audit.FieldChange{From: current.Status, To: *input.Status}
			if *input.Status == enums.OrderStatusDelivered {
				now := time.Now().UTC()
				updates["delivered_at"] = now
				diff["delivered_at"] = audit.FieldChange{From: current.DeliveredAt, To: now}
			}
		}
		if input.Priority != nil && *input.Priority != current.Priority {
			updates["priority"] = *input.Priority
			diff["priority"] = audit.FieldChange{From: current.Priority, To: *input.Priority}
		}
		if input.Notes != nil {
			if current.AdminNotes == nil || *input.Notes != *current.AdminNotes {
				updates["admin_notes"] = *input.Notes
				diff["admin_notes"] = audit.FieldChange{From: current.AdminNotes, To: *input.Notes}
			}
		}
		if input.AssignedAdminID != nil {
			if current.AssignedAdminID == nil || *input.AssignedAdminID != *current.AssignedAdminID {
				updates["assigned_admin_id"] = *input.AssignedAdminID
				diff["assigned_admin_id"] = audit.FieldChange{From: current.AssignedAdminID, To: *input.AssignedAdminID}
			}
		}

		if len(updates) == 0 {
			updated = FromModel(current)
			return nil
		}

		if err := repo.Update(ctx, id, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}

		if err := s.recorder.Record(ctx, tx, audit.Entry{
			AdminID:    input.ActorID,
			TargetType: enums.TargetOrder,
			TargetID:   id.String(),
			Detail:     audit.OrderDiffDetails{Fields: diff},
			IPAddress:  input.ActorIP,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record order update")
		}

		row, err := repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		updated = FromModel(row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Claim(ctx context.Context, id uuid.UUID, actorID string, actorIP *string) (*OrderDTO, error) {
	if actorID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}

	var claimed *OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock order")
		}

		if current.Status.Terminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order already settled")
		}
		if current.AssignedAdminID != nil && *current.AssignedAdminID != actorID {
			return pkgerrors.New(pkgerrors.CodeConflict, "order already claimed by another admin")
		}

		if err := repo.Update(ctx, id, map[string]any{"assigned_admin_id": actorID}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim order")
		}

		if err := s.recorder.Record(ctx, tx, audit.Entry{
			AdminID:    actorID,
			TargetType: enums.TargetOrder,
			TargetID:   id.String(),
			Detail:     audit.OrderAssignedDetails{AssignedAdminID: actorID},
			IPAddress:  actorIP,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record order claim")
		}

		row, err := repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		claimed = FromModel(row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, actorID string, actorIP *string) error {
	if actorID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock order")
		}

		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
		}

		return s.recorder.Record(ctx, tx, audit.Entry{
			AdminID:    actorID,
			TargetType: enums.TargetOrder,
			TargetID:   id.String(),
			Detail: audit.OrderSnapshotDetails{
				UserID:      current.UserID,
				Status:      current.Status,
				Priority:    current.Priority,
				AdminNotes:  current.AdminNotes,
				DeliveredAt: current.DeliveredAt,
				CreatedAt:   current.CreatedAt,
			},
			IPAddress: actorIP,
		})
	})
}
