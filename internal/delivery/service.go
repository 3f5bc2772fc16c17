package delivery

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/afigueroa/mailprov-backend/internal/audit"
	"github.com/afigueroa/mailprov-backend/internal/orders"
	"github.com/afigueroa/mailprov-backend/internal/users"
	"github.com/afigueroa/mailprov-backend/pkg/config"
	"github.com/afigueroa/mailprov-backend/pkg/db/models"
	"github.com/afigueroa/mailprov-backend/pkg/enums"
	pkgerrors "github.com/afigueroa/mailprov-backend/pkg/errors"
	"github.com/afigueroa/mailprov-backend/pkg/logger"
	"github.com/afigueroa/mailprov-backend/pkg/mailer"
	"github.com/afigueroa/mailprov-backend/pkg/metrics"
	"github.com/afigueroa/mailprov-backend/pkg/security"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Input carries one credential delivery request.
type Input struct {
	OrderID            uuid.UUID
	EnterpriseEmail    string
	EnterprisePassword string
	Notes              *string
	ActorID            string
	ActorIP            *string
}

// Result reports the outcome. EmailSent false with a committed order means the
// business mutation landed but the notification did not, which callers
// surface as a partial success.
type Result struct {
	Order      *orders.OrderDTO `json:"order"`
	EmailSent  bool             `json:"emailSent"`
	EmailError string           `json:"emailError,omitempty"`
	ResendID   string           `json:"resend_id,omitempty"`
}

// Service orchestrates the delivery workflow: one transaction covering the
// user credentials and the order row, then the notification email outside it.
type Service struct {
	orders   orders.Repository
	users    *users.Repository
	logs     LogAppender
	recorder *audit.Recorder
	sealer   *security.Sealer
	sender   mailer.Sender
	tx       txRunner
	metrics  *metrics.DeliveryMetrics
	log      *logger.Logger
	cfg      config.DeliveryConfig
	now      func() time.Time
}

// LogAppender is satisfied by the email log repository.
type LogAppender interface {
	Append(ctx context.Context, row *models.EmailLog) error
}

// NewService wires the delivery orchestrator.
func NewService(
	ordersRepo orders.Repository,
	usersRepo *users.Repository,
	logs LogAppender,
	recorder *audit.Recorder,
	sealer *security.Sealer,
	sender mailer.Sender,
	tx txRunner,
	deliveryMetrics *metrics.DeliveryMetrics,
	log *logger.Logger,
	cfg config.DeliveryConfig,
) (*Service, error) {
	switch {
	case ordersRepo == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders repository required")
	case usersRepo == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	case logs == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "email log repository required")
	case recorder == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "audit recorder required")
	case sealer == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "credential sealer required")
	case sender == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "email sender required")
	case tx == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &Service{
		orders:   ordersRepo,
		users:    usersRepo,
		logs:     logs,
		recorder: recorder,
		sealer:   sealer,
		sender:   sender,
		tx:       tx,
		metrics:  deliveryMetrics,
		log:      log,
		cfg:      cfg,
		now:      time.Now,
	}, nil
}

// Deliver seals and stores the credentials, settles the order, then emails
// the customer. The email runs after commit so a provider outage can never
// roll back a completed delivery.
func (s *Service) Deliver(ctx context.Context, input Input) (*Result, error) {
	if input.ActorID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}

	started := s.now()
	notes := s.cfg.DefaultAdminNotes
	if input.Notes != nil && *input.Notes != "" {
		notes = *input.Notes
	}

	var (
		recipient *models.User
		settled   *models.EmailOrder
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orders.WithTx(tx)

		order, err := repo.FindByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock order")
		}
		if !orders.Deliverable(order.Status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is "+string(order.Status)+" and cannot be delivered")
		}

		userRepo := s.users.WithTx(tx)
		user, err := userRepo.FindByID(ctx, order.UserID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order user")
		}

		sealed, err := s.sealer.Seal(input.EnterprisePassword)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "seal credentials")
		}

		deliveredAt := s.now().UTC()
		if _, err := userRepo.Update(ctx, user.ID, map[string]any{
			"enterprise_email":    input.EnterpriseEmail,
			"enterprise_password": sealed,
			"last_login":          deliveredAt,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store credentials")
		}

		if err := repo.Update(ctx, order.ID, map[string]any{
			"status":            enums.OrderStatusDelivered,
			"delivered_at":      deliveredAt,
			"admin_notes":       notes,
			"assigned_admin_id": input.ActorID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle order")
		}

		order.Status = enums.OrderStatusDelivered
		order.DeliveredAt = &deliveredAt
		order.AdminNotes = &notes
		order.AssignedAdminID = &input.ActorID

		recipient = user
		settled = order
		return nil
	})
	if err != nil {
		s.metrics.ObserveDelivery("rejected", s.now().Sub(started))
		return nil, err
	}

	result := &Result{
		Order:     orders.FromModel(settled),
		EmailSent: true,
	}

	resendID, sendErr := s.sender.Send(ctx, mailer.Message{
		To:      recipient.Email,
		Subject: mailer.CredentialDeliverySubject,
		HTML:    mailer.CredentialDeliveryHTML(recipient.Name, input.EnterpriseEmail, input.EnterprisePassword),
	})

	logRow := &models.EmailLog{
		UserID:         &recipient.ID,
		EmailType:      enums.EmailTypeCredentialDelivery,
		RecipientEmail: recipient.Email,
		Subject:        mailer.CredentialDeliverySubject,
		Status:         enums.EmailStatusSent,
	}
	if sendErr != nil {
		result.EmailSent = false
		result.EmailError = sendErr.Error()
		logRow.Status = enums.EmailStatusFailed
		msg := sendErr.Error()
		logRow.ErrorMessage = &msg
		s.metrics.IncEmailFailure()
		if s.log != nil {
			s.log.Error(ctx, "delivery email failed", sendErr)
		}
	} else {
		result.ResendID = resendID
		logRow.ResendID = &resendID
	}
	if err := s.logs.Append(ctx, logRow); err != nil && s.log != nil {
		s.log.Error(ctx, "append email log", err)
	}

	if err := s.recorder.Record(ctx, nil, audit.Entry{
		AdminID:    input.ActorID,
		TargetType: enums.TargetOrder,
		TargetID:   settled.ID.String(),
		Detail: audit.DeliveryDetails{
			EnterpriseEmail: input.EnterpriseEmail,
			Notes:           notes,
			EmailSent:       result.EmailSent,
			EmailError:      result.EmailError,
			ResendID:        result.ResendID,
		},
		IPAddress: input.ActorIP,
	}); err != nil && s.log != nil {
		s.log.Error(ctx, "record delivery activity", err)
	}

	outcome := "success"
	if !result.EmailSent {
		outcome = "partial"
	}
	s.metrics.ObserveDelivery(outcome, s.now().Sub(started))

	return result, nil
}
