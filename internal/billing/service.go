package billing

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/afigueroa/mailprov-backend/internal/orders"
	"github.com/afigueroa/mailprov-backend/internal/users"
	"github.com/afigueroa/mailprov-backend/pkg/db/models"
	"github.com/afigueroa/mailprov-backend/pkg/enums"
	pkgerrors "github.com/afigueroa/mailprov-backend/pkg/errors"
	"github.com/afigueroa/mailprov-backend/pkg/logger"
	"github.com/afigueroa/mailprov-backend/pkg/mailer"
	"github.com/afigueroa/mailprov-backend/pkg/polar"
)

// SubscriptionChecker is the provider-side subscription lookup, satisfied by
// the polar client.
type SubscriptionChecker interface {
	HasActiveSubscription(ctx context.Context, subscriptionID string) (bool, error)
}

type logAppender interface {
	Append(ctx context.Context, row *models.EmailLog) error
}

// Service reacts to billing provider events and answers subscription state.
type Service struct {
	orders orders.Repository
	users  *users.Repository
	logs   logAppender
	polar  SubscriptionChecker
	sender mailer.Sender
	log    *logger.Logger
}

// NewService wires the billing service dependencies. The polar client and
// sender may be nil in environments without billing credentials.
func NewService(
	ordersRepo orders.Repository,
	usersRepo *users.Repository,
	logs logAppender,
	polarClient SubscriptionChecker,
	sender mailer.Sender,
	log *logger.Logger,
) (*Service, error) {
	if ordersRepo == nil || usersRepo == nil || logs == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "billing repositories required")
	}
	return &Service{
		orders: ordersRepo,
		users:  usersRepo,
		logs:   logs,
		polar:  polarClient,
		sender: sender,
		log:    log,
	}, nil
}

// HandleEvent processes one webhook event. Paid orders open a pending
// fulfillment order; everything else is acknowledged and dropped.
func (s *Service) HandleEvent(ctx context.Context, event *polar.WebhookEvent) error {
	switch event.Type {
	case "order.paid", "subscription.created":
		return s.openOrder(ctx, event)
	default:
		if s.log != nil {
			s.log.Info(s.log.WithField(ctx, "event_type", event.Type), "billing event ignored")
		}
		return nil
	}
}

func (s *Service) openOrder(ctx context.Context, event *polar.WebhookEvent) error {
	payload, err := event.OrderPayload()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode billing payload")
	}
	if payload.ID == "" || payload.CustomerEmail == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "billing payload missing order id or customer email")
	}

	// Provider retries can outlive the redis replay window; the payment id
	// lookup is the durable guard.
	if existing, err := s.orders.FindByPaymentID(ctx, payload.ID); err == nil && existing != nil {
		return nil
	} else if err != nil && err != gorm.ErrRecordNotFound {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing order")
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(payload.CustomerEmail)))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no account for billing customer")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load billing customer")
	}

	paymentID := payload.ID
	order := &models.EmailOrder{
		UserID:    user.ID,
		Status:    enums.OrderStatusPending,
		Priority:  enums.PriorityNormal,
		PaymentID: &paymentID,
	}
	if payload.SubscriptionID != "" {
		subID := payload.SubscriptionID
		order.PolarSubscriptionID = &subID
	}
	if _, err := s.orders.Create(ctx, order); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open fulfillment order")
	}

	s.sendConfirmation(ctx, user)
	return nil
}

func (s *Service) sendConfirmation(ctx context.Context, user *models.User) {
	if s.sender == nil {
		return
	}

	logRow := &models.EmailLog{
		UserID:         &user.ID,
		EmailType:      enums.EmailTypeOrderConfirmation,
		RecipientEmail: user.Email,
		Subject:        mailer.OrderConfirmationSubject,
		Status:         enums.EmailStatusSent,
	}

	resendID, err := s.sender.Send(ctx, mailer.Message{
		To:      user.Email,
		Subject: mailer.OrderConfirmationSubject,
		HTML:    mailer.OrderConfirmationHTML(user.Name),
	})
	if err != nil {
		logRow.Status = enums.EmailStatusFailed
		msg := err.Error()
		logRow.ErrorMessage = &msg
		if s.log != nil {
			s.log.Error(ctx, "order confirmation email failed", err)
		}
	} else {
		logRow.ResendID = &resendID
	}

	if err := s.logs.Append(ctx, logRow); err != nil && s.log != nil {
		s.log.Error(ctx, "append email log", err)
	}
}

// HasActiveSubscription reports whether the user's most recent order is
// backed by a live provider subscription.
func (s *Service) HasActiveSubscription(ctx context.Context, userID string) (bool, error) {
	rows, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user orders")
	}

	for i := range rows {
		if rows[i].PolarSubscriptionID == nil {
			continue
		}
		if s.polar == nil {
			return false, pkgerrors.New(pkgerrors.CodeDependency, "billing client unavailable")
		}
		active, err := s.polar.HasActiveSubscription(ctx, *rows[i].PolarSubscriptionID)
		if err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query subscription state")
		}
		return active, nil
	}
	return false, nil
}
