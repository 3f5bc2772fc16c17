package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/afigueroa/mailprov-backend/api/middleware"
	"github.com/afigueroa/mailprov-backend/api/responses"
	"github.com/afigueroa/mailprov-backend/api/validators"
	internalorders "github.com/afigueroa/mailprov-backend/internal/orders"
	"github.com/afigueroa/mailprov-backend/pkg/enums"
	pkgerrors "github.com/afigueroa/mailprov-backend/pkg/errors"
	"github.com/afigueroa/mailprov-backend/pkg/logger"
	"github.com/afigueroa/mailprov-backend/pkg/pagination"
)

type adminOrdersService interface {
	List(ctx context.Context, params pagination.Params) (*internalorders.OrderList, error)
	Get(ctx context.Context, id uuid.UUID) (*internalorders.OrderDTO, error)
	Create(ctx context.Context, input internalorders.CreateOrderInput) (*internalorders.OrderDTO, error)
	Update(ctx context.Context, id uuid.UUID, input internalorders.UpdateOrderInput) (*internalorders.OrderDTO, error)
	Claim(ctx context.Context, id uuid.UUID, actorID string, actorIP *string) (*internalorders.OrderDTO, error)
	Delete(ctx context.Context, id uuid.UUID, actorID string, actorIP *string) error
}

func orderIDParam(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "orderId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !validators.IsUUID(raw) {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return id, nil
}

// AdminListOrders returns a page of all orders.
func AdminListOrders(svc adminOrdersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminGetOrder returns one order with its relations.
func AdminGetOrder(svc adminOrdersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminCreateOrder creates a manual order for an existing user.
func AdminCreateOrder(svc adminOrdersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body validators.CreateOrderForm
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalorders.CreateOrderInput{
			UserID:              body.UserID,
			PaymentID:           body.PaymentID,
			PolarSubscriptionID: body.PolarSubscriptionID,
			Notes:               body.Notes,
			ActorID:             middleware.UserIDFromContext(r.Context()),
			ActorRole:           middleware.RoleFromContext(r.Context()),
			ActorIP:             clientIP(r),
		}
		if body.Priority != nil {
			priority := enums.OrderPriority(*body.Priority)
			input.Priority = &priority
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// AdminUpdateOrder applies a partial update subject to the transition rules.
func AdminUpdateOrder(svc adminOrdersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body validators.UpdateOrderForm
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalorders.UpdateOrderInput{
			Notes:           body.Notes,
			AssignedAdminID: body.AssignedAdminID,
			ActorID:         middleware.UserIDFromContext(r.Context()),
			ActorRole:       middleware.RoleFromContext(r.Context()),
			ActorIP:         clientIP(r),
		}
		if body.Status != nil {
			status := enums.OrderStatus(*body.Status)
			input.Status = &status
		}
		if body.Priority != nil {
			priority := enums.OrderPriority(*body.Priority)
			input.Priority = &priority
		}

		order, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminClaimOrder assigns the order to the calling admin.
func AdminClaimOrder(svc adminOrdersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Claim(r.Context(), id, middleware.UserIDFromContext(r.Context()), clientIP(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminDeleteOrder removes an order, preserving a snapshot in the audit trail.
func AdminDeleteOrder(svc adminOrdersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id, middleware.UserIDFromContext(r.Context()), clientIP(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
