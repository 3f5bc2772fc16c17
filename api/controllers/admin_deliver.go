package controllers

import (
	"context"
	"net/http"

	"github.com/afigueroa/mailprov-backend/api/middleware"
	"github.com/afigueroa/mailprov-backend/api/responses"
	"github.com/afigueroa/mailprov-backend/api/validators"
	"github.com/afigueroa/mailprov-backend/internal/delivery"
	"github.com/afigueroa/mailprov-backend/pkg/logger"
)

type deliveryService interface {
	Deliver(ctx context.Context, input delivery.Input) (*delivery.Result, error)
}

// AdminDeliverCredentials runs the delivery workflow. A committed delivery
// whose email failed returns 207 so the dashboard can prompt a manual resend.
func AdminDeliverCredentials(svc deliveryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body validators.DeliverCredentialsForm
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Deliver(r.Context(), delivery.Input{
			OrderID:            id,
			EnterpriseEmail:    body.EnterpriseEmail,
			EnterprisePassword: body.EnterprisePassword,
			Notes:              body.Notes,
			ActorID:            middleware.UserIDFromContext(r.Context()),
			ActorIP:            clientIP(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusOK
		if !result.EmailSent {
			status = http.StatusMultiStatus
		}
		responses.WriteSuccessStatus(w, status, result)
	}
}
