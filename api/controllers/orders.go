package controllers

import (
	"context"
	"net/http"

	"github.com/afigueroa/mailprov-backend/api/middleware"
	"github.com/afigueroa/mailprov-backend/api/responses"
	internalorders "github.com/afigueroa/mailprov-backend/internal/orders"
	pkgerrors "github.com/afigueroa/mailprov-backend/pkg/errors"
	"github.com/afigueroa/mailprov-backend/pkg/logger"
)

type ownOrdersService interface {
	ListForUser(ctx context.Context, userID string) ([]internalorders.OrderDTO, error)
}

// MyOrderStatus returns the caller's own orders, newest first.
func MyOrderStatus(svc ownOrdersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity"))
			return
		}

		list, err := svc.ListForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"orders": list})
	}
}
