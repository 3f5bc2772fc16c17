package controllers

import (
	"context"
	"net/http"

	"github.com/afigueroa/mailprov-backend/api/responses"
	"github.com/afigueroa/mailprov-backend/api/validators"
	"github.com/afigueroa/mailprov-backend/pkg/db/models"
	pkgerrors "github.com/afigueroa/mailprov-backend/pkg/errors"
	"github.com/afigueroa/mailprov-backend/pkg/logger"
	"github.com/afigueroa/mailprov-backend/pkg/pagination"
)

type activityRepository interface {
	List(ctx context.Context, params pagination.Params) ([]models.AdminActivity, error)
}

// AdminActivityLog returns the audit trail newest-first.
func AdminActivityLog(repo activityRepository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := repo.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list activity"))
			return
		}

		normalized := params.Normalize()
		responses.WriteSuccess(w, map[string]any{
			"activity": rows,
			"page":     normalized.Page,
			"limit":    normalized.Limit,
		})
	}
}
