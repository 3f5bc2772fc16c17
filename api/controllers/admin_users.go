package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/afigueroa/mailprov-backend/api/middleware"
	"github.com/afigueroa/mailprov-backend/api/responses"
	"github.com/afigueroa/mailprov-backend/api/validators"
	"github.com/afigueroa/mailprov-backend/internal/users"
	"github.com/afigueroa/mailprov-backend/pkg/enums"
	pkgerrors "github.com/afigueroa/mailprov-backend/pkg/errors"
	"github.com/afigueroa/mailprov-backend/pkg/logger"
	"github.com/afigueroa/mailprov-backend/pkg/pagination"
)

type adminUsersService interface {
	List(ctx context.Context, params pagination.Params) (*users.UserList, error)
	AdminUpdate(ctx context.Context, userID string, input users.AdminUpdateInput) (*users.UserDTO, error)
}

// AdminListUsers returns a page of all users.
func AdminListUsers(svc adminUsersService, logg *logger.Logger) http.HandlerFunc {
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

// AdminUpdateUser applies the super-admin editable user fields.
func AdminUpdateUser(svc adminUsersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(chi.URLParam(r, "userId"))
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "user id is required"))
			return
		}

		var body validators.AdminUpdateUserForm
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := users.AdminUpdateInput{
			Name:        body.Name,
			CountryCode: body.CountryCode,
			ActorID:     middleware.UserIDFromContext(r.Context()),
			ActorIP:     clientIP(r),
		}
		if body.Role != nil {
			role := enums.UserRole(*body.Role)
			input.Role = &role
		}

		updated, err := svc.AdminUpdate(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}
