package middleware

import (
	"net/http"

	"github.com/afigueroa/mailprov-backend/api/responses"
	"github.com/afigueroa/mailprov-backend/pkg/enums"
	pkgerrors "github.com/afigueroa/mailprov-backend/pkg/errors"
	"github.com/afigueroa/mailprov-backend/pkg/logger"
)

// RequireAdmin admits admins and super admins.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireCapability(enums.UserRole.CanAccessAdmin, logg)
}

// RequireSuperAdmin admits super admins only.
func RequireSuperAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireCapability(enums.UserRole.CanManageUsers, logg)
}

func requireCapability(allowed func(enums.UserRole) bool, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allowed(RoleFromContext(r.Context())) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
