package controllers

import (
	"net/http"

	"github.com/afigueroa/mailprov-backend/api/responses"
	"github.com/afigueroa/mailprov-backend/api/validators"
	"github.com/afigueroa/mailprov-backend/pkg/logger"
)

// PublicValidateSignUp pre-checks registration input so the frontend can
// surface field errors before handing off to the auth collaborator. Nothing
// is persisted here.
func PublicValidateSignUp(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body validators.SignUpForm
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"valid": true,
			"name":  validators.SanitizeString(body.Name, 100),
			"email": body.Email,
		})
	}
}
