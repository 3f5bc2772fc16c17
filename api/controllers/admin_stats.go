package controllers

import (
	"context"
	"net/http"

	"github.com/afigueroa/mailprov-backend/api/responses"
	"github.com/afigueroa/mailprov-backend/api/validators"
	"github.com/afigueroa/mailprov-backend/internal/analytics"
	"github.com/afigueroa/mailprov-backend/pkg/logger"
)

type statsService interface {
	Stats(ctx context.Context) (*analytics.Stats, error)
	Analytics(ctx context.Context, days int) (*analytics.Report, error)
}

// AdminStats returns the dashboard headline block.
func AdminStats(svc statsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// AdminAnalytics returns the daily sign-up and order series.
func AdminAnalytics(svc statsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := validators.ParseQueryInt(r, "days", 30, 1, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.Analytics(r.Context(), days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
