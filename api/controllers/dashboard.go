package controllers

import (
	"net/http"
	"strings"

	"github.com/outletplus/pos-backend/api/responses"
	"github.com/outletplus/pos-backend/internal/dashboard"
	"github.com/outletplus/pos-backend/pkg/logger"
)

func DashboardSummary(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period := dashboard.PeriodDay
		if raw := strings.TrimSpace(r.URL.Query().Get("period")); raw != "" {
			period = dashboard.Period(raw)
		}

		summary, err := svc.Summary(r.Context(), period)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
