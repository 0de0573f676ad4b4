package controllers

import (
	"net/http"

	"github.com/outletplus/pos-backend/api/responses"
	"github.com/outletplus/pos-backend/api/validators"
	"github.com/outletplus/pos-backend/internal/rates"
	"github.com/outletplus/pos-backend/pkg/db/models"
	pkgerrors "github.com/outletplus/pos-backend/pkg/errors"
	"github.com/outletplus/pos-backend/pkg/logger"
	"github.com/outletplus/pos-backend/pkg/money"
)

// RatesList returns the configured card-fee table, falling back to the
// defaults when nothing has been saved yet.
func RatesList(repo *rates.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := repo.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list rates"))
			return
		}
		if len(rows) == 0 {
			rows = rates.DefaultTable()
		}
		responses.WriteSuccess(w, rows)
	}
}

type rateRow struct {
	Installments int    `json:"installments" validate:"required,gte=1"`
	CostPercent  string `json:"cost_percent" validate:"required"`
	PassPercent  string `json:"pass_percent" validate:"required"`
}

type ratesReplaceRequest struct {
	Rows []rateRow `json:"rows" validate:"required,min=1,dive"`
}

// RatesReplace swaps the whole fee table. Percentages arrive as strings
// so comma decimals survive the trip.
func RatesReplace(repo *rates.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload ratesReplaceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		seen := make(map[int]bool, len(payload.Rows))
		rows := make([]models.PaymentRate, 0, len(payload.Rows))
		for _, row := range payload.Rows {
			if row.Installments < 1 {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "installments must be at least 1"))
				return
			}
			if seen[row.Installments] {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "duplicate installment count"))
				return
			}
			seen[row.Installments] = true

			cost := money.ParseNumeric(row.CostPercent)
			pass := money.ParseNumeric(row.PassPercent)
			if cost.IsNegative() || pass.IsNegative() {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "percentages cannot be negative"))
				return
			}
			rows = append(rows, models.PaymentRate{
				Installments: row.Installments,
				CostPercent:  cost,
				PassPercent:  pass,
			})
		}

		if err := repo.Replace(r.Context(), rows); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace rates"))
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
