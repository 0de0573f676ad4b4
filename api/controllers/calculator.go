package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/outletplus/pos-backend/api/middleware"
	"github.com/outletplus/pos-backend/api/responses"
	"github.com/outletplus/pos-backend/api/validators"
	"github.com/outletplus/pos-backend/internal/installments"
	"github.com/outletplus/pos-backend/internal/pricing"
	"github.com/outletplus/pos-backend/internal/settings"
	pkgerrors "github.com/outletplus/pos-backend/pkg/errors"
	"github.com/outletplus/pos-backend/pkg/logger"
	"github.com/outletplus/pos-backend/pkg/money"
)

// CalculatorQuote prices a device from the posted inputs without
// persisting anything.
func CalculatorQuote(engine *pricing.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload pricing.Settings
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, engine.Quote(payload))
	}
}

type installmentsRequest struct {
	Amount string `json:"amount" validate:"required"`
}

// CalculatorInstallments returns the per-installment table for an
// amount given in BRL (comma or dot decimals accepted).
func CalculatorInstallments(calc *installments.Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload installmentsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		amount := money.ParseNumeric(payload.Amount)
		rows, err := calc.Table(r.Context(), amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"amount": amount.StringFixed(2),
			"rows":   rows,
		})
	}
}

type grossUpRequest struct {
	DesiredNet  string `json:"desired_net" validate:"required"`
	PassPercent string `json:"pass_percent" validate:"required"`
}

// CalculatorGrossUp answers "what do I charge to net this amount".
func CalculatorGrossUp(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload grossUpRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		desired := money.ParseNumeric(payload.DesiredNet)
		pass := money.ParseNumeric(payload.PassPercent)
		gross, ok := installments.GrossUp(desired, pass)
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "pass-through percentage must be below 100"))
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"gross":         gross.StringFixed(2),
			"gross_display": money.FormatBRLDecimal(gross),
		})
	}
}

type netDownRequest struct {
	Gross       string `json:"gross" validate:"required"`
	CostPercent string `json:"cost_percent" validate:"required"`
}

// CalculatorNetDown answers "what do I receive from this charge".
func CalculatorNetDown(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload netDownRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		net := installments.NetDown(money.ParseNumeric(payload.Gross), money.ParseNumeric(payload.CostPercent))
		responses.WriteSuccess(w, map[string]any{
			"net":         net.StringFixed(2),
			"net_display": money.FormatBRLDecimal(net),
		})
	}
}

// CalculatorSettingsGet returns the caller's saved calculator inputs.
func CalculatorSettingsGet(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saved, err := svc.GetCalculator(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, saved)
	}
}

// CalculatorSettingsPut saves the caller's calculator inputs verbatim.
func CalculatorSettingsPut(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload pricing.Settings
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SaveCalculator(r.Context(), userID, payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payload)
	}
}

func authedUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}
