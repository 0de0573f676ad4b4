package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/outletplus/pos-backend/api/responses"
	"github.com/outletplus/pos-backend/api/validators"
	"github.com/outletplus/pos-backend/internal/sales"
	"github.com/outletplus/pos-backend/pkg/db/models"
	pkgerrors "github.com/outletplus/pos-backend/pkg/errors"
	"github.com/outletplus/pos-backend/pkg/logger"
	"github.com/outletplus/pos-backend/pkg/money"
	"github.com/outletplus/pos-backend/pkg/pagination"
)

const salesDateLayout = "2006-01-02"

// parseSalesWindow reads the from/to query params as local dates.
// Defaults to the last 30 days, with to being exclusive end of day.
func parseSalesWindow(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
		parsed, err := time.ParseInLocation(salesDateLayout, raw, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid from date")
		}
		from = parsed
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("to")); raw != "" {
		parsed, err := time.ParseInLocation(salesDateLayout, raw, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid to date")
		}
		to = parsed.AddDate(0, 0, 1)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "to must not precede from")
	}
	return from, to, nil
}

func SalesList(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, err := parseSalesWindow(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		records, next, err := svc.ListSales(r.Context(), from, to, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var totalCents int64
		for _, sale := range records {
			totalCents += sale.TotalCents
		}
		responses.WriteSuccess(w, map[string]any{
			"sales":        records,
			"count":        len(records),
			"totalCents":   totalCents,
			"totalDisplay": money.FormatBRL(money.Cents(totalCents)),
			"nextCursor":   next,
		})
	}
}

// saleItemView decorates a sale item with the live warranty countdown.
type saleItemView struct {
	models.SaleItem
	DaysRemaining *int `json:"daysRemaining"`
}

type saleDetailView struct {
	*models.Sale
	Items []saleItemView `json:"items"`
}

func saleDetail(sale *models.Sale, now time.Time) saleDetailView {
	items := make([]saleItemView, 0, len(sale.Items))
	for _, item := range sale.Items {
		view := saleItemView{SaleItem: item}
		if item.WarrantyEnds != nil {
			days := money.DaysRemaining(now, *item.WarrantyEnds)
			view.DaysRemaining = &days
		}
		items = append(items, view)
	}
	return saleDetailView{Sale: sale, Items: items}
}

func SaleGet(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "saleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sale, err := svc.GetSale(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, saleDetail(sale, time.Now()))
	}
}
