package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/outletplus/pos-backend/api/responses"
	"github.com/outletplus/pos-backend/internal/printing"
	pkgerrors "github.com/outletplus/pos-backend/pkg/errors"
	"github.com/outletplus/pos-backend/pkg/logger"
)

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// PrintLabels renders price labels for the units named in the
// unit_ids query param (comma separated UUIDs).
func PrintLabels(svc printing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.URL.Query().Get("unit_ids"))
		if raw == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "unit_ids is required"))
			return
		}

		var ids []uuid.UUID
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := uuid.Parse(part)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit id"))
				return
			}
			ids = append(ids, id)
		}

		body, err := svc.Labels(r.Context(), ids)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeHTML(w, body)
	}
}

func PrintReport(svc printing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := svc.Report(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeHTML(w, body)
	}
}

func PrintReceipt(svc printing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saleID, err := pathUUID(r, "saleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		body, err := svc.Receipt(r.Context(), saleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeHTML(w, body)
	}
}
