package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/outletplus/pos-backend/api/responses"
	"github.com/outletplus/pos-backend/api/validators"
	"github.com/outletplus/pos-backend/internal/sales"
	"github.com/outletplus/pos-backend/pkg/enums"
	pkgerrors "github.com/outletplus/pos-backend/pkg/errors"
	"github.com/outletplus/pos-backend/pkg/logger"
	"github.com/outletplus/pos-backend/pkg/money"
)

type cartCustomerRequest struct {
	CustomerID *uuid.UUID `json:"customerId"`
}

type cartLineRequest struct {
	UnitID     uuid.UUID `json:"unitId"`
	PriceCents *int64    `json:"priceCents"`
}

type cartPaymentRequest struct {
	Method      enums.PaymentMethod `json:"method"`
	AmountCents int64               `json:"amountCents"`
	Details     *string             `json:"details"`
}

// cartView decorates the stored cart with running totals.
type cartView struct {
	Cart         any    `json:"cart"`
	TotalCents   int64  `json:"totalCents"`
	PaidCents    int64  `json:"paidCents"`
	TotalDisplay string `json:"totalDisplay"`
	PaidDisplay  string `json:"paidDisplay"`
}

func writeCart(w http.ResponseWriter, status int, cart any, totalCents, paidCents int64) {
	responses.WriteSuccessStatus(w, status, cartView{
		Cart:         cart,
		TotalCents:   totalCents,
		PaidCents:    paidCents,
		TotalDisplay: money.FormatBRL(money.Cents(totalCents)),
		PaidDisplay:  money.FormatBRL(money.Cents(paidCents)),
	})
}

func CartCreate(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cart, err := svc.CreateCart(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(w, http.StatusCreated, cart, 0, 0)
	}
}

func CartGet(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cartID, err := pathUUID(r, "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cart, err := svc.GetCart(r.Context(), userID, cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		total, paid := sales.Totals(cart)
		writeCart(w, http.StatusOK, cart, total, paid)
	}
}

func CartSetCustomer(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cartID, err := pathUUID(r, "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body cartCustomerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetCustomer(r.Context(), userID, cartID, body.CustomerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

func CartAddLine(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cartID, err := pathUUID(r, "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body cartLineRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if body.UnitID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "unitId is required"))
			return
		}

		cart, err := svc.AddLine(r.Context(), userID, cartID, body.UnitID, body.PriceCents)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		total, paid := sales.Totals(cart)
		writeCart(w, http.StatusOK, cart, total, paid)
	}
}

func CartRemoveLine(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cartID, err := pathUUID(r, "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lineID, err := pathUUID(r, "lineId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveLine(r.Context(), userID, cartID, lineID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

func CartAddPayment(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cartID, err := pathUUID(r, "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body cartPaymentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.AddPayment(r.Context(), userID, cartID, body.Method, body.AmountCents, body.Details)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		total, paid := sales.Totals(cart)
		writeCart(w, http.StatusOK, cart, total, paid)
	}
}

func CartRemovePayment(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cartID, err := pathUUID(r, "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		paymentID, err := pathUUID(r, "paymentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemovePayment(r.Context(), userID, cartID, paymentID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

func CartFinalize(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cartID, err := pathUUID(r, "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sale, err := svc.Finalize(r.Context(), userID, cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, sale)
	}
}
