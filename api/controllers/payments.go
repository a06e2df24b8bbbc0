package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/oviahome/oviahome-backend/api/responses"
	"github.com/oviahome/oviahome-backend/api/validators"
	checkoutsvc "github.com/oviahome/oviahome-backend/internal/checkout"
	paymentsvc "github.com/oviahome/oviahome-backend/internal/payments"
	"github.com/oviahome/oviahome-backend/pkg/enums"
	pkgerrors "github.com/oviahome/oviahome-backend/pkg/errors"
	"github.com/oviahome/oviahome-backend/pkg/logger"
	"github.com/oviahome/oviahome-backend/pkg/types"
)

type checkoutRequest struct {
	CartID          uuid.UUID     `json:"cart_id" validate:"required"`
	CustomerEmail   string        `json:"customer_email"`
	CustomerType    string        `json:"customer_type" validate:"required"`
	ShippingMethod  string        `json:"shipping_method"`
	ShippingAddress types.Address `json:"shipping_address"`
}

// Checkout starts a payment session or routes wholesale buyers to sales.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		class, err := enums.ParseBuyerClass(payload.CustomerType)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer type"))
			return
		}

		result, err := svc.Checkout(ctx, checkoutsvc.Input{
			CartID:          payload.CartID,
			CustomerEmail:   payload.CustomerEmail,
			BuyerClass:      class,
			ShippingMethod:  enums.ShippingMethod(payload.ShippingMethod),
			ShippingAddress: payload.ShippingAddress,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PaymentStatus reconciles and reports one payment session.
func PaymentStatus(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		sessionID := chi.URLParam(r, "sessionID")
		if logg != nil {
			ctx = logg.WithSessionID(ctx, sessionID)
		}

		view, err := svc.PollStatus(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
