package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/oviahome/oviahome-backend/api/responses"
	"github.com/oviahome/oviahome-backend/api/validators"
	cartsvc "github.com/oviahome/oviahome-backend/internal/cart"
	"github.com/oviahome/oviahome-backend/internal/shipping"
	"github.com/oviahome/oviahome-backend/pkg/enums"
	pkgerrors "github.com/oviahome/oviahome-backend/pkg/errors"
	"github.com/oviahome/oviahome-backend/pkg/logger"
)

// CartGet returns the session's cart, creating an empty one on first touch.
func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID := chi.URLParam(r, "sessionID")
		if logg != nil {
			ctx = logg.WithSessionID(ctx, sessionID)
		}

		class, _ := enums.ParseBuyerClass(r.URL.Query().Get("customer_type"))
		cart, err := svc.GetOrCreate(ctx, sessionID, class)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

type addItemRequest struct {
	SessionID    string    `json:"session_id" validate:"required"`
	ProductID    uuid.UUID `json:"product_id" validate:"required"`
	Quantity     int       `json:"quantity" validate:"required,min=1"`
	CustomerType string    `json:"customer_type"`
}

// CartAddItem adds a product line, merging quantity into an existing line.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			ctx = logg.WithSessionID(ctx, payload.SessionID)
		}

		class, _ := enums.ParseBuyerClass(payload.CustomerType)
		cart, err := svc.AddItem(ctx, cartsvc.AddItemInput{
			SessionID:  payload.SessionID,
			ProductID:  payload.ProductID,
			Quantity:   payload.Quantity,
			BuyerClass: class,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

type updateItemRequest struct {
	SessionID string    `json:"session_id" validate:"required"`
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity"`
}

// CartUpdateItem sets a line's quantity; zero or less removes the line.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			ctx = logg.WithSessionID(ctx, payload.SessionID)
		}

		cart, err := svc.UpdateItem(ctx, payload.SessionID, payload.ProductID, payload.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

// CartRemoveItem deletes a line; removing an absent line succeeds.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID := chi.URLParam(r, "sessionID")
		if logg != nil {
			ctx = logg.WithSessionID(ctx, sessionID)
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		cart, err := svc.RemoveItem(ctx, sessionID, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

// CartClear drops the whole cart for the session.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID := chi.URLParam(r, "sessionID")
		if logg != nil {
			ctx = logg.WithSessionID(ctx, sessionID)
		}

		if err := svc.Clear(ctx, sessionID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

// ShippingRates lists the offered delivery options.
func ShippingRates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, shipping.Rates())
	}
}
