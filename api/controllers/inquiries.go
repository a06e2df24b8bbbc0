package controllers

import (
	"net/http"

	"github.com/lib/pq"

	"github.com/oviahome/oviahome-backend/api/responses"
	"github.com/oviahome/oviahome-backend/api/validators"
	"github.com/oviahome/oviahome-backend/internal/inquiries"
	"github.com/oviahome/oviahome-backend/pkg/db/models"
	pkgerrors "github.com/oviahome/oviahome-backend/pkg/errors"
	"github.com/oviahome/oviahome-backend/pkg/logger"
)

type inquiryRequest struct {
	Name            string  `json:"name" validate:"required"`
	Email           string  `json:"email" validate:"required,email"`
	Company         string  `json:"company"`
	Phone           *string `json:"phone"`
	ProductCategory string  `json:"product_category"`
	Message         string  `json:"message" validate:"required"`
}

// InquiryCreate records a contact-form message.
func InquiryCreate(svc inquiries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inquiries service unavailable"))
			return
		}

		var payload inquiryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		inquiry, err := svc.CreateInquiry(ctx, &models.Inquiry{
			Name:            payload.Name,
			Email:           payload.Email,
			Company:         payload.Company,
			Phone:           payload.Phone,
			ProductCategory: payload.ProductCategory,
			Message:         payload.Message,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, inquiry)
	}
}

// InquiriesList returns inquiries, newest first.
func InquiriesList(svc inquiries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inquiries service unavailable"))
			return
		}

		list, err := svc.ListInquiries(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type quoteRequest struct {
	Name     string   `json:"name" validate:"required"`
	Email    string   `json:"email" validate:"required,email"`
	Company  string   `json:"company" validate:"required"`
	Phone    string   `json:"phone"`
	Country  string   `json:"country"`
	Products []string `json:"products" validate:"required,min=1"`
	Quantity string   `json:"quantity"`
	Message  string   `json:"message"`
}

// QuoteRequestCreate records a wholesale quote submission.
func QuoteRequestCreate(svc inquiries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inquiries service unavailable"))
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		quote, err := svc.CreateQuoteRequest(ctx, &models.QuoteRequest{
			Name:     payload.Name,
			Email:    payload.Email,
			Company:  payload.Company,
			Phone:    payload.Phone,
			Country:  payload.Country,
			Products: pq.StringArray(payload.Products),
			Quantity: payload.Quantity,
			Message:  payload.Message,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, quote)
	}
}

// QuoteRequestsList returns quote requests, newest first.
func QuoteRequestsList(svc inquiries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inquiries service unavailable"))
			return
		}

		list, err := svc.ListQuoteRequests(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
