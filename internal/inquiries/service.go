package inquiries

import (
	"context"
	"strings"

	"github.com/oviahome/oviahome-backend/internal/customers"
	"github.com/oviahome/oviahome-backend/pkg/db/models"
	pkgerrors "github.com/oviahome/oviahome-backend/pkg/errors"
)

type customerUpserter interface {
	GetOrCreate(ctx context.Context, input customers.UpsertInput) (*models.Customer, error)
}

// Service records storefront inquiries and wholesale quote requests.
type Service interface {
	CreateInquiry(ctx context.Context, inquiry *models.Inquiry) (*models.Inquiry, error)
	ListInquiries(ctx context.Context) ([]models.Inquiry, error)
	CreateQuoteRequest(ctx context.Context, quote *models.QuoteRequest) (*models.QuoteRequest, error)
	ListQuoteRequests(ctx context.Context) ([]models.QuoteRequest, error)
}

type service struct {
	repo      Repository
	customers customerUpserter
}

// NewService wires the inquiries service.
func NewService(repo Repository, customers customerUpserter) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "inquiries repo required")
	}
	if customers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "customers service required")
	}
	return &service{repo: repo, customers: customers}, nil
}

func (s *service) CreateInquiry(ctx context.Context, inquiry *models.Inquiry) (*models.Inquiry, error) {
	if inquiry == nil || strings.TrimSpace(inquiry.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if strings.TrimSpace(inquiry.Message) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}
	created, err := s.repo.CreateInquiry(ctx, inquiry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inquiry")
	}
	return created, nil
}

func (s *service) ListInquiries(ctx context.Context) ([]models.Inquiry, error) {
	inquiries, err := s.repo.ListInquiries(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inquiries")
	}
	return inquiries, nil
}

// CreateQuoteRequest stores the quote and upserts the buyer as a customer
// contact so the sales team has a record to follow up on.
func (s *service) CreateQuoteRequest(ctx context.Context, quote *models.QuoteRequest) (*models.QuoteRequest, error) {
	if quote == nil || strings.TrimSpace(quote.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if strings.TrimSpace(quote.Company) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company is required")
	}
	if len(quote.Products) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one product is required")
	}

	if _, err := s.customers.GetOrCreate(ctx, customers.UpsertInput{
		Name:    quote.Name,
		Email:   quote.Email,
		Company: quote.Company,
		Phone:   quote.Phone,
		Country: quote.Country,
	}); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateQuoteRequest(ctx, quote)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create quote request")
	}
	return created, nil
}

func (s *service) ListQuoteRequests(ctx context.Context) ([]models.QuoteRequest, error) {
	quotes, err := s.repo.ListQuoteRequests(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list quote requests")
	}
	return quotes, nil
}
