package inquiries

import (
	"context"

	"gorm.io/gorm"

	"github.com/oviahome/oviahome-backend/pkg/db/models"
)

// Repository persists inquiries and quote requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateInquiry(ctx context.Context, inquiry *models.Inquiry) (*models.Inquiry, error)
	ListInquiries(ctx context.Context) ([]models.Inquiry, error)
	CreateQuoteRequest(ctx context.Context, quote *models.QuoteRequest) (*models.QuoteRequest, error)
	ListQuoteRequests(ctx context.Context) ([]models.QuoteRequest, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inquiries repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateInquiry(ctx context.Context, inquiry *models.Inquiry) (*models.Inquiry, error) {
	if err := r.db.WithContext(ctx).Create(inquiry).Error; err != nil {
		return nil, err
	}
	return inquiry, nil
}

func (r *repository) ListInquiries(ctx context.Context) ([]models.Inquiry, error) {
	var inquiries []models.Inquiry
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&inquiries).Error
	if err != nil {
		return nil, err
	}
	return inquiries, nil
}

func (r *repository) CreateQuoteRequest(ctx context.Context, quote *models.QuoteRequest) (*models.QuoteRequest, error) {
	if err := r.db.WithContext(ctx).Create(quote).Error; err != nil {
		return nil, err
	}
	return quote, nil
}

func (r *repository) ListQuoteRequests(ctx context.Context) ([]models.QuoteRequest, error) {
	var quotes []models.QuoteRequest
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&quotes).Error
	if err != nil {
		return nil, err
	}
	return quotes, nil
}
