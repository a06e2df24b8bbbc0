package stats

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oviahome/oviahome-backend/pkg/db/models"
	pkgerrors "github.com/oviahome/oviahome-backend/pkg/errors"
)

// CategoryCount is one row of the inquiry interest breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// CountryCount is one row of the quote request origin breakdown.
type CountryCount struct {
	Country string `json:"country"`
	Count   int64  `json:"count"`
}

// Overview is the admin dashboard snapshot.
type Overview struct {
	TotalProducts      int64           `json:"total_products"`
	TotalOrders        int64           `json:"total_orders"`
	TotalCustomers     int64           `json:"total_customers"`
	TotalInquiries     int64           `json:"total_inquiries"`
	TotalQuoteRequests int64           `json:"total_quote_requests"`
	OrdersLast7Days    int64           `json:"orders_last_7_days"`
	OrdersLast30Days   int64           `json:"orders_last_30_days"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	TopCategories      []CategoryCount `json:"top_categories"`
	TopCountries       []CountryCount  `json:"top_countries"`
}

// Service aggregates dashboard counts straight from the database.
type Service interface {
	Overview(ctx context.Context) (*Overview, error)
}

type service struct {
	db *gorm.DB
}

// NewService wires the stats service.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "db handle required")
	}
	return &service{db: db}, nil
}

func (s *service) Overview(ctx context.Context) (*Overview, error) {
	overview := &Overview{TotalRevenue: decimal.Zero}
	db := s.db.WithContext(ctx)

	counts := []struct {
		model any
		dest  *int64
	}{
		{&models.Product{}, &overview.TotalProducts},
		{&models.Order{}, &overview.TotalOrders},
		{&models.Customer{}, &overview.TotalCustomers},
		{&models.Inquiry{}, &overview.TotalInquiries},
		{&models.QuoteRequest{}, &overview.TotalQuoteRequests},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count rows")
		}
	}

	now := time.Now().UTC()
	windows := []struct {
		since time.Time
		dest  *int64
	}{
		{now.AddDate(0, 0, -7), &overview.OrdersLast7Days},
		{now.AddDate(0, 0, -30), &overview.OrdersLast30Days},
	}
	for _, w := range windows {
		err := db.Model(&models.Order{}).Where("created_at >= ?", w.since).Count(w.dest).Error
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count recent orders")
		}
	}

	var revenue struct {
		Total decimal.Decimal
	}
	err := db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Scan(&revenue).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}
	overview.TotalRevenue = revenue.Total

	err = db.Model(&models.Inquiry{}).
		Select("product_category AS category, COUNT(*) AS count").
		Where("product_category <> ''").
		Group("product_category").
		Order("count DESC").
		Limit(5).
		Scan(&overview.TopCategories).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "top categories")
	}

	err = db.Model(&models.QuoteRequest{}).
		Select("country, COUNT(*) AS count").
		Where("country <> ''").
		Group("country").
		Order("count DESC").
		Limit(5).
		Scan(&overview.TopCountries).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "top countries")
	}

	return overview, nil
}
