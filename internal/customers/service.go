package customers

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oviahome/oviahome-backend/pkg/db"
	"github.com/oviahome/oviahome-backend/pkg/db/models"
	pkgerrors "github.com/oviahome/oviahome-backend/pkg/errors"
)

// UpsertInput is the contact detail captured from checkouts and quote forms.
type UpsertInput struct {
	Name    string
	Email   string
	Company string
	Phone   string
	Country string
}

// Service owns customer contact records.
type Service interface {
	GetOrCreate(ctx context.Context, input UpsertInput) (*models.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	List(ctx context.Context) ([]models.Customer, error)
}

type service struct {
	repo Repository
}

// NewService wires the customers service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "customers repo required")
	}
	return &service{repo: repo}, nil
}

// GetOrCreate upserts by email: an existing customer gains any detail the
// new submission fills in, a new email creates the record.
func (s *service) GetOrCreate(ctx context.Context, input UpsertInput) (*models.Customer, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		changed := false
		if existing.Name == "" && input.Name != "" {
			existing.Name = input.Name
			changed = true
		}
		if existing.Company == "" && input.Company != "" {
			existing.Company = input.Company
			changed = true
		}
		if existing.Phone == "" && input.Phone != "" {
			existing.Phone = input.Phone
			changed = true
		}
		if existing.Country == "" && input.Country != "" {
			existing.Country = input.Country
			changed = true
		}
		if changed {
			if err := s.repo.Update(ctx, existing); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
			}
		}
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find customer")
	}

	created, err := s.repo.Create(ctx, &models.Customer{
		Name:    input.Name,
		Email:   email,
		Company: input.Company,
		Phone:   input.Phone,
		Country: input.Country,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			if existing, findErr := s.repo.FindByEmail(ctx, email); findErr == nil {
				return existing, nil
			}
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	return created, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find customer")
	}
	return customer, nil
}

func (s *service) List(ctx context.Context) ([]models.Customer, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	return customers, nil
}
