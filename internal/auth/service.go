package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oviahome/oviahome-backend/internal/customers"
	pkgauth "github.com/oviahome/oviahome-backend/pkg/auth"
	"github.com/oviahome/oviahome-backend/pkg/config"
	"github.com/oviahome/oviahome-backend/pkg/db"
	"github.com/oviahome/oviahome-backend/pkg/db/models"
	pkgerrors "github.com/oviahome/oviahome-backend/pkg/errors"
	"github.com/oviahome/oviahome-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

type customerUpserter interface {
	GetOrCreate(ctx context.Context, input customers.UpsertInput) (*models.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

type refreshTokenStore interface {
	StoreRefreshToken(ctx context.Context, accountID, token string, ttl time.Duration) error
	RevokeRefreshToken(ctx context.Context, accountID string) error
}

// Service handles account registration and login for the storefront.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Session, error)
	Login(ctx context.Context, req LoginRequest) (*Session, error)
	Logout(ctx context.Context, accountID uuid.UUID) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	AccountRepo Repository
	Customers   customerUpserter
	Tokens      refreshTokenStore
	JWTConfig   config.JWTConfig
	PasswordCfg config.PasswordConfig
}

type service struct {
	accounts  Repository
	customers customerUpserter
	tokens    refreshTokenStore
	jwtCfg    config.JWTConfig
	pwCfg     config.PasswordConfig
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.AccountRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "account repo required")
	}
	if params.Customers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "customers service required")
	}
	if params.Tokens == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "refresh token store required")
	}
	return &service{
		accounts:  params.AccountRepo,
		customers: params.Customers,
		tokens:    params.Tokens,
		jwtCfg:    params.JWTConfig,
		pwCfg:     params.PasswordCfg,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "account already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find account")
	}

	customer, err := s.customers.GetOrCreate(ctx, customers.UpsertInput{
		Name:    req.Name,
		Email:   email,
		Company: req.Company,
		Phone:   req.Phone,
		Country: req.Country,
	})
	if err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	account, err := s.accounts.Create(ctx, &models.Account{
		Email:        email,
		PasswordHash: hash,
		CustomerID:   &customer.ID,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "account already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create account")
	}

	return s.issueSession(ctx, account, customer)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find account")
	}

	ok, err := security.VerifyPassword(req.Password, account.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	var customer *models.Customer
	if account.CustomerID != nil {
		if found, findErr := s.customers.GetByID(ctx, *account.CustomerID); findErr == nil {
			customer = found
		}
	}
	return s.issueSession(ctx, account, customer)
}

func (s *service) Logout(ctx context.Context, accountID uuid.UUID) error {
	if err := s.tokens.RevokeRefreshToken(ctx, accountID.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke refresh token")
	}
	return nil
}

func (s *service) issueSession(ctx context.Context, account *models.Account, customer *models.Customer) (*Session, error) {
	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now(), pkgauth.AccessTokenPayload{
		AccountID:  account.ID,
		CustomerID: account.CustomerID,
		Email:      account.Email,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	refreshToken := uuid.NewString()
	if err := s.tokens.StoreRefreshToken(ctx, account.ID.String(), refreshToken, s.jwtCfg.RefreshTokenTTL()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Customer:     customer,
	}, nil
}
