package orders

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oviahome/oviahome-backend/pkg/db"
	"github.com/oviahome/oviahome-backend/pkg/db/models"
	"github.com/oviahome/oviahome-backend/pkg/enums"
	pkgerrors "github.com/oviahome/oviahome-backend/pkg/errors"
)

// Service owns order materialization and fulfillment updates.
type Service interface {
	CreateFromTransaction(ctx context.Context, txn *models.PaymentTransaction) (*models.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByCustomerEmail(ctx context.Context, email string) ([]models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, tracking *string) (*models.Order, error)
}

type service struct {
	repo Repository
}

// NewService wires the orders service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repo required")
	}
	return &service{repo: repo}, nil
}

// CreateFromTransaction materializes an order from a settled payment
// transaction's snapshot. This is the only path that creates paid orders.
// A duplicate call for the same session returns the existing order.
func (s *service) CreateFromTransaction(ctx context.Context, txn *models.PaymentTransaction) (*models.Order, error) {
	if txn == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment transaction is required")
	}

	sessionID := txn.StripeSessionID
	order := &models.Order{
		OrderNumber:     NewOrderNumber(),
		CustomerEmail:   txn.CustomerEmail,
		BuyerClass:      txn.BuyerClass,
		Items:           txn.Items,
		Subtotal:        txn.Amount,
		ShippingCost:    txn.ShippingCost,
		TotalAmount:     txn.TotalAmount,
		PaymentStatus:   enums.PaymentStatusPaid,
		OrderStatus:     enums.OrderStatusConfirmed,
		ShippingAddress: txn.ShippingAddress,
		ShippingMethod:  txn.ShippingMethod,
		StripeSessionID: &sessionID,
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			if existing, findErr := s.repo.FindByStripeSessionID(ctx, sessionID); findErr == nil {
				return existing, nil
			}
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return created, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find order")
	}
	return order, nil
}

func (s *service) ListByCustomerEmail(ctx context.Context, email string) ([]models.Order, error) {
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	orders, err := s.repo.ListByCustomerEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}

func (s *service) List(ctx context.Context) ([]models.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, tracking *string) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	order.OrderStatus = status
	if tracking != nil {
		order.TrackingNumber = tracking
	}
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
	}
	return order, nil
}

// NewOrderNumber mints a human-friendly order reference. The token is random;
// it carries no relation to the payment session that produced the order.
func NewOrderNumber() string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "OV" + strings.ToUpper(token)
}
