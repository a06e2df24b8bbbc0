package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/oviahome/oviahome-backend/pkg/db/models"
	"github.com/oviahome/oviahome-backend/pkg/enums"
	pkgerrors "github.com/oviahome/oviahome-backend/pkg/errors"
	"github.com/oviahome/oviahome-backend/pkg/logger"
	stripeclient "github.com/oviahome/oviahome-backend/pkg/stripe"
)

type sessionGateway interface {
	GetCheckoutSession(ctx context.Context, sessionID string) (*stripeclient.CheckoutSession, error)
}

type orderMaterializer interface {
	CreateFromTransaction(ctx context.Context, txn *models.PaymentTransaction) (*models.Order, error)
}

type cartRemover interface {
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// StatusView is what pollers see for a payment session.
type StatusView struct {
	SessionID     string              `json:"session_id"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	StripeStatus  string              `json:"stripe_status"`
}

// Service reconciles payment sessions against the gateway. Polling and
// webhooks funnel into the same terminal transition, so a session settles
// exactly once no matter which signal lands first.
type Service interface {
	PollStatus(ctx context.Context, sessionID string) (*StatusView, error)
	HandleEvent(ctx context.Context, event *stripe.Event) error
}

type service struct {
	repo    Repository
	gateway sessionGateway
	orders  orderMaterializer
	carts   cartRemover
	logg    *logger.Logger
}

// NewService wires the payment reconciliation service.
func NewService(repo Repository, gateway sessionGateway, orders orderMaterializer, carts cartRemover, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payments repo required")
	}
	if gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment gateway required")
	}
	if orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders service required")
	}
	if carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart repo required")
	}
	return &service{repo: repo, gateway: gateway, orders: orders, carts: carts, logg: logg}, nil
}

func (s *service) PollStatus(ctx context.Context, sessionID string) (*StatusView, error) {
	txn, err := s.findTransaction(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Terminal rows never change again; no reason to hit the gateway.
	if txn.PaymentStatus.IsTerminal() {
		return viewOf(txn), nil
	}

	session, err := s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch checkout session")
	}

	outcome := outcomeFromSession(session.Status, session.PaymentStatus)
	if outcome == enums.PaymentStatusPending {
		txn.StripeStatus = session.Status
		return viewOf(txn), nil
	}

	if err := s.settle(ctx, txn, outcome, session.Status); err != nil {
		return nil, err
	}
	txn.PaymentStatus = outcome
	txn.StripeStatus = session.Status
	return viewOf(txn), nil
}

func (s *service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	var outcome enums.PaymentStatus
	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		outcome = enums.PaymentStatusPaid
	case stripe.EventTypeCheckoutSessionExpired:
		outcome = enums.PaymentStatusExpired
	case stripe.EventTypeCheckoutSessionAsyncPaymentFailed:
		outcome = enums.PaymentStatusFailed
	default:
		return nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode checkout session event")
	}

	// Completed sessions with deferred payment methods report unpaid until
	// an async_payment event follows.
	if outcome == enums.PaymentStatusPaid && session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil
	}

	txn, err := s.findTransaction(ctx, session.ID)
	if err != nil {
		return err
	}
	return s.settle(ctx, txn, outcome, string(session.Status))
}

// settle applies the terminal transition at most once. The loser of a
// concurrent poll/webhook race sees applied=false and does nothing.
func (s *service) settle(ctx context.Context, txn *models.PaymentTransaction, outcome enums.PaymentStatus, stripeStatus string) error {
	applied, err := s.repo.MarkTerminal(ctx, txn.StripeSessionID, outcome, stripeStatus)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark transaction terminal")
	}
	if !applied {
		return nil
	}

	if outcome != enums.PaymentStatusPaid {
		return nil
	}

	if _, err := s.orders.CreateFromTransaction(ctx, txn); err != nil {
		return err
	}

	// Cart cleanup is best-effort: the order already exists and an orphaned
	// cart row is harmless.
	if err := s.carts.DeleteByID(ctx, txn.CartID); err != nil && s.logg != nil {
		s.logg.Warn(ctx, fmt.Sprintf("delete cart %s after payment: %v", txn.CartID, err))
	}
	return nil
}

func (s *service) findTransaction(ctx context.Context, sessionID string) (*models.PaymentTransaction, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	txn, err := s.repo.FindByStripeSessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find payment transaction")
	}
	return txn, nil
}

func outcomeFromSession(status, paymentStatus string) enums.PaymentStatus {
	switch {
	case paymentStatus == string(stripe.CheckoutSessionPaymentStatusPaid):
		return enums.PaymentStatusPaid
	case status == string(stripe.CheckoutSessionStatusExpired):
		return enums.PaymentStatusExpired
	default:
		return enums.PaymentStatusPending
	}
}

func viewOf(txn *models.PaymentTransaction) *StatusView {
	return &StatusView{
		SessionID:     txn.StripeSessionID,
		PaymentStatus: txn.PaymentStatus,
		StripeStatus:  txn.StripeStatus,
	}
}
