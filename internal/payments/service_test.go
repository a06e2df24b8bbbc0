package payments

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/oviahome/oviahome-backend/pkg/db/models"
	"github.com/oviahome/oviahome-backend/pkg/enums"
	pkgerrors "github.com/oviahome/oviahome-backend/pkg/errors"
	stripeclient "github.com/oviahome/oviahome-backend/pkg/stripe"
)

type stubTxnRepo struct {
	mu   sync.Mutex
	txns map[string]*models.PaymentTransaction
}

func newStubTxnRepo() *stubTxnRepo {
	return &stubTxnRepo{txns: map[string]*models.PaymentTransaction{}}
}

func (s *stubTxnRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubTxnRepo) Create(ctx context.Context, txn *models.PaymentTransaction) (*models.PaymentTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns[txn.StripeSessionID] = txn
	return txn, nil
}

func (s *stubTxnRepo) FindByStripeSessionID(ctx context.Context, sessionID string) (*models.PaymentTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.txns[sessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *txn
	return &copied, nil
}

func (s *stubTxnRepo) MarkTerminal(ctx context.Context, sessionID string, status enums.PaymentStatus, stripeStatus string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.txns[sessionID]
	if !ok || txn.PaymentStatus != enums.PaymentStatusPending {
		return false, nil
	}
	txn.PaymentStatus = status
	txn.StripeStatus = stripeStatus
	return true, nil
}

type stubSessionGateway struct {
	calls   int
	session *stripeclient.CheckoutSession
	err     error
}

func (s *stubSessionGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*stripeclient.CheckoutSession, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

type stubOrderMaterializer struct {
	mu      sync.Mutex
	created []*models.PaymentTransaction
}

func (s *stubOrderMaterializer) CreateFromTransaction(ctx context.Context, txn *models.PaymentTransaction) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, txn)
	return &models.Order{ID: uuid.New(), OrderNumber: "OVDEADBEEF"}, nil
}

func (s *stubOrderMaterializer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.created)
}

type stubCartRemover struct {
	mu      sync.Mutex
	deleted []uuid.UUID
	err     error
}

func (s *stubCartRemover) DeleteByID(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func pendingTransaction(sessionID string) *models.PaymentTransaction {
	return &models.PaymentTransaction{
		ID:              uuid.New(),
		StripeSessionID: sessionID,
		CartID:          uuid.New(),
		CustomerEmail:   "buyer@example.com",
		BuyerClass:      enums.BuyerClassRetail,
		Amount:          decimal.RequireFromString("20.00"),
		ShippingCost:    decimal.RequireFromString("9.99"),
		TotalAmount:     decimal.RequireFromString("29.99"),
		Currency:        enums.CurrencyUSD,
		PaymentStatus:   enums.PaymentStatusPending,
		StripeStatus:    "initiated",
		ShippingMethod:  enums.ShippingMethodStandard,
	}
}

func newFixture(t *testing.T) (Service, *stubTxnRepo, *stubSessionGateway, *stubOrderMaterializer, *stubCartRemover) {
	t.Helper()
	repo := newStubTxnRepo()
	gateway := &stubSessionGateway{}
	orders := &stubOrderMaterializer{}
	carts := &stubCartRemover{}
	svc, err := NewService(repo, gateway, orders, carts, nil)
	require.NoError(t, err)
	return svc, repo, gateway, orders, carts
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr, "expected app error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}

func completedEvent(sessionID, paymentStatus string) *stripe.Event {
	raw, _ := json.Marshal(map[string]string{
		"id":             sessionID,
		"status":         "complete",
		"payment_status": paymentStatus,
	})
	return &stripe.Event{
		Type: stripe.EventTypeCheckoutSessionCompleted,
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestPollStatusUnknownSession(t *testing.T) {
	svc, _, _, _, _ := newFixture(t)

	_, err := svc.PollStatus(context.Background(), "cs_missing")
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestPollStatusStaysPending(t *testing.T) {
	svc, repo, gateway, orders, _ := newFixture(t)
	repo.Create(context.Background(), pendingTransaction("cs_1"))
	gateway.session = &stripeclient.CheckoutSession{ID: "cs_1", Status: "open", PaymentStatus: "unpaid"}

	view, err := svc.PollStatus(context.Background(), "cs_1")
	require.NoError(t, err)

	assert.Equal(t, enums.PaymentStatusPending, view.PaymentStatus)
	assert.Zero(t, orders.count())
	assert.Equal(t, enums.PaymentStatusPending, repo.txns["cs_1"].PaymentStatus)
}

func TestPollStatusSettlesPaidSession(t *testing.T) {
	svc, repo, gateway, orders, carts := newFixture(t)
	txn := pendingTransaction("cs_1")
	repo.Create(context.Background(), txn)
	gateway.session = &stripeclient.CheckoutSession{ID: "cs_1", Status: "complete", PaymentStatus: "paid"}

	view, err := svc.PollStatus(context.Background(), "cs_1")
	require.NoError(t, err)

	assert.Equal(t, enums.PaymentStatusPaid, view.PaymentStatus)
	assert.Equal(t, "complete", view.StripeStatus)
	assert.Equal(t, 1, orders.count())
	require.Len(t, carts.deleted, 1)
	assert.Equal(t, txn.CartID, carts.deleted[0])
}

func TestPollStatusTerminalSkipsGateway(t *testing.T) {
	svc, repo, gateway, orders, _ := newFixture(t)
	txn := pendingTransaction("cs_1")
	txn.PaymentStatus = enums.PaymentStatusPaid
	txn.StripeStatus = "complete"
	repo.Create(context.Background(), txn)

	view, err := svc.PollStatus(context.Background(), "cs_1")
	require.NoError(t, err)

	assert.Equal(t, enums.PaymentStatusPaid, view.PaymentStatus)
	assert.Zero(t, gateway.calls)
	assert.Zero(t, orders.count(), "settled sessions never materialize twice")
}

func TestPollStatusGatewayFailure(t *testing.T) {
	svc, repo, gateway, _, _ := newFixture(t)
	repo.Create(context.Background(), pendingTransaction("cs_1"))
	gateway.err = errors.New("stripe unavailable")

	_, err := svc.PollStatus(context.Background(), "cs_1")
	assertCode(t, err, pkgerrors.CodeDependency)
	assert.Equal(t, enums.PaymentStatusPending, repo.txns["cs_1"].PaymentStatus)
}

func TestHandleEventSettlesOnce(t *testing.T) {
	svc, repo, gateway, orders, _ := newFixture(t)
	repo.Create(context.Background(), pendingTransaction("cs_1"))
	gateway.session = &stripeclient.CheckoutSession{ID: "cs_1", Status: "complete", PaymentStatus: "paid"}

	require.NoError(t, svc.HandleEvent(context.Background(), completedEvent("cs_1", "paid")))
	assert.Equal(t, 1, orders.count())

	// A concurrent poll observed the same paid session; the transition
	// already happened so nothing runs twice.
	view, err := svc.PollStatus(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, view.PaymentStatus)
	assert.Equal(t, 1, orders.count())
}

func TestConcurrentSettlementAppliesExactlyOnce(t *testing.T) {
	svc, repo, gateway, orders, carts := newFixture(t)
	repo.Create(context.Background(), pendingTransaction("cs_1"))
	gateway.session = &stripeclient.CheckoutSession{ID: "cs_1", Status: "complete", PaymentStatus: "paid"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(viaWebhook bool) {
			defer wg.Done()
			if viaWebhook {
				_ = svc.HandleEvent(context.Background(), completedEvent("cs_1", "paid"))
			} else {
				_, _ = svc.PollStatus(context.Background(), "cs_1")
			}
		}(i%2 == 0)
	}
	wg.Wait()

	assert.Equal(t, 1, orders.count())
	assert.Len(t, carts.deleted, 1)
	assert.Equal(t, enums.PaymentStatusPaid, repo.txns["cs_1"].PaymentStatus)
}

func TestHandleEventIgnoresUnrelatedTypes(t *testing.T) {
	svc, repo, _, orders, _ := newFixture(t)
	repo.Create(context.Background(), pendingTransaction("cs_1"))

	event := &stripe.Event{Type: stripe.EventTypeInvoicePaid, Data: &stripe.EventData{Raw: []byte("{}")}}
	require.NoError(t, svc.HandleEvent(context.Background(), event))
	assert.Zero(t, orders.count())
	assert.Equal(t, enums.PaymentStatusPending, repo.txns["cs_1"].PaymentStatus)
}

func TestHandleEventDeferredPaymentStaysPending(t *testing.T) {
	svc, repo, _, orders, _ := newFixture(t)
	repo.Create(context.Background(), pendingTransaction("cs_1"))

	require.NoError(t, svc.HandleEvent(context.Background(), completedEvent("cs_1", "unpaid")))
	assert.Zero(t, orders.count())
	assert.Equal(t, enums.PaymentStatusPending, repo.txns["cs_1"].PaymentStatus)
}

func TestHandleEventExpiredSession(t *testing.T) {
	svc, repo, _, orders, carts := newFixture(t)
	repo.Create(context.Background(), pendingTransaction("cs_1"))

	raw, _ := json.Marshal(map[string]string{"id": "cs_1", "status": "expired", "payment_status": "unpaid"})
	event := &stripe.Event{Type: stripe.EventTypeCheckoutSessionExpired, Data: &stripe.EventData{Raw: raw}}

	require.NoError(t, svc.HandleEvent(context.Background(), event))
	assert.Equal(t, enums.PaymentStatusExpired, repo.txns["cs_1"].PaymentStatus)
	assert.Zero(t, orders.count(), "only paid sessions make orders")
	assert.Empty(t, carts.deleted, "cart survives failed payments")
}

func TestCartCleanupFailureIsTolerated(t *testing.T) {
	svc, repo, gateway, orders, carts := newFixture(t)
	repo.Create(context.Background(), pendingTransaction("cs_1"))
	gateway.session = &stripeclient.CheckoutSession{ID: "cs_1", Status: "complete", PaymentStatus: "paid"}
	carts.err = errors.New("db gone")

	view, err := svc.PollStatus(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, view.PaymentStatus)
	assert.Equal(t, 1, orders.count())
}
