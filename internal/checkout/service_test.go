package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oviahome/oviahome-backend/pkg/config"
	"github.com/oviahome/oviahome-backend/pkg/db/models"
	"github.com/oviahome/oviahome-backend/pkg/enums"
	pkgerrors "github.com/oviahome/oviahome-backend/pkg/errors"
	stripeclient "github.com/oviahome/oviahome-backend/pkg/stripe"
	"github.com/oviahome/oviahome-backend/pkg/types"
)

type stubCartFinder struct {
	carts map[uuid.UUID]*models.Cart
}

func (s *stubCartFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	cart, ok := s.carts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cart, nil
}

type stubTxnCreator struct {
	created []*models.PaymentTransaction
	err     error
}

func (s *stubTxnCreator) Create(ctx context.Context, txn *models.PaymentTransaction) (*models.PaymentTransaction, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, txn)
	return txn, nil
}

type stubGateway struct {
	calls  int
	params stripeclient.CheckoutSessionParams
	err    error
}

func (s *stubGateway) CreateCheckoutSession(ctx context.Context, params stripeclient.CheckoutSessionParams) (*stripeclient.CheckoutSession, error) {
	s.calls++
	s.params = params
	if s.err != nil {
		return nil, s.err
	}
	return &stripeclient.CheckoutSession{
		ID:            "cs_test_1",
		URL:           "https://checkout.stripe.com/pay/cs_test_1",
		Status:        "open",
		PaymentStatus: "unpaid",
	}, nil
}

func dec(value string) decimal.Decimal { return decimal.RequireFromString(value) }

func testURLs() config.CheckoutConfig {
	return config.CheckoutConfig{
		SuccessURL: "http://localhost:3000/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  "http://localhost:3000/checkout/cancel",
		ContactURL: "/contact",
	}
}

func testAddress() types.Address {
	return types.Address{
		Name:       "Jordan Smith",
		Line1:      "1 Linen Way",
		City:       "Austin",
		PostalCode: "78701",
		Country:    "US",
	}
}

func retailCart() *models.Cart {
	cartID := uuid.New()
	item := models.CartItem{
		ID:          uuid.New(),
		CartID:      cartID,
		ProductID:   uuid.New(),
		Quantity:    2,
		UnitPrice:   dec("10.00"),
		BuyerClass:  enums.BuyerClassRetail,
		ProductName: map[string]string{"en": "Bamboo Towel Set"},
	}
	return &models.Cart{
		ID:         cartID,
		SessionID:  "sess-1",
		BuyerClass: enums.BuyerClassRetail,
		Items:      []models.CartItem{item},
		Total:      dec("20.00"),
	}
}

func newFixture(t *testing.T, carts ...*models.Cart) (Service, *stubTxnCreator, *stubGateway) {
	t.Helper()
	finder := &stubCartFinder{carts: map[uuid.UUID]*models.Cart{}}
	for _, cart := range carts {
		finder.carts[cart.ID] = cart
	}
	txns := &stubTxnCreator{}
	gateway := &stubGateway{}
	svc, err := NewService(finder, txns, gateway, testURLs())
	require.NoError(t, err)
	return svc, txns, gateway
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr, "expected app error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}

func TestCheckoutCartNotFound(t *testing.T) {
	svc, _, _ := newFixture(t)

	_, err := svc.Checkout(context.Background(), Input{CartID: uuid.New()})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestCheckoutEmptyCart(t *testing.T) {
	cart := retailCart()
	cart.Items = nil
	svc, _, _ := newFixture(t, cart)

	_, err := svc.Checkout(context.Background(), Input{CartID: cart.ID})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestCheckoutWholesaleShortCircuits(t *testing.T) {
	cart := retailCart()
	svc, txns, gateway := newFixture(t, cart)

	result, err := svc.Checkout(context.Background(), Input{
		CartID:     cart.ID,
		BuyerClass: enums.BuyerClassWholesale,
	})
	require.NoError(t, err)

	assert.Equal(t, enums.RedirectTypeWholesale, result.RedirectType)
	assert.Equal(t, "/contact", result.URL)
	assert.Empty(t, result.SessionID)
	assert.Zero(t, gateway.calls, "no gateway call for wholesale buyers")
	assert.Empty(t, txns.created, "no payment transaction for wholesale buyers")
}

func TestCheckoutInvalidShippingMethod(t *testing.T) {
	cart := retailCart()
	svc, _, _ := newFixture(t, cart)

	_, err := svc.Checkout(context.Background(), Input{
		CartID:          cart.ID,
		CustomerEmail:   "buyer@example.com",
		BuyerClass:      enums.BuyerClassRetail,
		ShippingMethod:  enums.ShippingMethod("drone"),
		ShippingAddress: testAddress(),
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestCheckoutMissingAddress(t *testing.T) {
	cart := retailCart()
	svc, _, _ := newFixture(t, cart)

	_, err := svc.Checkout(context.Background(), Input{
		CartID:         cart.ID,
		CustomerEmail:  "buyer@example.com",
		BuyerClass:     enums.BuyerClassRetail,
		ShippingMethod: enums.ShippingMethodStandard,
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestCheckoutCreatesSessionAndPendingTransaction(t *testing.T) {
	cart := retailCart()
	svc, txns, gateway := newFixture(t, cart)

	result, err := svc.Checkout(context.Background(), Input{
		CartID:          cart.ID,
		CustomerEmail:   "buyer@example.com",
		BuyerClass:      enums.BuyerClassRetail,
		ShippingMethod:  enums.ShippingMethodStandard,
		ShippingAddress: testAddress(),
	})
	require.NoError(t, err)

	assert.Equal(t, enums.RedirectTypePayment, result.RedirectType)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_1", result.URL)
	assert.Equal(t, "cs_test_1", result.SessionID)
	assert.True(t, result.Subtotal.Equal(dec("20.00")))
	assert.True(t, result.ShippingCost.Equal(dec("9.99")))
	assert.True(t, result.Total.Equal(dec("29.99")), "total %s", result.Total)

	require.Len(t, txns.created, 1)
	txn := txns.created[0]
	assert.Equal(t, "cs_test_1", txn.StripeSessionID)
	assert.Equal(t, cart.ID, txn.CartID)
	assert.Equal(t, enums.PaymentStatusPending, txn.PaymentStatus)
	assert.Equal(t, "initiated", txn.StripeStatus)
	assert.True(t, txn.TotalAmount.Equal(dec("29.99")))
	require.Len(t, txn.Items, 1)
	assert.Equal(t, 2, txn.Items[0].Quantity)

	assert.Equal(t, cart.ID.String(), gateway.params.Metadata["cart_id"])
	assert.Equal(t, "retail", gateway.params.Metadata["customer_type"])
	assert.Equal(t, "standard", gateway.params.Metadata["shipping_method"])
	assert.Equal(t, "9.99", gateway.params.Metadata["shipping_cost"])
}

func TestCheckoutGatewayFailure(t *testing.T) {
	cart := retailCart()
	svc, txns, gateway := newFixture(t, cart)
	gateway.err = errors.New("stripe unavailable")

	_, err := svc.Checkout(context.Background(), Input{
		CartID:          cart.ID,
		CustomerEmail:   "buyer@example.com",
		BuyerClass:      enums.BuyerClassRetail,
		ShippingMethod:  enums.ShippingMethodStandard,
		ShippingAddress: testAddress(),
	})
	assertCode(t, err, pkgerrors.CodeDependency)
	assert.Empty(t, txns.created)
}
