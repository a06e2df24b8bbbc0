package payments

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	cartrepo "github.com/oviahome/oviahome-backend/internal/cart"
	checkoutsvc "github.com/oviahome/oviahome-backend/internal/checkout"
	ordersvc "github.com/oviahome/oviahome-backend/internal/orders"
	"github.com/oviahome/oviahome-backend/pkg/config"
	"github.com/oviahome/oviahome-backend/pkg/db/models"
	"github.com/oviahome/oviahome-backend/pkg/enums"
	stripeclient "github.com/oviahome/oviahome-backend/pkg/stripe"
	"github.com/oviahome/oviahome-backend/pkg/types"
)

func setupFlowDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{`
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL UNIQUE,
  buyer_class TEXT NOT NULL DEFAULT 'retail',
  total NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  buyer_class TEXT NOT NULL,
  product_name TEXT,
  product_image TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (cart_id, product_id)
);`, `
CREATE TABLE IF NOT EXISTS payment_transactions (
  id TEXT PRIMARY KEY,
  stripe_session_id TEXT NOT NULL UNIQUE,
  cart_id TEXT NOT NULL,
  customer_email TEXT NOT NULL,
  buyer_class TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  shipping_cost NUMERIC NOT NULL,
  total_amount NUMERIC NOT NULL,
  currency TEXT NOT NULL DEFAULT 'usd',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  stripe_status TEXT NOT NULL DEFAULT 'initiated',
  shipping_method TEXT NOT NULL,
  shipping_address TEXT,
  items TEXT NOT NULL,
  metadata TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  customer_id TEXT,
  customer_email TEXT NOT NULL,
  buyer_class TEXT NOT NULL,
  items TEXT NOT NULL,
  subtotal NUMERIC NOT NULL,
  shipping_cost NUMERIC NOT NULL,
  total_amount NUMERIC NOT NULL,
  payment_status TEXT NOT NULL,
  order_status TEXT NOT NULL DEFAULT 'confirmed',
  tracking_number TEXT,
  shipping_address TEXT,
  shipping_method TEXT NOT NULL,
  stripe_session_id TEXT UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`}

	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}

	t.Cleanup(func() {
		for _, table := range []string{"orders", "payment_transactions", "cart_items", "carts"} {
			db.Exec("DELETE FROM " + table)
		}
	})
	return db
}

// flowGateway stands in for Stripe: checkout creation hands out a fixed
// session and retrieval reports whatever state the test configured.
type flowGateway struct {
	session   stripeclient.CheckoutSession
	retrieved int
}

func (g *flowGateway) CreateCheckoutSession(ctx context.Context, params stripeclient.CheckoutSessionParams) (*stripeclient.CheckoutSession, error) {
	created := g.session
	return &created, nil
}

func (g *flowGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*stripeclient.CheckoutSession, error) {
	g.retrieved++
	current := g.session
	return &current, nil
}

func seedRetailCart(t *testing.T, db *gorm.DB) *models.Cart {
	t.Helper()

	cart := &models.Cart{
		ID:         uuid.New(),
		SessionID:  "sess-flow-" + uuid.NewString(),
		BuyerClass: enums.BuyerClassRetail,
		Total:      decimal.RequireFromString("20.00"),
	}
	require.NoError(t, db.Create(cart).Error)

	item := &models.CartItem{
		ID:          uuid.New(),
		CartID:      cart.ID,
		ProductID:   uuid.New(),
		Quantity:    2,
		UnitPrice:   decimal.RequireFromString("10.00"),
		BuyerClass:  enums.BuyerClassRetail,
		ProductName: types.Localized{"en": "Linen Duvet Cover"},
	}
	require.NoError(t, db.Create(item).Error)
	return cart
}

func checkoutEvent(t *testing.T, eventType stripe.EventType, sessionID, status, paymentStatus string) *stripe.Event {
	t.Helper()
	raw, err := json.Marshal(map[string]string{
		"id":             sessionID,
		"status":         status,
		"payment_status": paymentStatus,
	})
	require.NoError(t, err)
	return &stripe.Event{
		ID:   "evt_" + uuid.NewString(),
		Type: eventType,
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestCheckoutThenWebhookSettlesOnce(t *testing.T) {
	db := setupFlowDB(t)
	ctx := context.Background()

	carts := cartrepo.NewRepository(db)
	txns := NewRepository(db)
	ordersRepo := ordersvc.NewRepository(db)
	orders, err := ordersvc.NewService(ordersRepo)
	require.NoError(t, err)

	gateway := &flowGateway{session: stripeclient.CheckoutSession{
		ID:            "cs_test_flow",
		URL:           "https://checkout.stripe.com/pay/cs_test_flow",
		Status:        "open",
		PaymentStatus: "unpaid",
	}}

	checkout, err := checkoutsvc.NewService(carts, txns, gateway, config.CheckoutConfig{
		SuccessURL: "https://oviahome.com/checkout/success",
		CancelURL:  "https://oviahome.com/checkout/cancel",
		ContactURL: "/contact",
	})
	require.NoError(t, err)

	payments, err := NewService(txns, gateway, orders, carts, nil)
	require.NoError(t, err)

	cart := seedRetailCart(t, db)

	result, err := checkout.Checkout(ctx, checkoutsvc.Input{
		CartID:         cart.ID,
		CustomerEmail:  "buyer@example.com",
		BuyerClass:     enums.BuyerClassRetail,
		ShippingMethod: enums.ShippingMethodStandard,
		ShippingAddress: types.Address{
			Line1:      "12 Harbor Lane",
			City:       "Portland",
			PostalCode: "04101",
			Country:    "US",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, enums.RedirectTypePayment, result.RedirectType)
	assert.Equal(t, "cs_test_flow", result.SessionID)
	assert.True(t, result.Total.Equal(decimal.RequireFromString("29.99")),
		"expected 20.00 + 9.99 standard shipping, got %s", result.Total)

	txn, err := txns.FindByStripeSessionID(ctx, "cs_test_flow")
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPending, txn.PaymentStatus)

	// Buyer pays; Stripe flips the session and delivers the webhook.
	gateway.session.Status = "complete"
	gateway.session.PaymentStatus = "paid"
	event := checkoutEvent(t, stripe.EventTypeCheckoutSessionCompleted, "cs_test_flow", "complete", "paid")
	require.NoError(t, payments.HandleEvent(ctx, event))

	txn, err = txns.FindByStripeSessionID(ctx, "cs_test_flow")
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, txn.PaymentStatus)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.EqualValues(t, 1, orderCount)

	var order models.Order
	require.NoError(t, db.Where("stripe_session_id = ?", "cs_test_flow").First(&order).Error)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("29.99")))
	assert.Equal(t, enums.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, enums.OrderStatusConfirmed, order.OrderStatus)
	assert.Equal(t, "buyer@example.com", order.CustomerEmail)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)

	var cartCount int64
	require.NoError(t, db.Model(&models.Cart{}).Where("id = ?", cart.ID).Count(&cartCount).Error)
	assert.Zero(t, cartCount, "cart should be removed after a paid settlement")
	var itemCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&itemCount).Error)
	assert.Zero(t, itemCount)

	// Redelivered webhook finds no pending row and creates nothing new.
	require.NoError(t, payments.HandleEvent(ctx, event))
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.EqualValues(t, 1, orderCount)

	// Polling after settlement answers from the stored row.
	before := gateway.retrieved
	view, err := payments.PollStatus(ctx, "cs_test_flow")
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, view.PaymentStatus)
	assert.Equal(t, before, gateway.retrieved, "terminal transactions should not hit the gateway")
}

func TestExpiredWebhookLeavesCartAlone(t *testing.T) {
	db := setupFlowDB(t)
	ctx := context.Background()

	carts := cartrepo.NewRepository(db)
	txns := NewRepository(db)
	ordersRepo := ordersvc.NewRepository(db)
	orders, err := ordersvc.NewService(ordersRepo)
	require.NoError(t, err)

	gateway := &flowGateway{session: stripeclient.CheckoutSession{
		ID:            "cs_test_expired",
		URL:           "https://checkout.stripe.com/pay/cs_test_expired",
		Status:        "open",
		PaymentStatus: "unpaid",
	}}

	checkout, err := checkoutsvc.NewService(carts, txns, gateway, config.CheckoutConfig{
		SuccessURL: "https://oviahome.com/checkout/success",
		CancelURL:  "https://oviahome.com/checkout/cancel",
		ContactURL: "/contact",
	})
	require.NoError(t, err)

	payments, err := NewService(txns, gateway, orders, carts, nil)
	require.NoError(t, err)

	cart := seedRetailCart(t, db)

	_, err = checkout.Checkout(ctx, checkoutsvc.Input{
		CartID:         cart.ID,
		CustomerEmail:  "buyer@example.com",
		BuyerClass:     enums.BuyerClassRetail,
		ShippingMethod: enums.ShippingMethodStandard,
		ShippingAddress: types.Address{
			Line1:      "12 Harbor Lane",
			City:       "Portland",
			PostalCode: "04101",
			Country:    "US",
		},
	})
	require.NoError(t, err)

	event := checkoutEvent(t, stripe.EventTypeCheckoutSessionExpired, "cs_test_expired", "expired", "unpaid")
	require.NoError(t, payments.HandleEvent(ctx, event))

	txn, err := txns.FindByStripeSessionID(ctx, "cs_test_expired")
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusExpired, txn.PaymentStatus)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)

	var cartCount int64
	require.NoError(t, db.Model(&models.Cart{}).Where("id = ?", cart.ID).Count(&cartCount).Error)
	assert.EqualValues(t, 1, cartCount, "failed checkouts keep the cart for retry")
}
