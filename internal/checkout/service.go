package checkout

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oviahome/oviahome-backend/internal/shipping"
	"github.com/oviahome/oviahome-backend/pkg/config"
	"github.com/oviahome/oviahome-backend/pkg/db/models"
	"github.com/oviahome/oviahome-backend/pkg/enums"
	pkgerrors "github.com/oviahome/oviahome-backend/pkg/errors"
	stripeclient "github.com/oviahome/oviahome-backend/pkg/stripe"
	"github.com/oviahome/oviahome-backend/pkg/types"
)

type cartFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
}

type transactionCreator interface {
	Create(ctx context.Context, txn *models.PaymentTransaction) (*models.PaymentTransaction, error)
}

type paymentGateway interface {
	CreateCheckoutSession(ctx context.Context, params stripeclient.CheckoutSessionParams) (*stripeclient.CheckoutSession, error)
}

// Input is everything a storefront submits to start a checkout.
type Input struct {
	CartID          uuid.UUID
	CustomerEmail   string
	BuyerClass      enums.BuyerClass
	ShippingMethod  enums.ShippingMethod
	ShippingAddress types.Address
}

// Result tells the storefront where to send the buyer next.
type Result struct {
	RedirectType enums.RedirectType `json:"redirect_type"`
	URL          string             `json:"url"`
	SessionID    string             `json:"session_id,omitempty"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	ShippingCost decimal.Decimal    `json:"shipping_cost"`
	Total        decimal.Decimal    `json:"total"`
}

// Service starts payment sessions from carts.
type Service interface {
	Checkout(ctx context.Context, input Input) (*Result, error)
}

type service struct {
	carts    cartFinder
	txns     transactionCreator
	gateway  paymentGateway
	urls     config.CheckoutConfig
	currency enums.Currency
}

// NewService wires the checkout orchestrator.
func NewService(carts cartFinder, txns transactionCreator, gateway paymentGateway, urls config.CheckoutConfig) (Service, error) {
	if carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart finder required")
	}
	if txns == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction repo required")
	}
	if gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment gateway required")
	}
	return &service{
		carts:    carts,
		txns:     txns,
		gateway:  gateway,
		urls:     urls,
		currency: enums.CurrencyUSD,
	}, nil
}

// Checkout validates the cart, then either routes wholesale buyers to the
// contact flow or opens a Stripe Checkout Session and records it as a pending
// payment transaction. Calling it twice for the same cart opens two sessions;
// reconciliation settles whichever one the buyer completes.
func (s *service) Checkout(ctx context.Context, input Input) (*Result, error) {
	cart, err := s.carts.FindByID(ctx, input.CartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find cart")
	}
	if len(cart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	class := input.BuyerClass
	if !class.IsValid() {
		class = cart.BuyerClass
	}

	if class == enums.BuyerClassWholesale {
		return &Result{
			RedirectType: enums.RedirectTypeWholesale,
			URL:          s.urls.ContactURL,
			Subtotal:     cart.Total,
			Total:        cart.Total,
		}, nil
	}

	rate, err := shipping.RateFor(input.ShippingMethod)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "resolve shipping rate")
	}
	if input.CustomerEmail == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	if err := input.ShippingAddress.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validate shipping address")
	}

	items := snapshotItems(cart)
	subtotal := items.Subtotal()
	total := subtotal.Add(rate.Cost)

	session, err := s.gateway.CreateCheckoutSession(ctx, stripeclient.CheckoutSessionParams{
		Lines:         checkoutLines(cart),
		CustomerEmail: input.CustomerEmail,
		Currency:      string(s.currency),
		ShippingName:  string(rate.Method) + " (" + rate.Description + ")",
		ShippingCost:  rate.Cost,
		SuccessURL:    s.urls.SuccessURL,
		CancelURL:     s.urls.CancelURL,
		Metadata: map[string]string{
			"cart_id":         cart.ID.String(),
			"customer_email":  input.CustomerEmail,
			"customer_type":   string(class),
			"shipping_method": string(rate.Method),
			"shipping_cost":   rate.Cost.StringFixed(2),
		},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create checkout session")
	}

	txn := &models.PaymentTransaction{
		StripeSessionID: session.ID,
		CartID:          cart.ID,
		CustomerEmail:   input.CustomerEmail,
		BuyerClass:      class,
		Amount:          subtotal,
		ShippingCost:    rate.Cost,
		TotalAmount:     total,
		Currency:        s.currency,
		PaymentStatus:   enums.PaymentStatusPending,
		StripeStatus:    "initiated",
		ShippingMethod:  rate.Method,
		ShippingAddress: input.ShippingAddress,
		Items:           items,
		Metadata: map[string]string{
			"cart_session_id": cart.SessionID,
		},
	}
	if _, err := s.txns.Create(ctx, txn); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment transaction")
	}

	return &Result{
		RedirectType: enums.RedirectTypePayment,
		URL:          session.URL,
		SessionID:    session.ID,
		Subtotal:     subtotal,
		ShippingCost: rate.Cost,
		Total:        total,
	}, nil
}

func snapshotItems(cart *models.Cart) types.OrderItems {
	items := make(types.OrderItems, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, types.OrderItem{
			ProductID:    line.ProductID,
			ProductName:  line.ProductName,
			ProductImage: line.ProductImage,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
			LineTotal:    line.LineTotal(),
		})
	}
	return items
}

func checkoutLines(cart *models.Cart) []stripeclient.CheckoutLine {
	lines := make([]stripeclient.CheckoutLine, 0, len(cart.Items))
	for _, line := range cart.Items {
		lines = append(lines, stripeclient.CheckoutLine{
			Name:      line.ProductName.Get("en"),
			Image:     line.ProductImage,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}
	return lines
}
