package stripe

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"
)

// CheckoutLine is one purchasable line forwarded to Stripe Checkout.
type CheckoutLine struct {
	Name      string
	Image     string
	UnitPrice decimal.Decimal
	Quantity  int
}

// CheckoutSessionParams describes a hosted checkout page to create.
type CheckoutSessionParams struct {
	Lines         []CheckoutLine
	CustomerEmail string
	Currency      string
	ShippingName  string
	ShippingCost  decimal.Decimal
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// CheckoutSession is the gateway view of a session used by checkout and
// reconciliation. PaymentStatus is Stripe's (paid/unpaid/no_payment_required);
// Status is the session lifecycle (open/complete/expired).
type CheckoutSession struct {
	ID            string
	URL           string
	Status        string
	PaymentStatus string
}

// CreateCheckoutSession opens a hosted Stripe Checkout Session in payment mode.
func (c *Client) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	if c == nil || c.api == nil {
		return nil, errors.New("stripe client not initialized")
	}
	if len(params.Lines) == 0 {
		return nil, errors.New("checkout session requires at least one line")
	}

	currency := params.Currency
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}

	lineItems := make([]*stripe.CheckoutSessionCreateLineItemParams, 0, len(params.Lines))
	for _, line := range params.Lines {
		productData := &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
			Name: stripe.String(line.Name),
		}
		if line.Image != "" {
			productData.Images = stripe.StringSlice([]string{line.Image})
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionCreateLineItemParams{
			PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
				Currency:    stripe.String(currency),
				ProductData: productData,
				UnitAmount:  stripe.Int64(toCents(line.UnitPrice)),
			},
			Quantity: stripe.Int64(int64(line.Quantity)),
		})
	}

	create := &stripe.CheckoutSessionCreateParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(params.SuccessURL),
		CancelURL:  stripe.String(params.CancelURL),
	}
	if params.CustomerEmail != "" {
		create.CustomerEmail = stripe.String(params.CustomerEmail)
	}
	if params.ShippingName != "" {
		create.ShippingOptions = []*stripe.CheckoutSessionCreateShippingOptionParams{
			{
				ShippingRateData: &stripe.CheckoutSessionCreateShippingOptionShippingRateDataParams{
					Type:        stripe.String("fixed_amount"),
					DisplayName: stripe.String(params.ShippingName),
					FixedAmount: &stripe.CheckoutSessionCreateShippingOptionShippingRateDataFixedAmountParams{
						Amount:   stripe.Int64(toCents(params.ShippingCost)),
						Currency: stripe.String(currency),
					},
				},
			},
		}
	}
	if len(params.Metadata) > 0 {
		create.Metadata = params.Metadata
	}

	session, err := c.api.V1CheckoutSessions.Create(ctx, create)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return fromAPISession(session), nil
}

// GetCheckoutSession fetches the current gateway state for a session.
func (c *Client) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	if c == nil || c.api == nil {
		return nil, errors.New("stripe client not initialized")
	}
	if sessionID == "" {
		return nil, errors.New("session id is required")
	}
	session, err := c.api.V1CheckoutSessions.Retrieve(ctx, sessionID, &stripe.CheckoutSessionRetrieveParams{})
	if err != nil {
		return nil, fmt.Errorf("retrieve checkout session %s: %w", sessionID, err)
	}
	return fromAPISession(session), nil
}

func fromAPISession(session *stripe.CheckoutSession) *CheckoutSession {
	if session == nil {
		return nil
	}
	return &CheckoutSession{
		ID:            session.ID,
		URL:           session.URL,
		Status:        string(session.Status),
		PaymentStatus: string(session.PaymentStatus),
	}
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
