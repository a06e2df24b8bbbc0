package enums

// RedirectType tells the storefront what kind of URL a checkout produced.
type RedirectType string

const (
	// RedirectTypePayment points at a hosted Stripe Checkout page.
	RedirectTypePayment RedirectType = "payment"
	// RedirectTypeWholesale points at the contact flow; no payment session exists.
	RedirectTypeWholesale RedirectType = "wholesale"
)
