package shipping

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/oviahome/oviahome-backend/pkg/enums"
)

// ErrInvalidMethod means the requested shipping method is not offered.
var ErrInvalidMethod = errors.New("invalid shipping method")

// Rate is one offered delivery option with a flat cost.
type Rate struct {
	Method      enums.ShippingMethod `json:"method"`
	Cost        decimal.Decimal      `json:"cost"`
	Description string               `json:"description"`
}

var rateTable = []Rate{
	{Method: enums.ShippingMethodStandard, Cost: decimal.New(999, -2), Description: "5-7 business days"},
	{Method: enums.ShippingMethodExpress, Cost: decimal.New(1999, -2), Description: "2-3 business days"},
	{Method: enums.ShippingMethodOvernight, Cost: decimal.New(3999, -2), Description: "1 business day"},
}

// RateFor returns the rate for the given method.
func RateFor(method enums.ShippingMethod) (Rate, error) {
	for _, rate := range rateTable {
		if rate.Method == method {
			return rate, nil
		}
	}
	return Rate{}, ErrInvalidMethod
}

// Rates lists every offered rate in display order.
func Rates() []Rate {
	out := make([]Rate, len(rateTable))
	copy(out, rateTable)
	return out
}
