package shipping

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oviahome/oviahome-backend/pkg/enums"
)

func TestRateForKnownMethods(t *testing.T) {
	cases := []struct {
		method enums.ShippingMethod
		cost   string
		eta    string
	}{
		{enums.ShippingMethodStandard, "9.99", "5-7 business days"},
		{enums.ShippingMethodExpress, "19.99", "2-3 business days"},
		{enums.ShippingMethodOvernight, "39.99", "1 business day"},
	}

	for _, tc := range cases {
		rate, err := RateFor(tc.method)
		require.NoError(t, err, "method %s", tc.method)
		assert.True(t, rate.Cost.Equal(decimal.RequireFromString(tc.cost)), "method %s cost %s", tc.method, rate.Cost)
		assert.Equal(t, tc.eta, rate.Description)
	}
}

func TestRateForUnknownMethod(t *testing.T) {
	_, err := RateFor(enums.ShippingMethod("carrier_pigeon"))
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestRatesListsAllOptions(t *testing.T) {
	rates := Rates()
	require.Len(t, rates, 3)
	assert.Equal(t, enums.ShippingMethodStandard, rates[0].Method)

	// Mutating the returned slice must not affect the table.
	rates[0].Cost = decimal.Zero
	fresh, err := RateFor(enums.ShippingMethodStandard)
	require.NoError(t, err)
	assert.True(t, fresh.Cost.Equal(decimal.RequireFromString("9.99")))
}
