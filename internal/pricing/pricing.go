package pricing

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/oviahome/oviahome-backend/pkg/db/models"
	"github.com/oviahome/oviahome-backend/pkg/enums"
)

// ErrPriceUnavailable means no price applies to the buyer class and quantity.
var ErrPriceUnavailable = errors.New("no price available for buyer")

// Resolve picks the unit price for a product given the quantity and buyer
// class. Wholesale pricing applies only when the buyer is wholesale, the
// quantity meets the product minimum and a wholesale price is set; everything
// else falls back to the retail price.
func Resolve(product *models.Product, quantity int, class enums.BuyerClass) (decimal.Decimal, error) {
	if product == nil {
		return decimal.Zero, ErrPriceUnavailable
	}
	if class == enums.BuyerClassWholesale &&
		quantity >= product.MinWholesaleQuantity &&
		product.WholesalePrice != nil {
		return *product.WholesalePrice, nil
	}
	if product.RetailPrice != nil {
		return *product.RetailPrice, nil
	}
	return decimal.Zero, ErrPriceUnavailable
}
