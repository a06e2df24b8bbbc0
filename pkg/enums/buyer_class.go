package enums

import "fmt"

// BuyerClass distinguishes retail shoppers from wholesale buyers.
type BuyerClass string

const (
	BuyerClassRetail    BuyerClass = "retail"
	BuyerClassWholesale BuyerClass = "wholesale"
)

var validBuyerClasses = []BuyerClass{
	BuyerClassRetail,
	BuyerClassWholesale,
}

// IsValid reports whether the value matches the canonical buyer class enum.
func (b BuyerClass) IsValid() bool {
	for _, candidate := range validBuyerClasses {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBuyerClass converts the raw string to BuyerClass.
func ParseBuyerClass(value string) (BuyerClass, error) {
	for _, candidate := range validBuyerClasses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid buyer class %q", value)
}
