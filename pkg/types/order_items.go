package types

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is the immutable line snapshot captured when a checkout starts.
// Orders and payment transactions store these instead of referencing live
// cart rows, so later cart edits cannot change what was sold.
type OrderItem struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  Localized       `json:"product_name"`
	ProductImage string          `json:"product_image,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// OrderItems is the snapshot list stored as JSONB.
type OrderItems []OrderItem

// Subtotal sums the line totals.
func (o OrderItems) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o {
		total = total.Add(item.LineTotal)
	}
	return total
}

// Value serializes the snapshot to JSON.
func (o OrderItems) Value() (driver.Value, error) {
	if o == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// Scan decodes JSONB into the snapshot list.
func (o *OrderItems) Scan(value interface{}) error {
	if value == nil {
		*o = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded OrderItems
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*o = decoded
	return nil
}
