package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

// TaxRates maps a tax component name (e.g. CGST, SGST, IGST) to its
// percentage rate. Stored as JSONB on line items.
type TaxRates map[string]decimal.Decimal

// Value implements driver.Valuer for JSONB storage
func (t TaxRates) Value() (driver.Value, error) {
	if t == nil {
		return "{}", nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner for JSONB storage
func (t *TaxRates) Scan(value interface{}) error {
	if value == nil {
		*t = TaxRates{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan TaxRates: unsupported type")
	}

	if len(bytes) == 0 {
		*t = TaxRates{}
		return nil
	}
	return json.Unmarshal(bytes, t)
}
