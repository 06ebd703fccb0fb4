package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentMode represents how a payment was made
type PaymentMode int

const (
	PaymentModeCash         PaymentMode = 0
	PaymentModeBankTransfer PaymentMode = 1
	PaymentModeCheque       PaymentMode = 2
	PaymentModeUPI          PaymentMode = 3
	PaymentModeCard         PaymentMode = 4
)

func (m PaymentMode) String() string {
	names := [...]string{"Cash", "BankTransfer", "Cheque", "UPI", "Card"}
	if int(m) < 0 || int(m) >= len(names) {
		return "Cash"
	}
	return names[m]
}

func (m PaymentMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = PaymentMode(i)
		return nil
	}
	switch str {
	case "Cash":
		*m = PaymentModeCash
	case "BankTransfer":
		*m = PaymentModeBankTransfer
	case "Cheque":
		*m = PaymentModeCheque
	case "UPI":
		*m = PaymentModeUPI
	case "Card":
		*m = PaymentModeCard
	}
	return nil
}

func (m PaymentMode) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *PaymentMode) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentModeCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*m = PaymentMode(v)
	case int:
		*m = PaymentMode(v)
	}
	return nil
}
