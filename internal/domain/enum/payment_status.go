package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentStatus represents the status of a payment record.
// Payments are immutable; voiding flips the status but keeps the record.
type PaymentStatus int

const (
	PaymentStatusCompleted PaymentStatus = 0
	PaymentStatusVoided    PaymentStatus = 1
)

func (s PaymentStatus) String() string {
	names := [...]string{"Completed", "Voided"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Completed"
	}
	return names[s]
}

func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PaymentStatus(i)
		return nil
	}
	switch str {
	case "Completed":
		*s = PaymentStatusCompleted
	case "Voided":
		*s = PaymentStatusVoided
	}
	return nil
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PaymentStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PaymentStatusCompleted
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PaymentStatus(v)
	case int:
		*s = PaymentStatus(v)
	}
	return nil
}
