package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// QuotationStatus represents the stored status of a quotation.
// Expired is projected from the validity date at read time, never stored.
type QuotationStatus int

const (
	QuotationStatusDraft     QuotationStatus = 0
	QuotationStatusSent      QuotationStatus = 1
	QuotationStatusViewed    QuotationStatus = 2
	QuotationStatusApproved  QuotationStatus = 3
	QuotationStatusRejected  QuotationStatus = 4
	QuotationStatusExpired   QuotationStatus = 5
	QuotationStatusConverted QuotationStatus = 6
)

func (s QuotationStatus) String() string {
	names := [...]string{"Draft", "Sent", "Viewed", "Approved", "Rejected", "Expired", "Converted"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Draft"
	}
	return names[s]
}

// IsTerminal reports whether no further transition is possible
func (s QuotationStatus) IsTerminal() bool {
	return s == QuotationStatusRejected || s == QuotationStatusExpired || s == QuotationStatusConverted
}

func (s QuotationStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *QuotationStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = QuotationStatus(i)
		return nil
	}
	switch str {
	case "Draft":
		*s = QuotationStatusDraft
	case "Sent":
		*s = QuotationStatusSent
	case "Viewed":
		*s = QuotationStatusViewed
	case "Approved":
		*s = QuotationStatusApproved
	case "Rejected":
		*s = QuotationStatusRejected
	case "Expired":
		*s = QuotationStatusExpired
	case "Converted":
		*s = QuotationStatusConverted
	}
	return nil
}

func (s QuotationStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *QuotationStatus) Scan(value interface{}) error {
	if value == nil {
		*s = QuotationStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = QuotationStatus(v)
	case int:
		*s = QuotationStatus(v)
	}
	return nil
}
