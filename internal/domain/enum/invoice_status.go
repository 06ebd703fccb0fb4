package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// InvoiceStatus represents the stored status of an invoice.
// Overdue is never stored; it is projected from the due date at read time.
type InvoiceStatus int

const (
	InvoiceStatusDraft         InvoiceStatus = 0
	InvoiceStatusUnpaid        InvoiceStatus = 1
	InvoiceStatusPartiallyPaid InvoiceStatus = 2
	InvoiceStatusPaid          InvoiceStatus = 3
	InvoiceStatusOverdue       InvoiceStatus = 4
	InvoiceStatusCancelled     InvoiceStatus = 5
)

func (s InvoiceStatus) String() string {
	names := [...]string{"Draft", "Unpaid", "PartiallyPaid", "Paid", "Overdue", "Cancelled"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Draft"
	}
	return names[s]
}

// IsTerminal reports whether no further transition is possible
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// AcceptsPayments reports whether payments may be applied in this status
func (s InvoiceStatus) AcceptsPayments() bool {
	return s == InvoiceStatusUnpaid || s == InvoiceStatusPartiallyPaid
}

func (s InvoiceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = InvoiceStatus(i)
		return nil
	}
	switch str {
	case "Draft":
		*s = InvoiceStatusDraft
	case "Unpaid":
		*s = InvoiceStatusUnpaid
	case "PartiallyPaid":
		*s = InvoiceStatusPartiallyPaid
	case "Paid":
		*s = InvoiceStatusPaid
	case "Overdue":
		*s = InvoiceStatusOverdue
	case "Cancelled":
		*s = InvoiceStatusCancelled
	}
	return nil
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	if value == nil {
		*s = InvoiceStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = InvoiceStatus(v)
	case int:
		*s = InvoiceStatus(v)
	}
	return nil
}
