package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ContractStatus represents the stored status of an AMC contract.
// Expired is projected from the end date at read time, never stored.
type ContractStatus int

const (
	ContractStatusDraft   ContractStatus = 0
	ContractStatusActive  ContractStatus = 1
	ContractStatusExpired ContractStatus = 2
	ContractStatusRenewed ContractStatus = 3
)

func (s ContractStatus) String() string {
	names := [...]string{"Draft", "Active", "Expired", "Renewed"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Draft"
	}
	return names[s]
}

// IsTerminal reports whether no further transition is possible
func (s ContractStatus) IsTerminal() bool {
	return s == ContractStatusExpired || s == ContractStatusRenewed
}

func (s ContractStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ContractStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ContractStatus(i)
		return nil
	}
	switch str {
	case "Draft":
		*s = ContractStatusDraft
	case "Active":
		*s = ContractStatusActive
	case "Expired":
		*s = ContractStatusExpired
	case "Renewed":
		*s = ContractStatusRenewed
	}
	return nil
}

func (s ContractStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ContractStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ContractStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ContractStatus(v)
	case int:
		*s = ContractStatus(v)
	}
	return nil
}
