package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// VisitStatus represents the completion state of a scheduled service visit
type VisitStatus int

const (
	VisitStatusPending   VisitStatus = 0
	VisitStatusCompleted VisitStatus = 1
)

func (s VisitStatus) String() string {
	names := [...]string{"Pending", "Completed"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Pending"
	}
	return names[s]
}

func (s VisitStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *VisitStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = VisitStatus(i)
		return nil
	}
	switch str {
	case "Pending":
		*s = VisitStatusPending
	case "Completed":
		*s = VisitStatusCompleted
	}
	return nil
}

func (s VisitStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *VisitStatus) Scan(value interface{}) error {
	if value == nil {
		*s = VisitStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = VisitStatus(v)
	case int:
		*s = VisitStatus(v)
	}
	return nil
}
