package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// LeadStatus represents the pipeline stage of a sales lead
type LeadStatus int

const (
	LeadStatusNew       LeadStatus = 0
	LeadStatusContacted LeadStatus = 1
	LeadStatusQualified LeadStatus = 2
	LeadStatusConverted LeadStatus = 3
	LeadStatusLost      LeadStatus = 4
)

func (s LeadStatus) String() string {
	names := [...]string{"New", "Contacted", "Qualified", "Converted", "Lost"}
	if int(s) < 0 || int(s) >= len(names) {
		return "New"
	}
	return names[s]
}

func (s LeadStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *LeadStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = LeadStatus(i)
		return nil
	}
	switch str {
	case "New":
		*s = LeadStatusNew
	case "Contacted":
		*s = LeadStatusContacted
	case "Qualified":
		*s = LeadStatusQualified
	case "Converted":
		*s = LeadStatusConverted
	case "Lost":
		*s = LeadStatusLost
	}
	return nil
}

func (s LeadStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *LeadStatus) Scan(value interface{}) error {
	if value == nil {
		*s = LeadStatusNew
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = LeadStatus(v)
	case int:
		*s = LeadStatus(v)
	}
	return nil
}
