package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ServiceFrequency represents how often AMC service visits are scheduled
type ServiceFrequency int

const (
	ServiceFrequencyMonthly    ServiceFrequency = 0
	ServiceFrequencyQuarterly  ServiceFrequency = 1
	ServiceFrequencyHalfYearly ServiceFrequency = 2
	ServiceFrequencyYearly     ServiceFrequency = 3
)

func (f ServiceFrequency) String() string {
	names := [...]string{"Monthly", "Quarterly", "HalfYearly", "Yearly"}
	if int(f) < 0 || int(f) >= len(names) {
		return "Monthly"
	}
	return names[f]
}

// MonthsBetweenVisits returns the visit interval in months
func (f ServiceFrequency) MonthsBetweenVisits() int {
	switch f {
	case ServiceFrequencyQuarterly:
		return 3
	case ServiceFrequencyHalfYearly:
		return 6
	case ServiceFrequencyYearly:
		return 12
	default:
		return 1
	}
}

func (f ServiceFrequency) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func (f *ServiceFrequency) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*f = ServiceFrequency(i)
		return nil
	}
	switch str {
	case "Monthly":
		*f = ServiceFrequencyMonthly
	case "Quarterly":
		*f = ServiceFrequencyQuarterly
	case "HalfYearly":
		*f = ServiceFrequencyHalfYearly
	case "Yearly":
		*f = ServiceFrequencyYearly
	}
	return nil
}

func (f ServiceFrequency) Value() (driver.Value, error) {
	return int64(f), nil
}

func (f *ServiceFrequency) Scan(value interface{}) error {
	if value == nil {
		*f = ServiceFrequencyMonthly
		return nil
	}
	switch v := value.(type) {
	case int64:
		*f = ServiceFrequency(v)
	case int:
		*f = ServiceFrequency(v)
	}
	return nil
}
