package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ItemKind represents the kind of a billed line item
type ItemKind int

const (
	ItemKindService ItemKind = 0
	ItemKindProduct ItemKind = 1
)

func (k ItemKind) String() string {
	names := [...]string{"Service", "Product"}
	if int(k) < 0 || int(k) >= len(names) {
		return "Service"
	}
	return names[k]
}

func (k ItemKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *ItemKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*k = ItemKind(i)
		return nil
	}
	switch str {
	case "Service":
		*k = ItemKindService
	case "Product":
		*k = ItemKindProduct
	}
	return nil
}

func (k ItemKind) Value() (driver.Value, error) {
	return int64(k), nil
}

func (k *ItemKind) Scan(value interface{}) error {
	if value == nil {
		*k = ItemKindService
		return nil
	}
	switch v := value.(type) {
	case int64:
		*k = ItemKind(v)
	case int:
		*k = ItemKind(v)
	}
	return nil
}
