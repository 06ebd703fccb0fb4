package entity

import (
	"time"
)

// DocumentCounter holds the last issued sequence value for one document type
// in one year-month period. It is owned exclusively by the sequence
// generator; no other component reads or writes it.
type DocumentCounter struct {
	DocType   string    `gorm:"primaryKey;size:20" json:"doc_type"`
	Period    string    `gorm:"primaryKey;size:6" json:"period"` // YYYYMM
	LastValue int64     `gorm:"not null;default:0" json:"last_value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the DocumentCounter model
func (DocumentCounter) TableName() string {
	return "document_counters"
}
