package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client represents a business client that owns financial documents
type Client struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	CompanyName *string        `gorm:"size:255" json:"company_name,omitempty"`
	Email       *string        `gorm:"size:255" json:"email,omitempty"`
	Phone       *string        `gorm:"size:50" json:"phone,omitempty"`
	GSTIN       *string        `gorm:"size:20;column:gstin" json:"gstin,omitempty"`
	Address     *string        `gorm:"type:text" json:"address,omitempty"`
	City        *string        `gorm:"size:100" json:"city,omitempty"`
	State       *string        `gorm:"size:100" json:"state,omitempty"`
	Notes       *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy   uuid.UUID      `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Quotations []Quotation   `gorm:"foreignKey:ClientID" json:"-"`
	Invoices   []Invoice     `gorm:"foreignKey:ClientID" json:"-"`
	Contracts  []AMCContract `gorm:"foreignKey:ClientID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new client
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Client model
func (Client) TableName() string {
	return "clients"
}
