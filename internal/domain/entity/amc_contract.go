package entity

import (
	"time"

	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AMCContract represents an annual maintenance contract with scheduled
// service visits. End date is always strictly after start date.
type AMCContract struct {
	ID               uuid.UUID             `gorm:"type:uuid;primary_key" json:"id"`
	ContractNumber   string                `gorm:"size:50;unique;not null" json:"contract_number"`
	ClientID         uuid.UUID             `gorm:"type:uuid;not null;index" json:"client_id"`
	ContractValue    decimal.Decimal       `gorm:"type:numeric(15,2);not null" json:"contract_value"`
	StartDate        time.Time             `gorm:"type:date;not null" json:"start_date"`
	EndDate          time.Time             `gorm:"type:date;not null" json:"end_date"`
	ServiceFrequency enum.ServiceFrequency `gorm:"default:0" json:"service_frequency"`
	Status           enum.ContractStatus   `gorm:"default:0" json:"status"`
	RenewedFromID    *uuid.UUID            `gorm:"type:uuid" json:"renewed_from_id,omitempty"`
	Version          int                   `gorm:"not null;default:1" json:"version"`
	Notes            *string               `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy        uuid.UUID             `gorm:"type:uuid;not null" json:"created_by"`
	UpdatedBy        uuid.UUID             `gorm:"type:uuid;not null" json:"updated_by"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`

	// Relationships
	Client *Client        `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Visits []ServiceVisit `gorm:"foreignKey:ContractID" json:"visits,omitempty"`
}

// BeforeCreate generates a UUID before creating a new contract
func (c *AMCContract) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the AMCContract model
func (AMCContract) TableName() string {
	return "amc_contracts"
}

// ServiceVisit represents one scheduled visit under a contract. Visit
// completion is independent of contract status.
type ServiceVisit struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	ContractID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"contract_id"`
	DueDate     time.Time        `gorm:"type:date;not null" json:"due_date"`
	Status      enum.VisitStatus `gorm:"default:0" json:"status"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	CompletedBy *uuid.UUID       `gorm:"type:uuid" json:"completed_by,omitempty"`
	Notes       *string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new service visit
func (v *ServiceVisit) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ServiceVisit model
func (ServiceVisit) TableName() string {
	return "service_visits"
}
