package service

import (
	"context"

	"github.com/bizfolio/bizfolio-api/internal/domain/entity"
	"github.com/bizfolio/bizfolio-api/internal/domain/repository"
	"github.com/bizfolio/bizfolio-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettingsService manages per-user document defaults
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// GetSettings returns the user's settings, falling back to defaults when
// none have been saved yet
func (s *SettingsService) GetSettings(ctx context.Context, userID uuid.UUID) (*entity.UserSettings, error) {
	settings, err := s.settingsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return &entity.UserSettings{
			UserID:                userID,
			QuotationValidityDays: 30,
			InvoiceDueDays:        15,
			CurrencySymbol:        "₹",
		}, nil
	}
	return settings, nil
}

// UpdateSettingsInput represents the input for updating user settings
type UpdateSettingsInput struct {
	UserID                uuid.UUID
	QuotationValidityDays int
	InvoiceDueDays        int
	DefaultTaxRates       map[string]decimal.Decimal
	CurrencySymbol        string
}

// UpdateSettings saves the user's document defaults
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.UserSettings, error) {
	if input.QuotationValidityDays < 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "quotation_validity_days", Message: "must not be negative"},
		})
	}
	if input.InvoiceDueDays < 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "invoice_due_days", Message: "must not be negative"},
		})
	}
	for name, rate := range input.DefaultTaxRates {
		if rate.IsNegative() {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "default_tax_rates." + name, Message: "must not be negative"},
			})
		}
	}

	settings := &entity.UserSettings{
		UserID:                input.UserID,
		QuotationValidityDays: input.QuotationValidityDays,
		InvoiceDueDays:        input.InvoiceDueDays,
		DefaultTaxRates:       input.DefaultTaxRates,
		CurrencySymbol:        input.CurrencySymbol,
	}
	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
