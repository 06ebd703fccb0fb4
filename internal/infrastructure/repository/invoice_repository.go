package repository

import (
	"context"
	"errors"

	"github.com/bizfolio/bizfolio-api/internal/domain/entity"
	domainRepo "github.com/bizfolio/bizfolio-api/internal/domain/repository"
	"github.com/bizfolio/bizfolio-api/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("invoice_items.position ASC")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payments.created_at ASC")
		}).
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

// Update writes the invoice conditionally on the version it was loaded
// with. A zero rows-affected result means another writer got there first.
func (r *invoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	loadedVersion := invoice.Version
	invoice.Version = loadedVersion + 1

	if err := versionedInvoiceWrite(r.db.WithContext(ctx), invoice, loadedVersion); err != nil {
		invoice.Version = loadedVersion
		return err
	}
	return nil
}

func versionedInvoiceWrite(tx *gorm.DB, invoice *entity.Invoice, loadedVersion int) error {
	res := tx.Model(invoice).
		Where("version = ?", loadedVersion).
		Select("*").Omit("id", "created_at", clause.Associations).
		Updates(invoice)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NewConflictError("invoice was modified concurrently")
	}
	return nil
}

// UpdateWithItems writes the invoice and replaces its line items in a single
// transaction so a failed item write never leaves committed totals computed
// from items that were not stored. The write is conditional on the version
// the invoice was loaded with.
func (r *invoiceRepository) UpdateWithItems(ctx context.Context, invoice *entity.Invoice, items []entity.InvoiceItem) error {
	loadedVersion := invoice.Version
	invoice.Version = loadedVersion + 1

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := versionedInvoiceWrite(tx, invoice, loadedVersion); err != nil {
			return err
		}
		if err := tx.Delete(&entity.InvoiceItem{}, "invoice_id = ?", invoice.ID).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].InvoiceID = invoice.ID
			items[i].Position = i
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		invoice.Version = loadedVersion
		return err
	}
	return nil
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{})

	if params.Search != "" {
		query = query.Where("document_number LIKE ?", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.ClientID != nil {
		query = query.Where("client_id = ?", *params.ClientID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Client").
		Order("created_at DESC").
		Find(&invoices).Error

	return invoices, total, err
}
