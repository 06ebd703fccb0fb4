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

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	var payment entity.Payment
	err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

func (r *paymentRepository) GetByNumber(ctx context.Context, number string) (*entity.Payment, error) {
	var payment entity.Payment
	err := r.db.WithContext(ctx).First(&payment, "payment_number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

func (r *paymentRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&payments).Error
	return payments, err
}

// WithInvoiceLock serializes all balance-affecting writes per invoice. The
// invoice row is read under FOR UPDATE on postgres; sqlite (tests) already
// serializes writers per database.
func (r *paymentRepository) WithInvoiceLock(ctx context.Context, invoiceID uuid.UUID, fn func(tx domainRepo.ReconciliationTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var invoice entity.Invoice
		if err := q.First(&invoice, "id = ?", invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NewNotFoundError("Invoice")
			}
			return err
		}
		if err := tx.Where("invoice_id = ?", invoiceID).Order("position ASC").Find(&invoice.Items).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", invoiceID).Order("created_at ASC").Find(&invoice.Payments).Error; err != nil {
			return err
		}

		return fn(&reconciliationTx{tx: tx, invoice: &invoice})
	})
}

type reconciliationTx struct {
	tx      *gorm.DB
	invoice *entity.Invoice
}

func (t *reconciliationTx) Invoice() *entity.Invoice {
	return t.invoice
}

func (t *reconciliationTx) CreatePayment(payment *entity.Payment) error {
	return t.tx.Create(payment).Error
}

func (t *reconciliationTx) UpdatePayment(payment *entity.Payment) error {
	return t.tx.Save(payment).Error
}

func (t *reconciliationTx) SaveInvoice(invoice *entity.Invoice) error {
	loadedVersion := invoice.Version
	invoice.Version = loadedVersion + 1

	res := t.tx.Model(invoice).
		Where("version = ?", loadedVersion).
		Select("*").Omit("id", "created_at", clause.Associations).
		Updates(invoice)
	if res.Error != nil {
		invoice.Version = loadedVersion
		return res.Error
	}
	if res.RowsAffected == 0 {
		invoice.Version = loadedVersion
		return apperror.NewConflictError("invoice was modified concurrently")
	}
	return nil
}
