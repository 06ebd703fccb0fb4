package repository

import (
	"context"
	"time"

	"github.com/bizfolio/bizfolio-api/internal/domain/entity"
	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	domainRepo "github.com/bizfolio/bizfolio-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *gorm.DB) domainRepo.DashboardRepository {
	return &dashboardRepository{db: db}
}

type statusCount struct {
	Status int
	Count  int64
}

type sumResult struct {
	Total decimal.Decimal
}

func (r *dashboardRepository) Summary(ctx context.Context) (*domainRepo.DashboardSummary, error) {
	db := r.db.WithContext(ctx)
	summary := &domainRepo.DashboardSummary{
		QuotationsByStatus:    make(map[string]int64),
		InvoicesByStatus:      make(map[string]int64),
		OutstandingReceivable: decimal.Zero,
		ReceivedThisMonth:     decimal.Zero,
	}

	if err := db.Model(&entity.Client{}).Count(&summary.ClientCount).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&entity.Lead{}).
		Where("status IN ?", []enum.LeadStatus{enum.LeadStatusNew, enum.LeadStatusContacted, enum.LeadStatusQualified}).
		Count(&summary.OpenLeadCount).Error; err != nil {
		return nil, err
	}

	var quotationCounts []statusCount
	if err := db.Model(&entity.Quotation{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&quotationCounts).Error; err != nil {
		return nil, err
	}
	for _, c := range quotationCounts {
		summary.QuotationsByStatus[enum.QuotationStatus(c.Status).String()] = c.Count
	}

	var invoiceCounts []statusCount
	if err := db.Model(&entity.Invoice{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&invoiceCounts).Error; err != nil {
		return nil, err
	}
	for _, c := range invoiceCounts {
		summary.InvoicesByStatus[enum.InvoiceStatus(c.Status).String()] = c.Count
	}

	if err := db.Model(&entity.AMCContract{}).
		Where("status = ?", enum.ContractStatusActive).
		Count(&summary.ActiveContractCount).Error; err != nil {
		return nil, err
	}

	var outstanding sumResult
	if err := db.Model(&entity.Invoice{}).
		Select("COALESCE(SUM(balance), 0) as total").
		Where("status IN ?", []enum.InvoiceStatus{enum.InvoiceStatusUnpaid, enum.InvoiceStatusPartiallyPaid}).
		Scan(&outstanding).Error; err != nil {
		return nil, err
	}
	summary.OutstandingReceivable = outstanding.Total

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var received sumResult
	if err := db.Model(&entity.Payment{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("status = ? AND paid_on >= ?", enum.PaymentStatusCompleted, monthStart).
		Scan(&received).Error; err != nil {
		return nil, err
	}
	summary.ReceivedThisMonth = received.Total

	return summary, nil
}
