package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// DashboardSummary aggregates counts and receivable totals for the
// dashboard endpoint. Statuses are counted on stored values; the service
// applies date projections (Overdue, Expired) on top.
type DashboardSummary struct {
	ClientCount           int64            `json:"client_count"`
	OpenLeadCount         int64            `json:"open_lead_count"`
	QuotationsByStatus    map[string]int64 `json:"quotations_by_status"`
	InvoicesByStatus      map[string]int64 `json:"invoices_by_status"`
	ActiveContractCount   int64            `json:"active_contract_count"`
	OutstandingReceivable decimal.Decimal  `json:"outstanding_receivable"`
	ReceivedThisMonth     decimal.Decimal  `json:"received_this_month"`
}

// DashboardRepository defines the interface for dashboard aggregates
type DashboardRepository interface {
	Summary(ctx context.Context) (*DashboardSummary, error)
}
