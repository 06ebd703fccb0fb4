package service

import (
	"context"

	"github.com/bizfolio/bizfolio-api/internal/domain/repository"
)

// DashboardService aggregates business health figures for the dashboard
type DashboardService struct {
	dashboardRepo repository.DashboardRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(dashboardRepo repository.DashboardRepository) *DashboardService {
	return &DashboardService{dashboardRepo: dashboardRepo}
}

// GetSummary returns counts and receivable totals across the business
func (s *DashboardService) GetSummary(ctx context.Context) (*repository.DashboardSummary, error) {
	return s.dashboardRepo.Summary(ctx)
}
