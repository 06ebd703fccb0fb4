package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bizfolio/bizfolio-api/internal/domain/repository"
	"github.com/bizfolio/bizfolio-api/pkg/apperror"
)

// Document type codes used as counter keys and number prefixes
const (
	DocTypeQuotation = "QT"
	DocTypeInvoice   = "INV"
	DocTypePayment   = "PAY"
	DocTypeContract  = "AMC"
)

// NumberingService allocates sequential document numbers. Each (doc type,
// month) pair has its own counter, so sequences restart at 1 every month.
// Numbers are allocated by a single atomic counter increment; gaps can appear
// when a creation fails after allocation, and that is acceptable. Reuse of an
// allocated number is not.
type NumberingService struct {
	counterRepo repository.CounterRepository
}

// NewNumberingService creates a new numbering service
func NewNumberingService(counterRepo repository.CounterRepository) *NumberingService {
	return &NumberingService{counterRepo: counterRepo}
}

// NextNumber allocates the next document number for docType at the given
// issue date, formatted as <PREFIX><YYYY><MM><NNNNN>. A counter failure
// surfaces as a numbering failure; the caller must abort the creation
// rather than persist an unnumbered document.
func (s *NumberingService) NextNumber(ctx context.Context, docType string, at time.Time) (string, error) {
	period := at.Format("200601")
	seq, err := s.counterRepo.Next(ctx, docType, period)
	if err != nil {
		return "", apperror.NewNumberingFailure(docType, err)
	}
	return fmt.Sprintf("%s%s%05d", docType, period, seq), nil
}
