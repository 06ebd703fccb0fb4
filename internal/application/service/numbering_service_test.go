package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bizfolio/bizfolio-api/internal/application/service"
	"github.com/bizfolio/bizfolio-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounterRepo struct {
	counters map[string]int64
	err      error
}

func newFakeCounterRepo() *fakeCounterRepo {
	return &fakeCounterRepo{counters: make(map[string]int64)}
}

func (f *fakeCounterRepo) Next(_ context.Context, docType, period string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	key := docType + ":" + period
	f.counters[key]++
	return f.counters[key], nil
}

func TestNumberingService_FormatAndSequence(t *testing.T) {
	repo := newFakeCounterRepo()
	svc := service.NewNumberingService(repo)

	at := time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)

	first, err := svc.NextNumber(context.Background(), service.DocTypeQuotation, at)
	require.NoError(t, err)
	assert.Equal(t, "QT20260800001", first)

	second, err := svc.NextNumber(context.Background(), service.DocTypeQuotation, at)
	require.NoError(t, err)
	assert.Equal(t, "QT20260800002", second)
}

func TestNumberingService_IndependentSequencesPerTypeAndMonth(t *testing.T) {
	repo := newFakeCounterRepo()
	svc := service.NewNumberingService(repo)

	august := time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)
	september := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	qt, err := svc.NextNumber(context.Background(), service.DocTypeQuotation, august)
	require.NoError(t, err)
	inv, err := svc.NextNumber(context.Background(), service.DocTypeInvoice, august)
	require.NoError(t, err)

	// A different document type in the same month starts its own sequence
	assert.Equal(t, "QT20260800001", qt)
	assert.Equal(t, "INV20260800001", inv)

	// A new month restarts the sequence for the same type
	next, err := svc.NextNumber(context.Background(), service.DocTypeQuotation, september)
	require.NoError(t, err)
	assert.Equal(t, "QT20260900001", next)
}

func TestNumberingService_CounterFailureSurfacesAsNumberingFailure(t *testing.T) {
	repo := newFakeCounterRepo()
	repo.err = errors.New("connection refused")
	svc := service.NewNumberingService(repo)

	_, err := svc.NextNumber(context.Background(), service.DocTypeInvoice, time.Now())
	require.Error(t, err)

	appErr := apperror.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperror.KindNumberingFailure, appErr.Kind)
}
