package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bizfolio/bizfolio-api/internal/application/service"
	"github.com/bizfolio/bizfolio-api/internal/domain/entity"
	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	infraRepo "github.com/bizfolio/bizfolio-api/internal/infrastructure/repository"
	"github.com/bizfolio/bizfolio-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type contractFixture struct {
	db       *gorm.DB
	svc      *service.ContractService
	userID   uuid.UUID
	clientID uuid.UUID
}

func newContractFixture(t *testing.T) *contractFixture {
	t.Helper()

	db := openTestDB(t)
	require.NoError(t, db.AutoMigrate(
		&entity.Client{},
		&entity.AMCContract{},
		&entity.ServiceVisit{},
	))

	userID := uuid.New()
	client := &entity.Client{Name: "Metro Cooling", CreatedBy: userID}
	require.NoError(t, db.Create(client).Error)

	svc := service.NewContractService(
		infraRepo.NewContractRepository(db),
		infraRepo.NewClientRepository(db),
		service.NewNumberingService(infraRepo.NewCounterRepository(db)),
	)

	return &contractFixture{db: db, svc: svc, userID: userID, clientID: client.ID}
}

func (f *contractFixture) createContract(t *testing.T, frequency enum.ServiceFrequency, start, end time.Time) *entity.AMCContract {
	t.Helper()

	contract, err := f.svc.CreateContract(context.Background(), &service.CreateContractInput{
		UserID:           f.userID,
		ClientID:         f.clientID,
		ContractValue:    decimal.NewFromInt(24000),
		StartDate:        start,
		EndDate:          end,
		ServiceFrequency: frequency,
	})
	require.NoError(t, err)
	return contract
}

func TestCreateContract_SchedulesVisits(t *testing.T) {
	f := newContractFixture(t)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		frequency enum.ServiceFrequency
		visits    int
	}{
		{enum.ServiceFrequencyMonthly, 12},
		{enum.ServiceFrequencyQuarterly, 4},
		{enum.ServiceFrequencyHalfYearly, 2},
		{enum.ServiceFrequencyYearly, 1},
	}

	for _, tc := range cases {
		contract := f.createContract(t, tc.frequency, start, end)
		assert.Len(t, contract.Visits, tc.visits, "frequency %s", tc.frequency)
		assert.Equal(t, enum.ContractStatusDraft, contract.Status)
		assert.True(t, strings.HasPrefix(contract.ContractNumber, "AMC202601"))

		for _, v := range contract.Visits {
			assert.Equal(t, enum.VisitStatusPending, v.Status)
		}
	}
}

func TestCreateContract_QuarterlyVisitDates(t *testing.T) {
	f := newContractFixture(t)

	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)
	contract := f.createContract(t, enum.ServiceFrequencyQuarterly, start, end)

	require.Len(t, contract.Visits, 4)
	expected := []time.Time{
		time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	for i, v := range contract.Visits {
		assert.True(t, v.DueDate.Equal(expected[i]), "visit %d due = %s", i, v.DueDate)
	}
}

func TestCreateContract_Validation(t *testing.T) {
	f := newContractFixture(t)
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.svc.CreateContract(ctx, &service.CreateContractInput{
		UserID:           f.userID,
		ClientID:         f.clientID,
		ContractValue:    decimal.NewFromInt(1000),
		StartDate:        start,
		EndDate:          start,
		ServiceFrequency: enum.ServiceFrequencyMonthly,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = f.svc.CreateContract(ctx, &service.CreateContractInput{
		UserID:           f.userID,
		ClientID:         f.clientID,
		ContractValue:    decimal.NewFromInt(-1),
		StartDate:        start,
		EndDate:          start.AddDate(1, 0, 0),
		ServiceFrequency: enum.ServiceFrequencyMonthly,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestActivateContract(t *testing.T) {
	f := newContractFixture(t)
	ctx := context.Background()

	contract := f.createContract(t, enum.ServiceFrequencyQuarterly,
		time.Now(), time.Now().AddDate(1, 0, 0))

	activated, err := f.svc.ActivateContract(ctx, f.userID, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.ContractStatusActive, activated.Status)

	_, err = f.svc.ActivateContract(ctx, f.userID, contract.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition))
}

func TestRenewContract_CarriesTermsOver(t *testing.T) {
	f := newContractFixture(t)
	ctx := context.Background()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	contract := f.createContract(t, enum.ServiceFrequencyQuarterly, start, end)

	_, err := f.svc.ActivateContract(ctx, f.userID, contract.ID)
	require.NoError(t, err)

	renewal, err := f.svc.RenewContract(ctx, &service.RenewContractInput{
		UserID:     f.userID,
		ContractID: contract.ID,
	})
	require.NoError(t, err)

	// The renewal starts where the old period ended and runs just as long
	assert.True(t, renewal.StartDate.Equal(end), "start = %s", renewal.StartDate)
	assert.True(t, renewal.EndDate.Equal(time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC)), "end = %s", renewal.EndDate)
	assert.True(t, renewal.ContractValue.Equal(contract.ContractValue))
	assert.Equal(t, contract.ServiceFrequency, renewal.ServiceFrequency)
	assert.Equal(t, enum.ContractStatusActive, renewal.Status)
	assert.NotEqual(t, contract.ContractNumber, renewal.ContractNumber)
	require.NotNil(t, renewal.RenewedFromID)
	assert.Equal(t, contract.ID, *renewal.RenewedFromID)
	assert.Len(t, renewal.Visits, 4)

	// The source contract is closed as Renewed and cannot be renewed again
	var source entity.AMCContract
	require.NoError(t, f.db.First(&source, "id = ?", contract.ID).Error)
	assert.Equal(t, enum.ContractStatusRenewed, source.Status)

	_, err = f.svc.RenewContract(ctx, &service.RenewContractInput{
		UserID:     f.userID,
		ContractID: contract.ID,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition))
}

func TestRenewContract_ExplicitTerms(t *testing.T) {
	f := newContractFixture(t)
	ctx := context.Background()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	contract := f.createContract(t, enum.ServiceFrequencyHalfYearly, start, end)

	_, err := f.svc.ActivateContract(ctx, f.userID, contract.ID)
	require.NoError(t, err)

	newValue := decimal.NewFromInt(30000)
	newStart := time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC)
	newEnd := time.Date(2027, 8, 1, 0, 0, 0, 0, time.UTC)

	renewal, err := f.svc.RenewContract(ctx, &service.RenewContractInput{
		UserID:        f.userID,
		ContractID:    contract.ID,
		ContractValue: &newValue,
		StartDate:     &newStart,
		EndDate:       &newEnd,
	})
	require.NoError(t, err)

	assert.True(t, renewal.ContractValue.Equal(newValue))
	assert.True(t, renewal.StartDate.Equal(newStart))
	assert.True(t, renewal.EndDate.Equal(newEnd))
	assert.Len(t, renewal.Visits, 1)
}

func TestRenewContract_DraftRejected(t *testing.T) {
	f := newContractFixture(t)

	contract := f.createContract(t, enum.ServiceFrequencyMonthly,
		time.Now(), time.Now().AddDate(1, 0, 0))

	_, err := f.svc.RenewContract(context.Background(), &service.RenewContractInput{
		UserID:     f.userID,
		ContractID: contract.ID,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition))
}

func TestCompleteVisit(t *testing.T) {
	f := newContractFixture(t)
	ctx := context.Background()

	contract := f.createContract(t, enum.ServiceFrequencyQuarterly,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NotEmpty(t, contract.Visits)

	notes := "replaced filter"
	visit, err := f.svc.CompleteVisit(ctx, f.userID, contract.Visits[0].ID, &notes)
	require.NoError(t, err)
	assert.Equal(t, enum.VisitStatusCompleted, visit.Status)
	require.NotNil(t, visit.CompletedAt)
	require.NotNil(t, visit.CompletedBy)
	assert.Equal(t, f.userID, *visit.CompletedBy)
	require.NotNil(t, visit.Notes)
	assert.Equal(t, "replaced filter", *visit.Notes)

	// Completing twice is rejected
	_, err = f.svc.CompleteVisit(ctx, f.userID, contract.Visits[0].ID, nil)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	// Unknown visit
	_, err = f.svc.CompleteVisit(ctx, f.userID, uuid.New(), nil)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestGetContract_ProjectsExpiry(t *testing.T) {
	f := newContractFixture(t)
	ctx := context.Background()

	contract := f.createContract(t, enum.ServiceFrequencyMonthly,
		time.Now().AddDate(-1, 0, -1), time.Now().AddDate(0, 0, -1))

	_, err := f.svc.ActivateContract(ctx, f.userID, contract.ID)
	require.NoError(t, err)

	got, err := f.svc.GetContract(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.ContractStatusExpired, got.Status)

	// Stored status stays Active; Expired is a projection
	var stored entity.AMCContract
	require.NoError(t, f.db.First(&stored, "id = ?", contract.ID).Error)
	assert.Equal(t, enum.ContractStatusActive, stored.Status)
}
