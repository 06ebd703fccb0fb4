package service_test

import (
	"context"
	"testing"

	"github.com/bizfolio/bizfolio-api/internal/application/service"
	"github.com/bizfolio/bizfolio-api/internal/domain/entity"
	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	infraRepo "github.com/bizfolio/bizfolio-api/internal/infrastructure/repository"
	"github.com/bizfolio/bizfolio-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLeadService(t *testing.T) (*service.LeadService, *gorm.DB) {
	t.Helper()

	db := openTestDB(t)
	require.NoError(t, db.AutoMigrate(&entity.Lead{}, &entity.Client{}))

	svc := service.NewLeadService(
		infraRepo.NewLeadRepository(db),
		infraRepo.NewClientRepository(db),
	)
	return svc, db
}

func strPtr(s string) *string { return &s }

func TestConvertLead_CreatesClientWithContactDetails(t *testing.T) {
	svc, db := newLeadService(t)
	userID := uuid.New()
	ctx := context.Background()

	lead, err := svc.CreateLead(ctx, &service.LeadInput{
		UserID:      userID,
		Name:        "Rakesh Kumar",
		CompanyName: strPtr("Kumar Cold Storage"),
		Email:       strPtr("rakesh@example.com"),
		Phone:       strPtr("+91 98765 43210"),
		Status:      enum.LeadStatusQualified,
	})
	require.NoError(t, err)

	client, err := svc.ConvertLead(ctx, userID, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rakesh Kumar", client.Name)
	require.NotNil(t, client.CompanyName)
	assert.Equal(t, "Kumar Cold Storage", *client.CompanyName)
	require.NotNil(t, client.Email)
	assert.Equal(t, "rakesh@example.com", *client.Email)

	var stored entity.Lead
	require.NoError(t, db.First(&stored, "id = ?", lead.ID).Error)
	assert.Equal(t, enum.LeadStatusConverted, stored.Status)
	require.NotNil(t, stored.ConvertedClientID)
	assert.Equal(t, client.ID, *stored.ConvertedClientID)
}

func TestConvertLead_AlreadyConvertedOrLost(t *testing.T) {
	svc, _ := newLeadService(t)
	userID := uuid.New()
	ctx := context.Background()

	lead, err := svc.CreateLead(ctx, &service.LeadInput{
		UserID: userID,
		Name:   "Once",
		Status: enum.LeadStatusNew,
	})
	require.NoError(t, err)

	_, err = svc.ConvertLead(ctx, userID, lead.ID)
	require.NoError(t, err)

	_, err = svc.ConvertLead(ctx, userID, lead.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	lost, err := svc.CreateLead(ctx, &service.LeadInput{
		UserID: userID,
		Name:   "Gone",
		Status: enum.LeadStatusLost,
	})
	require.NoError(t, err)

	_, err = svc.ConvertLead(ctx, userID, lost.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestUpdateLead_ConvertedIsReadOnly(t *testing.T) {
	svc, _ := newLeadService(t)
	userID := uuid.New()
	ctx := context.Background()

	lead, err := svc.CreateLead(ctx, &service.LeadInput{
		UserID: userID,
		Name:   "Prospect",
		Status: enum.LeadStatusContacted,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateLead(ctx, lead.ID, &service.LeadInput{
		UserID: userID,
		Name:   "Prospect Renamed",
		Status: enum.LeadStatusQualified,
	})
	require.NoError(t, err)
	assert.Equal(t, "Prospect Renamed", updated.Name)

	_, err = svc.ConvertLead(ctx, userID, lead.ID)
	require.NoError(t, err)

	_, err = svc.UpdateLead(ctx, lead.ID, &service.LeadInput{
		UserID: userID,
		Name:   "Should fail",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestDeleteLead_Missing(t *testing.T) {
	svc, _ := newLeadService(t)

	err := svc.DeleteLead(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
