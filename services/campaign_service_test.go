package services

import (
	"context"
	"testing"
	"time"

	"epinera-marketplace/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func campaignFixture() (CampaignService, *mockCampaignRepo) {
	campaigns := &mockCampaignRepo{}
	svc := NewCampaignService(campaigns, nil, zap.NewNop())
	return svc, campaigns
}

func TestCreateCampaignRequiresExactlyOneDiscount(t *testing.T) {
	svc, _ := campaignFixture()
	pct := 10.0
	amount := 5.0
	base := models.CreateCampaignRequest{
		Name:      "Summer Sale",
		Code:      "summer",
		StartDate: time.Now(),
		EndDate:   time.Now().Add(24 * time.Hour),
	}

	neither := base
	_, svcErr := svc.CreateCampaign(context.Background(), uuid.New(), &neither)
	require.NotNil(t, svcErr)
	assert.Equal(t, KindValidation, svcErr.Kind)

	both := base
	both.DiscountPercentage = &pct
	both.DiscountAmount = &amount
	_, svcErr = svc.CreateCampaign(context.Background(), uuid.New(), &both)
	require.NotNil(t, svcErr)
	assert.Equal(t, KindValidation, svcErr.Kind)
}

func TestCreateCampaignUppercasesCode(t *testing.T) {
	svc, _ := campaignFixture()
	pct := 10.0

	campaign, svcErr := svc.CreateCampaign(context.Background(), uuid.New(), &models.CreateCampaignRequest{
		Name:               "Summer Sale",
		Code:               "  summer25 ",
		DiscountPercentage: &pct,
		StartDate:          time.Now(),
		EndDate:            time.Now().Add(24 * time.Hour),
	})
	require.Nil(t, svcErr)
	assert.Equal(t, "SUMMER25", campaign.Code)
	assert.Equal(t, models.CampaignStatusActive, campaign.Status)
}

func TestCreateCampaignRejectsInvertedWindow(t *testing.T) {
	svc, _ := campaignFixture()
	pct := 10.0

	_, svcErr := svc.CreateCampaign(context.Background(), uuid.New(), &models.CreateCampaignRequest{
		Name:               "Summer Sale",
		Code:               "SUMMER",
		DiscountPercentage: &pct,
		StartDate:          time.Now().Add(24 * time.Hour),
		EndDate:            time.Now(),
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, KindValidation, svcErr.Kind)
}

func TestUpdateCampaignNotOwned(t *testing.T) {
	svc, campaigns := campaignFixture()
	campaigns.campaign = &models.Campaign{ID: uuid.New(), CreatorID: uuid.New()}

	_, svcErr := svc.UpdateCampaign(context.Background(), uuid.New(), campaigns.campaign.ID, &models.UpdateCampaignRequest{})
	require.NotNil(t, svcErr)
	assert.Equal(t, KindNotFound, svcErr.Kind)
}

func TestUpdateCampaignSwitchesDiscountType(t *testing.T) {
	svc, campaigns := campaignFixture()
	creatorID := uuid.New()
	pct := 15.0
	campaigns.campaign = &models.Campaign{
		ID:                 uuid.New(),
		CreatorID:          creatorID,
		DiscountPercentage: &pct,
		StartDate:          time.Now(),
		EndDate:            time.Now().Add(24 * time.Hour),
	}

	amount := 7.5
	updated, svcErr := svc.UpdateCampaign(context.Background(), creatorID, campaigns.campaign.ID, &models.UpdateCampaignRequest{
		DiscountAmount: &amount,
	})
	require.Nil(t, svcErr)
	assert.Nil(t, updated.DiscountPercentage)
	require.NotNil(t, updated.DiscountAmount)
	assert.Equal(t, 7.5, *updated.DiscountAmount)
}

func TestValidateCodePercentage(t *testing.T) {
	svc, campaigns := campaignFixture()
	pct := 20.0
	campaigns.campaign = &models.Campaign{
		Code:               "TWENTY",
		DiscountPercentage: &pct,
		Status:             models.CampaignStatusActive,
	}

	resp, svcErr := svc.ValidateCode(context.Background(), &models.ValidateCampaignRequest{Code: "twenty", Subtotal: 59.99})
	require.Nil(t, svcErr)
	assert.True(t, resp.Valid)
	assert.Equal(t, 12.0, resp.Discount)
}

func TestValidateCodeFixedAmountCapped(t *testing.T) {
	svc, campaigns := campaignFixture()
	amount := 30.0
	campaigns.campaign = &models.Campaign{
		Code:           "THIRTY",
		DiscountAmount: &amount,
		Status:         models.CampaignStatusActive,
	}

	resp, svcErr := svc.ValidateCode(context.Background(), &models.ValidateCampaignRequest{Code: "THIRTY", Subtotal: 12.0})
	require.Nil(t, svcErr)
	assert.True(t, resp.Valid)
	assert.Equal(t, 12.0, resp.Discount)
}

func TestValidateCodeUnknownIsNotAnError(t *testing.T) {
	svc, _ := campaignFixture()

	resp, svcErr := svc.ValidateCode(context.Background(), &models.ValidateCampaignRequest{Code: "NOPE", Subtotal: 10})
	require.Nil(t, svcErr)
	assert.False(t, resp.Valid)
	assert.NotEmpty(t, resp.Message)
}
