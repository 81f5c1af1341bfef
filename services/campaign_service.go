package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"epinera-marketplace/models"
	"epinera-marketplace/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CampaignService manages discount campaigns.
type CampaignService interface {
	CreateCampaign(ctx context.Context, creatorID uuid.UUID, req *models.CreateCampaignRequest) (*models.Campaign, *ServiceError)
	ListCampaigns(ctx context.Context, creatorID uuid.UUID, page, limit int) ([]models.Campaign, int64, *ServiceError)
	UpdateCampaign(ctx context.Context, creatorID, campaignID uuid.UUID, req *models.UpdateCampaignRequest) (*models.Campaign, *ServiceError)
	DeactivateCampaign(ctx context.Context, creatorID, campaignID uuid.UUID) *ServiceError
	ValidateCode(ctx context.Context, req *models.ValidateCampaignRequest) (*models.ValidateCampaignResponse, *ServiceError)
}

type campaignServiceImpl struct {
	campaigns repository.CampaignRepository
	audit     repository.AuditRepository
	logger    *zap.Logger
}

// NewCampaignService creates a new CampaignService.
func NewCampaignService(campaigns repository.CampaignRepository, audit repository.AuditRepository, logger *zap.Logger) CampaignService {
	return &campaignServiceImpl{campaigns: campaigns, audit: audit, logger: logger}
}

func (s *campaignServiceImpl) CreateCampaign(ctx context.Context, creatorID uuid.UUID, req *models.CreateCampaignRequest) (*models.Campaign, *ServiceError) {
	if (req.DiscountPercentage == nil) == (req.DiscountAmount == nil) {
		return nil, errValidation("set exactly one of discount_percentage or discount_amount")
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, errValidation("end_date must be after start_date")
	}

	campaign := &models.Campaign{
		CreatorID:          creatorID,
		Name:               req.Name,
		Code:               strings.ToUpper(strings.TrimSpace(req.Code)),
		DiscountPercentage: req.DiscountPercentage,
		DiscountAmount:     req.DiscountAmount,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		Status:             models.CampaignStatusActive,
	}
	if err := s.campaigns.Create(ctx, campaign); err != nil {
		if strings.Contains(err.Error(), "duplicate") {
			return nil, errConflict("a campaign with this code already exists")
		}
		s.logger.Error("failed to create campaign", zap.String("creator_id", creatorID.String()), zap.Error(err))
		return nil, errInternal("failed to create campaign")
	}
	return campaign, nil
}

func (s *campaignServiceImpl) ListCampaigns(ctx context.Context, creatorID uuid.UUID, page, limit int) ([]models.Campaign, int64, *ServiceError) {
	campaigns, total, err := s.campaigns.FindByCreator(ctx, creatorID, page, limit)
	if err != nil {
		s.logger.Error("failed to list campaigns", zap.String("creator_id", creatorID.String()), zap.Error(err))
		return nil, 0, errInternal("failed to list campaigns")
	}
	return campaigns, total, nil
}

func (s *campaignServiceImpl) UpdateCampaign(ctx context.Context, creatorID, campaignID uuid.UUID, req *models.UpdateCampaignRequest) (*models.Campaign, *ServiceError) {
	campaign, err := s.campaigns.FindByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("campaign not found")
		}
		s.logger.Error("failed to load campaign", zap.Error(err))
		return nil, errInternal("failed to update campaign")
	}
	if campaign.CreatorID != creatorID {
		return nil, errNotFound("campaign not found")
	}

	if req.Name != nil {
		campaign.Name = *req.Name
	}
	if req.DiscountPercentage != nil {
		campaign.DiscountPercentage = req.DiscountPercentage
		campaign.DiscountAmount = nil
	}
	if req.DiscountAmount != nil {
		campaign.DiscountAmount = req.DiscountAmount
		campaign.DiscountPercentage = nil
	}
	if req.StartDate != nil {
		campaign.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		campaign.EndDate = *req.EndDate
	}
	if req.Status != nil {
		campaign.Status = *req.Status
	}
	if !campaign.EndDate.After(campaign.StartDate) {
		return nil, errValidation("end_date must be after start_date")
	}

	if err := s.campaigns.Update(ctx, campaign); err != nil {
		s.logger.Error("failed to update campaign", zap.Error(err))
		return nil, errInternal("failed to update campaign")
	}
	return campaign, nil
}

func (s *campaignServiceImpl) DeactivateCampaign(ctx context.Context, creatorID, campaignID uuid.UUID) *ServiceError {
	if err := s.campaigns.Deactivate(ctx, campaignID, creatorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound("campaign not found")
		}
		s.logger.Error("failed to deactivate campaign", zap.Error(err))
		return errInternal("failed to deactivate campaign")
	}

	if s.audit != nil {
		if err := s.audit.Record(ctx, &models.AuditLog{
			ActorID:    creatorID.String(),
			Action:     models.AuditActionCampaignDeactivate,
			EntityType: "campaign",
			EntityID:   campaignID.String(),
		}); err != nil {
			s.logger.Warn("failed to record audit entry", zap.Error(err))
		}
	}
	return nil
}

// ValidateCode reports the discount a code would apply to a subtotal
// without committing anything.
func (s *campaignServiceImpl) ValidateCode(ctx context.Context, req *models.ValidateCampaignRequest) (*models.ValidateCampaignResponse, *ServiceError) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	campaign, err := s.campaigns.FindActiveByCode(ctx, code, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.ValidateCampaignResponse{
				Valid:   false,
				Code:    code,
				Message: "invalid or expired code",
			}, nil
		}
		s.logger.Error("failed to validate code", zap.String("code", code), zap.Error(err))
		return nil, errInternal("failed to validate code")
	}

	var discount float64
	switch {
	case campaign.DiscountPercentage != nil:
		discount = req.Subtotal * (*campaign.DiscountPercentage / 100)
	case campaign.DiscountAmount != nil:
		discount = *campaign.DiscountAmount
	}
	if discount > req.Subtotal {
		discount = req.Subtotal
	}

	return &models.ValidateCampaignResponse{
		Valid:    true,
		Code:     code,
		Discount: round2(discount),
	}, nil
}
