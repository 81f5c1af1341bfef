package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"epinera-marketplace/models"
	"epinera-marketplace/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxReferralLevel = 4

// ReferralService covers referral codes, stats and redemptions.
type ReferralService interface {
	GetOrCreateCode(ctx context.Context, userID uuid.UUID) (string, *ServiceError)
	GetStats(ctx context.Context, userID uuid.UUID) (*models.ReferralStats, *ServiceError)
	ApplyCode(ctx context.Context, userID uuid.UUID, code string) *ServiceError
}

type referralServiceImpl struct {
	referrals repository.ReferralRepository
	orders    repository.OrderRepository
	logger    *zap.Logger
}

// NewReferralService creates a new ReferralService.
func NewReferralService(referrals repository.ReferralRepository, orders repository.OrderRepository, logger *zap.Logger) ReferralService {
	return &referralServiceImpl{referrals: referrals, orders: orders, logger: logger}
}

// referralCode derives the user's code from their ID.
func referralCode(userID uuid.UUID) string {
	return "USER" + strings.ToUpper(strings.ReplaceAll(userID.String(), "-", "")[:8])
}

// GetOrCreateCode returns the user's referral code, minting it on first use.
func (s *referralServiceImpl) GetOrCreateCode(ctx context.Context, userID uuid.UUID) (string, *ServiceError) {
	row, err := s.referrals.FindCodeRow(ctx, userID)
	if err == nil {
		return row.ReferralCode, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("failed to load referral code", zap.String("user_id", userID.String()), zap.Error(err))
		return "", errInternal("failed to load referral code")
	}

	code := referralCode(userID)
	created := &models.Referral{
		ReferrerID:   userID,
		ReferralCode: code,
		Status:       models.ReferralStatusPending,
	}
	if err := s.referrals.Create(ctx, created); err != nil {
		s.logger.Error("failed to create referral code", zap.String("user_id", userID.String()), zap.Error(err))
		return "", errInternal("failed to create referral code")
	}
	return code, nil
}

// GetStats summarizes the user's referrals. Level advances one step per
// three completed referrals, capped at four.
func (s *referralServiceImpl) GetStats(ctx context.Context, userID uuid.UUID) (*models.ReferralStats, *ServiceError) {
	referrals, err := s.referrals.ListByReferrer(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list referrals", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, errInternal("failed to load referral stats")
	}

	stats := &models.ReferralStats{TotalReferrals: len(referrals)}
	for _, ref := range referrals {
		if ref.Status == models.ReferralStatusCompleted {
			stats.CompletedReferrals++
			stats.TotalEarnings += ref.RewardAmount
		}
	}
	stats.TotalEarnings = round2(stats.TotalEarnings)

	level := stats.CompletedReferrals/3 + 1
	if level > maxReferralLevel {
		level = maxReferralLevel
	}
	stats.CurrentLevel = level
	return stats, nil
}

// ApplyCode redeems a referral code for the user. Own codes and repeat
// redemptions are rejected before anything is written.
func (s *referralServiceImpl) ApplyCode(ctx context.Context, userID uuid.UUID, code string) *ServiceError {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return errValidation("referral code is required")
	}

	if _, err := s.referrals.FindByReferred(ctx, userID); err == nil {
		return errConflict("you have already used a referral code")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("failed to check redemption", zap.String("user_id", userID.String()), zap.Error(err))
		return errInternal("failed to apply referral code")
	}

	source, err := s.referrals.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound(fmt.Sprintf("referral code %s not found", code))
		}
		s.logger.Error("failed to resolve referral code", zap.String("code", code), zap.Error(err))
		return errInternal("failed to apply referral code")
	}
	if source.ReferrerID == userID {
		return errValidation("you cannot use your own referral code")
	}

	if err := s.referrals.Attach(ctx, source.ID, userID); err != nil {
		s.logger.Error("failed to redeem referral code", zap.String("code", code), zap.Error(err))
		return errInternal("failed to apply referral code")
	}
	return nil
}
