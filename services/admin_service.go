package services

import (
	"context"

	"epinera-marketplace/models"
	"epinera-marketplace/repository"

	"go.uber.org/zap"
)

// AdminService exposes cross-domain views for administrators.
type AdminService interface {
	GetStats(ctx context.Context) (*repository.MarketplaceStats, *ServiceError)
	GetAllTransactions(ctx context.Context, page, limit int) (*TransactionPage, *ServiceError)
	GetAuditLogs(ctx context.Context, action string, limit int64) ([]models.AuditLog, *ServiceError)
}

type adminServiceImpl struct {
	admin   repository.AdminRepository
	wallets repository.WalletRepository
	audit   repository.AuditRepository
	logger  *zap.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(admin repository.AdminRepository, wallets repository.WalletRepository, audit repository.AuditRepository, logger *zap.Logger) AdminService {
	return &adminServiceImpl{admin: admin, wallets: wallets, audit: audit, logger: logger}
}

func (s *adminServiceImpl) GetStats(ctx context.Context) (*repository.MarketplaceStats, *ServiceError) {
	stats, err := s.admin.Stats(ctx)
	if err != nil {
		s.logger.Error("failed to collect stats", zap.Error(err))
		return nil, errInternal("failed to collect stats")
	}
	return stats, nil
}

func (s *adminServiceImpl) GetAllTransactions(ctx context.Context, page, limit int) (*TransactionPage, *ServiceError) {
	entries, total, err := s.wallets.FindAllTransactions(ctx, page, limit)
	if err != nil {
		s.logger.Error("failed to list transactions", zap.Error(err))
		return nil, errInternal("failed to list transactions")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	return &TransactionPage{Transactions: entries, Total: total, Page: page, Limit: limit}, nil
}

func (s *adminServiceImpl) GetAuditLogs(ctx context.Context, action string, limit int64) ([]models.AuditLog, *ServiceError) {
	if s.audit == nil {
		return []models.AuditLog{}, nil
	}
	entries, err := s.audit.List(ctx, action, limit)
	if err != nil {
		s.logger.Error("failed to list audit logs", zap.Error(err))
		return nil, errInternal("failed to list audit logs")
	}
	return entries, nil
}
