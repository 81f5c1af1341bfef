package services

import (
	"context"
	"errors"
	"time"

	"epinera-marketplace/models"
	"epinera-marketplace/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DisputeService covers buyer/seller disputes and their admin resolution.
type DisputeService interface {
	OpenDispute(ctx context.Context, buyerID uuid.UUID, req *models.OpenDisputeRequest) (*models.Dispute, *ServiceError)
	AddMessage(ctx context.Context, userID, disputeID uuid.UUID, req *models.DisputeMessageRequest) (*models.Dispute, *ServiceError)
	ListMyDisputes(ctx context.Context, userID uuid.UUID) ([]models.Dispute, *ServiceError)
	ListOpenDisputes(ctx context.Context, page, limit int) ([]models.Dispute, int64, *ServiceError)
	ResolveDispute(ctx context.Context, adminID, disputeID uuid.UUID, req *models.ResolveDisputeRequest) (*models.Dispute, *ServiceError)
}

type disputeServiceImpl struct {
	disputes      repository.DisputeRepository
	orders        repository.OrderRepository
	notifications repository.NotificationRepository
	audit         repository.AuditRepository
	logger        *zap.Logger
}

// NewDisputeService creates a new DisputeService.
func NewDisputeService(disputes repository.DisputeRepository, orders repository.OrderRepository, notifications repository.NotificationRepository, audit repository.AuditRepository, logger *zap.Logger) DisputeService {
	return &disputeServiceImpl{
		disputes:      disputes,
		orders:        orders,
		notifications: notifications,
		audit:         audit,
		logger:        logger,
	}
}

// OpenDispute raises a dispute against one order item. Only the item's
// buyer can open it, and each item carries at most one dispute.
func (s *disputeServiceImpl) OpenDispute(ctx context.Context, buyerID uuid.UUID, req *models.OpenDisputeRequest) (*models.Dispute, *ServiceError) {
	item, err := s.orders.FindItemByID(ctx, req.OrderItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("order item not found")
		}
		s.logger.Error("failed to load order item", zap.Error(err))
		return nil, errInternal("failed to open dispute")
	}

	// Ownership check goes through the parent order.
	if _, err := s.orders.FindByIDAndBuyer(ctx, item.OrderID, buyerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("order item not found")
		}
		s.logger.Error("failed to verify order ownership", zap.Error(err))
		return nil, errInternal("failed to open dispute")
	}

	if _, err := s.disputes.FindByOrderItem(ctx, req.OrderItemID); err == nil {
		return nil, errConflict("a dispute already exists for this item")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("failed to check existing dispute", zap.Error(err))
		return nil, errInternal("failed to open dispute")
	}

	dispute := &models.Dispute{
		OrderItemID: req.OrderItemID,
		BuyerID:     buyerID,
		SellerID:    item.SellerID,
		Reason:      req.Reason,
		Status:      models.DisputeStatusOpen,
		Messages: []models.DisputeMessage{{
			AuthorID: buyerID.String(),
			Body:     req.Reason,
			SentAt:   time.Now(),
		}},
	}
	if err := s.disputes.Create(ctx, dispute); err != nil {
		s.logger.Error("failed to create dispute", zap.Error(err))
		return nil, errInternal("failed to open dispute")
	}

	s.notify(ctx, item.SellerID, "Dispute opened",
		"A buyer opened a dispute on one of your sales.", dispute.ID)
	return dispute, nil
}

// AddMessage appends to the dispute thread. Only participants may post, and
// only while the dispute is open.
func (s *disputeServiceImpl) AddMessage(ctx context.Context, userID, disputeID uuid.UUID, req *models.DisputeMessageRequest) (*models.Dispute, *ServiceError) {
	dispute, serr := s.loadForParticipant(ctx, userID, disputeID)
	if serr != nil {
		return nil, serr
	}
	if dispute.Status != models.DisputeStatusOpen {
		return nil, errConflict("dispute is closed")
	}

	dispute.Messages = append(dispute.Messages, models.DisputeMessage{
		AuthorID: userID.String(),
		Body:     req.Body,
		SentAt:   time.Now(),
	})
	if err := s.disputes.Update(ctx, dispute); err != nil {
		s.logger.Error("failed to append dispute message", zap.Error(err))
		return nil, errInternal("failed to send message")
	}

	counterparty := dispute.SellerID
	if userID == dispute.SellerID {
		counterparty = dispute.BuyerID
	}
	s.notify(ctx, counterparty, "New dispute message",
		"There is a new message in one of your disputes.", dispute.ID)
	return dispute, nil
}

func (s *disputeServiceImpl) loadForParticipant(ctx context.Context, userID, disputeID uuid.UUID) (*models.Dispute, *ServiceError) {
	dispute, err := s.disputes.FindByID(ctx, disputeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("dispute not found")
		}
		s.logger.Error("failed to load dispute", zap.Error(err))
		return nil, errInternal("failed to load dispute")
	}
	if dispute.BuyerID != userID && dispute.SellerID != userID {
		return nil, errNotFound("dispute not found")
	}
	return dispute, nil
}

func (s *disputeServiceImpl) ListMyDisputes(ctx context.Context, userID uuid.UUID) ([]models.Dispute, *ServiceError) {
	disputes, err := s.disputes.ListByParticipant(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list disputes", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, errInternal("failed to list disputes")
	}
	return disputes, nil
}

func (s *disputeServiceImpl) ListOpenDisputes(ctx context.Context, page, limit int) ([]models.Dispute, int64, *ServiceError) {
	disputes, total, err := s.disputes.ListOpen(ctx, page, limit)
	if err != nil {
		s.logger.Error("failed to list open disputes", zap.Error(err))
		return nil, 0, errInternal("failed to list disputes")
	}
	return disputes, total, nil
}

// ResolveDispute closes a dispute with a resolution. Admin only; enforced
// at the route layer.
func (s *disputeServiceImpl) ResolveDispute(ctx context.Context, adminID, disputeID uuid.UUID, req *models.ResolveDisputeRequest) (*models.Dispute, *ServiceError) {
	dispute, err := s.disputes.FindByID(ctx, disputeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("dispute not found")
		}
		s.logger.Error("failed to load dispute", zap.Error(err))
		return nil, errInternal("failed to resolve dispute")
	}
	if dispute.Status != models.DisputeStatusOpen {
		return nil, errConflict("dispute is already closed")
	}

	dispute.Status = req.Status
	dispute.Resolution = req.Resolution
	if err := s.disputes.Update(ctx, dispute); err != nil {
		s.logger.Error("failed to resolve dispute", zap.Error(err))
		return nil, errInternal("failed to resolve dispute")
	}

	s.notify(ctx, dispute.BuyerID, "Dispute resolved",
		"Your dispute has been "+req.Status+".", dispute.ID)
	s.notify(ctx, dispute.SellerID, "Dispute resolved",
		"A dispute on one of your sales has been "+req.Status+".", dispute.ID)

	if s.audit != nil {
		if err := s.audit.Record(ctx, &models.AuditLog{
			ActorID:    adminID.String(),
			Action:     models.AuditActionDisputeResolved,
			EntityType: "dispute",
			EntityID:   dispute.ID.String(),
			Metadata:   map[string]interface{}{"status": req.Status},
		}); err != nil {
			s.logger.Warn("failed to record audit entry", zap.Error(err))
		}
	}
	return dispute, nil
}

func (s *disputeServiceImpl) notify(ctx context.Context, userID uuid.UUID, title, message string, disputeID uuid.UUID) {
	if s.notifications == nil {
		return
	}
	note := &models.Notification{
		UserID:  userID,
		Type:    models.NotificationTypeDispute,
		Title:   title,
		Message: message,
		Link:    "/disputes/" + disputeID.String(),
	}
	if err := s.notifications.Create(ctx, note); err != nil {
		s.logger.Warn("failed to send dispute notification", zap.Error(err))
	}
}
