package services

import (
	"context"
	"errors"

	"epinera-marketplace/models"
	"epinera-marketplace/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Delivery stages derived from payment and item state.
const (
	DeliveryStagePlaced    = "placed"
	DeliveryStageVerified  = "verified"
	DeliveryStageSecuring  = "securing"
	DeliveryStageDelivered = "delivered"
)

// OrderPage is a paginated order listing.
type OrderPage struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
}

// SellerSalesPage is a paginated seller sales listing.
type SellerSalesPage struct {
	Sales []repository.SellerSale `json:"sales"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}

// OrderService covers buyer order history and seller sales.
type OrderService interface {
	GetOrders(ctx context.Context, buyerID uuid.UUID, page, limit int) (*OrderPage, *ServiceError)
	GetOrder(ctx context.Context, orderID, buyerID uuid.UUID) (*models.Order, string, *ServiceError)
	GetSellerSales(ctx context.Context, sellerID uuid.UUID, page, limit int) (*SellerSalesPage, *ServiceError)
	DeliverItem(ctx context.Context, sellerID, itemID uuid.UUID, code string) *ServiceError
}

type orderServiceImpl struct {
	orders  repository.OrderRepository
	wallets repository.WalletRepository
	logger  *zap.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(orders repository.OrderRepository, wallets repository.WalletRepository, logger *zap.Logger) OrderService {
	return &orderServiceImpl{orders: orders, wallets: wallets, logger: logger}
}

func (s *orderServiceImpl) GetOrders(ctx context.Context, buyerID uuid.UUID, page, limit int) (*OrderPage, *ServiceError) {
	orders, total, err := s.orders.FindByBuyer(ctx, buyerID, page, limit)
	if err != nil {
		s.logger.Error("failed to list orders", zap.String("buyer_id", buyerID.String()), zap.Error(err))
		return nil, errInternal("failed to list orders")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return &OrderPage{Orders: orders, Total: total, Page: page, Limit: limit}, nil
}

// GetOrder returns an order owned by the buyer along with its derived
// delivery stage.
func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID, buyerID uuid.UUID) (*models.Order, string, *ServiceError) {
	order, err := s.orders.FindByIDAndBuyer(ctx, orderID, buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", errNotFound("order not found")
		}
		s.logger.Error("failed to load order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, "", errInternal("failed to load order")
	}
	return order, deriveDeliveryStage(order), nil
}

// deriveDeliveryStage maps payment and per-item delivery state onto the
// buyer-facing timeline.
func deriveDeliveryStage(order *models.Order) string {
	if order.PaymentStatus != models.PaymentStatusPaid {
		return DeliveryStagePlaced
	}
	if len(order.OrderItems) == 0 {
		return DeliveryStageVerified
	}
	delivered := 0
	processing := 0
	for _, item := range order.OrderItems {
		switch item.DeliveryStatus {
		case models.DeliveryStatusCompleted:
			delivered++
		case models.DeliveryStatusProcessing:
			processing++
		}
	}
	switch {
	case delivered == len(order.OrderItems):
		return DeliveryStageDelivered
	case delivered > 0 || processing > 0:
		return DeliveryStageSecuring
	default:
		return DeliveryStageVerified
	}
}

func (s *orderServiceImpl) GetSellerSales(ctx context.Context, sellerID uuid.UUID, page, limit int) (*SellerSalesPage, *ServiceError) {
	sales, total, err := s.orders.FindSellerSales(ctx, sellerID, page, limit)
	if err != nil {
		s.logger.Error("failed to list sales", zap.String("seller_id", sellerID.String()), zap.Error(err))
		return nil, errInternal("failed to list sales")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return &SellerSalesPage{Sales: sales, Total: total, Page: page, Limit: limit}, nil
}

// DeliverItem records the delivered key for a sold item and credits the
// seller's wallet with the sale amount.
func (s *orderServiceImpl) DeliverItem(ctx context.Context, sellerID, itemID uuid.UUID, code string) *ServiceError {
	if code == "" {
		return errValidation("delivery code is required")
	}

	item, err := s.orders.FindItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound("order item not found")
		}
		s.logger.Error("failed to load order item", zap.Error(err))
		return errInternal("failed to deliver item")
	}
	if item.SellerID != sellerID {
		return errNotFound("order item not found")
	}
	if item.DeliveryStatus == models.DeliveryStatusCompleted {
		return errConflict("item already delivered")
	}

	if err := s.orders.UpdateItemDelivery(ctx, itemID, sellerID, models.DeliveryStatusCompleted, &code); err != nil {
		s.logger.Error("failed to update delivery", zap.Error(err))
		return errInternal("failed to deliver item")
	}

	entry := &models.WalletTransaction{
		Type:        models.TransactionTypeSale,
		Amount:      item.TotalPrice,
		Currency:    "USD",
		Status:      models.TransactionStatusCompleted,
		Description: "Sale proceeds",
		Metadata:    map[string]interface{}{"order_item_id": item.ID.String()},
	}
	if err := s.wallets.CreditSale(ctx, sellerID, entry.Currency, item.TotalPrice, entry); err != nil {
		s.logger.Error("failed to credit sale", zap.String("seller_id", sellerID.String()), zap.Error(err))
		return errInternal("failed to credit sale")
	}
	return nil
}
