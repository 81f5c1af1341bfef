package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"epinera-marketplace/events"
	"epinera-marketplace/models"
	awspkg "epinera-marketplace/pkg/aws"
	"epinera-marketplace/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// taxRate is applied to the pre-discount subtotal.
const taxRate = 0.08

// CheckoutService turns the user's cart into a paid order.
type CheckoutService interface {
	ProcessCheckout(ctx context.Context, userID uuid.UUID, req *models.CheckoutRequest) (*models.CheckoutResult, *ServiceError)
}

// CheckoutDeps bundles the collaborators a checkout needs.
type CheckoutDeps struct {
	Carts         repository.CartRepository
	Campaigns     repository.CampaignRepository
	Wallets       repository.WalletRepository
	Checkouts     repository.CheckoutRepository
	Idempotency   repository.IdempotencyRepository
	Notifications repository.NotificationRepository
	Audit         repository.AuditRepository
	Publisher     *events.Publisher
	Metrics       *awspkg.MetricsClient
	Logger        *zap.Logger
}

type checkoutServiceImpl struct {
	deps CheckoutDeps
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(deps CheckoutDeps) CheckoutService {
	return &checkoutServiceImpl{deps: deps}
}

// ProcessCheckout validates the cart, prices it, and commits the order,
// wallet debit, ledger entry, cart clear and stock decrements in one
// database transaction. Notifications, audit and event publishing happen
// after commit and never fail the checkout.
func (s *checkoutServiceImpl) ProcessCheckout(ctx context.Context, userID uuid.UUID, req *models.CheckoutRequest) (*models.CheckoutResult, *ServiceError) {
	idemKey := strings.TrimSpace(req.IdempotencyKey)
	if idemKey != "" {
		if serr := s.claimIdempotencyKey(ctx, idemKey); serr != nil {
			return nil, serr
		}
	}

	result, serr := s.processOnce(ctx, userID, req)
	if idemKey != "" {
		if serr != nil {
			if err := s.deps.Idempotency.Release(ctx, idemKey); err != nil {
				s.deps.Logger.Warn("failed to release idempotency key", zap.Error(err))
			}
		} else {
			if err := s.deps.Idempotency.Resolve(ctx, idemKey, result.OrderID.String()); err != nil {
				s.deps.Logger.Warn("failed to resolve idempotency key", zap.Error(err))
			}
		}
	}
	return result, serr
}

func (s *checkoutServiceImpl) claimIdempotencyKey(ctx context.Context, key string) *ServiceError {
	orderID, pending, err := s.deps.Idempotency.Lookup(ctx, key)
	if err != nil {
		s.deps.Logger.Error("idempotency lookup failed", zap.Error(err))
		return errInternal("failed to check idempotency key")
	}
	if orderID != "" {
		serr := errConflict("checkout already processed")
		serr.Details = map[string]interface{}{"order_id": orderID}
		return serr
	}
	if pending {
		return errConflict("checkout already in progress")
	}
	claimed, err := s.deps.Idempotency.Reserve(ctx, key)
	if err != nil {
		s.deps.Logger.Error("idempotency reserve failed", zap.Error(err))
		return errInternal("failed to reserve idempotency key")
	}
	if !claimed {
		return errConflict("checkout already in progress")
	}
	return nil
}

func (s *checkoutServiceImpl) processOnce(ctx context.Context, userID uuid.UUID, req *models.CheckoutRequest) (*models.CheckoutResult, *ServiceError) {
	lines, err := s.deps.Carts.ListLines(ctx, userID)
	if err != nil {
		s.deps.Logger.Error("failed to load cart", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, errInternal("failed to load cart")
	}
	if len(lines) == 0 {
		return nil, errValidation("cart is empty")
	}

	currency := lines[0].Currency
	subtotal := 0.0
	for _, line := range lines {
		if line.Currency != currency {
			return nil, errValidation("cart mixes currencies; remove items to proceed")
		}
		if line.StockQuantity < line.Quantity {
			return nil, errInsufficientStock(fmt.Sprintf("insufficient stock for %s", line.ProductTitle))
		}
		subtotal += line.UnitPrice * float64(line.Quantity)
	}
	subtotal = round2(subtotal)

	discount, serr := s.resolveDiscount(ctx, req.DiscountCode, subtotal)
	if serr != nil {
		return nil, serr
	}

	tax := round2(subtotal * taxRate)
	total := round2(subtotal - discount + tax)

	wallet, err := s.deps.Wallets.FindByUserAndCurrency(ctx, userID, currency)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInsufficientBalance("insufficient wallet balance", 0, total)
		}
		s.deps.Logger.Error("failed to load wallet", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, errInternal("failed to load wallet")
	}
	if wallet.Balance < total {
		return nil, errInsufficientBalance("insufficient wallet balance", wallet.Balance, total)
	}

	order := &models.Order{
		ID:             uuid.New(),
		BuyerID:        userID,
		Subtotal:       subtotal,
		TaxAmount:      tax,
		DiscountAmount: discount,
		TotalAmount:    total,
		Currency:       currency,
		Status:         models.OrderStatusPaid,
		PaymentStatus:  models.PaymentStatusPaid,
		PaymentMethod:  models.PaymentMethodWallet,
	}

	items := make([]models.OrderItem, 0, len(lines))
	decrements := make([]repository.StockDecrement, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			VariantID:      line.VariantID,
			ProductID:      line.ProductID,
			SellerID:       line.SellerID,
			Quantity:       line.Quantity,
			UnitPrice:      line.UnitPrice,
			TotalPrice:     round2(line.UnitPrice * float64(line.Quantity)),
			DeliveryStatus: models.DeliveryStatusPending,
		})
		decrements = append(decrements, repository.StockDecrement{
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
		})
	}

	ledger := &models.WalletTransaction{
		UserID:      userID,
		Type:        models.TransactionTypePayment,
		Amount:      -total,
		Currency:    currency,
		Status:      models.TransactionStatusCompleted,
		Description: fmt.Sprintf("Payment for order %s", order.ID),
		Metadata:    map[string]interface{}{"order_id": order.ID.String()},
	}

	debit := repository.WalletDebit{WalletID: wallet.ID, Amount: total}
	if err := s.deps.Checkouts.PlaceOrder(ctx, order, items, debit, ledger, userID, decrements); err != nil {
		if s.deps.Metrics != nil {
			_ = s.deps.Metrics.RecordCount(ctx, awspkg.MetricCheckoutsFailed, nil)
		}
		switch {
		case errors.Is(err, repository.ErrInsufficientBalance):
			return nil, errInsufficientBalance("insufficient wallet balance", wallet.Balance, total)
		case errors.Is(err, repository.ErrInsufficientStock):
			return nil, errInsufficientStock("an item sold out during checkout")
		default:
			s.deps.Logger.Error("checkout transaction failed",
				zap.String("user_id", userID.String()),
				zap.Error(err))
			return nil, errInternal("checkout failed")
		}
	}

	s.afterCommit(ctx, order, lines)

	return &models.CheckoutResult{
		OrderID:  order.ID,
		Total:    total,
		Currency: currency,
	}, nil
}

// resolveDiscount maps an optional code to a discount amount. Percentage
// takes precedence when a campaign defines both. The discount never exceeds
// the subtotal.
func (s *checkoutServiceImpl) resolveDiscount(ctx context.Context, code string, subtotal float64) (float64, *ServiceError) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return 0, nil
	}
	campaign, err := s.deps.Campaigns.FindActiveByCode(ctx, code, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errValidation("invalid or expired discount code")
		}
		s.deps.Logger.Error("failed to resolve discount code", zap.String("code", code), zap.Error(err))
		return 0, errInternal("failed to resolve discount code")
	}

	var discount float64
	switch {
	case campaign.DiscountPercentage != nil:
		discount = subtotal * (*campaign.DiscountPercentage / 100)
	case campaign.DiscountAmount != nil:
		discount = *campaign.DiscountAmount
	}
	if discount > subtotal {
		discount = subtotal
	}
	return round2(discount), nil
}

// afterCommit performs the best-effort side effects of a committed checkout.
func (s *checkoutServiceImpl) afterCommit(ctx context.Context, order *models.Order, lines []models.CartLine) {
	if s.deps.Metrics != nil {
		_ = s.deps.Metrics.RecordCount(ctx, awspkg.MetricCheckoutsCompleted, nil)
	}

	buyerNote := &models.Notification{
		UserID:  order.BuyerID,
		Type:    models.NotificationTypeOrder,
		Title:   "Order confirmed",
		Message: fmt.Sprintf("Your order for %.2f %s was placed successfully.", order.TotalAmount, order.Currency),
		Link:    fmt.Sprintf("/orders/%s", order.ID),
	}
	if err := s.deps.Notifications.Create(ctx, buyerNote); err != nil {
		s.deps.Logger.Warn("failed to notify buyer", zap.Error(err))
	}

	notified := make(map[uuid.UUID]bool)
	for _, line := range lines {
		if notified[line.SellerID] {
			continue
		}
		notified[line.SellerID] = true
		sellerNote := &models.Notification{
			UserID:  line.SellerID,
			Type:    models.NotificationTypeOrder,
			Title:   "New sale",
			Message: fmt.Sprintf("You sold %s.", line.ProductTitle),
			Link:    "/seller/orders",
		}
		if err := s.deps.Notifications.Create(ctx, sellerNote); err != nil {
			s.deps.Logger.Warn("failed to notify seller", zap.Error(err))
		}
	}

	if s.deps.Audit != nil {
		if err := s.deps.Audit.Record(ctx, &models.AuditLog{
			ActorID:    order.BuyerID.String(),
			Action:     models.AuditActionCheckout,
			EntityType: "order",
			EntityID:   order.ID.String(),
			Metadata: map[string]interface{}{
				"total":    order.TotalAmount,
				"currency": order.Currency,
			},
		}); err != nil {
			s.deps.Logger.Warn("failed to record audit entry", zap.Error(err))
		}
	}

	if s.deps.Publisher != nil {
		s.deps.Publisher.PublishOrderEvent(ctx, models.OrderEvent{
			EventType: "order.created",
			OrderID:   order.ID.String(),
			BuyerID:   order.BuyerID.String(),
			Total:     order.TotalAmount,
			Currency:  order.Currency,
		})
	}
}
