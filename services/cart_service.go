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

// CartView is the joined cart shape with computed totals.
type CartView struct {
	Items    []models.CartLine `json:"items"`
	Subtotal float64           `json:"subtotal"`
	Currency string            `json:"currency"`
	Count    int               `json:"count"`
}

// CartService manages the user's cart.
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartView, *ServiceError)
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddCartItemRequest) *ServiceError
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req *models.UpdateCartItemRequest) *ServiceError
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) *ServiceError
	ClearCart(ctx context.Context, userID uuid.UUID) *ServiceError
}

type cartServiceImpl struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	logger   *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(carts repository.CartRepository, products repository.ProductRepository, logger *zap.Logger) CartService {
	return &cartServiceImpl{carts: carts, products: products, logger: logger}
}

func (s *cartServiceImpl) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, *ServiceError) {
	lines, err := s.carts.ListLines(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load cart", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, errInternal("failed to load cart")
	}

	view := &CartView{Items: lines, Count: len(lines)}
	for _, line := range lines {
		view.Subtotal += line.UnitPrice * float64(line.Quantity)
		view.Currency = line.Currency
	}
	view.Subtotal = round2(view.Subtotal)
	return view, nil
}

// AddItem puts a variant in the cart, merging quantities when the variant
// is already there.
func (s *cartServiceImpl) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddCartItemRequest) *ServiceError {
	variant, err := s.products.FindVariant(ctx, req.VariantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound("product variant not found")
		}
		s.logger.Error("failed to load variant", zap.String("variant_id", req.VariantID.String()), zap.Error(err))
		return errInternal("failed to add item")
	}

	existing, err := s.carts.FindItem(ctx, userID, req.VariantID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("failed to check cart", zap.String("user_id", userID.String()), zap.Error(err))
		return errInternal("failed to add item")
	}

	quantity := req.Quantity
	if existing != nil {
		quantity += existing.Quantity
	}
	if quantity > variant.StockQuantity {
		return errInsufficientStock("requested quantity exceeds available stock")
	}

	if existing != nil {
		if err := s.carts.UpdateQuantity(ctx, existing.ID, userID, quantity); err != nil {
			s.logger.Error("failed to merge cart item", zap.Error(err))
			return errInternal("failed to add item")
		}
		return nil
	}

	item := &models.CartItem{
		UserID:    userID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	}
	if err := s.carts.Create(ctx, item); err != nil {
		s.logger.Error("failed to create cart item", zap.Error(err))
		return errInternal("failed to add item")
	}
	return nil
}

func (s *cartServiceImpl) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req *models.UpdateCartItemRequest) *ServiceError {
	item, err := s.carts.FindItemByID(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound("cart item not found")
		}
		s.logger.Error("failed to load cart item", zap.Error(err))
		return errInternal("failed to update item")
	}

	variant, err := s.products.FindVariant(ctx, item.VariantID)
	if err != nil {
		s.logger.Error("failed to load variant", zap.Error(err))
		return errInternal("failed to update item")
	}
	if req.Quantity > variant.StockQuantity {
		return errInsufficientStock("requested quantity exceeds available stock")
	}

	if err := s.carts.UpdateQuantity(ctx, itemID, userID, req.Quantity); err != nil {
		s.logger.Error("failed to update cart item", zap.Error(err))
		return errInternal("failed to update item")
	}
	return nil
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) *ServiceError {
	if err := s.carts.Delete(ctx, itemID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound("cart item not found")
		}
		s.logger.Error("failed to remove cart item", zap.Error(err))
		return errInternal("failed to remove item")
	}
	return nil
}

func (s *cartServiceImpl) ClearCart(ctx context.Context, userID uuid.UUID) *ServiceError {
	if err := s.carts.Clear(ctx, userID); err != nil {
		s.logger.Error("failed to clear cart", zap.String("user_id", userID.String()), zap.Error(err))
		return errInternal("failed to clear cart")
	}
	return nil
}
