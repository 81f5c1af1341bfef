package services

import (
	"context"
	"testing"

	"epinera-marketplace/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func cartFixture(variant *models.ProductVariant) (CartService, *mockCartRepo) {
	carts := &mockCartRepo{}
	products := &mockProductRepo{variants: map[uuid.UUID]*models.ProductVariant{}}
	if variant != nil {
		products.variants[variant.ID] = variant
	}
	svc := NewCartService(carts, products, zap.NewNop())
	return svc, carts
}

func TestAddItemUnknownVariant(t *testing.T) {
	svc, carts := cartFixture(nil)

	svcErr := svc.AddItem(context.Background(), uuid.New(), &models.AddCartItemRequest{VariantID: uuid.New(), Quantity: 1})
	require.NotNil(t, svcErr)
	assert.Equal(t, KindNotFound, svcErr.Kind)
	assert.Empty(t, carts.created)
}

func TestAddItemCreatesLine(t *testing.T) {
	variant := &models.ProductVariant{ID: uuid.New(), StockQuantity: 5}
	svc, carts := cartFixture(variant)

	userID := uuid.New()
	svcErr := svc.AddItem(context.Background(), userID, &models.AddCartItemRequest{VariantID: variant.ID, Quantity: 2})
	require.Nil(t, svcErr)
	require.Len(t, carts.created, 1)
	assert.Equal(t, userID, carts.created[0].UserID)
	assert.Equal(t, 2, carts.created[0].Quantity)
}

func TestAddItemMergesExistingQuantity(t *testing.T) {
	variant := &models.ProductVariant{ID: uuid.New(), StockQuantity: 5}
	svc, carts := cartFixture(variant)

	existing := &models.CartItem{ID: uuid.New(), VariantID: variant.ID, Quantity: 2}
	carts.findItemFn = func(_, _ uuid.UUID) (*models.CartItem, error) { return existing, nil }

	svcErr := svc.AddItem(context.Background(), uuid.New(), &models.AddCartItemRequest{VariantID: variant.ID, Quantity: 3})
	require.Nil(t, svcErr)
	assert.Empty(t, carts.created)
	assert.Equal(t, 5, carts.updated[existing.ID])
}

func TestAddItemMergedQuantityBoundedByStock(t *testing.T) {
	variant := &models.ProductVariant{ID: uuid.New(), StockQuantity: 4}
	svc, carts := cartFixture(variant)

	existing := &models.CartItem{ID: uuid.New(), VariantID: variant.ID, Quantity: 2}
	carts.findItemFn = func(_, _ uuid.UUID) (*models.CartItem, error) { return existing, nil }

	svcErr := svc.AddItem(context.Background(), uuid.New(), &models.AddCartItemRequest{VariantID: variant.ID, Quantity: 3})
	require.NotNil(t, svcErr)
	assert.Equal(t, KindInsufficientStock, svcErr.Kind)
	assert.Empty(t, carts.updated)
}

func TestUpdateItemBoundedByStock(t *testing.T) {
	variant := &models.ProductVariant{ID: uuid.New(), StockQuantity: 3}
	svc, carts := cartFixture(variant)
	item := &models.CartItem{ID: uuid.New(), VariantID: variant.ID, Quantity: 1}
	carts.created = append(carts.created, item)

	svcErr := svc.UpdateItem(context.Background(), uuid.New(), item.ID, &models.UpdateCartItemRequest{Quantity: 10})
	require.NotNil(t, svcErr)
	assert.Equal(t, KindInsufficientStock, svcErr.Kind)

	svcErr = svc.UpdateItem(context.Background(), uuid.New(), item.ID, &models.UpdateCartItemRequest{Quantity: 3})
	require.Nil(t, svcErr)
	assert.Equal(t, 3, carts.updated[item.ID])
}

func TestGetCartTotals(t *testing.T) {
	svc, carts := cartFixture(nil)
	carts.lines = []models.CartLine{
		cartLine("Starfall Odyssey", 2, 19.99, 10),
		cartLine("Dungeon Forge", 1, 9.99, 10),
	}

	view, svcErr := svc.GetCart(context.Background(), uuid.New())
	require.Nil(t, svcErr)
	assert.Equal(t, 49.97, view.Subtotal)
	assert.Equal(t, "USD", view.Currency)
	assert.Equal(t, 2, view.Count)
}
