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

func disputeFixture(orders *mockOrderRepo) (DisputeService, *mockDisputeRepo, *mockNotificationRepo) {
	disputes := newMockDisputeRepo()
	notifications := &mockNotificationRepo{}
	svc := NewDisputeService(disputes, orders, notifications, nil, zap.NewNop())
	return svc, disputes, notifications
}

func TestOpenDisputeNotBuyersItem(t *testing.T) {
	orders := &mockOrderRepo{
		item: &models.OrderItem{ID: uuid.New(), OrderID: uuid.New(), SellerID: uuid.New()},
	}
	svc, disputes, _ := disputeFixture(orders)

	_, svcErr := svc.OpenDispute(context.Background(), uuid.New(), &models.OpenDisputeRequest{
		OrderItemID: orders.item.ID,
		Reason:      "The key was already redeemed.",
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, KindNotFound, svcErr.Kind)
	assert.Empty(t, disputes.created)
}

func TestOpenDisputeOnePerItem(t *testing.T) {
	buyerID := uuid.New()
	orderID := uuid.New()
	orders := &mockOrderRepo{
		item:   &models.OrderItem{ID: uuid.New(), OrderID: orderID, SellerID: uuid.New()},
		orders: []models.Order{{ID: orderID, BuyerID: buyerID}},
	}
	svc, disputes, _ := disputeFixture(orders)
	disputes.byItem = &models.Dispute{ID: uuid.New()}

	_, svcErr := svc.OpenDispute(context.Background(), buyerID, &models.OpenDisputeRequest{
		OrderItemID: orders.item.ID,
		Reason:      "The key was already redeemed.",
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, KindConflict, svcErr.Kind)
}

func TestOpenDisputeSeedsThreadAndNotifiesSeller(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()
	orderID := uuid.New()
	orders := &mockOrderRepo{
		item:   &models.OrderItem{ID: uuid.New(), OrderID: orderID, SellerID: sellerID},
		orders: []models.Order{{ID: orderID, BuyerID: buyerID}},
	}
	svc, disputes, notifications := disputeFixture(orders)

	dispute, svcErr := svc.OpenDispute(context.Background(), buyerID, &models.OpenDisputeRequest{
		OrderItemID: orders.item.ID,
		Reason:      "The key was already redeemed.",
	})
	require.Nil(t, svcErr)
	assert.Equal(t, models.DisputeStatusOpen, dispute.Status)
	assert.Equal(t, sellerID, dispute.SellerID)
	require.Len(t, dispute.Messages, 1)
	assert.Equal(t, buyerID.String(), dispute.Messages[0].AuthorID)
	assert.Equal(t, "The key was already redeemed.", dispute.Messages[0].Body)

	require.Len(t, disputes.created, 1)
	require.Len(t, notifications.notifications, 1)
	assert.Equal(t, sellerID, notifications.notifications[0].UserID)
}

func TestAddMessageClosedDispute(t *testing.T) {
	buyerID := uuid.New()
	svc, disputes, _ := disputeFixture(&mockOrderRepo{})
	closed := &models.Dispute{
		ID:      uuid.New(),
		BuyerID: buyerID,
		Status:  models.DisputeStatusResolved,
	}
	disputes.disputes[closed.ID] = closed

	_, svcErr := svc.AddMessage(context.Background(), buyerID, closed.ID, &models.DisputeMessageRequest{Body: "hello?"})
	require.NotNil(t, svcErr)
	assert.Equal(t, KindConflict, svcErr.Kind)
}

func TestAddMessageNotifiesCounterparty(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()
	svc, disputes, notifications := disputeFixture(&mockOrderRepo{})
	open := &models.Dispute{
		ID:       uuid.New(),
		BuyerID:  buyerID,
		SellerID: sellerID,
		Status:   models.DisputeStatusOpen,
	}
	disputes.disputes[open.ID] = open

	updated, svcErr := svc.AddMessage(context.Background(), sellerID, open.ID, &models.DisputeMessageRequest{Body: "Replacement key sent."})
	require.Nil(t, svcErr)
	require.Len(t, updated.Messages, 1)
	assert.Equal(t, sellerID.String(), updated.Messages[0].AuthorID)

	require.Len(t, notifications.notifications, 1)
	assert.Equal(t, buyerID, notifications.notifications[0].UserID)
}

func TestResolveDisputeClosesAndNotifiesBoth(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()
	svc, disputes, notifications := disputeFixture(&mockOrderRepo{})
	open := &models.Dispute{
		ID:       uuid.New(),
		BuyerID:  buyerID,
		SellerID: sellerID,
		Status:   models.DisputeStatusOpen,
	}
	disputes.disputes[open.ID] = open

	resolved, svcErr := svc.ResolveDispute(context.Background(), uuid.New(), open.ID, &models.ResolveDisputeRequest{
		Status:     models.DisputeStatusResolved,
		Resolution: "Buyer refunded in full.",
	})
	require.Nil(t, svcErr)
	assert.Equal(t, models.DisputeStatusResolved, resolved.Status)
	assert.Equal(t, "Buyer refunded in full.", resolved.Resolution)
	assert.Len(t, notifications.notifications, 2)
}
