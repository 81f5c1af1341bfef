package services

import (
	"context"
	"time"

	"epinera-marketplace/models"
	"epinera-marketplace/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Function-field mocks so each test overrides only what it exercises.

type mockCartRepo struct {
	lines []models.CartLine
	err   error

	findItemFn func(userID, variantID uuid.UUID) (*models.CartItem, error)
	created    []*models.CartItem
	updated    map[uuid.UUID]int
}

func (m *mockCartRepo) ListLines(_ context.Context, _ uuid.UUID) ([]models.CartLine, error) {
	return m.lines, m.err
}

func (m *mockCartRepo) FindItem(_ context.Context, userID, variantID uuid.UUID) (*models.CartItem, error) {
	if m.findItemFn != nil {
		return m.findItemFn(userID, variantID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCartRepo) FindItemByID(_ context.Context, itemID, _ uuid.UUID) (*models.CartItem, error) {
	for _, item := range m.created {
		if item.ID == itemID {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCartRepo) Create(_ context.Context, item *models.CartItem) error {
	m.created = append(m.created, item)
	return nil
}

func (m *mockCartRepo) UpdateQuantity(_ context.Context, itemID, _ uuid.UUID, quantity int) error {
	if m.updated == nil {
		m.updated = map[uuid.UUID]int{}
	}
	m.updated[itemID] = quantity
	return nil
}

func (m *mockCartRepo) Delete(_ context.Context, _, _ uuid.UUID) error { return nil }
func (m *mockCartRepo) Clear(_ context.Context, _ uuid.UUID) error { return nil }

type mockCampaignRepo struct {
	campaign *models.Campaign
	err      error
}

func (m *mockCampaignRepo) Create(_ context.Context, _ *models.Campaign) error { return nil }
func (m *mockCampaignRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.Campaign, error) {
	if m.campaign == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.campaign, nil
}

func (m *mockCampaignRepo) FindActiveByCode(_ context.Context, code string, _ time.Time) (*models.Campaign, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.campaign == nil || m.campaign.Code != code {
		return nil, gorm.ErrRecordNotFound
	}
	return m.campaign, nil
}

func (m *mockCampaignRepo) FindByCreator(_ context.Context, _ uuid.UUID, _, _ int) ([]models.Campaign, int64, error) {
	return nil, 0, nil
}
func (m *mockCampaignRepo) Update(_ context.Context, _ *models.Campaign) error { return nil }
func (m *mockCampaignRepo) Deactivate(_ context.Context, _, _ uuid.UUID) error { return nil }

type mockWalletRepo struct {
	wallet *models.Wallet

	requestWithdrawalFn func(entry *models.WalletTransaction, total float64) error
	cancelWithdrawalFn  func(txID, userID uuid.UUID) (*models.WalletTransaction, error)
	completeDepositFn   func(txID uuid.UUID) (*models.WalletTransaction, error)
	withdrawals         []models.WalletTransaction
	transactions        []models.WalletTransaction
	createdEntries      []*models.WalletTransaction
	failedIDs           []uuid.UUID
	processingIDs       []uuid.UUID
	metadataUpdates     map[uuid.UUID]map[string]interface{}
}

func (m *mockWalletRepo) FindByUserAndCurrency(_ context.Context, _ uuid.UUID, _ string) (*models.Wallet, error) {
	if m.wallet == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.wallet, nil
}

func (m *mockWalletRepo) GetOrCreate(_ context.Context, userID uuid.UUID, currency string) (*models.Wallet, error) {
	if m.wallet == nil {
		m.wallet = &models.Wallet{ID: uuid.New(), UserID: userID, Currency: currency}
	}
	return m.wallet, nil
}

func (m *mockWalletRepo) ListByUser(_ context.Context, _ uuid.UUID) ([]models.Wallet, error) {
	if m.wallet == nil {
		return nil, nil
	}
	return []models.Wallet{*m.wallet}, nil
}

func (m *mockWalletRepo) RequestWithdrawal(_ context.Context, entry *models.WalletTransaction, total float64) error {
	if m.requestWithdrawalFn != nil {
		return m.requestWithdrawalFn(entry, total)
	}
	m.createdEntries = append(m.createdEntries, entry)
	return nil
}

func (m *mockWalletRepo) CancelWithdrawal(_ context.Context, txID, userID uuid.UUID) (*models.WalletTransaction, error) {
	if m.cancelWithdrawalFn != nil {
		return m.cancelWithdrawalFn(txID, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWalletRepo) CompleteDeposit(_ context.Context, txID uuid.UUID) (*models.WalletTransaction, error) {
	if m.completeDepositFn != nil {
		return m.completeDepositFn(txID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWalletRepo) FailTransaction(_ context.Context, txID uuid.UUID) error {
	m.failedIDs = append(m.failedIDs, txID)
	return nil
}

func (m *mockWalletRepo) MarkProcessing(_ context.Context, txID uuid.UUID) error {
	m.processingIDs = append(m.processingIDs, txID)
	return nil
}

func (m *mockWalletRepo) CreateTransaction(_ context.Context, entry *models.WalletTransaction) error {
	m.createdEntries = append(m.createdEntries, entry)
	return nil
}

func (m *mockWalletRepo) UpdateTransactionMetadata(_ context.Context, txID uuid.UUID, metadata map[string]interface{}) error {
	if m.metadataUpdates == nil {
		m.metadataUpdates = map[uuid.UUID]map[string]interface{}{}
	}
	m.metadataUpdates[txID] = metadata
	return nil
}

func (m *mockWalletRepo) FindTransactionByID(_ context.Context, txID uuid.UUID) (*models.WalletTransaction, error) {
	for i := range m.transactions {
		if m.transactions[i].ID == txID {
			return &m.transactions[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWalletRepo) FindTransactions(_ context.Context, _ uuid.UUID, _ models.TransactionFilter) ([]models.WalletTransaction, int64, error) {
	return m.transactions, int64(len(m.transactions)), nil
}

func (m *mockWalletRepo) FindWithdrawals(_ context.Context, _ uuid.UUID, _ int) ([]models.WalletTransaction, error) {
	return m.withdrawals, nil
}

func (m *mockWalletRepo) FindAllTransactions(_ context.Context, _, _ int) ([]models.WalletTransaction, int64, error) {
	return m.transactions, int64(len(m.transactions)), nil
}

func (m *mockWalletRepo) CreditSale(_ context.Context, _ uuid.UUID, _ string, _ float64, entry *models.WalletTransaction) error {
	m.createdEntries = append(m.createdEntries, entry)
	return nil
}

type placedOrder struct {
	order      *models.Order
	items      []models.OrderItem
	debit      repository.WalletDebit
	ledger     *models.WalletTransaction
	decrements []repository.StockDecrement
}

type mockCheckoutRepo struct {
	err    error
	placed *placedOrder
}

func (m *mockCheckoutRepo) PlaceOrder(_ context.Context, order *models.Order, items []models.OrderItem, debit repository.WalletDebit, ledger *models.WalletTransaction, _ uuid.UUID, decrements []repository.StockDecrement) error {
	if m.err != nil {
		return m.err
	}
	m.placed = &placedOrder{
		order:      order,
		items:      items,
		debit:      debit,
		ledger:     ledger,
		decrements: decrements,
	}
	return nil
}

type mockIdempotencyRepo struct {
	existingOrderID string
	pending         bool
	reserveOK       bool

	reserved []string
	resolved map[string]string
	released []string
}

func newMockIdempotencyRepo() *mockIdempotencyRepo {
	return &mockIdempotencyRepo{reserveOK: true, resolved: map[string]string{}}
}

func (m *mockIdempotencyRepo) Reserve(_ context.Context, key string) (bool, error) {
	m.reserved = append(m.reserved, key)
	return m.reserveOK, nil
}

func (m *mockIdempotencyRepo) Resolve(_ context.Context, key, orderID string) error {
	m.resolved[key] = orderID
	return nil
}

func (m *mockIdempotencyRepo) Release(_ context.Context, key string) error {
	m.released = append(m.released, key)
	return nil
}

func (m *mockIdempotencyRepo) Lookup(_ context.Context, _ string) (string, bool, error) {
	return m.existingOrderID, m.pending, nil
}

type mockNotificationRepo struct {
	notifications []*models.Notification
}

func (m *mockNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	m.notifications = append(m.notifications, n)
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, _ uuid.UUID, _ int, _ bool) ([]models.Notification, error) {
	out := make([]models.Notification, 0, len(m.notifications))
	for _, n := range m.notifications {
		out = append(out, *n)
	}
	return out, nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, _ uuid.UUID) (int64, error) {
	return int64(len(m.notifications)), nil
}
func (m *mockNotificationRepo) MarkRead(_ context.Context, _, _ uuid.UUID) error { return nil }
func (m *mockNotificationRepo) MarkAllRead(_ context.Context, _ uuid.UUID) error { return nil }

type mockProfileRepo struct {
	profile *models.Profile
}

func (m *mockProfileRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.Profile, error) {
	if m.profile == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.profile, nil
}

func (m *mockProfileRepo) Upsert(_ context.Context, profile *models.Profile) error {
	m.profile = profile
	return nil
}

func (m *mockProfileRepo) Update(_ context.Context, profile *models.Profile) error {
	m.profile = profile
	return nil
}

func (m *mockProfileRepo) Count(_ context.Context) (int64, error) { return 0, nil }

type mockProductRepo struct {
	variants map[uuid.UUID]*models.ProductVariant
}

func (m *mockProductRepo) List(_ context.Context, _ models.ProductFilters, _, _ int) ([]models.Product, int64, error) {
	return nil, 0, nil
}
func (m *mockProductRepo) FindBySlug(_ context.Context, _ string) (*models.Product, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockProductRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.Product, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProductRepo) FindVariant(_ context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	if v, ok := m.variants[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProductRepo) Autocomplete(_ context.Context, _ string, _ int) ([]models.Product, error) {
	return nil, nil
}
func (m *mockProductRepo) Create(_ context.Context, _ *models.Product) error { return nil }
func (m *mockProductRepo) Update(_ context.Context, _ *models.Product) error { return nil }
func (m *mockProductRepo) Delete(_ context.Context, _, _ uuid.UUID) error { return nil }
func (m *mockProductRepo) ListCategories(_ context.Context) ([]models.Category, error) {
	return nil, nil
}

type mockReferralRepo struct {
	codeRow    *models.Referral
	redemption *models.Referral
	byReferrer []models.Referral

	created  []*models.Referral
	attached []uuid.UUID
}

func (m *mockReferralRepo) Create(_ context.Context, referral *models.Referral) error {
	m.created = append(m.created, referral)
	return nil
}

func (m *mockReferralRepo) FindCodeRow(_ context.Context, _ uuid.UUID) (*models.Referral, error) {
	if m.codeRow == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.codeRow, nil
}

func (m *mockReferralRepo) FindByCode(_ context.Context, code string) (*models.Referral, error) {
	if m.codeRow != nil && m.codeRow.ReferralCode == code {
		return m.codeRow, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReferralRepo) FindByReferred(_ context.Context, _ uuid.UUID) (*models.Referral, error) {
	if m.redemption == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.redemption, nil
}

func (m *mockReferralRepo) ListByReferrer(_ context.Context, _ uuid.UUID) ([]models.Referral, error) {
	return m.byReferrer, nil
}

func (m *mockReferralRepo) Attach(_ context.Context, referralID, _ uuid.UUID) error {
	m.attached = append(m.attached, referralID)
	return nil
}

func (m *mockReferralRepo) Complete(_ context.Context, _ uuid.UUID, _ float64) error { return nil }

type mockOrderRepo struct {
	orders          []models.Order
	item            *models.OrderItem
	sales           []repository.SellerSale
	purchased       bool
	completedOrders int64

	findByIDAndBuyerFn func(orderID, buyerID uuid.UUID) (*models.Order, error)
	deliveries         []string
}

func (m *mockOrderRepo) FindByBuyer(_ context.Context, _ uuid.UUID, _, _ int) ([]models.Order, int64, error) {
	return m.orders, int64(len(m.orders)), nil
}

func (m *mockOrderRepo) FindByIDAndBuyer(_ context.Context, orderID, buyerID uuid.UUID) (*models.Order, error) {
	if m.findByIDAndBuyerFn != nil {
		return m.findByIDAndBuyerFn(orderID, buyerID)
	}
	for i := range m.orders {
		if m.orders[i].ID == orderID && m.orders[i].BuyerID == buyerID {
			return &m.orders[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrderRepo) FindItemByID(_ context.Context, _ uuid.UUID) (*models.OrderItem, error) {
	if m.item == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.item, nil
}

func (m *mockOrderRepo) FindSellerSales(_ context.Context, _ uuid.UUID, _, _ int) ([]repository.SellerSale, int64, error) {
	return m.sales, int64(len(m.sales)), nil
}

func (m *mockOrderRepo) UpdateItemDelivery(_ context.Context, _, _ uuid.UUID, status string, _ *string) error {
	m.deliveries = append(m.deliveries, status)
	return nil
}

func (m *mockOrderRepo) HasCompletedPurchase(_ context.Context, _, _ uuid.UUID) (bool, error) {
	return m.purchased, nil
}

func (m *mockOrderRepo) CountCompletedByBuyer(_ context.Context, _ uuid.UUID) (int64, error) {
	return m.completedOrders, nil
}

type mockReviewRepo struct {
	existing *models.Review
	summary  *models.ReviewSummary
	created  []*models.Review
}

func (m *mockReviewRepo) Create(_ context.Context, review *models.Review) error {
	m.created = append(m.created, review)
	return nil
}

func (m *mockReviewRepo) FindByProductAndUser(_ context.Context, _, _ uuid.UUID) (*models.Review, error) {
	if m.existing == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.existing, nil
}

func (m *mockReviewRepo) ListByProduct(_ context.Context, _ uuid.UUID, _ int) (*models.ReviewSummary, error) {
	if m.summary == nil {
		return &models.ReviewSummary{Reviews: []models.Review{}}, nil
	}
	return m.summary, nil
}

type mockDisputeRepo struct {
	disputes map[uuid.UUID]*models.Dispute
	byItem   *models.Dispute
	created  []*models.Dispute
	updated  []*models.Dispute
}

func newMockDisputeRepo() *mockDisputeRepo {
	return &mockDisputeRepo{disputes: map[uuid.UUID]*models.Dispute{}}
}

func (m *mockDisputeRepo) Create(_ context.Context, dispute *models.Dispute) error {
	m.created = append(m.created, dispute)
	m.disputes[dispute.ID] = dispute
	return nil
}

func (m *mockDisputeRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Dispute, error) {
	if d, ok := m.disputes[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDisputeRepo) FindByOrderItem(_ context.Context, _ uuid.UUID) (*models.Dispute, error) {
	if m.byItem == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.byItem, nil
}

func (m *mockDisputeRepo) ListByParticipant(_ context.Context, _ uuid.UUID) ([]models.Dispute, error) {
	out := make([]models.Dispute, 0, len(m.disputes))
	for _, d := range m.disputes {
		out = append(out, *d)
	}
	return out, nil
}

func (m *mockDisputeRepo) ListOpen(_ context.Context, _, _ int) ([]models.Dispute, int64, error) {
	return nil, 0, nil
}

func (m *mockDisputeRepo) Update(_ context.Context, dispute *models.Dispute) error {
	m.updated = append(m.updated, dispute)
	m.disputes[dispute.ID] = dispute
	return nil
}

type mockGateway struct {
	intentErr   error
	transferErr error

	intents   []map[string]string
	transfers []map[string]string
}

func (m *mockGateway) CreatePaymentIntent(amountMinor int64, currency string, metadata map[string]string) (*PaymentIntentResult, error) {
	if m.intentErr != nil {
		return nil, m.intentErr
	}
	m.intents = append(m.intents, metadata)
	return &PaymentIntentResult{ID: "pi_test", ClientSecret: "cs_test"}, nil
}

func (m *mockGateway) CreateTransfer(amountMinor int64, currency, destination string, metadata map[string]string) (string, error) {
	if m.transferErr != nil {
		return "", m.transferErr
	}
	m.transfers = append(m.transfers, metadata)
	return "tr_test", nil
}
