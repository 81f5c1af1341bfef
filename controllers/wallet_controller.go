package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"epinera-marketplace/models"
	"epinera-marketplace/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

// WalletController handles wallet, deposit, withdrawal and ledger endpoints.
type WalletController struct {
	wallet services.WalletService
	payout services.PayoutService
	stripe *services.StripeClient
	logger *zap.Logger
}

// NewWalletController creates a new WalletController. stripe may be nil when
// webhooks are not configured.
func NewWalletController(wallet services.WalletService, payout services.PayoutService, stripeClient *services.StripeClient, logger *zap.Logger) *WalletController {
	return &WalletController{wallet: wallet, payout: payout, stripe: stripeClient, logger: logger}
}

// GetWallets handles GET /wallet.
func (ctrl *WalletController) GetWallets(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	wallets, serr := ctrl.wallet.GetWallets(c.Request.Context(), userID)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallets": wallets})
}

// CreateDeposit handles POST /wallet/deposits.
func (ctrl *WalletController) CreateDeposit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	result, serr := ctrl.wallet.CreateDeposit(c.Request.Context(), userID, &req)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// RequestWithdrawal handles POST /wallet/withdrawals.
func (ctrl *WalletController) RequestWithdrawal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	result, serr := ctrl.payout.RequestWithdrawal(c.Request.Context(), userID, &req)
	if serr != nil {
		respondError(c, serr)
		return
	}
	ctrl.logger.Info("withdrawal requested",
		zap.String("user_id", userID.String()),
		zap.String("transaction_id", result.TransactionID.String()))
	c.JSON(http.StatusCreated, result)
}

// CancelWithdrawal handles DELETE /wallet/withdrawals/:id.
func (ctrl *WalletController) CancelWithdrawal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	txID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if serr := ctrl.payout.CancelWithdrawal(c.Request.Context(), userID, txID); serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Withdrawal cancelled"})
}

// ListWithdrawals handles GET /wallet/withdrawals.
func (ctrl *WalletController) ListWithdrawals(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	payouts, serr := ctrl.payout.GetPayoutHistory(c.Request.Context(), userID, limit)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": payouts})
}

func transactionFilterFromQuery(c *gin.Context) models.TransactionFilter {
	page, limit := pageParams(c, 20)
	return models.TransactionFilter{
		Type:      c.Query("type"),
		Status:    c.Query("status"),
		DateRange: c.Query("date_range"),
		Search:    c.Query("search"),
		Page:      page,
		Limit:     limit,
	}
}

// ListTransactions handles GET /wallet/transactions.
func (ctrl *WalletController) ListTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	result, serr := ctrl.wallet.GetTransactions(c.Request.Context(), userID, transactionFilterFromQuery(c))
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportTransactions handles GET /wallet/transactions/export.
func (ctrl *WalletController) ExportTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	data, serr := ctrl.wallet.ExportTransactionsCSV(c.Request.Context(), userID, transactionFilterFromQuery(c))
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="transactions.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// StripeWebhook handles POST /webhooks/stripe. The payload signature is
// verified before any event is acted on.
func (ctrl *WalletController) StripeWebhook(c *gin.Context) {
	if ctrl.stripe == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Webhooks are not configured"})
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 65536))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	event, err := ctrl.stripe.ConstructWebhookEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		ctrl.logger.Warn("webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	if event.Type == "payment_intent.succeeded" {
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			ctrl.logger.Warn("failed to parse payment intent", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event data"})
			return
		}
		txID, err := uuid.Parse(intent.Metadata["transaction_id"])
		if err != nil {
			ctrl.logger.Warn("payment intent without transaction id",
				zap.String("intent_id", intent.ID))
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		if serr := ctrl.wallet.ConfirmDeposit(c.Request.Context(), txID); serr != nil {
			respondError(c, serr)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
