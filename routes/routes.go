package routes

import (
	"net/http"

	"epinera-marketplace/controllers"
	"epinera-marketplace/middleware"

	"github.com/gin-gonic/gin"
)

// Controllers bundles every controller the router mounts.
type Controllers struct {
	Checkout      *controllers.CheckoutController
	Cart          *controllers.CartController
	Products      *controllers.ProductController
	Campaigns     *controllers.CampaignController
	Orders        *controllers.OrderController
	Wallet        *controllers.WalletController
	Notifications *controllers.NotificationController
	Referrals     *controllers.ReferralController
	Profile       *controllers.ProfileController
	Reviews       *controllers.ReviewController
	Disputes      *controllers.DisputeController
	Admin         *controllers.AdminController
}

// Register mounts every route group on the engine.
func Register(r *gin.Engine, ctrl Controllers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public catalog
	r.GET("/products", ctrl.Products.ListProducts)
	r.GET("/products/autocomplete", ctrl.Products.Autocomplete)
	r.GET("/products/:slug", ctrl.Products.GetProduct)
	r.GET("/categories", ctrl.Products.ListCategories)
	r.GET("/reviews/product/:id", ctrl.Reviews.GetProductReviews)
	r.POST("/campaigns/validate", ctrl.Campaigns.ValidateCode)

	// Stripe calls this directly; signature verification replaces auth.
	r.POST("/webhooks/stripe", ctrl.Wallet.StripeWebhook)

	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.POST("/checkout", ctrl.Checkout.Checkout)

		auth.GET("/cart", ctrl.Cart.GetCart)
		auth.POST("/cart/items", ctrl.Cart.AddItem)
		auth.PATCH("/cart/items/:id", ctrl.Cart.UpdateItem)
		auth.DELETE("/cart/items/:id", ctrl.Cart.RemoveItem)
		auth.DELETE("/cart", ctrl.Cart.ClearCart)

		auth.GET("/orders", ctrl.Orders.ListOrders)
		auth.GET("/orders/:id", ctrl.Orders.GetOrder)

		auth.GET("/wallet", ctrl.Wallet.GetWallets)
		auth.POST("/wallet/deposits", ctrl.Wallet.CreateDeposit)
		auth.POST("/wallet/withdrawals", ctrl.Wallet.RequestWithdrawal)
		auth.GET("/wallet/withdrawals", ctrl.Wallet.ListWithdrawals)
		auth.DELETE("/wallet/withdrawals/:id", ctrl.Wallet.CancelWithdrawal)
		auth.GET("/wallet/transactions", ctrl.Wallet.ListTransactions)
		auth.GET("/wallet/transactions/export", ctrl.Wallet.ExportTransactions)

		auth.GET("/notifications", ctrl.Notifications.List)
		auth.GET("/notifications/unread-count", ctrl.Notifications.UnreadCount)
		auth.POST("/notifications/:id/read", ctrl.Notifications.MarkRead)
		auth.POST("/notifications/read-all", ctrl.Notifications.MarkAllRead)

		auth.GET("/referrals/code", ctrl.Referrals.GetCode)
		auth.GET("/referrals/stats", ctrl.Referrals.GetStats)
		auth.POST("/referrals/apply", ctrl.Referrals.ApplyCode)

		auth.GET("/profile", ctrl.Profile.GetProfile)
		auth.PATCH("/profile/avatar", ctrl.Profile.UpdateAvatar)
		auth.POST("/profile/social", ctrl.Profile.ConnectSocial)
		auth.PUT("/profile/notification-preferences", ctrl.Profile.UpdatePreferences)
		auth.PUT("/profile/genres", ctrl.Profile.UpdateGenres)
		auth.GET("/profile/completion", ctrl.Profile.GetCompletion)

		auth.POST("/reviews", ctrl.Reviews.CreateReview)

		auth.GET("/disputes", ctrl.Disputes.ListMyDisputes)
		auth.POST("/disputes", ctrl.Disputes.OpenDispute)
		auth.POST("/disputes/:id/messages", ctrl.Disputes.AddMessage)
	}

	seller := r.Group("/seller")
	seller.Use(middleware.AuthMiddleware(), middleware.SellerOnly())
	{
		seller.GET("/products", ctrl.Products.ListMyProducts)
		seller.POST("/products", ctrl.Products.CreateProduct)
		seller.PATCH("/products/:id", ctrl.Products.UpdateProduct)
		seller.DELETE("/products/:id", ctrl.Products.DeleteProduct)
		seller.POST("/products/upload-url", ctrl.Products.CreateUploadURL)

		seller.GET("/orders", ctrl.Orders.ListSales)
		seller.POST("/orders/items/:id/deliver", ctrl.Orders.DeliverItem)

		seller.POST("/campaigns", ctrl.Campaigns.CreateCampaign)
		seller.GET("/campaigns", ctrl.Campaigns.ListCampaigns)
		seller.PATCH("/campaigns/:id", ctrl.Campaigns.UpdateCampaign)
		seller.DELETE("/campaigns/:id", ctrl.Campaigns.DeactivateCampaign)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
	{
		admin.GET("/stats", ctrl.Admin.GetStats)
		admin.GET("/transactions", ctrl.Admin.ListTransactions)
		admin.GET("/audit-logs", ctrl.Admin.ListAuditLogs)
		admin.GET("/disputes", ctrl.Disputes.ListOpenDisputes)
		admin.POST("/disputes/:id/resolve", ctrl.Disputes.ResolveDispute)
	}
}
