package routes

import (
	"juriszap-app/database"
	adminapi "juriszap-app/internal/api/admin"
	authapi "juriszap-app/internal/api/auth"
	"juriszap-app/internal/api/billing"
	"juriszap-app/internal/api/plans"
	stripewebhooks "juriszap-app/internal/api/stripewebhook"
	usersapi "juriszap-app/internal/api/users"
	"juriszap-app/internal/app/http/middleware"
	"juriszap-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(r *gin.Engine) {
	// The webhook route must see the raw body; no sanitization in front of it.
	webhookHandler := stripewebhooks.NewHandler(
		stripewebhooks.NewStore(database.DB),
		stripewebhooks.NewStripeAPI(),
		users.Notifier,
	)
	r.POST("/webhook", webhookHandler.StripeWebhook)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ✅ Apply input sanitization to public routes only
	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/login", authapi.Login)
	public.GET("/plans", plans.ListPlans)
	public.POST("/set-password", authapi.SetPassword)
	public.POST("/request-password-reset", authapi.RequestPasswordReset)
	public.POST("/reset-password", authapi.ResetPassword)

	// Anonymous signup checkout: the account itself is only created by the
	// webhook path after payment confirms.
	public.POST("/signup-checkout-session", billing.CreateSignupCheckout)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", usersapi.GetCurrentUser)
	auth.GET("/me/status/stream", usersapi.StreamStatus)
	auth.GET("/payments", billing.GetPaymentHistory)
	auth.POST("/billing-portal", billing.CreateBillingPortal)
	auth.POST("/change-password", authapi.ChangePassword)

	// Plan purchase/change for an existing account. Deliberately outside the
	// subscription guard: an inativo or atrasado user must be able to start a
	// new checkout.
	auth.POST("/create-checkout-session", billing.CreateCheckoutSession)

	// Subscribed users
	subscribed := auth.Group("/")
	subscribed.Use(middleware.RequireActiveSubscription())
	subscribed.GET("/dashboard", usersapi.GetDashboard)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/dashboard", adminapi.AdminDashboard)
	admin.GET("/users", adminapi.ListAllUsers)
	admin.GET("/payments", adminapi.ListAllPayments)
	admin.GET("/stats", adminapi.GetAdminStats)
	admin.GET("/user/:id", adminapi.GetUserDetails)
	admin.POST("/user/:id/role", adminapi.UpdateUserRole)
	admin.POST("/sync-plans", plans.SyncPlansFromStripe)
}
