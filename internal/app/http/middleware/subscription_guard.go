package middleware

import (
	"net/http"

	"juriszap-app/database"
	"juriszap-app/internal/domain/access"
	"juriszap-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// RequireActiveSubscription reads the profile on every request, so a status
// flip written by the webhook path mid-session takes effect on the next call.
// Blocked responses carry the redirect target and message the frontend uses
// for the recovery surface.
func RequireActiveSubscription() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
			return
		}

		var user users.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		decision := access.ComputeDecision(user)
		if !decision.Allowed {
			status := http.StatusForbidden
			if user.StatusAssinatura == users.StatusPagamentoAtrasado {
				status = http.StatusPaymentRequired
			}
			c.AbortWithStatusJSON(status, gin.H{
				"error":            decision.Message,
				"redirect":         decision.Redirect,
				"statusAssinatura": user.StatusAssinatura,
			})
			return
		}

		c.Next()
	}
}
