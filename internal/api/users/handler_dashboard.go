package users

import (
	"net/http"

	"juriszap-app/database"
	"juriszap-app/internal/domain/billing"
	"juriszap-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// GetDashboard backs the subscriber dashboard. The route sits behind the
// subscription guard, so only ativo profiles reach it.
func GetDashboard(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := database.DB.Preload("Plano").First(&user, userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	var recentPayments []billing.Payment
	if err := database.DB.
		Preload("Plano").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(5).
		Find(&recentPayments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	var planoNome *string
	if user.Plano != nil {
		planoNome = &user.Plano.Name
	}

	c.JSON(http.StatusOK, gin.H{
		"nome":              user.Nome,
		"planoId":           user.PlanoID,
		"planoNome":         planoNome,
		"statusAssinatura":  user.StatusAssinatura,
		"proximoVencimento": user.ProximoVencimento,
		"pagamentosRecentes": recentPayments,
	})
}
