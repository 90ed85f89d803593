package users

import (
	"net/http"

	"juriszap-app/database"
	"juriszap-app/internal/domain/access"
	"juriszap-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

func GetCurrentUser(c *gin.Context) {
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

	var planoNome *string
	if user.Plano != nil {
		planoNome = &user.Plano.Name
	}

	c.JSON(http.StatusOK, MeResponse{
		UID:               user.ID,
		Nome:              user.Nome,
		Email:             user.Email,
		Telefone:          user.Telefone,
		Role:              user.Role,
		PlanoID:           user.PlanoID,
		PlanoNome:         planoNome,
		StatusAssinatura:  user.StatusAssinatura,
		ProximoVencimento: user.ProximoVencimento,
		DataCadastro:      user.DataCadastro,
		Access:            access.ComputeDecision(user),
	})
}
