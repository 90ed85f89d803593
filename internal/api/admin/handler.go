package admin

import (
	"net/http"
	"time"

	"juriszap-app/database"
	"juriszap-app/internal/domain/billing"
	"juriszap-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type AdminUser struct {
	ID                uint       `json:"id"`
	Nome              string     `json:"nome"`
	Email             string     `json:"email"`
	Telefone          string     `json:"telefone"`
	Role              string     `json:"role"`
	PlanoNome         *string    `json:"planoNome,omitempty"`
	StatusAssinatura  string     `json:"statusAssinatura"`
	StripeCustomerID  *string    `json:"stripeCustomerId,omitempty"`
	ProximoVencimento *time.Time `json:"proximoVencimento,omitempty"`
	DataCadastro      time.Time  `json:"dataCadastro"`
}

type AdminPayment struct {
	ID         uint    `json:"id"`
	Email      string  `json:"email"`
	PlanoNome  *string `json:"planoNome,omitempty"`
	AmountBRL  float64 `json:"amountBRL"`
	Status     string  `json:"status"`
	InvoiceID  *string `json:"invoiceId,omitempty"`
	ReceiptURL *string `json:"receiptUrl,omitempty"`
	CreatedAt  string  `json:"createdAt"`
}

type AdminStats struct {
	TotalUsers     int            `json:"total_users"`
	TotalRevenue   float64        `json:"total_revenue"`
	RecentRevenue  float64        `json:"recent_revenue"`
	UsersPerStatus map[string]int `json:"users_per_status"`
}

func AdminDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the admin dashboard 👑",
	})
}

func ListAllUsers(c *gin.Context) {
	var all []users.User
	err := database.DB.Preload("Plano").Find(&all).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	var adminUsers []AdminUser
	for _, u := range all {
		var planoNome *string
		if u.Plano != nil {
			planoNome = &u.Plano.Name
		}

		adminUsers = append(adminUsers, AdminUser{
			ID:                u.ID,
			Nome:              u.Nome,
			Email:             u.Email,
			Telefone:          u.Telefone,
			Role:              u.Role,
			PlanoNome:         planoNome,
			StatusAssinatura:  u.StatusAssinatura,
			StripeCustomerID:  u.StripeCustomerID,
			ProximoVencimento: u.ProximoVencimento,
			DataCadastro:      u.DataCadastro,
		})
	}

	c.JSON(http.StatusOK, adminUsers)
}

func ListAllPayments(c *gin.Context) {
	var payments []billing.Payment
	err := database.DB.Preload("User").Preload("Plano").Order("created_at DESC").Find(&payments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	var result []AdminPayment
	for _, p := range payments {
		var planoNome *string
		if p.Plano != nil {
			planoNome = &p.Plano.Name
		}
		result = append(result, AdminPayment{
			ID:         p.ID,
			Email:      p.User.Email,
			PlanoNome:  planoNome,
			AmountBRL:  p.AmountBRL,
			Status:     p.Status,
			InvoiceID:  p.InvoiceID,
			ReceiptURL: p.ReceiptURL,
			CreatedAt:  p.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	c.JSON(http.StatusOK, result)
}

func GetAdminStats(c *gin.Context) {
	var stats AdminStats

	var totalUsers int64
	var totalRevenue float64
	var recentRevenue float64

	database.DB.Model(&users.User{}).Count(&totalUsers)
	database.DB.Model(&billing.Payment{}).Where("status = ?", "paid").Select("COALESCE(SUM(amount_brl), 0)").Scan(&totalRevenue)

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	database.DB.Model(&billing.Payment{}).
		Where("status = ? AND created_at >= ?", "paid", thirtyDaysAgo).
		Select("COALESCE(SUM(amount_brl), 0)").Scan(&recentRevenue)

	stats.TotalUsers = int(totalUsers)
	stats.TotalRevenue = totalRevenue
	stats.RecentRevenue = recentRevenue

	type StatusCount struct {
		Status string
		Count  int
	}
	var counts []StatusCount

	database.DB.
		Table("users").
		Select("status_assinatura as status, COUNT(id) as count").
		Group("status_assinatura").
		Scan(&counts)

	stats.UsersPerStatus = map[string]int{}
	for _, sc := range counts {
		stats.UsersPerStatus[sc.Status] = sc.Count
	}

	c.JSON(http.StatusOK, stats)
}

func GetUserDetails(c *gin.Context) {
	userID := c.Param("id")

	var user users.User
	if err := database.DB.Preload("Plano").First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var payments []billing.Payment
	if err := database.DB.Preload("Plano").Where("user_id = ?", userID).Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     user,
		"payments": payments,
	})
}

// UpdateUserRole is the only writer of role; the webhook path never touches
// it.
func UpdateUserRole(c *gin.Context) {
	userID := c.Param("id")

	var body struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing role"})
		return
	}
	if body.Role != users.RoleUser && body.Role != users.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be 'user' or 'admin'"})
		return
	}

	var user users.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := database.DB.Model(&user).Update("role", body.Role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role updated", "role": body.Role})
}
