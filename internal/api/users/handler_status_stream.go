package users

import (
	"io"
	"net/http"

	"juriszap-app/database"
	"juriszap-app/internal/domain/access"
	"juriszap-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type statusEvent struct {
	StatusAssinatura  string          `json:"statusAssinatura"`
	ProximoVencimento interface{}     `json:"proximoVencimento,omitempty"`
	Access            access.Decision `json:"access"`
}

// StreamStatus keeps an SSE connection open and pushes a new event every
// time the webhook path writes this user's subscription fields, so an open
// session learns about a mid-session status flip without polling. The
// registry entry is torn down when the client disconnects.
func StreamStatus(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	ch, cancel := users.Notifier.Subscribe(userID)
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	// Current snapshot first, so the client can act on a change that landed
	// before the stream opened.
	c.SSEvent("status", statusEvent{
		StatusAssinatura:  user.StatusAssinatura,
		ProximoVencimento: user.ProximoVencimento,
		Access:            access.ComputeDecision(user),
	})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case change, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("status", statusEvent{
				StatusAssinatura:  change.StatusAssinatura,
				ProximoVencimento: change.ProximoVencimento,
				Access:            access.ComputeDecision(users.User{StatusAssinatura: change.StatusAssinatura}),
			})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
