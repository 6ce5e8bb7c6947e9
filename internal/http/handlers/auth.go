package handlers

import (
	"net/http"

	"battle_arena/internal/domain"
	"battle_arena/internal/logger"
	"battle_arena/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthRequest carries an identity the external auth service has verified.
// The arena performs no independent credential check; it only exchanges the
// identity for a session token.
type AuthRequest struct {
	UserID   int64  `json:"user_id" binding:"required"`
	Username string `json:"username" binding:"required"`
}

func (h *Handler) Auth(c *gin.Context) {
	var req AuthRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	rating := domain.StartRating
	if h.PlayerRepo != nil {
		player, err := h.PlayerRepo.GetOrCreate(c.Request.Context(), req.UserID, req.Username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load player"})
			return
		}
		rating = player.Rating
	}

	token, err := service.GenerateJWT(req.UserID)
	if err != nil {
		logger.Error("token generation failed", "user", req.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       req.UserID,
			"username": req.Username,
			"rating":   rating,
		},
	})
}
