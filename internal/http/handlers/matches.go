package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// MyMatches returns the authenticated player's recent match history.
func (h *Handler) MyMatches(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if h.MatchRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history not available"})
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	matches, err := h.MatchRepo.GetByUser(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	stats, err := h.MatchRepo.StatsByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches, "stats": stats})
}

// TopPlayers returns the rating leaderboard.
func (h *Handler) TopPlayers(c *gin.Context) {
	if h.PlayerRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "leaderboard not available"})
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	players, err := h.PlayerRepo.GetTopByRating(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"players": players})
}
