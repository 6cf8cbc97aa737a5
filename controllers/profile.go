package controllers

import (
	"net/http"

	"agenda-backend/config"

	"github.com/gin-gonic/gin"
)

// ProfileHandler serves the practice profile printed on receipts
func ProfileHandler(profile *config.PracticeProfile) gin.HandlerFunc {
	if profile == nil {
		profile = config.DefaultProfile()
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, profile)
	}
}
