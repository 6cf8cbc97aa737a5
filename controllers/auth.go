package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"agenda-backend/config"
	"agenda-backend/models"
	"agenda-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthController issues and renews the operator's tokens.
type AuthController struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewAuthController(cfg *config.Config) *AuthController {
	return &AuthController{Secret: cfg.JWTSecret, AccessTTL: cfg.AccessTTL, RefreshTTL: cfg.RefreshTTL}
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	var user models.User
	result := config.DB.Where("username = ? AND is_active = ?", strings.TrimSpace(input.Username), true).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Check password
	if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	access, err := utils.GenerateToken(user.Username, utils.TokenAccess, ac.Secret, ac.AccessTTL)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	refresh, err := utils.GenerateToken(user.Username, utils.TokenRefresh, ac.Secret, ac.RefreshTTL)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	// Update last login
	now := time.Now()
	config.DB.Model(&user).Update("last_login", &now)

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  access,
		"refreshToken": refresh,
		"expiresIn":    int(ac.AccessTTL.Seconds()),
		"user":         gin.H{"username": user.Username},
	})
}

// Refresh trades a refresh token (body or bearer header) for a new access token
func (ac *AuthController) Refresh(c *gin.Context) {
	var input RefreshInput
	_ = c.ShouldBindJSON(&input)
	token := input.RefreshToken
	if token == "" {
		token = utils.BearerToken(c)
	}
	if token == "" {
		utils.RespondWithError(c, http.StatusUnauthorized, "Refresh token required")
		return
	}

	username, err := utils.ParseToken(token, utils.TokenRefresh, ac.Secret)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	var count int64
	if err := config.DB.Model(&models.User{}).
		Where("username = ? AND is_active = ?", username, true).
		Count(&count).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if count == 0 {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	access, err := utils.GenerateToken(username, utils.TokenAccess, ac.Secret, ac.AccessTTL)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": access, "expiresIn": int(ac.AccessTTL.Seconds())})
}

func (ac *AuthController) Me(c *gin.Context) {
	username := c.GetString("username")

	var user models.User
	if err := config.DB.Where("username = ?", username).First(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"lastLogin": user.LastLogin,
		},
	})
}
