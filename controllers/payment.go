package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"agenda-backend/config"
	"agenda-backend/models"
	"agenda-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreatePaymentInput struct {
	SessionID uint       `json:"sessionId" binding:"required"`
	Amount    float64    `json:"amount" binding:"required,gt=0"`
	Method    string     `json:"method"`
	PaidAt    *time.Time `json:"paidAt"`
	Notes     string     `json:"notes"`
}

type UpdatePaymentInput struct {
	Amount *float64   `json:"amount" binding:"omitempty,gt=0"`
	Method *string    `json:"method"`
	PaidAt *time.Time `json:"paidAt"`
	Notes  *string    `json:"notes"`
}

func CreatePayment(c *gin.Context) {
	var input CreatePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var session models.Session
	if err := config.DB.Select("id").First(&session, input.SessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Session not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	payment := models.Payment{
		SessionID: input.SessionID,
		Amount:    input.Amount,
		Method:    input.Method,
		PaidAt:    time.Now(),
		Notes:     input.Notes,
	}
	if input.PaidAt != nil {
		payment.PaidAt = *input.PaidAt
	}

	if err := config.DB.Create(&payment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create payment")
		return
	}

	OnDataChanged()
	c.JSON(http.StatusCreated, payment)
}

// GetPayments lists payments, optionally only those of ?sessionId=
func GetPayments(c *gin.Context) {
	query := config.DB.Model(&models.Payment{})
	if raw := c.Query("sessionId"); raw != "" {
		sessionID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid sessionId")
			return
		}
		query = query.Where("session_id = ?", sessionID)
	}

	payments := []models.Payment{}
	if err := query.Order("paid_at DESC, id DESC").Find(&payments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payments")
		return
	}
	c.JSON(http.StatusOK, payments)
}

func GetSessionPayments(c *gin.Context) {
	sessionID, ok := parseID(c, "id")
	if !ok {
		return
	}
	payments := []models.Payment{}
	if err := config.DB.Where("session_id = ?", sessionID).Order("paid_at, id").Find(&payments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payments")
		return
	}
	c.JSON(http.StatusOK, payments)
}

func GetPayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var payment models.Payment
	if err := config.DB.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Payment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	c.JSON(http.StatusOK, payment)
}

func UpdatePayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input UpdatePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var payment models.Payment
	if err := config.DB.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Payment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Amount != nil {
		payment.Amount = *input.Amount
	}
	if input.Method != nil {
		payment.Method = *input.Method
	}
	if input.PaidAt != nil {
		payment.PaidAt = *input.PaidAt
	}
	if input.Notes != nil {
		payment.Notes = *input.Notes
	}

	if err := config.DB.Save(&payment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update payment")
		return
	}

	OnDataChanged()
	c.JSON(http.StatusOK, payment)
}

func DeletePayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result := config.DB.Delete(&models.Payment{}, id)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete payment")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Payment not found")
		return
	}

	OnDataChanged()
	c.JSON(http.StatusOK, gin.H{"message": "Payment deleted successfully"})
}
