// controllers/reminder.go
package controllers

import (
	"errors"
	"net/http"
	"strings"

	"agenda-backend/config"
	"agenda-backend/models"
	"agenda-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateReminderTemplateInput defines the expected JSON structure
type CreateReminderTemplateInput struct {
	Type    string `json:"type" binding:"required,oneof=session"`
	Message string `json:"message" binding:"required"`
}

// UpdateReminderTemplateInput defines the expected JSON structure
type UpdateReminderTemplateInput struct {
	Type     *string `json:"type" binding:"omitempty,oneof=session"`
	Message  *string `json:"message"`
	IsActive *bool   `json:"isActive"`
}

// CreateReminderTemplate creates a new reminder template
func CreateReminderTemplate(c *gin.Context) {
	var input CreateReminderTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Check if template type already exists
	var existingTemplate models.ReminderTemplate
	if err := config.DB.Where("type = ?", input.Type).First(&existingTemplate).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Template for this type already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	template := models.ReminderTemplate{
		Type:     input.Type,
		Message:  strings.TrimSpace(input.Message),
		IsActive: true,
	}
	if err := config.DB.Create(&template).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create template")
		return
	}

	c.JSON(http.StatusCreated, template)
}

func GetReminderTemplates(c *gin.Context) {
	templates := []models.ReminderTemplate{}
	if err := config.DB.Order("type").Find(&templates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve templates")
		return
	}
	c.JSON(http.StatusOK, templates)
}

func GetReminderTemplate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var template models.ReminderTemplate
	if err := config.DB.First(&template, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	c.JSON(http.StatusOK, template)
}

// UpdateReminderTemplate updates an existing template
func UpdateReminderTemplate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input UpdateReminderTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var template models.ReminderTemplate
	if err := config.DB.First(&template, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// If changing type, check for conflict
	if input.Type != nil && *input.Type != template.Type {
		var existingTemplate models.ReminderTemplate
		if err := config.DB.Where("type = ?", *input.Type).First(&existingTemplate).Error; err == nil {
			utils.RespondWithError(c, http.StatusConflict, "Template for this type already exists")
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		template.Type = *input.Type
	}
	if input.Message != nil {
		message := strings.TrimSpace(*input.Message)
		if message == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "Message is required")
			return
		}
		template.Message = message
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&template).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update template")
		return
	}
	c.JSON(http.StatusOK, template)
}

func DeleteReminderTemplate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result := config.DB.Delete(&models.ReminderTemplate{}, id)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete template")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

// GetReminderLogs lists sent and failed reminders, newest first; ?sessionId= filters
func GetReminderLogs(c *gin.Context) {
	query := config.DB.Model(&models.ReminderLog{})
	if raw := c.Query("sessionId"); raw != "" {
		query = query.Where("session_id = ?", raw)
	}
	logs := []models.ReminderLog{}
	if err := query.Order("sent_at DESC").Limit(200).Find(&logs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve reminder logs")
		return
	}
	c.JSON(http.StatusOK, logs)
}
