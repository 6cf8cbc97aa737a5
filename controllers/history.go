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

var timeNow = time.Now

// History kinds
const (
	HistorySession     = "session"
	HistorySupervision = "supervision"
)

type CreateHistoryInput struct {
	ClientID uint   `json:"clientId" binding:"required"`
	Date     string `json:"date"`
	Kind     string `json:"kind" binding:"required,oneof=session supervision"`
	Content  string `json:"content" binding:"required"`
}

type UpdateHistoryInput struct {
	Date    *string `json:"date"`
	Kind    *string `json:"kind" binding:"omitempty,oneof=session supervision"`
	Content *string `json:"content"`
}

// CreateHistoryEntry records a clinical note for a client. Date defaults to today.
func CreateHistoryEntry(c *gin.Context) {
	var input CreateHistoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	date := utils.FormatDate(utils.CalendarDate(timeNow()))
	if input.Date != "" {
		d, err := utils.ParseDate(input.Date)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		date = utils.FormatDate(d)
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Content is required")
		return
	}

	var client models.Client
	if err := config.DB.Select("id").First(&client, input.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	entry := models.HistoryEntry{
		ClientID: input.ClientID,
		Date:     date,
		Kind:     input.Kind,
		Content:  content,
	}
	if err := config.DB.Create(&entry).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create history entry")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GetClientHistory lists a client's history, newest first
func GetClientHistory(c *gin.Context) {
	clientID, ok := parseID(c, "id")
	if !ok {
		return
	}
	entries := []models.HistoryEntry{}
	if err := config.DB.Where("client_id = ?", clientID).
		Order("date DESC, id DESC").
		Find(&entries).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve history")
		return
	}
	c.JSON(http.StatusOK, entries)
}

func UpdateHistoryEntry(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input UpdateHistoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var entry models.HistoryEntry
	if err := config.DB.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "History entry not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Date != nil {
		d, err := utils.ParseDate(*input.Date)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		entry.Date = utils.FormatDate(d)
	}
	if input.Kind != nil {
		entry.Kind = *input.Kind
	}
	if input.Content != nil {
		content := strings.TrimSpace(*input.Content)
		if content == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "Content is required")
			return
		}
		entry.Content = content
	}

	if err := config.DB.Save(&entry).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update history entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

func DeleteHistoryEntry(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result := config.DB.Delete(&models.HistoryEntry{}, id)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete history entry")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "History entry not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "History entry deleted successfully"})
}
