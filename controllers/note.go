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

type NoteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (in *NoteInput) normalize() bool {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	return in.Title != "" && in.Content != ""
}

func CreateNote(c *gin.Context) {
	var input NoteInput
	if err := c.ShouldBindJSON(&input); err != nil || !input.normalize() {
		utils.RespondWithError(c, http.StatusBadRequest, "Title and content are required")
		return
	}

	note := models.Note{Title: input.Title, Content: input.Content}
	if err := config.DB.Create(&note).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create note")
		return
	}
	c.JSON(http.StatusCreated, note)
}

// GetNotes lists notes, newest first
func GetNotes(c *gin.Context) {
	notes := []models.Note{}
	if err := config.DB.Order("created_at DESC, id DESC").Find(&notes).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve notes")
		return
	}
	c.JSON(http.StatusOK, notes)
}

func GetNote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var note models.Note
	if err := config.DB.First(&note, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Note not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	c.JSON(http.StatusOK, note)
}

func UpdateNote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input NoteInput
	if err := c.ShouldBindJSON(&input); err != nil || !input.normalize() {
		utils.RespondWithError(c, http.StatusBadRequest, "Title and content are required")
		return
	}

	var note models.Note
	if err := config.DB.First(&note, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Note not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	note.Title = input.Title
	note.Content = input.Content
	if err := config.DB.Save(&note).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update note")
		return
	}
	c.JSON(http.StatusOK, note)
}

func DeleteNote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result := config.DB.Delete(&models.Note{}, id)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete note")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Note not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Note deleted successfully"})
}
