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

// CreateClientInput defines the expected JSON structure for creating a client
type CreateClientInput struct {
	Name         string  `json:"name" binding:"required"`
	TaxID        string  `json:"taxId" binding:"required"`
	Address      string  `json:"address"`
	Phone        string  `json:"phone"`
	Email        string  `json:"email" binding:"omitempty,email"`
	DefaultValue float64 `json:"defaultValue" binding:"gte=0"`
}

// UpdateClientInput defines the expected JSON structure for updating a client
type UpdateClientInput struct {
	Name         *string  `json:"name"`
	TaxID        *string  `json:"taxId"`
	Address      *string  `json:"address"`
	Phone        *string  `json:"phone"`
	Email        *string  `json:"email" binding:"omitempty,email"`
	DefaultValue *float64 `json:"defaultValue" binding:"omitempty,gte=0"`
	IsActive     *bool    `json:"isActive"`
}

// CreateClient registers a new client
func CreateClient(c *gin.Context) {
	var input CreateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Name is required")
		return
	}
	taxID, ok := utils.NormalizeTaxID(input.TaxID)
	if !ok {
		utils.RespondWithError(c, http.StatusBadRequest, "Tax id must have 11 (CPF) or 14 (CNPJ) digits")
		return
	}
	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	// Check if the tax id is already registered
	var existing models.Client
	if err := config.DB.Where("tax_id = ?", taxID).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "A client with this tax id already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	client := models.Client{
		Name:         name,
		TaxID:        taxID,
		Address:      input.Address,
		Phone:        input.Phone,
		Email:        input.Email,
		DefaultValue: input.DefaultValue,
		IsActive:     true,
	}
	if err := config.DB.Create(&client).Error; err != nil {
		if isUniqueViolation(err) {
			utils.RespondWithError(c, http.StatusConflict, "A client with this tax id already exists")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create client")
		return
	}

	c.JSON(http.StatusCreated, client)
}

// GetClients lists clients by name; ?name= filters case-insensitively and
// ?active=true keeps only active ones
func GetClients(c *gin.Context) {
	query := config.DB.Model(&models.Client{})
	if name := strings.TrimSpace(c.Query("name")); name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	clients := []models.Client{}
	if err := query.Order("name").Find(&clients).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve clients")
		return
	}
	c.JSON(http.StatusOK, clients)
}

func GetClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var client models.Client
	if err := config.DB.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	c.JSON(http.StatusOK, client)
}

// UpdateClient updates the provided fields of a client
func UpdateClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input UpdateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var client models.Client
	if err := config.DB.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "Name is required")
			return
		}
		client.Name = name
	}
	if input.TaxID != nil {
		taxID, ok := utils.NormalizeTaxID(*input.TaxID)
		if !ok {
			utils.RespondWithError(c, http.StatusBadRequest, "Tax id must have 11 (CPF) or 14 (CNPJ) digits")
			return
		}
		if taxID != client.TaxID {
			var count int64
			if err := config.DB.Model(&models.Client{}).
				Where("tax_id = ? AND id <> ?", taxID, client.ID).
				Count(&count).Error; err != nil {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
				return
			}
			if count > 0 {
				utils.RespondWithError(c, http.StatusConflict, "A client with this tax id already exists")
				return
			}
		}
		client.TaxID = taxID
	}
	if input.Phone != nil {
		if *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		client.Phone = *input.Phone
	}
	if input.Address != nil {
		client.Address = *input.Address
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.DefaultValue != nil {
		client.DefaultValue = *input.DefaultValue
	}
	if input.IsActive != nil {
		client.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&client).Error; err != nil {
		if isUniqueViolation(err) {
			utils.RespondWithError(c, http.StatusConflict, "A client with this tax id already exists")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update client")
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient removes a client with its sessions, payments and history
func DeleteClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, id).Error; err != nil {
			return err
		}

		sessionIDs := tx.Model(&models.Session{}).Select("id").Where("client_id = ?", id)
		if err := tx.Where("session_id IN (?)", sessionIDs).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&models.HistoryEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&client).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete client")
		}
		return
	}

	OnDataChanged()
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}
