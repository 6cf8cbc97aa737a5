package controllers

import (
	"context"
	"net/http"
	"strconv"

	"agenda-backend/services"
	"agenda-backend/utils"

	"github.com/gin-gonic/gin"
)

type ReceiptBuilder interface {
	Preview(ctx context.Context, clientID uint, month, year int) (*services.ReceiptPreview, error)
	Generate(ctx context.Context, clientID uint, month, year int) ([]services.Receipt, error)
}

type ReceiptController struct {
	receipts ReceiptBuilder
}

func NewReceiptController(receipts ReceiptBuilder) *ReceiptController {
	return &ReceiptController{receipts: receipts}
}

// GetPreview summarizes paid, realized sessions of /preview/:clientId?month=&year=
func (rc *ReceiptController) GetPreview(c *gin.Context) {
	clientID, ok := parseID(c, "clientId")
	if !ok {
		return
	}
	month, year, ok := monthYear(c)
	if !ok {
		return
	}

	preview, err := rc.receipts.Preview(c.Request.Context(), clientID, month, year)
	if err != nil {
		respondServiceError(c, err, "Client")
		return
	}
	c.JSON(http.StatusOK, preview)
}

// GetReceipts builds per attendance type receipts for ?clientId=&month=&year=
func (rc *ReceiptController) GetReceipts(c *gin.Context) {
	clientID, err := strconv.ParseUint(c.Query("clientId"), 10, 64)
	if err != nil || clientID == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "clientId, month and year are required")
		return
	}
	month, year, ok := monthYear(c)
	if !ok {
		return
	}

	receipts, err := rc.receipts.Generate(c.Request.Context(), uint(clientID), month, year)
	if err != nil {
		respondServiceError(c, err, "Client")
		return
	}
	c.JSON(http.StatusOK, receipts)
}

func monthYear(c *gin.Context) (int, int, bool) {
	month, errMonth := strconv.Atoi(c.Query("month"))
	year, errYear := strconv.Atoi(c.Query("year"))
	if errMonth != nil || errYear != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "month and year are required")
		return 0, 0, false
	}
	return month, year, true
}
