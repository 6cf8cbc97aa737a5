package controllers

import (
	"context"
	"net/http"

	"agenda-backend/services"

	"github.com/gin-gonic/gin"
)

type DashboardReader interface {
	Summary(ctx context.Context) (*services.DashboardSummary, error)
	Upcoming(ctx context.Context) ([]services.AgendaItem, error)
	NextDay(ctx context.Context) ([]services.AgendaItem, error)
}

type DashboardController struct {
	dashboard DashboardReader
}

func NewDashboardController(dashboard DashboardReader) *DashboardController {
	return &DashboardController{dashboard: dashboard}
}

// GetSummary returns the month-to-date financial summary
func (dc *DashboardController) GetSummary(c *gin.Context) {
	summary, err := dc.dashboard.Summary(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Dashboard")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetUpcoming lists unrealized sessions in the next 7 days
func (dc *DashboardController) GetUpcoming(c *gin.Context) {
	items, err := dc.dashboard.Upcoming(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Dashboard")
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetNextDay lists the next business day's sessions (Monday's on a Friday)
func (dc *DashboardController) GetNextDay(c *gin.Context) {
	items, err := dc.dashboard.NextDay(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Dashboard")
		return
	}
	c.JSON(http.StatusOK, items)
}
