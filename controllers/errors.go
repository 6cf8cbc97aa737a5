package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"agenda-backend/services"
	"agenda-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// OnDataChanged runs after writes that affect the dashboard figures.
var OnDataChanged = func() {}

// respondServiceError maps service errors to HTTP statuses. resource names
// the entity in 404 messages.
func respondServiceError(c *gin.Context, err error, resource string) {
	var conflict *services.ConflictError
	switch {
	case errors.As(err, &conflict):
		utils.RespondWithError(c, http.StatusConflict, conflict.Error())
	case errors.Is(err, services.ErrSlotTaken), errors.Is(err, services.ErrDuplicateTaxID):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, resource+" not found")
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrNoSessions):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("%s request failed: %v", resource, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+param)
		return 0, false
	}
	return uint(id), true
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
