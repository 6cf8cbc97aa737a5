package controllers

import (
	"context"
	"net/http"
	"strconv"

	"agenda-backend/models"
	"agenda-backend/services"
	"agenda-backend/utils"

	"github.com/gin-gonic/gin"
)

// SessionManager is the session service as the handlers use it.
type SessionManager interface {
	List(ctx context.Context, filter services.SessionFilter) ([]models.Session, error)
	Get(ctx context.Context, id uint) (*models.Session, error)
	Create(ctx context.Context, input services.CreateSessionInput) ([]models.Session, error)
	Update(ctx context.Context, id uint, input services.UpdateSessionInput) (*services.UpdateResult, error)
	Delete(ctx context.Context, id uint, all bool) (int64, error)
	CheckAvailability(ctx context.Context, date, clock string, excludeID uint) (bool, error)
}

type SessionController struct {
	sessions SessionManager
}

func NewSessionController(sessions SessionManager) *SessionController {
	return &SessionController{sessions: sessions}
}

// CreateSessionInput defines the expected JSON structure for booking a session
type CreateSessionInput struct {
	ClientID       uint     `json:"clientId" binding:"required"`
	Date           string   `json:"date" binding:"required"`
	Time           string   `json:"time" binding:"required"`
	AttendanceType string   `json:"attendanceType" binding:"required"`
	Frequency      string   `json:"frequency"`
	Realized       bool     `json:"realized"`
	Paid           bool     `json:"paid"`
	Value          *float64 `json:"value"`
	Notes          string   `json:"notes"`
	Occurrences    *int     `json:"occurrences"`
}

// UpdateSessionInput defines the expected JSON structure for editing a session
type UpdateSessionInput struct {
	ClientID       *uint    `json:"clientId"`
	Date           *string  `json:"date"`
	Time           *string  `json:"time"`
	AttendanceType *string  `json:"attendanceType"`
	Frequency      *string  `json:"frequency"`
	Realized       *bool    `json:"realized"`
	Paid           *bool    `json:"paid"`
	Value          *float64 `json:"value"`
	Notes          *string  `json:"notes"`

	UpdateFutureFrequency bool `json:"updateFutureFrequency"`
	UpdateFutureDateTime  bool `json:"updateFutureDateTime"`
	UpdateFutureValues    bool `json:"updateFutureValues"`
}

// GetSessions lists sessions, optionally filtered by clientId, from and to
func (sc *SessionController) GetSessions(c *gin.Context) {
	filter := services.SessionFilter{
		From:         c.Query("from"),
		To:           c.Query("to"),
		RecurrenceID: c.Query("recurrenceId"),
	}
	if raw := c.Query("clientId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid clientId")
			return
		}
		filter.ClientID = uint(id)
	}

	sessions, err := sc.sessions.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err, "Session")
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// GetClientSessions lists every session of one client
func (sc *SessionController) GetClientSessions(c *gin.Context) {
	clientID, ok := parseID(c, "id")
	if !ok {
		return
	}
	sessions, err := sc.sessions.List(c.Request.Context(), services.SessionFilter{ClientID: clientID})
	if err != nil {
		respondServiceError(c, err, "Session")
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (sc *SessionController) GetSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	session, err := sc.sessions.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Session")
		return
	}
	c.JSON(http.StatusOK, session)
}

// CreateSession books a session and, for a recurring frequency, its
// follow-up occurrences
func (sc *SessionController) CreateSession(c *gin.Context) {
	var input CreateSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Frequency == "" {
		input.Frequency = services.FrequencySingle
	}

	created, err := sc.sessions.Create(c.Request.Context(), services.CreateSessionInput{
		ClientID:       input.ClientID,
		Date:           input.Date,
		Time:           input.Time,
		AttendanceType: input.AttendanceType,
		Frequency:      input.Frequency,
		Realized:       input.Realized,
		Paid:           input.Paid,
		Value:          input.Value,
		Notes:          input.Notes,
		Occurrences:    input.Occurrences,
	})
	if err != nil {
		respondServiceError(c, err, "Session")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session":  created[0],
		"sessions": created,
		"count":    len(created),
	})
}

// UpdateSession edits a session and optionally its future occurrences
func (sc *SessionController) UpdateSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input UpdateSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	result, err := sc.sessions.Update(c.Request.Context(), id, services.UpdateSessionInput{
		ClientID:              input.ClientID,
		Date:                  input.Date,
		Time:                  input.Time,
		AttendanceType:        input.AttendanceType,
		Frequency:             input.Frequency,
		Realized:              input.Realized,
		Paid:                  input.Paid,
		Value:                 input.Value,
		Notes:                 input.Notes,
		UpdateFutureFrequency: input.UpdateFutureFrequency,
		UpdateFutureDateTime:  input.UpdateFutureDateTime,
		UpdateFutureValues:    input.UpdateFutureValues,
	})
	if err != nil {
		respondServiceError(c, err, "Session")
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteSession removes a session; ?all=true also removes the later
// occurrences of its recurrence group
func (sc *SessionController) DeleteSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	all, err := strconv.ParseBool(c.DefaultQuery("all", "false"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "all must be true or false")
		return
	}

	deleted, err := sc.sessions.Delete(c.Request.Context(), id, all)
	if err != nil {
		respondServiceError(c, err, "Session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session deleted successfully", "deleted": deleted})
}

// CheckAvailability answers whether ?date=&time= is free, ignoring ?excludeId=
func (sc *SessionController) CheckAvailability(c *gin.Context) {
	date, clock := c.Query("date"), c.Query("time")
	if date == "" || clock == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "date and time are required")
		return
	}
	var exclude uint
	if raw := c.Query("excludeId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid excludeId")
			return
		}
		exclude = uint(id)
	}

	available, err := sc.sessions.CheckAvailability(c.Request.Context(), date, clock, exclude)
	if err != nil {
		respondServiceError(c, err, "Session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}
