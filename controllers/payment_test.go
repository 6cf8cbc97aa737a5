package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"agenda-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func newPaymentRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/payments", CreatePayment)
	r.GET("/payments", GetPayments)
	r.DELETE("/payments/:id", DeletePayment)
	r.GET("/sessions/:id/payments", GetSessionPayments)
	return r
}

func seedPaymentSession(t *testing.T, db *gorm.DB) models.Session {
	t.Helper()
	client := models.Client{Name: "Ana", TaxID: "12345678901", IsActive: true}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("create client: %v", err)
	}
	session := models.Session{ClientID: client.ID, Date: "2025-01-06", Time: "09:00", AttendanceType: "individual", Frequency: "single"}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("create session: %v", err)
	}
	return session
}

func TestCreatePaymentRequiresExistingSession(t *testing.T) {
	db := useTestDB(t)
	r := newPaymentRouter()
	session := seedPaymentSession(t, db)

	changed := 0
	previous := OnDataChanged
	OnDataChanged = func() { changed++ }
	t.Cleanup(func() { OnDataChanged = previous })

	rec := perform(r, http.MethodPost, "/payments", `{"sessionId":999,"amount":150}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a missing session, got %d", rec.Code)
	}

	rec = perform(r, http.MethodPost, "/payments", `{"sessionId":1,"amount":0}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a zero amount, got %d", rec.Code)
	}
	if changed != 0 {
		t.Fatalf("expected no change notification, got %d", changed)
	}

	rec = perform(r, http.MethodPost, "/payments", `{"sessionId":1,"amount":150,"method":"pix"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if changed != 1 {
		t.Fatalf("expected one change notification, got %d", changed)
	}

	rec = perform(r, http.MethodGet, "/sessions/1/payments", "")
	var payments []models.Payment
	if err := json.Unmarshal(rec.Body.Bytes(), &payments); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payments) != 1 || payments[0].SessionID != session.ID || payments[0].Amount != 150 {
		t.Fatalf("unexpected payments %+v", payments)
	}
}

func TestDeleteMissingPayment(t *testing.T) {
	useTestDB(t)
	r := newPaymentRouter()

	rec := perform(r, http.MethodDelete, "/payments/42", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
