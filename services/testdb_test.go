package services

import (
	"context"
	"testing"

	"agenda-backend/models"
	"agenda-backend/utils"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedClient(t *testing.T, db *gorm.DB, name, taxID string, defaultValue float64) *models.Client {
	t.Helper()
	client := &models.Client{Name: name, TaxID: taxID, Phone: "+5511999990000", DefaultValue: defaultValue, IsActive: true}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("create client: %v", err)
	}
	return client
}

func seedSession(t *testing.T, db *gorm.DB, session models.Session) *models.Session {
	t.Helper()
	if session.AttendanceType == "" {
		session.AttendanceType = "individual"
	}
	if session.Frequency == "" {
		session.Frequency = FrequencySingle
	}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("create session: %v", err)
	}
	return &session
}

func groupSessions(t *testing.T, db *gorm.DB, groupID string) []models.Session {
	t.Helper()
	var sessions []models.Session
	if err := db.Where("recurrence_id = ?", groupID).Order("date, time, id").Find(&sessions).Error; err != nil {
		t.Fatalf("load group: %v", err)
	}
	return sessions
}

// assertNoOverlaps fails when two stored sessions share a date with start
// times less than an hour apart.
func assertNoOverlaps(t *testing.T, db *gorm.DB) {
	t.Helper()
	var sessions []models.Session
	if err := db.Order("date, time").Find(&sessions).Error; err != nil {
		t.Fatalf("load sessions: %v", err)
	}
	for i := range sessions {
		for j := i + 1; j < len(sessions); j++ {
			a, b := sessions[i], sessions[j]
			if a.Date != b.Date {
				continue
			}
			ma, _ := utils.ClockMinutes(a.Time)
			mb, _ := utils.ClockMinutes(b.Time)
			if withinWindow(ma, mb) {
				t.Fatalf("sessions %d (%s %s) and %d (%s %s) overlap", a.ID, a.Date, a.Time, b.ID, b.Date, b.Time)
			}
		}
	}
}

func createWeekly(t *testing.T, svc *SessionService, clientID uint, date, clock string) []models.Session {
	t.Helper()
	created, err := svc.Create(context.Background(), CreateSessionInput{
		ClientID:       clientID,
		Date:           date,
		Time:           clock,
		AttendanceType: "individual",
		Frequency:      FrequencyWeekly,
	})
	if err != nil {
		t.Fatalf("create weekly: %v", err)
	}
	return created
}

func floatPtr(v float64) *float64 { return &v }
func stringPtr(v string) *string  { return &v }
func boolPtr(v bool) *bool        { return &v }
