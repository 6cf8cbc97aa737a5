package services

import (
	"context"
	"log"
	"time"

	"agenda-backend/models"
	"agenda-backend/utils"

	"gorm.io/gorm"
)

type RenewalReport struct {
	Groups          int `json:"groups"`
	Created         int `json:"created"`
	SkippedExisting int `json:"skippedExisting"`
	SkippedConflict int `json:"skippedConflict"`
}

// renewalBatch is how many dates each run generates past a group's latest
// occurrence.
const renewalBatch = 4

// RenewalService extends every recurring booking past its latest occurrence.
type RenewalService struct {
	db       *gorm.DB
	now      func() time.Time
	onChange func()
}

func NewRenewalService(db *gorm.DB) *RenewalService {
	return &RenewalService{db: db, now: time.Now}
}

func (s *RenewalService) OnChange(fn func()) *RenewalService {
	s.onChange = fn
	return s
}

// Run extends each group from its latest occurrence. Dates up to today,
// slots already booked for the same client/date/time/type and slots that
// would conflict are skipped. The run commits as a whole.
func (s *RenewalService) Run(ctx context.Context) (*RenewalReport, error) {
	today := utils.FormatDate(utils.CalendarDate(s.now()))
	report := &RenewalReport{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var groupIDs []string
		if err := tx.Model(&models.Session{}).
			Where("recurrence_id IS NOT NULL AND recurrence_id <> ''").
			Distinct("recurrence_id").
			Order("recurrence_id").
			Pluck("recurrence_id", &groupIDs).Error; err != nil {
			return err
		}

		checker := newConflictChecker(tx)
		for _, groupID := range groupIDs {
			if err := s.renewGroup(tx, checker, groupID, today, report); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[RENEWAL] groups=%d created=%d skipped_existing=%d skipped_conflict=%d",
		report.Groups, report.Created, report.SkippedExisting, report.SkippedConflict)
	if report.Created > 0 && s.onChange != nil {
		s.onChange()
	}
	return report, nil
}

func (s *RenewalService) renewGroup(tx *gorm.DB, checker *conflictChecker, groupID, today string, report *RenewalReport) error {
	var latest models.Session
	if err := tx.Where("recurrence_id = ?", groupID).
		Order("date DESC, id DESC").
		First(&latest).Error; err != nil {
		return err
	}

	frequency, err := NormalizeFrequency(latest.Frequency)
	if err != nil || IntervalDays(frequency) == 0 {
		return nil
	}

	report.Groups++

	seed, err := utils.ParseDate(latest.Date)
	if err != nil {
		return err
	}
	for _, d := range GenerateFollowUps(seed, frequency, renewalBatch) {
		date := utils.FormatDate(d)
		if date <= today {
			continue
		}

		var existing int64
		if err := tx.Model(&models.Session{}).
			Where("client_id = ? AND date = ? AND time = ? AND attendance_type = ?",
				latest.ClientID, date, latest.Time, latest.AttendanceType).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			report.SkippedExisting++
			continue
		}

		conflict, err := checker.Conflicts(date, latest.Time)
		if err != nil {
			return err
		}
		if conflict {
			log.Printf("[RENEWAL] group %s: %s %s conflicts with another session, skipped", groupID, date, latest.Time)
			report.SkippedConflict++
			continue
		}
		if err := checker.Reserve(date, latest.Time); err != nil {
			return err
		}

		session := models.Session{
			ClientID:       latest.ClientID,
			Date:           date,
			Time:           latest.Time,
			AttendanceType: latest.AttendanceType,
			Frequency:      frequency,
			Value:          copyValue(latest.Value),
			RecurrenceID:   latest.RecurrenceID,
		}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}
		report.Created++
	}
	return nil
}
