package services

import (
	"context"
	"errors"
	"strings"

	"agenda-backend/models"
	"agenda-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionService struct {
	db        *gorm.DB
	followUps int
	onChange  func()
}

// NewSessionService builds the service. followUps is how many occurrences a
// recurring booking expands into when the request does not say.
func NewSessionService(db *gorm.DB, followUps int) *SessionService {
	return &SessionService{db: db, followUps: followUps}
}

// OnChange registers fn to run after every committed write.
func (s *SessionService) OnChange(fn func()) *SessionService {
	s.onChange = fn
	return s
}

func (s *SessionService) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

type SessionFilter struct {
	ClientID     uint
	From         string
	To           string
	RecurrenceID string
}

func (s *SessionService) List(ctx context.Context, filter SessionFilter) ([]models.Session, error) {
	query := s.db.WithContext(ctx).Model(&models.Session{})
	if filter.ClientID != 0 {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if filter.From != "" {
		if _, err := utils.ParseDate(filter.From); err != nil {
			return nil, invalidf("%v", err)
		}
		query = query.Where("date >= ?", filter.From)
	}
	if filter.To != "" {
		if _, err := utils.ParseDate(filter.To); err != nil {
			return nil, invalidf("%v", err)
		}
		query = query.Where("date <= ?", filter.To)
	}
	if filter.RecurrenceID != "" {
		query = query.Where("recurrence_id = ?", filter.RecurrenceID)
	}

	sessions := []models.Session{}
	if err := query.Order("date, time, id").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *SessionService) Get(ctx context.Context, id uint) (*models.Session, error) {
	var session models.Session
	if err := s.db.WithContext(ctx).Preload("Client").First(&session, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &session, nil
}

// CheckAvailability reports whether date/clock is free, ignoring excludeID.
func (s *SessionService) CheckAvailability(ctx context.Context, date, clock string, excludeID uint) (bool, error) {
	d, err := utils.ParseDate(date)
	if err != nil {
		return false, invalidf("%v", err)
	}
	normalized, err := utils.NormalizeClock(clock)
	if err != nil {
		return false, invalidf("%v", err)
	}
	checker := newConflictChecker(s.db.WithContext(ctx), excludeID)
	conflict, err := checker.Conflicts(utils.FormatDate(d), normalized)
	if err != nil {
		return false, err
	}
	return !conflict, nil
}

type CreateSessionInput struct {
	ClientID       uint
	Date           string
	Time           string
	AttendanceType string
	Frequency      string
	Realized       bool
	Paid           bool
	Value          *float64
	Notes          string
	// Occurrences overrides the number of follow-ups generated for a
	// recurring frequency.
	Occurrences *int
}

// Create books a session. A recurring frequency also books the follow-up
// occurrences and tags the whole series with a new recurrence id. Any
// conflicting slot rejects the whole series.
func (s *SessionService) Create(ctx context.Context, input CreateSessionInput) ([]models.Session, error) {
	frequency, err := NormalizeFrequency(input.Frequency)
	if err != nil {
		return nil, err
	}
	date, err := utils.ParseDate(input.Date)
	if err != nil {
		return nil, invalidf("%v", err)
	}
	clock, err := utils.NormalizeClock(input.Time)
	if err != nil {
		return nil, invalidf("%v", err)
	}
	attendance := strings.TrimSpace(input.AttendanceType)
	if attendance == "" {
		return nil, invalidf("attendance type is required")
	}
	if input.Value != nil && *input.Value < 0 {
		return nil, invalidf("value must not be negative")
	}

	followUps := s.followUps
	if input.Occurrences != nil {
		followUps = *input.Occurrences
		if followUps < 0 || followUps > MaxFollowUps {
			return nil, invalidf("occurrences must be between 0 and %d", MaxFollowUps)
		}
	}

	var groupID *string
	dates := []string{utils.FormatDate(date)}
	if IntervalDays(frequency) > 0 {
		id := uuid.NewString()
		groupID = &id
		for _, d := range GenerateFollowUps(date, frequency, followUps) {
			dates = append(dates, utils.FormatDate(d))
		}
	}

	var created []models.Session
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		client, err := findClient(tx, input.ClientID)
		if err != nil {
			return err
		}

		value := copyValue(input.Value)
		if value == nil && client.DefaultValue > 0 {
			value = copyValue(&client.DefaultValue)
		}

		checker := newConflictChecker(tx)
		sessions := make([]models.Session, 0, len(dates))
		for i, d := range dates {
			conflict, err := checker.Conflicts(d, clock)
			if err != nil {
				return err
			}
			if conflict {
				if i == 0 {
					return ErrSlotTaken
				}
				return &ConflictError{Axis: AxisFrequency, Date: d, Time: clock}
			}
			if err := checker.Reserve(d, clock); err != nil {
				return err
			}

			session := models.Session{
				ClientID:       client.ID,
				Date:           d,
				Time:           clock,
				AttendanceType: attendance,
				Frequency:      frequency,
				Value:          copyValue(value),
				RecurrenceID:   groupID,
			}
			if i == 0 {
				session.Realized = input.Realized
				session.Paid = input.Paid
				session.Notes = input.Notes
			}
			sessions = append(sessions, session)
		}

		if err := tx.Create(&sessions).Error; err != nil {
			return err
		}
		created = sessions
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.changed()
	return created, nil
}

type UpdateSessionInput struct {
	ClientID       *uint
	Date           *string
	Time           *string
	AttendanceType *string
	Frequency      *string
	Realized       *bool
	Paid           *bool
	Value          *float64
	Notes          *string

	// Propagation to the later occurrences of the same recurrence group.
	UpdateFutureFrequency bool
	UpdateFutureDateTime  bool
	UpdateFutureValues    bool
}

type UpdateResult struct {
	Session    *models.Session `json:"session"`
	Propagated int             `json:"propagated"`
	Removed    int             `json:"removed"`
}

// Update edits one session and, when asked, carries frequency, date/time and
// value changes to the later occurrences of its group. Occurrences whose time
// or value differ from the edited session's old ones keep them. Every derived
// slot is conflict-checked before anything is written.
func (s *SessionService) Update(ctx context.Context, id uint, input UpdateSessionInput) (*UpdateResult, error) {
	result := &UpdateResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target models.Session
		if err := tx.First(&target, id).Error; err != nil {
			return notFound(err)
		}
		original := target
		if err := applySessionChanges(tx, &target, input); err != nil {
			return err
		}

		freqChanged := target.Frequency != original.Frequency
		dateChanged := target.Date != original.Date
		timeChanged := target.Time != original.Time
		valueChanged := !sameValue(target.Value, original.Value)

		propagateFreq := input.UpdateFutureFrequency && freqChanged
		propagateDateTime := input.UpdateFutureDateTime && (dateChanged || timeChanged)
		propagateValue := input.UpdateFutureValues && valueChanged

		var future []models.Session
		if original.InGroup() && (propagateFreq || propagateDateTime || propagateValue) {
			var err error
			if future, err = futureMembers(tx, &original); err != nil {
				return err
			}
		}

		moved := make(map[uint]Axis)
		touched := make(map[uint]bool)
		var removed []uint
		var created []models.Session
		regenerated := false

		if propagateFreq {
			interval := IntervalDays(target.Frequency)
			seed, err := utils.ParseDate(target.Date)
			if err != nil {
				return err
			}
			switch {
			case original.InGroup() && interval == 0:
				for _, m := range future {
					removed = append(removed, m.ID)
				}
				future = nil
				target.RecurrenceID = nil
			case original.InGroup():
				dates := GenerateFollowUps(seed, target.Frequency, len(future))
				for i := range future {
					m := &future[i]
					m.Frequency = target.Frequency
					touched[m.ID] = true
					if d := utils.FormatDate(dates[i]); d != m.Date {
						m.Date = d
						moved[m.ID] = AxisFrequency
					}
				}
				regenerated = true
			case interval > 0:
				groupID := uuid.NewString()
				target.RecurrenceID = &groupID
				for _, d := range GenerateFollowUps(seed, target.Frequency, s.followUps) {
					created = append(created, models.Session{
						ClientID:       target.ClientID,
						Date:           utils.FormatDate(d),
						Time:           target.Time,
						AttendanceType: target.AttendanceType,
						Frequency:      target.Frequency,
						Value:          copyValue(target.Value),
						RecurrenceID:   &groupID,
					})
				}
			}
		}

		if propagateDateTime && len(future) > 0 {
			delta := 0
			if dateChanged && !regenerated {
				from, _ := utils.ParseDate(original.Date)
				to, _ := utils.ParseDate(target.Date)
				delta = utils.DaysBetween(from, to)
			}
			for i := range future {
				m := &future[i]
				if delta != 0 {
					shifted, err := utils.ShiftDate(m.Date, delta)
					if err != nil {
						return err
					}
					m.Date = shifted
					touched[m.ID] = true
					if _, ok := moved[m.ID]; !ok {
						moved[m.ID] = AxisDate
					}
				}
				if timeChanged && m.Time == original.Time {
					m.Time = target.Time
					touched[m.ID] = true
					if _, ok := moved[m.ID]; !ok {
						moved[m.ID] = AxisTime
					}
				}
			}
		}

		if propagateValue {
			for i := range future {
				m := &future[i]
				if sameValue(m.Value, original.Value) {
					m.Value = copyValue(target.Value)
					touched[m.ID] = true
				}
			}
		}

		exclude := append([]uint{target.ID}, removed...)
		for id := range moved {
			exclude = append(exclude, id)
		}
		checker := newConflictChecker(tx, exclude...)

		if dateChanged || timeChanged {
			conflict, err := checker.Conflicts(target.Date, target.Time)
			if err != nil {
				return err
			}
			if conflict {
				return ErrSlotTaken
			}
		}
		if err := checker.Reserve(target.Date, target.Time); err != nil {
			return err
		}

		for i := range future {
			m := &future[i]
			axis, ok := moved[m.ID]
			if !ok {
				continue
			}
			conflict, err := checker.Conflicts(m.Date, m.Time)
			if err != nil {
				return err
			}
			if conflict {
				return &ConflictError{Axis: axis, Date: m.Date, Time: m.Time}
			}
			if err := checker.Reserve(m.Date, m.Time); err != nil {
				return err
			}
		}
		for _, c := range created {
			conflict, err := checker.Conflicts(c.Date, c.Time)
			if err != nil {
				return err
			}
			if conflict {
				return &ConflictError{Axis: AxisFrequency, Date: c.Date, Time: c.Time}
			}
			if err := checker.Reserve(c.Date, c.Time); err != nil {
				return err
			}
		}

		if len(removed) > 0 {
			if _, err := deleteSessions(tx, removed); err != nil {
				return err
			}
		}
		if err := tx.Save(&target).Error; err != nil {
			return err
		}
		for i := range future {
			if !touched[future[i].ID] {
				continue
			}
			if err := tx.Save(&future[i]).Error; err != nil {
				return err
			}
			result.Propagated++
		}
		if len(created) > 0 {
			if err := tx.Create(&created).Error; err != nil {
				return err
			}
			result.Propagated += len(created)
		}

		result.Removed = len(removed)
		result.Session = &target
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.changed()
	return result, nil
}

// Delete removes one session, or with all set every occurrence of its group
// whose id is at or after the target's. Ids grow with insertion order, so
// this drops the target and the occurrences booked after it.
func (s *SessionService) Delete(ctx context.Context, id uint, all bool) (int64, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target models.Session
		if err := tx.First(&target, id).Error; err != nil {
			return notFound(err)
		}

		ids := []uint{target.ID}
		if all && target.InGroup() {
			ids = nil
			if err := tx.Model(&models.Session{}).
				Where("recurrence_id = ? AND id >= ?", *target.RecurrenceID, target.ID).
				Order("id").
				Pluck("id", &ids).Error; err != nil {
				return err
			}
		}

		n, err := deleteSessions(tx, ids)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.changed()
	return deleted, nil
}

func applySessionChanges(tx *gorm.DB, target *models.Session, input UpdateSessionInput) error {
	if input.ClientID != nil && *input.ClientID != target.ClientID {
		if _, err := findClient(tx, *input.ClientID); err != nil {
			return err
		}
		target.ClientID = *input.ClientID
	}
	if input.Date != nil {
		d, err := utils.ParseDate(*input.Date)
		if err != nil {
			return invalidf("%v", err)
		}
		target.Date = utils.FormatDate(d)
	}
	if input.Time != nil {
		clock, err := utils.NormalizeClock(*input.Time)
		if err != nil {
			return invalidf("%v", err)
		}
		target.Time = clock
	}
	if input.AttendanceType != nil {
		attendance := strings.TrimSpace(*input.AttendanceType)
		if attendance == "" {
			return invalidf("attendance type is required")
		}
		target.AttendanceType = attendance
	}
	if input.Frequency != nil {
		frequency, err := NormalizeFrequency(*input.Frequency)
		if err != nil {
			return err
		}
		target.Frequency = frequency
	}
	if input.Realized != nil {
		target.Realized = *input.Realized
	}
	if input.Paid != nil {
		target.Paid = *input.Paid
	}
	if input.Value != nil {
		if *input.Value < 0 {
			return invalidf("value must not be negative")
		}
		target.Value = copyValue(input.Value)
	}
	if input.Notes != nil {
		target.Notes = *input.Notes
	}
	return nil
}

// futureMembers lists the occurrences of anchor's group that come after it,
// by date then id.
func futureMembers(tx *gorm.DB, anchor *models.Session) ([]models.Session, error) {
	var members []models.Session
	err := tx.Where("recurrence_id = ? AND id <> ?", *anchor.RecurrenceID, anchor.ID).
		Where("date > ? OR (date = ? AND id > ?)", anchor.Date, anchor.Date, anchor.ID).
		Order("date, time, id").
		Find(&members).Error
	return members, err
}

func deleteSessions(tx *gorm.DB, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if err := tx.Where("session_id IN ?", ids).Delete(&models.Payment{}).Error; err != nil {
		return 0, err
	}
	res := tx.Where("id IN ?", ids).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}

func findClient(tx *gorm.DB, id uint) (*models.Client, error) {
	var client models.Client
	if err := tx.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidf("client %d not found", id)
		}
		return nil, err
	}
	return &client, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func copyValue(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func sameValue(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
