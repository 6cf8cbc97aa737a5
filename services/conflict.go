package services

import (
	"agenda-backend/models"
	"agenda-backend/utils"

	"gorm.io/gorm"
)

// ConflictWindowMinutes is the minimum gap between two session start times on
// the same date. Duration is not modelled; the window stands in for it.
const ConflictWindowMinutes = 60

type plannedSlot struct {
	date    string
	minutes int
}

// conflictChecker answers whether a slot is free, looking at stored sessions
// (minus the excluded ids) and at slots already planned by the same
// operation.
type conflictChecker struct {
	db      *gorm.DB
	exclude map[uint]bool
	planned []plannedSlot
	byDate  map[string][]models.Session
}

func newConflictChecker(db *gorm.DB, exclude ...uint) *conflictChecker {
	c := &conflictChecker{
		db:      db,
		exclude: make(map[uint]bool, len(exclude)),
		byDate:  make(map[string][]models.Session),
	}
	for _, id := range exclude {
		c.exclude[id] = true
	}
	return c
}

// Conflicts reports whether date/clock collides with anything.
func (c *conflictChecker) Conflicts(date, clock string) (bool, error) {
	minutes, err := utils.ClockMinutes(clock)
	if err != nil {
		return false, err
	}

	for _, p := range c.planned {
		if p.date == date && withinWindow(p.minutes, minutes) {
			return true, nil
		}
	}

	sessions, err := c.sessionsOn(date)
	if err != nil {
		return false, err
	}
	for _, s := range sessions {
		if c.exclude[s.ID] {
			continue
		}
		other, err := utils.ClockMinutes(s.Time)
		if err != nil {
			continue
		}
		if withinWindow(other, minutes) {
			return true, nil
		}
	}
	return false, nil
}

// Reserve marks a slot as taken for the rest of the operation.
func (c *conflictChecker) Reserve(date, clock string) error {
	minutes, err := utils.ClockMinutes(clock)
	if err != nil {
		return err
	}
	c.planned = append(c.planned, plannedSlot{date: date, minutes: minutes})
	return nil
}

func (c *conflictChecker) sessionsOn(date string) ([]models.Session, error) {
	if sessions, ok := c.byDate[date]; ok {
		return sessions, nil
	}
	var sessions []models.Session
	if err := c.db.Select("id", "date", "time").Where("date = ?", date).Find(&sessions).Error; err != nil {
		return nil, err
	}
	c.byDate[date] = sessions
	return sessions, nil
}

func withinWindow(a, b int) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < ConflictWindowMinutes
}
